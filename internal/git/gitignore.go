package git

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type pattern struct {
	glob     string
	negation bool
	dirOnly  bool
	anchored bool
}

// Ignore matches paths against the repository's root .gitignore.
// The .git directory is always ignored.
type Ignore struct {
	workDir  string
	patterns []pattern
}

// NewIgnore loads the root .gitignore of workDir. A missing file yields a
// matcher that only ignores .git.
func NewIgnore(workDir string) (*Ignore, error) {
	ig := &Ignore{workDir: workDir}

	f, err := os.Open(filepath.Join(workDir, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return ig, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p, ok := parsePattern(scanner.Text()); ok {
			ig.patterns = append(ig.patterns, p)
		}
	}
	return ig, scanner.Err()
}

func parsePattern(line string) (pattern, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return pattern{}, false
	}

	var p pattern
	if strings.HasPrefix(line, "!") {
		p.negation = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		p.anchored = true
	}
	p.glob = line
	return p, true
}

// IsIgnored reports whether path (relative or absolute) is gitignored.
// Later patterns win, matching git semantics.
func (ig *Ignore) IsIgnored(path string) bool {
	rel, err := filepath.Rel(ig.workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}

	info, statErr := os.Stat(filepath.Join(ig.workDir, rel))
	isDir := statErr == nil && info.IsDir()

	ignored := false
	for _, p := range ig.patterns {
		if matchPattern(p, rel, isDir) {
			ignored = !p.negation
		}
	}
	return ignored
}

func matchPattern(p pattern, rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		// A directory pattern still covers files beneath that directory.
		if !matchesParent(p, rel) {
			return false
		}
		return true
	}

	if p.anchored {
		if ok, _ := doublestar.Match(p.glob, rel); ok {
			return true
		}
	} else {
		// Unanchored patterns match at any depth.
		if ok, _ := doublestar.Match(p.glob, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match("**/"+p.glob, rel); ok {
			return true
		}
	}
	return matchesParent(p, rel)
}

// matchesParent reports whether any ancestor directory of rel matches p.
func matchesParent(p pattern, rel string) bool {
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/")
		if ok, _ := doublestar.Match(p.glob, dir); ok {
			return true
		}
		if !p.anchored {
			if ok, _ := doublestar.Match("**/"+p.glob, dir); ok {
				return true
			}
		}
	}
	return false
}
