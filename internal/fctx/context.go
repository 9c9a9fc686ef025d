// Package fctx maintains the set of files shared with the model and renders
// their contents into prompt blocks.
package fctx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"gopair/internal/fs"
	"gopair/internal/logging"
)

// Block is one file's content prepared for prompt interpolation.
type Block struct {
	Path    string
	Content string
}

// Ignorer filters paths that should never enter the context.
type Ignorer interface {
	IsIgnored(path string) bool
}

// ActiveSet is the insertion-ordered set of files tracked for the session.
// It is mutated only from the command-processing loop.
type ActiveSet struct {
	workDir string
	store   fs.FileStore
	ignorer Ignorer

	paths []string
	seen  map[string]struct{}
}

// NewActiveSet creates an empty active set.
func NewActiveSet(workDir string, store fs.FileStore, ignorer Ignorer) *ActiveSet {
	return &ActiveSet{
		workDir: workDir,
		store:   store,
		ignorer: ignorer,
		seen:    make(map[string]struct{}),
	}
}

// Add tracks the files matching pattern. Plain paths are added as-is; glob
// patterns are expanded relative to the work dir, skipping ignored paths.
// It returns the paths actually added.
func (a *ActiveSet) Add(pattern string) ([]string, error) {
	matches, err := a.expand(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	var added []string
	for _, path := range matches {
		if _, ok := a.seen[path]; ok {
			continue
		}
		a.seen[path] = struct{}{}
		a.paths = append(a.paths, path)
		added = append(added, path)
	}
	return added, nil
}

func (a *ActiveSet) expand(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{filepath.ToSlash(pattern)}, nil
	}

	fsys := os.DirFS(a.workDir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range matches {
		full := filepath.Join(a.workDir, m)
		if a.ignorer != nil && a.ignorer.IsIgnored(full) {
			continue
		}
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			continue
		}
		paths = append(paths, filepath.ToSlash(m))
	}
	return paths, nil
}

// Drop stops tracking a path. It reports whether the path was tracked.
func (a *ActiveSet) Drop(path string) bool {
	path = filepath.ToSlash(path)
	if _, ok := a.seen[path]; !ok {
		return false
	}
	delete(a.seen, path)
	for i, p := range a.paths {
		if p == path {
			a.paths = append(a.paths[:i], a.paths[i+1:]...)
			break
		}
	}
	return true
}

// Paths returns the tracked paths in insertion order.
func (a *ActiveSet) Paths() []string {
	out := make([]string, len(a.paths))
	copy(out, a.paths)
	return out
}

// Len returns the number of tracked paths.
func (a *ActiveSet) Len() int { return len(a.paths) }

// ReadBlocks loads every tracked file from current disk state. Contents are
// never cached across turns. An unreadable file is skipped with a warning and
// reported in skipped; it never aborts the request.
func (a *ActiveSet) ReadBlocks() (blocks []Block, skipped []string) {
	for _, path := range a.paths {
		data, err := a.store.ReadFile(path)
		if err != nil {
			logging.Warn("skipping unreadable context file", "path", path, "error", err)
			skipped = append(skipped, path)
			continue
		}
		blocks = append(blocks, Block{Path: path, Content: string(data)})
	}
	return blocks, skipped
}

// FormatBlocks renders blocks in the same filename-plus-fence convention the
// response parser recognizes, so the model mirrors it back.
func FormatBlocks(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Path)
		b.WriteString("\n```\n")
		b.WriteString(block.Content)
		if !strings.HasSuffix(block.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}
	return b.String()
}
