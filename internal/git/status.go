package git

import (
	"path/filepath"
	"strings"
)

// FileStatus represents the porcelain status of a file.
type FileStatus string

const (
	StatusUntracked FileStatus = "?"
	StatusModified  FileStatus = "M"
	StatusAdded     FileStatus = "A"
	StatusDeleted   FileStatus = "D"
	StatusRenamed   FileStatus = "R"
	StatusClean     FileStatus = " "
)

// Status returns the porcelain status of every changed file in the repo,
// keyed by path relative to the work dir.
func (c *CLI) Status() (map[string]FileStatus, error) {
	out, err := c.run("status", "--porcelain", "-uall")
	if err != nil {
		return nil, err
	}

	entries := make(map[string]FileStatus)
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}

		status := FileStatus(line[1:2])
		if status == StatusClean {
			status = FileStatus(line[0:1])
		}
		path := strings.TrimSpace(line[3:])

		// Renames report "old -> new"; the new path is the live one.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}

		entries[filepath.ToSlash(path)] = status
	}
	return entries, nil
}

// StatusOf returns the status of a single path, or StatusClean when the file
// has no pending changes.
func (c *CLI) StatusOf(path string) FileStatus {
	entries, err := c.Status()
	if err != nil {
		return StatusClean
	}

	rel, err := filepath.Rel(c.workDir, path)
	if err != nil {
		rel = path
	}
	if status, ok := entries[filepath.ToSlash(rel)]; ok {
		return status
	}
	return StatusClean
}
