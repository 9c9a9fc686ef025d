// Package fsync reconciles parsed file updates against the working tree.
package fsync

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopair/internal/fs"
	"gopair/internal/logging"
	"gopair/internal/parse"
)

// ChangeKind distinguishes newly created files from updated ones.
type ChangeKind int

const (
	Created ChangeKind = iota
	Updated
)

func (k ChangeKind) String() string {
	if k == Created {
		return "created"
	}
	return "updated"
}

// Change records one file actually written during a synchronization pass.
type Change struct {
	Path string
	Kind ChangeKind

	// Line counts relative to the prior content, for display.
	LinesAdded   int
	LinesRemoved int
}

// ChangeSet is the ordered list of writes performed in one pass.
// The same path may appear more than once when a response repeats a filename.
type ChangeSet []Change

// Empty reports whether nothing was written.
func (cs ChangeSet) Empty() bool { return len(cs) == 0 }

// Paths returns the distinct changed paths in first-write order.
func (cs ChangeSet) Paths() []string {
	seen := make(map[string]struct{}, len(cs))
	var paths []string
	for _, c := range cs {
		if _, ok := seen[c.Path]; ok {
			continue
		}
		seen[c.Path] = struct{}{}
		paths = append(paths, c.Path)
	}
	return paths
}

// Synchronizer applies file updates through a FileStore.
type Synchronizer struct {
	store fs.FileStore
}

// New creates a Synchronizer over the given store.
func New(store fs.FileStore) *Synchronizer {
	return &Synchronizer{store: store}
}

// Apply writes each update whose content differs from what is on disk,
// creating parent directories as needed. Byte-identical content is skipped.
// Files absent from the update set are left untouched, never deleted.
//
// A failure on one update is reported and does not stop the others; the
// returned error joins all per-file failures.
func (s *Synchronizer) Apply(updates []parse.FileUpdate) (ChangeSet, error) {
	var changes ChangeSet
	var errs []error

	for _, u := range updates {
		change, wrote, err := s.applyOne(u)
		if err != nil {
			logging.Warn("failed to apply update", "path", u.Path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", u.Path, err))
			continue
		}
		if wrote {
			changes = append(changes, change)
		}
	}

	return changes, errors.Join(errs...)
}

func (s *Synchronizer) applyOne(u parse.FileUpdate) (Change, bool, error) {
	newContent := []byte(u.Content)

	kind := Created
	var oldContent []byte
	if s.store.Exists(u.Path) {
		data, err := s.store.ReadFile(u.Path)
		if err != nil {
			return Change{}, false, err
		}
		if bytes.Equal(data, newContent) {
			// No-op write: not part of the change set.
			return Change{}, false, nil
		}
		kind = Updated
		oldContent = data
	}

	if dir := filepath.Dir(u.Path); dir != "." {
		if err := s.store.MkdirAll(dir, 0755); err != nil {
			return Change{}, false, err
		}
	}
	if err := s.store.WriteFile(u.Path, newContent, os.FileMode(0644)); err != nil {
		return Change{}, false, err
	}

	added, removed := lineStats(string(oldContent), u.Content)
	return Change{
		Path:         u.Path,
		Kind:         kind,
		LinesAdded:   added,
		LinesRemoved: removed,
	}, true, nil
}
