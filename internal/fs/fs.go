package fs

import "os"

// FileStore abstracts the filesystem operations the synchronizer and file
// context reader need, so they can be tested against an in-memory store.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Exists(path string) bool
}
