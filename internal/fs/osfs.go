package fs

import (
	"os"

	"gopair/internal/fileutil"
)

// OSFS is the FileStore backed by the real filesystem.
// Writes are atomic (tmp file + rename).
type OSFS struct{}

// NewOSFS returns a FileStore over the host filesystem.
func NewOSFS() *OSFS {
	return &OSFS{}
}

func (*OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (*OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return fileutil.AtomicWrite(path, data, perm)
}

func (*OSFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
