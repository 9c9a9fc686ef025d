package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledWatcherIsInert(t *testing.T) {
	w, err := New(Config{Enabled: false})
	require.NoError(t, err)

	w.SetOnFileChange(func(string) {})
	w.Start()
	assert.NoError(t, w.Watch("some/file.go"))
	w.Unwatch("some/file.go")
	assert.NoError(t, w.Stop())
}

func TestNilWatcherIsInert(t *testing.T) {
	var w *Watcher

	w.SetOnFileChange(func(string) {})
	w.Start()
	assert.NoError(t, w.Watch("some/file.go"))
	w.Unwatch("some/file.go")
	assert.NoError(t, w.Stop())
}

func TestStartIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracked.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(Config{Enabled: true, DebounceMs: 50})
	require.NoError(t, err)
	defer w.Stop()

	var fired atomic.Int32
	w.SetOnFileChange(func(string) { fired.Add(1) })
	require.NoError(t, w.Watch(path))

	w.Start()
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("change never delivered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// A second Start must not double-deliver the debounced event.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}
