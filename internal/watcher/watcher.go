// Package watcher notices external edits to tracked context files so the REPL
// can warn that the model's view of a file is stale.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gopair/internal/logging"
)

// FileChangeHandler is called with the path of a changed tracked file.
type FileChangeHandler func(path string)

// Config holds watcher settings.
type Config struct {
	Enabled    bool
	DebounceMs int
}

// Watcher monitors a set of files for modification, debouncing bursts of
// events per path.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debounce     time.Duration
	onFileChange FileChangeHandler
	watched      map[string]struct{}
	pending      map[string]time.Time
	mu           sync.Mutex
	running      bool
	done         chan struct{}
	stopOnce     sync.Once
}

// New creates a file watcher. A disabled config yields an inert watcher whose
// methods are all no-ops.
func New(cfg Config) (*Watcher, error) {
	if !cfg.Enabled {
		return &Watcher{}, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = 500
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  time.Duration(debounceMs) * time.Millisecond,
		watched:   make(map[string]struct{}),
		pending:   make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// SetOnFileChange sets the change callback.
func (w *Watcher) SetOnFileChange(handler FileChangeHandler) {
	if w == nil || w.fsWatcher == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFileChange = handler
}

// Start begins delivering change events. Repeated calls are no-ops.
func (w *Watcher) Start() {
	if w == nil || w.fsWatcher == nil {
		return
	}
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()
	go w.processEvents()
	go w.processDebounce()
}

// Watch adds a file to the watched set.
func (w *Watcher) Watch(path string) error {
	if w == nil || w.fsWatcher == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[abs]; ok {
		return nil
	}
	// Watch the parent directory: editors replace files via rename, which
	// drops per-file watches.
	if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.watched[abs] = struct{}{}
	return nil
}

// Unwatch removes a file from the watched set.
func (w *Watcher) Unwatch(path string) {
	if w == nil || w.fsWatcher == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, abs)
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() error {
	if w == nil || w.fsWatcher == nil {
		return nil
	}
	w.stopOnce.Do(func() {
		close(w.done)
	})
	return w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}

			w.mu.Lock()
			if _, tracked := w.watched[abs]; tracked {
				w.pending[abs] = time.Now()
			}
			w.mu.Unlock()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) processDebounce() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			now := time.Now()
			var fire []string

			w.mu.Lock()
			for path, last := range w.pending {
				if now.Sub(last) >= w.debounce {
					fire = append(fire, path)
					delete(w.pending, path)
				}
			}
			handler := w.onFileChange
			w.mu.Unlock()

			if handler == nil {
				continue
			}
			for _, path := range fire {
				handler(path)
			}
		}
	}
}
