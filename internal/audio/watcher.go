package audio

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toasty/internal/watch"
)

// Invalidator drops a cached sound.
type Invalidator interface {
	InvalidateCache(path string)
}

// Watcher invalidates cached sounds when their files change on disk.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	cache   Invalidator
	files   map[string]*watch.FileWatcher
	running bool
}

// NewWatcher creates a new audio file watcher.
func NewWatcher(cache Invalidator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger: logger,
		cache:  cache,
		files:  make(map[string]*watch.FileWatcher),
	}
}

// Watch adds a path. It is watched immediately if the watcher is running.
func (w *Watcher) Watch(path string) error {
	if path == "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return nil
	}

	fw, err := watch.NewFileWatcher(path, func() { w.changed(path) }, w.logger)
	if err != nil {
		return err
	}
	if w.running {
		if err := fw.Start(); err != nil {
			return err
		}
	}
	w.files[path] = fw
	return nil
}

func (w *Watcher) changed(path string) {
	w.logger.Debug("audio file changed, invalidating cache", "path", path)
	if w.cache != nil {
		w.cache.InvalidateCache(path)
	}
}

// Paths returns the watched paths.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	return paths
}

// Start begins watching every added path.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	w.running = true

	for path, fw := range w.files {
		if err := fw.Start(); err != nil {
			w.logger.Warn("failed to watch sound file", "path", path, "error", err)
			delete(w.files, path)
		}
	}

	w.logger.Debug("audio watcher started", "files", len(w.files))
	return nil
}

// Clear stops watching every path but leaves the watcher running.
func (w *Watcher) Clear() {
	w.mu.Lock()
	files := w.files
	w.files = make(map[string]*watch.FileWatcher)
	w.mu.Unlock()

	for _, fw := range files {
		_ = fw.Stop()
	}
}

// Stop stops watching audio files.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.Clear()
	w.logger.Debug("audio watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
