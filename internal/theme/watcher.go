package theme

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toasty/internal/watch"
)

// Watcher reloads a user theme when its file changes.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	theme    *Theme
	file     *watch.FileWatcher
	onChange func(css string)
	onError  func(err error)
}

// NewWatcher creates a watcher for theme. Embedded themes have nothing to
// watch; Start is a no-op for them.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{theme: theme, logger: logger}
}

// SetChangeCallback sets the callback invoked with the new CSS.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// SetErrorCallback sets the callback invoked when a reload fails.
func (w *Watcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins watching the theme file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return nil
	}
	if w.theme == nil || w.theme.IsEmbedded() {
		w.logger.Debug("not watching embedded theme")
		return nil
	}

	fw, err := watch.NewFileWatcher(w.theme.Path, w.reload, w.logger)
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		return err
	}
	w.file = fw
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fw := w.file
	w.file = nil
	w.mu.Unlock()

	if fw != nil {
		if err := fw.Stop(); err != nil {
			w.logger.Debug("failed to close theme watcher", "error", err)
		}
	}
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file != nil
}

func (w *Watcher) reload() {
	w.mu.Lock()
	theme := w.theme
	onChange := w.onChange
	onError := w.onError
	w.mu.Unlock()

	changed, err := theme.Reload()
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", theme.Path, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	if !changed {
		return
	}

	w.logger.Info("theme file changed, reloading", "path", theme.Path)
	if onChange != nil {
		onChange(theme.CSS)
	}
}
