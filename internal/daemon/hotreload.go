package daemon

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/watch"
)

// ConfigWatcher reloads the daemon config file when it changes. Invalid
// files are reported and the last valid config stays current.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	configPath    string
	currentConfig *config.DaemonConfig
	file          *watch.FileWatcher

	onReloadCallback func(newConfig *config.DaemonConfig)
	onErrorCallback  func(err error)
}

// NewConfigWatcher creates a watcher for path. An empty path means
// config.DefaultPath().
func NewConfigWatcher(path string, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = config.DefaultPath()
	}

	w := &ConfigWatcher{
		logger:     logger,
		configPath: path,
	}

	file, err := watch.NewFileWatcher(path, w.reload, logger)
	if err != nil {
		return nil, err
	}
	w.file = file
	return w, nil
}

// Path returns the watched config path.
func (w *ConfigWatcher) Path() string {
	return w.configPath
}

// SetReloadCallback sets the callback to invoke when config is successfully reloaded.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback to invoke when config reload fails validation.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// Start begins watching the config file for changes.
func (w *ConfigWatcher) Start(initialConfig *config.DaemonConfig) error {
	w.mu.Lock()
	w.currentConfig = initialConfig
	w.mu.Unlock()

	if err := w.file.Start(); err != nil {
		return err
	}
	w.logger.Debug("config watcher started", "path", w.configPath)
	return nil
}

// Stop stops watching the config file.
func (w *ConfigWatcher) Stop() {
	if err := w.file.Stop(); err != nil {
		w.logger.Debug("config watcher stop", "error", err)
	}
	w.logger.Debug("config watcher stopped")
}

// GetCurrentConfig returns the current valid configuration.
func (w *ConfigWatcher) GetCurrentConfig() *config.DaemonConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

// reload loads and validates the file and fires the matching callback.
func (w *ConfigWatcher) reload() {
	w.mu.RLock()
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	w.mu.RUnlock()

	newConfig, err := config.LoadDaemonConfig(w.configPath)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.currentConfig = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully", "path", w.configPath)
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
}
