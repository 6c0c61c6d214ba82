package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/model"
)

// Sink plays sound files. *Speaker implements it.
type Sink interface {
	Play(path string) error
	Preload(path string) error
	SetVolume(volume float64)
	InvalidateCache(path string)
	ClearCache()
	Close()
}

// Manager plays the configured sound for each toast request.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	sink    Sink
	watcher *Watcher
	config  *config.DaemonConfig
}

// NewManager creates an audio manager playing through a beep Speaker.
func NewManager(cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	return NewManagerWithSink(cfg, NewSpeaker(logger), logger)
}

// NewManagerWithSink creates an audio manager playing through sink.
func NewManagerWithSink(cfg *config.DaemonConfig, sink Sink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	m := &Manager{
		logger:  logger,
		sink:    sink,
		watcher: NewWatcher(sink, logger),
		config:  cfg,
	}
	m.applyVolume()
	return m
}

// applyVolume converts the 0-100 config volume for the sink.
func (m *Manager) applyVolume() {
	m.mu.RLock()
	volume := m.config.Audio.Volume
	m.mu.RUnlock()
	m.sink.SetVolume(float64(volume) / 100.0)
}

// Sounds returns the distinct sound files referenced by the config.
func (m *Manager) Sounds() []string {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if !cfg.Audio.Enabled {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(typ string) {
		path := cfg.SoundFor(typ)
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}

	add("")
	for _, sev := range model.Severities {
		add(sev)
	}
	for typ := range cfg.Audio.Sounds {
		add(typ)
	}
	return paths
}

// Start preloads and watches the configured sounds.
func (m *Manager) Start() error {
	m.preload()
	if err := m.watcher.Start(); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(m.Sounds()))
	return nil
}

func (m *Manager) preload() {
	for _, path := range m.Sounds() {
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "path", path)
			continue
		}
		if err := m.sink.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		if err := m.watcher.Watch(path); err != nil {
			m.logger.Debug("not watching sound file", "path", path, "error", err)
		}
	}
}

// Stop shuts down the audio manager.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.sink.Close()
	m.logger.Debug("audio manager stopped")
}

// Handle plays the sound for req. It matches the event bus handler
// signature so it can be subscribed directly.
func (m *Manager) Handle(req model.NotificationRequest) {
	if err := m.PlayFor(req.Type); err != nil {
		m.logger.Warn("failed to play sound", "type", req.Type, "error", err)
	}
}

// PlayFor plays the sound configured for a request type.
func (m *Manager) PlayFor(typ string) error {
	m.mu.RLock()
	path := m.config.SoundFor(typ)
	m.mu.RUnlock()

	if path == "" {
		m.logger.Debug("no sound configured", "type", typ)
		return nil
	}
	return m.sink.Play(path)
}

// PlayFile plays a specific sound file if audio is enabled.
func (m *Manager) PlayFile(path string) error {
	m.mu.RLock()
	enabled := m.config.Audio.Enabled
	m.mu.RUnlock()

	if !enabled {
		return nil
	}
	return m.sink.Play(path)
}

// UpdateConfig swaps the configuration and reloads sounds.
// This is called when the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.sink.ClearCache()
	m.watcher.Clear()
	m.applyVolume()
	m.preload()
	m.logger.Debug("audio manager config updated", "enabled", cfg.Audio.Enabled)
}
