package theme

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a resolved theme to a GTK display through one CSS provider.
// LoadTheme and Apply must run on the GTK main loop.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	watcher   *Watcher
	onError   func(err error)
}

// NewLoader creates a new theme loader reading user themes from themesDir.
// An empty themesDir means ThemesDir().
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if themesDir == "" {
		themesDir = ThemesDir()
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// SetErrorCallback sets a callback for theme problems found on load or reload.
func (l *Loader) SetErrorCallback(callback func(err error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = callback
}

// LoadTheme resolves name and loads it into the provider. Resolution
// problems fall back to a bundled theme and are reported through the
// returned error; the provider always ends up with usable CSS.
func (l *Loader) LoadTheme(name string) error {
	t, err := Resolve(l.themesDir, name)

	l.mu.Lock()
	l.theme = t
	l.provider.LoadFromString(t.CSS)
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("theme problem, using fallback", "requested", name, "loaded", t.Name, "error", err)
	}
	l.logger.Info("loaded theme", "name", t.Name, "source", t.Source, "path", t.Path)
	return err
}

// Theme returns the currently loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}

// Apply attaches the provider to display, or the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.logger.Debug("applied theme to display", "name", l.CurrentTheme())
}

// StartHotReload watches the current user theme and reloads the provider
// on the GTK main loop when it changes.
func (l *Loader) StartHotReload() {
	l.StopHotReload()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.IsEmbedded() {
		l.logger.Debug("not starting hot-reload for embedded theme")
		return
	}

	w := NewWatcher(l.theme, l.logger)
	w.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
		})
	})
	w.SetErrorCallback(func(err error) {
		l.mu.RLock()
		cb := l.onError
		l.mu.RUnlock()
		if cb != nil {
			cb(err)
		}
	})

	if err := w.Start(); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
		return
	}
	l.watcher = w
}

// StopHotReload stops watching the theme.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// Provider returns the underlying CSS provider.
func (l *Loader) Provider() *gtk.CSSProvider {
	return l.provider
}
