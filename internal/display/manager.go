package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Manager owns the toast document and its popup window. It implements
// toast.Toolkit so a Binding can be created against its Document.
type Manager struct {
	app     *gtk.Application
	logger  *slog.Logger
	display *gdk.Display

	mu     sync.RWMutex
	config *config.DaemonConfig
	doc    *Document
	popup  *Popup
	onHide func()
}

// NewManager creates a new display manager. Nothing is built until Start.
func NewManager(app *gtk.Application, cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	return &Manager{
		app:    app,
		config: cfg,
		logger: logger,
	}
}

// Start builds the widget tree and the popup window.
// Must run on the GTK main loop after the application is activated.
func (m *Manager) Start() error {
	m.display = gdk.DisplayGetDefault()
	if m.display == nil {
		return &DisplayError{Message: "no display available"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc != nil {
		return &DisplayError{Message: "display manager already started"}
	}

	ApplyColorScheme(config.ColorScheme(m.config.Theme.ColorScheme))
	m.doc = NewDocument(m.config.Elements.ContainerID, m.config.Elements.BodyID)
	m.popup = NewPopup(m.app, m.doc, m.config, m.logger)
	if m.onHide != nil {
		m.popup.OnHide(m.onHide)
	}

	m.logger.Info("display manager started",
		"container", m.config.Elements.ContainerID,
		"body", m.config.Elements.BodyID,
		"position", m.config.Display.Position,
	)
	return nil
}

// Stop destroys the popup window.
func (m *Manager) Stop() {
	m.mu.Lock()
	popup := m.popup
	m.popup = nil
	m.doc = nil
	m.mu.Unlock()

	if popup != nil {
		popup.Destroy()
	}
	m.logger.Info("display manager stopped")
}

// Document returns the toast document, or nil before Start.
func (m *Manager) Document() *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc
}

// Popup returns the popup window, or nil before Start.
func (m *Manager) Popup() *Popup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.popup
}

// NewWidget implements toast.Toolkit. The popup wraps this manager's
// container; any other element gets a widget that only logs.
func (m *Manager) NewWidget(container toast.Element) toast.Widget {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.doc != nil && container == toast.Element(m.doc.Container()) {
		return m.popup
	}

	m.logger.Warn("no popup for element, toast will not be visible")
	return unmanagedWidget{logger: m.logger}
}

// SetTimeout sets the dismiss delay used by the next Show.
func (m *Manager) SetTimeout(d time.Duration) {
	if p := m.Popup(); p != nil {
		p.SetTimeout(d)
	}
}

// OnHide sets a callback run whenever the toast is dismissed.
func (m *Manager) OnHide(cb func()) {
	m.mu.Lock()
	m.onHide = cb
	popup := m.popup
	m.mu.Unlock()

	if popup != nil {
		popup.OnHide(cb)
	}
}

// Hide dismisses the toast if it is visible.
func (m *Manager) Hide() {
	if p := m.Popup(); p != nil {
		p.Hide()
	}
}

// Visible reports whether the toast is on screen.
func (m *Manager) Visible() bool {
	if p := m.Popup(); p != nil {
		return p.Visible()
	}
	return false
}

// UpdateConfig applies a reloaded configuration. Element ids are fixed at
// Start; changes to them need a restart.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	m.mu.Lock()
	old := m.config
	m.config = cfg
	popup := m.popup
	m.mu.Unlock()

	if old.Elements != cfg.Elements {
		m.logger.Warn("element ids changed, restart the daemon to apply",
			"container", cfg.Elements.ContainerID,
			"body", cfg.Elements.BodyID,
		)
	}

	if old.Theme.ColorScheme != cfg.Theme.ColorScheme {
		ApplyColorScheme(config.ColorScheme(cfg.Theme.ColorScheme))
	}
	if popup != nil {
		popup.UpdateConfig(cfg)
	}

	m.logger.Debug("display manager config updated",
		"position", cfg.Display.Position,
		"width", cfg.Display.Width,
		"monitor", cfg.Display.Monitor,
	)
}

type unmanagedWidget struct {
	logger *slog.Logger
}

func (w unmanagedWidget) Show() {
	w.logger.Debug("show on unmanaged widget ignored")
}
