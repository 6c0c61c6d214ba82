package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
)

// Popup is the single toast window. It implements toast.Widget; a new
// Show replaces whatever is on screen and restarts the dismiss timer.
// All methods must run on the GTK main loop.
type Popup struct {
	window    *gtk.Window
	container *Element
	logger    *slog.Logger
	timer     *DismissTimer

	mu      sync.Mutex
	display config.DisplayConfig
	theme   config.ThemeConfig
	visible bool
	shows   int
	onHide  func()
}

// NewPopup creates the layer-shell window around container. It is not shown.
func NewPopup(app *gtk.Application, doc *Document, cfg *config.DaemonConfig, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		container: doc.Container(),
		logger:    logger,
		display:   cfg.Display,
		theme:     cfg.Theme,
	}
	p.timer = NewDismissTimer(glibScheduler{}, p.Hide)

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass(WindowClass)
	p.window.SetDefaultSize(cfg.Display.Width, -1)
	p.window.SetSizeRequest(cfg.Display.Width, -1)
	p.window.SetChild(doc.Container().Widget())

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "toasty")

	p.applyStyle()
	p.connectSignals(doc)

	return p
}

func (p *Popup) connectSignals(doc *Document) {
	doc.CloseButton().ConnectClicked(p.Hide)

	motionCtrl := gtk.NewEventControllerMotion()
	motionCtrl.ConnectEnter(func(x, y float64) {
		if p.pauseOnHover() {
			p.timer.Pause()
		}
	})
	motionCtrl.ConnectLeave(func() {
		p.timer.Resume()
	})
	p.window.AddController(motionCtrl)

	clickCtrl := gtk.NewGestureClick()
	clickCtrl.SetButton(0)
	clickCtrl.ConnectReleased(func(nPress int, x, y float64) {
		p.Hide()
	})
	p.window.AddController(clickCtrl)
}

func (p *Popup) pauseOnHover() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display.PauseOnHover
}

// applyStyle sets window-level classes that do not depend on the request.
func (p *Popup) applyStyle() {
	p.mu.Lock()
	display := p.display
	scheme := p.theme.ColorScheme
	p.mu.Unlock()

	p.container.RemoveClass("light", "dark", "translucent")
	p.container.AddClass(colorSchemeClass(config.ColorScheme(scheme), systemPrefersDark))
	if display.Opacity < 1.0 {
		p.container.AddClass("translucent")
	}
	p.window.SetOpacity(display.Opacity)
	p.window.SetDefaultSize(display.Width, -1)
	p.window.SetSizeRequest(display.Width, -1)
}

// SetTimeout sets the auto-dismiss delay for the next Show. Zero keeps the
// toast until dismissed.
func (p *Popup) SetTimeout(d time.Duration) {
	p.timer.SetTimeout(d)
}

// OnHide sets a callback run after the toast is dismissed.
func (p *Popup) OnHide(cb func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onHide = cb
}

// Show places and presents the window and restarts the dismiss timer.
func (p *Popup) Show() {
	p.mu.Lock()
	display := p.display
	p.visible = true
	p.shows++
	p.mu.Unlock()

	applyPlacement(p.window, PlacementFor(display))
	if monitor := selectMonitor(gdk.DisplayGetDefault(), display.Monitor, p.logger); monitor != nil {
		layershell.SetMonitor(p.window, monitor)
	}

	p.window.Present()
	p.timer.Restart()
}

// Hide dismisses the toast.
func (p *Popup) Hide() {
	p.timer.Stop()

	p.mu.Lock()
	wasVisible := p.visible
	p.visible = false
	cb := p.onHide
	p.mu.Unlock()

	if !wasVisible {
		return
	}
	p.window.SetVisible(false)
	if cb != nil {
		cb()
	}
}

// Visible reports whether the toast is on screen.
func (p *Popup) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Shows returns how many times Show was called.
func (p *Popup) Shows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shows
}

// UpdateConfig applies new display and theme settings. A visible toast is
// moved immediately.
func (p *Popup) UpdateConfig(cfg *config.DaemonConfig) {
	p.mu.Lock()
	p.display = cfg.Display
	p.theme = cfg.Theme
	visible := p.visible
	p.mu.Unlock()

	p.applyStyle()
	if visible {
		applyPlacement(p.window, PlacementFor(cfg.Display))
	}
}

// Destroy closes the window.
func (p *Popup) Destroy() {
	p.timer.Stop()
	p.window.Destroy()
}

// colorSchemeClass returns "light" or "dark" for the configured scheme,
// asking prefersDark when the scheme follows the system.
func colorSchemeClass(scheme config.ColorScheme, prefersDark func() bool) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if prefersDark != nil && prefersDark() {
			return "dark"
		}
		return "light"
	}
}

// systemPrefersDark checks libadwaita for the system dark mode preference.
func systemPrefersDark() bool {
	return adw.StyleManagerGetDefault().Dark()
}

// ApplyColorScheme forces libadwaita to the configured scheme.
func ApplyColorScheme(scheme config.ColorScheme) {
	sm := adw.StyleManagerGetDefault()
	switch scheme {
	case config.ColorSchemeLight:
		sm.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		sm.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		sm.SetColorScheme(adw.ColorSchemeDefault)
	}
}
