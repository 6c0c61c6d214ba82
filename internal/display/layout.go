package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
)

// Placement is the layer-shell anchoring for a screen position.
type Placement struct {
	Top, Bottom, Left, Right bool
	// Margins from the anchored edges, in pixels.
	MarginX, MarginY int
}

// PlacementFor computes anchors and margins for a display config.
// Unknown positions fall back to top-right.
func PlacementFor(d config.DisplayConfig) Placement {
	p := Placement{MarginX: d.OffsetX, MarginY: d.OffsetY}

	switch config.Position(d.Position) {
	case config.PositionTopLeft:
		p.Top, p.Left = true, true
	case config.PositionTopCenter:
		p.Top = true
		p.MarginX = 0
	case config.PositionBottomRight:
		p.Bottom, p.Right = true, true
	case config.PositionBottomLeft:
		p.Bottom, p.Left = true, true
	case config.PositionBottomCenter:
		p.Bottom = true
		p.MarginX = 0
	default:
		p.Top, p.Right = true, true
	}
	return p
}

// applyPlacement resets all anchors on window and applies p.
func applyPlacement(window *gtk.Window, p Placement) {
	edges := []struct {
		edge     layershell.LayerShellEdge
		anchored bool
		margin   int
	}{
		{layershell.LayerShellEdgeTop, p.Top, p.MarginY},
		{layershell.LayerShellEdgeBottom, p.Bottom, p.MarginY},
		{layershell.LayerShellEdgeLeft, p.Left, p.MarginX},
		{layershell.LayerShellEdgeRight, p.Right, p.MarginX},
	}

	for _, e := range edges {
		layershell.SetAnchor(window, e.edge, e.anchored)
		if e.anchored {
			layershell.SetMargin(window, e.edge, e.margin)
		} else {
			layershell.SetMargin(window, e.edge, 0)
		}
	}
}

// MonitorIndex converts the 1-based config value into a 0-based index.
// ok is false when the compositor should choose (0) or the monitor is
// out of range.
func MonitorIndex(configured int, available uint) (index uint, ok bool) {
	if configured <= 0 {
		return 0, false
	}
	index = uint(configured - 1)
	if index >= available {
		return 0, false
	}
	return index, true
}

// selectMonitor returns the configured monitor, or nil to let the
// compositor place the popup.
func selectMonitor(display *gdk.Display, configured int, logger *slog.Logger) *gdk.Monitor {
	if display == nil || configured == 0 {
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil {
		return nil
	}

	index, ok := MonitorIndex(configured, monitors.NItems())
	if !ok {
		logger.Warn("configured monitor not available, using compositor default",
			"configured", configured,
			"available", monitors.NItems(),
		)
		return nil
	}
	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor.
// gotk4 does not export its own wrapper for list items.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
