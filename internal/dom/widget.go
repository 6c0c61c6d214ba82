package dom

import (
	"sync"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Bootstrap-style visibility classes toggled by Widget.
const (
	ShowClass = "show"
	HideClass = "hide"
)

// Toolkit creates Widgets for dom elements.
type Toolkit struct{}

// NewWidget wraps container. It does not change the container.
func (Toolkit) NewWidget(container toast.Element) toast.Widget {
	return &Widget{container: container}
}

// Widget marks its container visible on Show. There is no timer; a
// rendered page hands the show state to whatever script runs in the browser.
type Widget struct {
	container toast.Element

	mu    sync.Mutex
	shows int
}

// Show adds the show class and removes the hide class.
func (w *Widget) Show() {
	w.mu.Lock()
	w.shows++
	w.mu.Unlock()

	w.container.RemoveClass(HideClass)
	w.container.AddClass(ShowClass)
}

// Hide reverses Show.
func (w *Widget) Hide() {
	w.container.RemoveClass(ShowClass)
	w.container.AddClass(HideClass)
}

// Shows returns how many times Show was called.
func (w *Widget) Shows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}
