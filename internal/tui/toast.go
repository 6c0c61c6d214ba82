package tui

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Element is a terminal node with an ordered class list and plain text.
type Element struct {
	mu      sync.Mutex
	id      string
	classes []string
	text    string
}

// NewElement creates an element with initial classes.
func NewElement(id string, classes ...string) *Element {
	e := &Element{id: id}
	e.AddClass(classes...)
	return e
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// AddClass appends classes not already present.
func (e *Element) AddClass(classes ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range classes {
		if c != "" && !slices.Contains(e.classes, c) {
			e.classes = append(e.classes, c)
		}
	}
}

// RemoveClass removes classes if present.
func (e *Element) RemoveClass(classes ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(classes, c)
	})
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.classes, class)
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.classes)
}

// SetText stores text verbatim.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// Text returns the stored text.
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Document holds the terminal toast container and its text holder.
type Document struct {
	Container *Element
	Body      *Element
}

// NewDocument creates a container and body with the given ids.
func NewDocument(containerID, bodyID string) *Document {
	return &Document{
		Container: NewElement(containerID, "toast"),
		Body:      NewElement(bodyID, "toast-body"),
	}
}

// ElementByID implements toast.Document.
func (d *Document) ElementByID(id string) (toast.Element, bool) {
	switch id {
	case d.Container.id:
		return d.Container, true
	case d.Body.id:
		return d.Body, true
	}
	return nil, false
}

// Widget tracks visibility of the terminal toast. Each Show starts a new
// generation so stale dismiss ticks can be ignored.
type Widget struct {
	mu      sync.Mutex
	visible bool
	gen     uint64
}

// Show implements toast.Widget.
func (w *Widget) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	w.gen++
}

// Hide dismisses the toast.
func (w *Widget) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
}

// HideIf dismisses the toast only if gen is the current generation.
func (w *Widget) HideIf(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return false
	}
	w.visible = false
	return true
}

// Visible reports whether the toast is shown.
func (w *Widget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Generation returns the number of Show calls.
func (w *Widget) Generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen
}

// severityColors maps background classes to ANSI colors.
var severityColors = map[string]lipgloss.Color{
	model.BackgroundClass(model.SeveritySuccess): lipgloss.Color("2"),
	model.BackgroundClass(model.SeverityDanger):  lipgloss.Color("1"),
	model.BackgroundClass(model.SeverityWarning): lipgloss.Color("3"),
	model.BackgroundClass(model.SeverityInfo):    lipgloss.Color("4"),
}

// toastStyle builds the lipgloss style for the container's classes.
// Unknown background classes keep the default look.
func toastStyle(el *Element, width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}

	for _, c := range el.Classes() {
		if color, ok := severityColors[c]; ok {
			style = style.Background(color).BorderForeground(color)
			continue
		}
		if c == model.TextWhiteClass {
			style = style.Foreground(lipgloss.Color("15"))
		}
	}
	return style
}

// renderToast renders the document as a terminal box. The body text is
// printed verbatim with control characters stripped.
func renderToast(doc *Document, width int) string {
	return toastStyle(doc.Container, width).Render(sanitize(doc.Body.Text()))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
