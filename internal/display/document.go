package display

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Base CSS classes styled by the bundled themes.
const (
	ContainerClass = "toast"
	BodyClass      = "toast-body"
	CloseClass     = "toast-close"
	WindowClass    = "toast-window"
)

// Element wraps a GTK widget. CSS classes map to toast classes, and text
// goes to the label when the element has one.
type Element struct {
	widget *gtk.Widget
	label  *gtk.Label
}

// AddClass adds CSS classes to the widget.
func (e *Element) AddClass(classes ...string) {
	for _, c := range classes {
		if c != "" {
			e.widget.AddCSSClass(c)
		}
	}
}

// RemoveClass removes CSS classes from the widget.
func (e *Element) RemoveClass(classes ...string) {
	for _, c := range classes {
		if c != "" {
			e.widget.RemoveCSSClass(c)
		}
	}
}

// HasClass reports whether the widget carries class.
func (e *Element) HasClass(class string) bool {
	return e.widget.HasCSSClass(class)
}

// SetText sets the label text. Markup is never parsed. Elements without a
// label ignore text.
func (e *Element) SetText(text string) {
	if e.label == nil {
		return
	}
	e.label.SetUseMarkup(false)
	e.label.SetText(text)
}

// Widget returns the underlying widget.
func (e *Element) Widget() *gtk.Widget {
	return e.widget
}

// Document is the toast widget tree: a container box holding the text
// label and a close button.
type Document struct {
	container *Element
	body      *Element
	closeBtn  *gtk.Button
	elements  map[string]*Element
}

// NewDocument builds the widget tree. The ids become widget names, so
// themes can also target #<id>. Must run on the GTK main loop.
func NewDocument(containerID, bodyID string) *Document {
	box := gtk.NewBox(gtk.OrientationHorizontal, 8)
	box.SetName(containerID)
	box.AddCSSClass(ContainerClass)

	label := gtk.NewLabel("")
	label.SetName(bodyID)
	label.AddCSSClass(BodyClass)
	label.SetUseMarkup(false)
	label.SetXAlign(0)
	label.SetWrap(true)
	label.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	label.SetMaxWidthChars(50)
	label.SetHExpand(true)
	box.Append(label)

	closeBtn := gtk.NewButtonFromIconName("window-close-symbolic")
	closeBtn.AddCSSClass(CloseClass)
	closeBtn.SetVAlign(gtk.AlignStart)
	box.Append(closeBtn)

	d := &Document{
		container: &Element{widget: gtk.BaseWidget(box)},
		body:      &Element{widget: gtk.BaseWidget(label), label: label},
		closeBtn:  closeBtn,
	}
	d.elements = map[string]*Element{
		containerID: d.container,
		bodyID:      d.body,
	}
	return d
}

// ElementByID implements toast.Document.
func (d *Document) ElementByID(id string) (toast.Element, bool) {
	el, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// Container returns the container element.
func (d *Document) Container() *Element {
	return d.container
}

// CloseButton returns the dismiss button inside the container.
func (d *Document) CloseButton() *gtk.Button {
	return d.closeBtn
}
