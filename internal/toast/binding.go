// Package toast binds a toast widget to the showMessage event.
//
// A Binding resolves a container and a text holder from a Document,
// wraps the container in a Widget created by a Toolkit, and subscribes
// to an event bus. Each request resets the container's severity style,
// applies the style for the request type, writes the text as plain text
// and shows the widget. Backends (GTK, terminal, in-memory HTML) only
// implement the small interfaces below.
package toast

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jmylchreest/toasty/internal/event"
	"github.com/jmylchreest/toasty/internal/model"
)

// Default element identifiers.
const (
	DefaultContainerID = "toast"
	DefaultBodyID      = "toast-body"
)

// Element is a styled node in a Document.
type Element interface {
	AddClass(classes ...string)
	RemoveClass(classes ...string)
	HasClass(class string) bool
	// SetText replaces the visible content with text. Implementations
	// must never interpret text as markup.
	SetText(text string)
}

// Document looks up elements by identifier.
type Document interface {
	ElementByID(id string) (Element, bool)
}

// Widget is the show/dismiss handle around a container.
// Animation and auto-dismiss belong to the implementation.
type Widget interface {
	Show()
}

// Toolkit constructs widgets. NewWidget must not show the widget.
type Toolkit interface {
	NewWidget(container Element) Widget
}

// ToolkitFunc adapts a function to the Toolkit interface.
type ToolkitFunc func(container Element) Widget

// NewWidget calls f(container).
func (f ToolkitFunc) NewWidget(container Element) Widget {
	return f(container)
}

// Options configures Bind.
type Options struct {
	ContainerID string
	BodyID      string
	Logger      *slog.Logger
}

// Option modifies Options.
type Option func(*Options)

// WithContainerID overrides the container identifier.
func WithContainerID(id string) Option {
	return func(o *Options) { o.ContainerID = id }
}

// WithBodyID overrides the text holder identifier.
func WithBodyID(id string) Option {
	return func(o *Options) { o.BodyID = id }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Binding connects one widget to one bus subscription.
type Binding struct {
	container Element
	body      Element
	widget    Widget
	logger    *slog.Logger

	mu          sync.Mutex
	applied     []string // classes added by the previous request
	unsubscribe func()
}

// Bind resolves the elements, constructs the widget and subscribes to bus.
// It returns an *ElementError if either element is missing; nothing is
// subscribed in that case.
func Bind(doc Document, kit Toolkit, bus *event.Bus[model.NotificationRequest], opts ...Option) (*Binding, error) {
	o := Options{
		ContainerID: DefaultContainerID,
		BodyID:      DefaultBodyID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	container, ok := doc.ElementByID(o.ContainerID)
	if !ok || container == nil {
		return nil, &ElementError{ID: o.ContainerID, Role: RoleContainer}
	}
	body, ok := doc.ElementByID(o.BodyID)
	if !ok || body == nil {
		return nil, &ElementError{ID: o.BodyID, Role: RoleBody}
	}

	b := &Binding{
		container: container,
		body:      body,
		widget:    kit.NewWidget(container),
		logger:    o.Logger,
	}

	if bus != nil {
		b.unsubscribe = bus.Subscribe(b.Handle)
		o.Logger.Debug("toast bound", "event", bus.Name(), "container", o.ContainerID, "body", o.BodyID)
	}

	return b, nil
}

// Handle applies one request to the widget.
func (b *Binding) Handle(req model.NotificationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.container.RemoveClass(model.SeverityClasses()...)
	if len(b.applied) > 0 {
		b.container.RemoveClass(b.applied...)
		b.applied = nil
	}

	switch {
	case !req.HasType():
	case !model.IsClassToken(req.Type):
		b.logger.Debug("toast type is not a single class, style skipped", "type", req.Type)
	default:
		bg := req.BackgroundClass()
		b.container.AddClass(bg, model.TextWhiteClass)
		b.applied = []string{bg, model.TextWhiteClass}

		if !model.IsKnownSeverity(req.Type) {
			b.logger.Debug("unrecognized toast type", "type", req.Type, "class", bg)
		}
	}

	b.body.SetText(req.Text)
	b.widget.Show()

	b.logger.Debug("toast shown", "id", req.ID, "type", req.Type, "text_len", len(req.Text))
}

// Widget returns the handle created at bind time.
func (b *Binding) Widget() Widget {
	return b.widget
}

// AppliedClasses returns the classes added by the most recent request.
func (b *Binding) AppliedClasses() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.applied)
}

// Close removes the bus subscription. It is safe to call more than once.
func (b *Binding) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
