package dbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toasty/internal/model"
)

const (
	// BusName is the well-known name claimed by toastyd.
	BusName = "io.github.jmylchreest.Toasty"
	// Interface is the toast interface name.
	Interface = "io.github.jmylchreest.Toasty"
	// ObjectPath is the toast object path.
	ObjectPath dbus.ObjectPath = "/io/github/jmylchreest/Toasty"

	// SignalMessageShown is emitted after a toast is shown.
	SignalMessageShown = "MessageShown"
)

// D-Bus error names returned by the service.
const (
	ErrorInvalidArgs = Interface + ".Error.InvalidArgs"
	ErrorFailed      = Interface + ".Error.Failed"
)

// ErrMalformedSignal is returned when a signal body does not match MessageShown.
var ErrMalformedSignal = errors.New("malformed MessageShown signal")

// Status is the daemon state reported by GetStatus.
type Status struct {
	ID      string    `json:"id,omitempty" yaml:"id,omitempty"`
	Text    string    `json:"text,omitempty" yaml:"text,omitempty"`
	Type    string    `json:"type,omitempty" yaml:"type,omitempty"`
	ShownAt time.Time `json:"shown_at,omitzero" yaml:"shown_at,omitempty"`
	Count   uint32    `json:"count" yaml:"count"`
}

// HasMessage returns true once at least one toast was shown.
func (s Status) HasMessage() bool {
	return s.Count > 0
}

// Request returns the last shown request.
func (s Status) Request() model.NotificationRequest {
	return model.NotificationRequest{
		ID:         s.ID,
		Text:       s.Text,
		Type:       s.Type,
		ReceivedAt: s.ShownAt,
	}
}

// statusArgs flattens s into the GetStatus reply (sssxu).
// A zero ShownAt is sent as 0.
func statusArgs(s Status) (string, string, string, int64, uint32) {
	var shownAt int64
	if !s.ShownAt.IsZero() {
		shownAt = s.ShownAt.UnixMilli()
	}
	return s.ID, s.Text, s.Type, shownAt, s.Count
}

// statusFromArgs is the inverse of statusArgs.
func statusFromArgs(id, text, typ string, shownAt int64, count uint32) Status {
	s := Status{ID: id, Text: text, Type: typ, Count: count}
	if shownAt > 0 {
		s.ShownAt = time.UnixMilli(shownAt)
	}
	return s
}

// requestFromSignal decodes a MessageShown body (sss).
func requestFromSignal(body []any) (model.NotificationRequest, error) {
	if len(body) < 3 {
		return model.NotificationRequest{}, fmt.Errorf("%w: %d arguments", ErrMalformedSignal, len(body))
	}

	var req model.NotificationRequest
	var ok bool
	if req.ID, ok = body[0].(string); !ok {
		return model.NotificationRequest{}, fmt.Errorf("%w: invalid id type", ErrMalformedSignal)
	}
	if req.Text, ok = body[1].(string); !ok {
		return model.NotificationRequest{}, fmt.Errorf("%w: invalid text type", ErrMalformedSignal)
	}
	if req.Type, ok = body[2].(string); !ok {
		return model.NotificationRequest{}, fmt.Errorf("%w: invalid type type", ErrMalformedSignal)
	}
	return req, nil
}

// ServerInfo identifies the daemon on the bus.
type ServerInfo struct {
	Name    string // "toastyd"
	Version string // Build version
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "toastyd",
		Version: "0.0.1", // Will be replaced by build-time version
	}
}
