// Package model defines the core data structures for toasty.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// EventShowMessage is the name of the event that carries a NotificationRequest.
const EventShowMessage = "showMessage"

// Severity tags with a style rule in the bundled themes.
const (
	SeveritySuccess = "success"
	SeverityDanger  = "danger"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Style classes applied to the toast container.
const (
	// BackgroundClassPrefix is joined with a request type to form its background class.
	BackgroundClassPrefix = "bg-"
	// TextWhiteClass is added alongside any background class.
	TextWhiteClass = "text-white"
)

// Severities lists the recognized severity tags in display order.
var Severities = []string{SeveritySuccess, SeverityDanger, SeverityWarning, SeverityInfo}

// ErrEmptyText is returned by Validate when a request has no text.
var ErrEmptyText = errors.New("text cannot be empty")

// NotificationRequest is the payload of a single showMessage event.
// It is never stored; the ID and ReceivedAt fields exist for logging and status.
type NotificationRequest struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Text       string    `json:"text" yaml:"text"`
	Type       string    `json:"type,omitempty" yaml:"type,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitzero" yaml:"received_at,omitempty"`
}

// NewRequest creates a request with a generated ULID and receive time.
func NewRequest(text, typ string) (NotificationRequest, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return NotificationRequest{}, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return NotificationRequest{
		ID:         id.String(),
		Text:       text,
		Type:       typ,
		ReceivedAt: time.Now(),
	}, nil
}

// Stamp fills in ID and ReceivedAt if they are unset.
// Requests decoded from the wire arrive without either.
func (r NotificationRequest) Stamp() NotificationRequest {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	if r.ReceivedAt.IsZero() {
		r.ReceivedAt = time.Now()
	}
	return r
}

// Validate reports whether the request has the required fields.
// The binding itself never calls this; senders use it to reject empty messages early.
func (r NotificationRequest) Validate() error {
	if r.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// HasType returns true if a severity tag was supplied.
func (r NotificationRequest) HasType() bool {
	return r.Type != ""
}

// BackgroundClass returns the background class for the request type,
// or "" when no type is set. Unknown types still produce a class name.
func (r NotificationRequest) BackgroundClass() string {
	return BackgroundClass(r.Type)
}

// BackgroundClass interpolates typ into the background class pattern.
func BackgroundClass(typ string) string {
	if typ == "" {
		return ""
	}
	return BackgroundClassPrefix + typ
}

// SeverityClasses returns the background classes of all recognized severities.
func SeverityClasses() []string {
	classes := make([]string, len(Severities))
	for i, s := range Severities {
		classes[i] = BackgroundClass(s)
	}
	return classes
}

// IsClassToken reports whether typ can be applied as a single CSS class.
// Whitespace would split it into several classes.
func IsClassToken(typ string) bool {
	return typ != "" && !strings.ContainsFunc(typ, unicode.IsSpace)
}

// IsKnownSeverity returns true if typ has a style rule.
func IsKnownSeverity(typ string) bool {
	for _, s := range Severities {
		if s == typ {
			return true
		}
	}
	return false
}

// NormalizeSeverity maps common aliases onto the recognized tags.
// Values that are not aliases are returned lowercased and trimmed.
func NormalizeSeverity(typ string) string {
	t := strings.ToLower(strings.TrimSpace(typ))
	switch t {
	case "ok", "done":
		return SeveritySuccess
	case "error", "err", "critical", "fail":
		return SeverityDanger
	case "warn":
		return SeverityWarning
	case "notice":
		return SeverityInfo
	}
	return t
}
