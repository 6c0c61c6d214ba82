// Package input provides input adapters that turn external sources into
// showMessage requests.
package input

import (
	"context"
	"log/slog"
	"os"

	"github.com/jmylchreest/toasty/internal/model"
)

// Publisher receives decoded requests. *event.Bus[model.NotificationRequest]
// satisfies it.
type Publisher interface {
	Publish(req model.NotificationRequest)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(req model.NotificationRequest)

// Publish calls f(req).
func (f PublisherFunc) Publish(req model.NotificationRequest) {
	f(req)
}

// Source delivers requests from an external producer.
type Source interface {
	// Name returns the source identifier (e.g., "stdin").
	Name() string

	// Run reads until the source is exhausted or ctx is cancelled,
	// handing every request to pub.
	Run(ctx context.Context, pub Publisher) error
}

// NewSource creates a Source by name.
func NewSource(name string, logger *slog.Logger) (Source, error) {
	switch name {
	case "stdin":
		return NewLineSource("stdin", os.Stdin, logger), nil
	default:
		return nil, &AdapterError{
			Source:  name,
			Message: "unknown or unavailable source",
		}
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
