// Package output provides output formatters for showMessage requests.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toasty/internal/model"
)

// Formatter writes one request per call.
type Formatter interface {
	// Format writes req to the writer, terminated by a newline.
	Format(w io.Writer, req model.NotificationRequest) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain   FormatType = "plain"
	FormatJSON    FormatType = "json"
	FormatTrigger FormatType = "trigger"
	FormatIDs     FormatType = "ids"
)

// FormatTypes lists the supported formats.
func FormatTypes() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatTrigger, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		return NewPlainFormatter(opts)
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatTrigger:
		return NewTriggerFormatter(opts), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for plain format
	ShowTime   bool   // Prefix plain lines with the relative receive time
	TextMaxLen int    // Maximum text length (0 = unlimited)
	Separator  string // Field separator for plain format
	Event      string // Event fired before showMessage in trigger format
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		Separator: "\t",
	}
}
