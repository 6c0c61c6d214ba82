package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/toasty/internal/model"
)

// JSONFormatter writes each request as a single-line JSON object.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes req as JSON followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, req model.NotificationRequest) error {
	req.Text = truncate(req.Text, f.opts.TextMaxLen)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(req)
}
