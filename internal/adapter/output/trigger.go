package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/model"
)

// TriggerFormatter writes HX-Trigger values that toastyd -stdin can replay.
type TriggerFormatter struct {
	opts FormatterOptions
}

// NewTriggerFormatter creates a new trigger formatter.
func NewTriggerFormatter(opts FormatterOptions) *TriggerFormatter {
	return &TriggerFormatter{opts: opts}
}

// Format writes req as an HX-Trigger object followed by a newline.
func (f *TriggerFormatter) Format(w io.Writer, req model.NotificationRequest) error {
	req.Text = truncate(req.Text, f.opts.TextMaxLen)
	value, err := input.EncodeTrigger(f.opts.Event, req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(value))
	return err
}
