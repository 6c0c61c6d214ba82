package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toasty/internal/model"
)

// IDsFormatter outputs just the request IDs, one per line.
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes the request ID to the writer.
func (f *IDsFormatter) Format(w io.Writer, req model.NotificationRequest) error {
	_, err := fmt.Fprintln(w, req.ID)
	return err
}
