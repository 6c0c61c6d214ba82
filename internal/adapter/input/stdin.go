package input

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// LineSource reads one request per line from a reader.
type LineSource struct {
	name   string
	reader io.Reader
	logger *slog.Logger
}

// NewLineSource creates a LineSource reading from r.
func NewLineSource(name string, r io.Reader, logger *slog.Logger) *LineSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &LineSource{name: name, reader: r, logger: logger}
}

// Name returns the source identifier.
func (s *LineSource) Name() string {
	return s.name
}

// Run reads lines until EOF or cancellation. Blank lines are skipped and
// lines that fail to decode are logged and skipped. Cancellation is checked
// between lines.
func (s *LineSource) Run(ctx context.Context, pub Publisher) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		req, err := ParseLine(line)
		if err != nil {
			s.logger.Warn("skipping input line", "source", s.name, "error", err)
			continue
		}

		pub.Publish(req.Stamp())
	}

	if err := scanner.Err(); err != nil {
		return &AdapterError{
			Source:  s.name,
			Message: "failed to read input",
			Err:     err,
		}
	}
	return ctx.Err()
}
