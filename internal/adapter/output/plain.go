package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toasty/internal/model"
)

// PlainFormatter formats requests as plain text lines.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
	now      func() time.Time
}

// NewPlainFormatter creates a new plain text formatter. It fails if the
// custom template does not parse.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	f := &PlainFormatter{opts: opts, now: time.Now}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(f.templateFuncs()).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		f.template = tmpl
	}

	return f, nil
}

// templateData provides data for custom templates.
type templateData struct {
	model.NotificationRequest
	RelativeTime string
	Class        string
}

// Format writes req as a single line.
func (f *PlainFormatter) Format(w io.Writer, req model.NotificationRequest) error {
	if f.template != nil {
		var sb strings.Builder
		data := templateData{
			NotificationRequest: req,
			RelativeTime:        f.relativeTime(req.ReceivedAt),
			Class:               req.BackgroundClass(),
		}
		if err := f.template.Execute(&sb, data); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		line := strings.TrimSuffix(sb.String(), "\n")
		_, err := fmt.Fprintln(w, line)
		return err
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = "\t"
	}

	var parts []string
	if f.opts.ShowTime {
		parts = append(parts, f.relativeTime(req.ReceivedAt))
	}

	typ := req.Type
	if typ == "" {
		typ = "-"
	}
	parts = append(parts, req.ID, typ, sanitizeText(req.Text, f.opts.TextMaxLen))

	_, err := fmt.Fprintln(w, strings.Join(parts, sep))
	return err
}

func (f *PlainFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"reltime": f.relativeTime,
		"upper":   strings.ToUpper,
	}
}

func (f *PlainFormatter) relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, f.now(), "ago", "from now")
}

// sanitizeText folds newlines so a request stays on one line.
func sanitizeText(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return truncate(text, maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
