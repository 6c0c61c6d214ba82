package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/dom"
	"github.com/jmylchreest/toasty/internal/event"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

var renderOpts struct {
	page      string
	typ       string
	trigger   string
	container string
	body      string
	output    string
}

var renderCmd = &cobra.Command{
	Use:   "render [text]...",
	Short: "Apply a showMessage request to an HTML page",
	Long: `Load an HTML page, bind the toast to its container and text holder,
dispatch one showMessage request and print the resulting document.

Without --page a minimal page with the default toast markup is used.
Use --page - to read the page from stdin.

Examples:
  toasty render Saved -t success
  toasty render --page index.html --trigger '{"showMessage":{"text":"Oops","type":"danger"}}'`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOpts.page, "page", "p", "",
		"HTML page to load (- for stdin)")
	renderCmd.Flags().StringVarP(&renderOpts.typ, "type", "t", "",
		"Message type (success, danger, warning, info); ok, error, warn and notice are aliases, other values pass through lowercased")
	renderCmd.Flags().StringVar(&renderOpts.trigger, "trigger", "",
		"HX-Trigger JSON to decode instead of text arguments")
	renderCmd.Flags().StringVar(&renderOpts.container, "container", "",
		"Container element id (default from config)")
	renderCmd.Flags().StringVar(&renderOpts.body, "body", "",
		"Text holder element id (default from config)")
	renderCmd.Flags().StringVarP(&renderOpts.output, "output", "o", "",
		"Write the document to a file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	req, err := renderRequest(args)
	if err != nil {
		return err
	}

	doc, err := loadPage(renderOpts.page)
	if err != nil {
		return err
	}

	elements := getConfig().Elements
	containerID := firstNonEmpty(renderOpts.container, elements.ContainerID)
	bodyID := firstNonEmpty(renderOpts.body, elements.BodyID)

	bus := event.NewBus[model.NotificationRequest](event.BusOptions{
		Name:   model.EventShowMessage,
		Logger: logger,
	})
	binding, err := toast.Bind(doc, dom.Toolkit{}, bus,
		toast.WithContainerID(containerID),
		toast.WithBodyID(bodyID),
		toast.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer binding.Close()

	bus.Publish(req.Stamp())

	out := io.Writer(os.Stdout)
	if renderOpts.output != "" {
		f, err := os.Create(renderOpts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return doc.Render(out)
}

// renderRequest builds the request from --trigger or the text arguments.
func renderRequest(args []string) (model.NotificationRequest, error) {
	if renderOpts.trigger != "" {
		if len(args) > 0 {
			return model.NotificationRequest{}, fmt.Errorf("text arguments cannot be combined with --trigger")
		}
		return input.DecodeTrigger([]byte(renderOpts.trigger))
	}
	if len(args) == 0 {
		return model.NotificationRequest{}, fmt.Errorf("message text or --trigger is required")
	}
	return model.NotificationRequest{
		Text: strings.Join(args, " "),
		Type: model.NormalizeSeverity(renderOpts.typ),
	}, nil
}

func loadPage(path string) (*dom.Document, error) {
	switch path {
	case "":
		return dom.NewDefaultDocument(), nil
	case "-":
		return dom.Parse(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() { _ = f.Close() }()
	return dom.Parse(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
