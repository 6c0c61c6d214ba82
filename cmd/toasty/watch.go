package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/output"
	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/model"
)

var watchOpts struct {
	format   string
	template string
	event    string
	maxLen   int
	showTime bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print toasts as the daemon shows them",
	Long: `Subscribe to the MessageShown signal and print one line per toast.

Formats:
  plain    id, type and text separated by tabs (default)
  json     one JSON object per line
  trigger  HX-Trigger values that toastyd -stdin can replay
  ids      request ids only

Examples:
  toasty watch
  toasty watch -f trigger > replay.jsonl
  toasty watch --template '{{.Class}}: {{.Text}}'`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, json, trigger, ids)")
	watchCmd.Flags().StringVar(&watchOpts.template, "template", "",
		"Custom Go template for plain output")
	watchCmd.Flags().StringVar(&watchOpts.event, "event", "",
		"Event to fire before showMessage in trigger output")
	watchCmd.Flags().IntVar(&watchOpts.maxLen, "max-len", 0,
		"Truncate text to this many bytes (0 = unlimited)")
	watchCmd.Flags().BoolVar(&watchOpts.showTime, "time", false,
		"Prefix plain lines with the relative time")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts := output.DefaultFormatterOptions()
	opts.Template = watchOpts.template
	opts.Event = watchOpts.event
	opts.TextMaxLen = watchOpts.maxLen
	opts.ShowTime = watchOpts.showTime

	formatter, err := output.NewFormatter(output.FormatType(watchOpts.format), opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := dbus.NewSignalWatcher(logger)
	w.SetHandler(func(req model.NotificationRequest) {
		if err := formatter.Format(os.Stdout, req.Stamp()); err != nil {
			logger.Warn("failed to print toast", "id", req.ID, "error", err)
		}
	})

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
