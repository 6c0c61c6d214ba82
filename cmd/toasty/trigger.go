package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/model"
)

var triggerOpts struct {
	typ    string
	event  string
	header bool
}

var triggerCmd = &cobra.Command{
	Use:   "trigger <text>...",
	Short: "Print an HX-Trigger value carrying a showMessage event",
	Long: `Encode a showMessage request as an HX-Trigger header value.

With --event, the named event is fired first with no detail, followed by
showMessage. The output can be fed back to toastyd -stdin.

Examples:
  toasty trigger Saved -t success
  toasty trigger Saved -t success --event itemsChanged --header`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)

	triggerCmd.Flags().StringVarP(&triggerOpts.typ, "type", "t", "",
		"Message type (success, danger, warning, info); ok, error, warn and notice are aliases, other values pass through lowercased")
	triggerCmd.Flags().StringVarP(&triggerOpts.event, "event", "e", "",
		"Event to fire before showMessage")
	triggerCmd.Flags().BoolVar(&triggerOpts.header, "header", false,
		"Prefix the output with 'HX-Trigger: '")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	req := model.NotificationRequest{
		Text: strings.Join(args, " "),
		Type: model.NormalizeSeverity(triggerOpts.typ),
	}

	value, err := input.EncodeTrigger(triggerOpts.event, req)
	if err != nil {
		return err
	}

	if triggerOpts.header {
		fmt.Fprint(os.Stdout, "HX-Trigger: ")
	}
	fmt.Fprintln(os.Stdout, string(value))
	return nil
}
