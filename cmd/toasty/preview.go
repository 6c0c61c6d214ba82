package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Try toasts in an interactive terminal preview",
	Long: `Launch a terminal playground bound to its own showMessage bus.

Type a message and press enter to show it. The toast is hidden again after
the timeout configured for its type.

Key bindings:
  enter       Send the message
  tab         Next message type
  shift+tab   Previous message type
  esc         Dismiss the toast
  ctrl+l      Clear the input
  f1          Toggle help
  ctrl+c      Quit

Input starting with '{' is decoded as HX-Trigger JSON, e.g.
  {"showMessage":{"text":"Saved","type":"success"}}`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Config: getConfig(),
	})
}
