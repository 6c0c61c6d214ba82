package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/model"
)

var sendOpts struct {
	typ     string
	timeout time.Duration
	quiet   bool
}

var sendCmd = &cobra.Command{
	Use:   "send <text>...",
	Short: "Show a toast through the running daemon",
	Long: `Send a showMessage request to toastyd over D-Bus.

The arguments are joined with spaces to form the message text. The text is
shown verbatim; markup is not interpreted.

Examples:
  toasty send Saved --type success
  toasty send "Disk almost full" -t warning`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.typ, "type", "t", "",
		"Message type (success, danger, warning, info); ok, error, warn and notice are aliases, other values pass through lowercased")
	sendCmd.Flags().DurationVar(&sendOpts.timeout, "timeout", 5*time.Second,
		"D-Bus call timeout")
	sendCmd.Flags().BoolVarP(&sendOpts.quiet, "quiet", "q", false,
		"Do not print the request id")
}

func runSend(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	typ := model.NormalizeSeverity(sendOpts.typ)
	if typ != "" && !model.IsKnownSeverity(typ) {
		logger.Debug("sending non-standard message type", "type", typ)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendOpts.timeout)
	defer cancel()

	client, err := dbus.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	id, err := client.ShowMessage(ctx, text, typ)
	if err != nil {
		if errors.Is(err, dbus.ErrNotRunning) {
			return fmt.Errorf("%w (start it with toastyd)", err)
		}
		return err
	}

	if !sendOpts.quiet {
		fmt.Fprintln(os.Stdout, id)
	}
	return nil
}
