package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toasty/internal/dbus"
)

var statusOpts struct {
	output  string
	timeout time.Duration
}

// statusReport is the machine-readable form of toasty status.
type statusReport struct {
	Running bool         `json:"running" yaml:"running"`
	Server  string       `json:"server,omitempty" yaml:"server,omitempty"`
	Version string       `json:"version,omitempty" yaml:"version,omitempty"`
	Last    *dbus.Status `json:"last,omitempty" yaml:"last,omitempty"`
	Count   uint32       `json:"count" yaml:"count"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon status and the last toast",
	Long: `Query toastyd for the most recently shown toast and the number of
toasts shown since it started.

Output formats:
  text  Human-readable summary (default)
  json  JSON object
  yaml  YAML document`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.output, "output", "o", "text",
		"Output format (text, json, yaml)")
	statusCmd.Flags().DurationVar(&statusOpts.timeout, "timeout", 5*time.Second,
		"D-Bus call timeout")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), statusOpts.timeout)
	defer cancel()

	report, err := fetchStatus(ctx)
	if err != nil {
		return err
	}
	return outputStatus(os.Stdout, report, statusOpts.output, time.Now())
}

// fetchStatus queries the daemon. A daemon that is not running is reported,
// not returned as an error.
func fetchStatus(ctx context.Context) (statusReport, error) {
	client, err := dbus.Connect()
	if err != nil {
		return statusReport{}, err
	}
	defer func() { _ = client.Close() }()

	info, err := client.ServerInformation(ctx)
	if err != nil {
		if errors.Is(err, dbus.ErrNotRunning) {
			return statusReport{}, nil
		}
		return statusReport{}, err
	}

	st, err := client.Status(ctx)
	if err != nil {
		return statusReport{}, err
	}

	report := statusReport{
		Running: true,
		Server:  info.Name,
		Version: info.Version,
		Count:   st.Count,
	}
	if st.HasMessage() {
		report.Last = &st
	}
	return report, nil
}

func outputStatus(w io.Writer, report statusReport, format string, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(report)
	case "text", "":
		_, err := io.WriteString(w, formatStatusText(report, now))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func formatStatusText(report statusReport, now time.Time) string {
	if !report.Running {
		return "toastyd: not running\n"
	}

	s := fmt.Sprintf("%s %s: running, %d shown\n", report.Server, report.Version, report.Count)
	if report.Last == nil {
		return s + "last: none\n"
	}

	typ := report.Last.Type
	if typ == "" {
		typ = "none"
	}
	s += fmt.Sprintf("last: %q (type %s, %s)\n",
		report.Last.Text, typ, humanize.RelTime(report.Last.ShownAt, now, "ago", "from now"))
	return s
}
