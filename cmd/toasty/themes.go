package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/theme"
)

var themesOpts struct {
	json bool
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available toast themes",
	Long: `List the bundled themes followed by user themes found in
~/.config/toasty/themes. A user theme with a bundled name overrides it.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().BoolVar(&themesOpts.json, "json", false, "Output as JSON")
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.ListAvailableThemes(theme.ThemesDir())
	if err != nil {
		return err
	}

	if themesOpts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(themes)
	}

	current := getConfig().Theme.Name
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range themes {
		marker := " "
		if t.Name == current {
			marker = "*"
		}
		source := "bundled"
		if !t.IsBundled {
			source = t.Path
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", marker, t.Name, source)
	}
	return tw.Flush()
}
