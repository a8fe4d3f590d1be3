package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/facet3d/facet/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "facet",
	Short: "A CLI for the facet push/pull solid modeling engine",
	Long: `facet exercises the push/pull solid modeling engine from the command
line: create primitives, run region-based push/pull edits headlessly,
inspect mesh statistics, and round-trip scene snapshots.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostics logging")
}
