// Package main provides the CLI entry point for dataqc-go.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	logJSON  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dataqc",
		Short: "Check an Excel workbook against a PDF specification",
		Long: `dataqc-go compares an Excel workbook against a PDF specification and
reports data-quality issues with cell locations, severity and Excel-only fixes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSnapshotCmd(),
		newTextCmd(),
		newServeCmd(),
	)
	return rootCmd
}
