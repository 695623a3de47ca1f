// Package cli holds the studio_backend commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studio_backend",
	Short: "Studio Ops backend",
	Long: `Studio Ops backend: lead pipeline, lead-to-client conversion, client portal
and the studio ledger. Configuration is read from the environment and an
optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the command selected by os.Args.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}
