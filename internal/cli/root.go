// Package cli wires the triage-bot commands.
package cli

import (
	"fmt"
	"os"

	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the command tree. Each call returns a fresh tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "triage-bot",
		Short: "Failure triage reports from test logs and screenshots",
		Long: `triage-bot reads a failed test log and an optional screenshot, asks an AI
provider (or canned demo analysis) what went wrong, scores how confident the
analysis is and writes an HTML + JSON triage report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat, cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newHistoryCommand())
	root.AddCommand(newLastCommand())
	root.Version = version
	return root
}

// Execute runs the root command; the caller exits 1 on error.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
