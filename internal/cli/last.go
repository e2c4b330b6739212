package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/report"
	"github.com/spf13/cobra"
)

func newLastCommand() *cobra.Command {
	var (
		dir      string
		showJSON bool
	)

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the most recent report in the reports directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = config.Load().Report.Dir
			}
			return runLast(cmd.OutOrStdout(), dir, showJSON)
		},
	}
	cmd.Flags().StringVar(&dir, "reports-dir", "", "Reports directory (default: $REPORTS_DIR)")
	cmd.Flags().BoolVar(&showJSON, "json", false, "Print the JSON report next to the HTML file")
	return cmd
}

func runLast(w io.Writer, dir string, showJSON bool) error {
	htmlPath, err := report.Latest(dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		abs = htmlPath
	}
	fmt.Fprintln(w, abs)

	if !showJSON {
		return nil
	}
	jsonPath := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("no json report for %s: %w", htmlPath, err)
	}
	_, err = w.Write(data)
	return err
}
