package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/db"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent triage reports stored in Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of reports to list")
	return cmd
}

func runHistory(ctx context.Context, w io.Writer, limit int) error {
	cfg := config.Load()
	if !cfg.Postgres.Enabled() {
		return fmt.Errorf("report history requires DATABASE_URL or PGUSER/PGDATABASE")
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := &db.Postgres{Pool: pool}
	if err := repo.EnsureReportSchema(ctx); err != nil {
		return err
	}
	list, err := repo.ListReports(ctx, limit)
	if err != nil {
		return err
	}
	return printHistory(w, list)
}

func printHistory(w io.Writer, list []model.ReportHistory) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no reports recorded yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tMODE\tCONFIDENCE\tREPORT")
	for _, rec := range list {
		confidence := "-"
		if rec.Confidence != nil {
			confidence = fmt.Sprintf("%d%%", *rec.Confidence)
			if rec.ConfidenceBand != nil {
				confidence += " (" + string(*rec.ConfidenceBand) + ")"
			}
		}
		location := rec.HTMLPath
		if rec.ObjectURL != "" {
			location = rec.ObjectURL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.Mode, confidence, location)
	}
	return tw.Flush()
}
