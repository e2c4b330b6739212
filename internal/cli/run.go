package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/kube-rca/triage-bot/internal/service"
	"github.com/spf13/cobra"
)

type runFlags struct {
	logPath      string
	imagePath    string
	logsDir      string
	demo         bool
	destination  string
	reportsDir   string
	reportFile   string
	noJSON       bool
	noConfidence bool
	fallbackDemo bool
	scoringFile  string
}

func newRunCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze a failed test log (and screenshot) and write a triage report",
		Long: `Run one triage pass: read the log and optional screenshot, analyze them
(live AI provider or --demo), score the analysis and write the report.

Usage:
  triage-bot run --log logs/fail_log.txt --image logs/failure.png
  triage-bot run --demo                          # canned analysis, no API calls
  triage-bot run --destination single --no-json  # overwrite triage_report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriage(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.logPath, "log", "", "Path to the failed test log (default: $LOG_PATH or first *.txt/*.log in --logs-dir)")
	f.StringVar(&flags.imagePath, "image", "", "Path to a PNG/JPEG screenshot (default: $IMAGE_PATH or first image in --logs-dir)")
	f.StringVar(&flags.logsDir, "logs-dir", "", "Directory searched when --log/--image are not given (default: $LOGS_DIR)")
	f.BoolVar(&flags.demo, "demo", false, "Use canned demo analysis instead of calling the AI provider")
	f.StringVar(&flags.destination, "destination", "", "Report destination: single or timestamped (default: $REPORT_DESTINATION)")
	f.StringVar(&flags.reportsDir, "reports-dir", "", "Directory for timestamped reports (default: $REPORTS_DIR)")
	f.StringVar(&flags.reportFile, "report-file", "", "HTML path for the single destination (default: $REPORT_FILE)")
	f.BoolVar(&flags.noJSON, "no-json", false, "Do not write the JSON report")
	f.BoolVar(&flags.noConfidence, "no-confidence", false, "Do not compute or show the confidence score")
	f.BoolVar(&flags.fallbackDemo, "fallback-demo", false, "Fall back to demo analysis when the live provider fails")
	f.StringVar(&flags.scoringFile, "scoring", "", "YAML file overriding the confidence scoring constants (default: $SCORING_FILE)")
	return cmd
}

// applyRunFlags - CLI 플래그가 환경변수 설정보다 우선
func applyRunFlags(cfg *config.Config, flags runFlags) {
	if flags.logPath != "" {
		cfg.Input.LogPath = flags.logPath
	}
	if flags.imagePath != "" {
		cfg.Input.ImagePath = flags.imagePath
	}
	if flags.logsDir != "" {
		cfg.Input.LogsDir = flags.logsDir
	}
	if flags.demo {
		cfg.AI.Mode = string(model.ModeDemo)
	}
	if flags.destination != "" {
		cfg.Report.Destination = flags.destination
	}
	if flags.reportsDir != "" {
		cfg.Report.Dir = flags.reportsDir
	}
	if flags.reportFile != "" {
		cfg.Report.SingleFilePath = flags.reportFile
	}
	if flags.noJSON {
		cfg.Report.IncludeJSON = false
	}
	if flags.noConfidence {
		cfg.Report.IncludeConfidence = false
	}
	if flags.fallbackDemo {
		cfg.Report.FallbackToDemo = true
	}
	if flags.scoringFile != "" {
		cfg.Report.ScoringFile = flags.scoringFile
	}
}

func runTriage(cmd *cobra.Command, flags runFlags) error {
	ctx := cmd.Context()
	logger := logging.New("cli")

	cfg := config.Load()
	applyRunFlags(&cfg, flags)

	scoring, err := config.LoadScoring(cfg.Report.ScoringFile)
	if err != nil {
		return err
	}
	opts, err := service.OptionsFromConfig(cfg.Report)
	if err != nil {
		return err
	}
	mode := parseMode(cfg.AI.Mode, false)

	a := buildApp(ctx, cfg, scoring, mode == model.ModeLive, logger)
	defer a.Close()

	outcome, err := a.triage.Run(ctx, service.TriageRequest{
		Paths: service.InputPaths{
			LogPath:   cfg.Input.LogPath,
			ImagePath: cfg.Input.ImagePath,
			LogsDir:   cfg.Input.LogsDir,
		},
		Mode:    mode,
		Options: opts,
	})
	if err != nil {
		var unavailable *service.AnalysisUnavailableError
		if errors.As(err, &unavailable) && unavailable.Quota() {
			return fmt.Errorf("%w (provider quota exhausted; retry later or use --demo / --fallback-demo)", err)
		}
		return err
	}

	printSummary(cmd.OutOrStdout(), outcome)
	return nil
}

func printSummary(w io.Writer, outcome *model.TriageOutcome) {
	rep := outcome.Report
	fmt.Fprintln(w, "Triage report generated")
	fmt.Fprintf(w, "  mode:       %s", rep.Mode)
	if outcome.FellBack {
		fmt.Fprint(w, " (fallback after live analysis failure)")
	}
	fmt.Fprintln(w)
	if rep.IncludeConfidence {
		fmt.Fprintf(w, "  confidence: %d%% (%s)\n", rep.Confidence.Value, rep.Confidence.Band())
	}
	fmt.Fprintf(w, "  html:       %s\n", outcome.Paths.HTMLPath)
	if outcome.Paths.JSONPath != "" {
		fmt.Fprintf(w, "  json:       %s\n", outcome.Paths.JSONPath)
	}
	for _, s := range outcome.Stages {
		if !s.OK {
			fmt.Fprintf(w, "  warning:    %s: %s\n", s.Stage, s.Message)
		}
	}
}
