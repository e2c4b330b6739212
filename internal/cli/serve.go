package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/handler"
	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/kube-rca/triage-bot/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the triage HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $SERVER_ADDR or :8080)")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	logger := logging.New("server")

	cfg := config.Load()
	if addr != "" {
		cfg.Server.Addr = addr
	}
	scoring, err := config.LoadScoring(cfg.Report.ScoringFile)
	if err != nil {
		return err
	}
	opts, err := service.OptionsFromConfig(cfg.Report)
	if err != nil {
		return err
	}
	defaultMode := parseMode(cfg.AI.Mode, false)

	// 요청마다 mode가 달라질 수 있으므로 live 클라이언트는 항상 준비
	a := buildApp(ctx, cfg, scoring, true, logger)
	defer a.Close()

	routerCfg := handler.RouterConfig{
		Triage:         handler.NewTriageHandler(a.triage, opts, defaultMode),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	}
	if a.history != nil {
		routerCfg.Reports = handler.NewReportsHandler(a.history)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "default_mode", defaultMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
