package cli

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kube-rca/triage-bot/internal/client"
	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/db"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/kube-rca/triage-bot/internal/report"
	"github.com/kube-rca/triage-bot/internal/service"
	"github.com/kube-rca/triage-bot/internal/storage"
)

// app - 실행 단위로 생성되는 구성 요소 묶음
type app struct {
	triage  *service.TriageService
	history *db.Postgres
	pool    *pgxpool.Pool
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// buildApp - 설정에서 TriageService와 선택적 싱크를 구성
//
// live 분석 클라이언트, Postgres, MinIO 초기화 실패는 경고만 남깁니다.
// live 클라이언트가 없으면 실행 시 AnalysisUnavailable로 처리됩니다.
func buildApp(ctx context.Context, cfg config.Config, scoring config.ScoringConfig, needLive bool, logger *slog.Logger) *app {
	a := &app{}

	var analyzer client.Analyzer
	if needLive {
		var err error
		analyzer, err = client.NewAnalyzer(ctx, cfg.AI, config.EnvSecretProvider{})
		if err != nil {
			logger.Warn("live analysis client unavailable", "provider", cfg.AI.Provider, "error", err)
		}
	}

	opts := []service.TriageOption{
		service.WithAnalyzerOptions(service.WithLogLimits(cfg.Report.ContextLines, cfg.Report.MaxLogChars)),
	}

	if cfg.Postgres.Enabled() {
		pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			logger.Warn("report history disabled", "error", err)
		} else {
			repo := &db.Postgres{Pool: pool}
			if err := repo.EnsureReportSchema(ctx); err != nil {
				logger.Warn("report history disabled", "error", err)
				pool.Close()
			} else {
				a.pool = pool
				a.history = repo
				opts = append(opts, service.WithHistory(repo))
			}
		}
	}

	if cfg.Storage.Enabled() {
		store, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Warn("report upload disabled", "error", err)
		} else {
			opts = append(opts, service.WithArtifacts(store))
		}
	}

	notifier := service.NewNotifyService(client.NewSlackClient(cfg.Slack), cfg.Webhook)
	if notifier.Enabled() {
		opts = append(opts, service.WithNotifier(notifier))
	}

	// analyzer가 nil 인터페이스면 그대로 nil로 전달됨
	var (
		text   service.TextAnalyzer
		vision service.VisionAnalyzer
	)
	if analyzer != nil {
		text, vision = analyzer, analyzer
	}
	a.triage = service.NewTriageService(text, vision, scoring, report.NewWriter(), opts...)
	return a
}

func parseMode(raw string, demo bool) model.Mode {
	if demo {
		return model.ModeDemo
	}
	if mode, ok := model.ParseMode(raw); ok {
		return mode
	}
	return model.ModeLive
}
