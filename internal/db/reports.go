package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kube-rca/triage-bot/internal/model"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// EnsureReportSchema - triage_reports 테이블 생성
func (db *Postgres) EnsureReportSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS triage_reports (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			mode TEXT NOT NULL CHECK (mode IN ('live', 'demo')),
			confidence INTEGER CHECK (confidence BETWEEN 0 AND 100),
			confidence_band TEXT CHECK (confidence_band IN ('high', 'medium', 'low')),
			html_path TEXT NOT NULL,
			json_path TEXT NOT NULL DEFAULT '',
			object_url TEXT NOT NULL DEFAULT '',
			text_analysis TEXT NOT NULL DEFAULT ''
		)
		`,
		`CREATE INDEX IF NOT EXISTS triage_reports_created_at_idx ON triage_reports(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure triage_reports schema: %w", err)
		}
	}
	return nil
}

// InsertReport - 리포트 이력 저장 (ID/CreatedAt이 비어 있으면 채움)
func (db *Postgres) InsertReport(ctx context.Context, rec *model.ReportHistory) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var band *string
	if rec.ConfidenceBand != nil {
		b := string(*rec.ConfidenceBand)
		band = &b
	}

	query := `
		INSERT INTO triage_reports (
			id, created_at, mode, confidence, confidence_band,
			html_path, json_path, object_url, text_analysis
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := db.Pool.Exec(ctx, query,
		rec.ID,
		rec.CreatedAt,
		string(rec.Mode),
		rec.Confidence,
		band,
		rec.HTMLPath,
		rec.JSONPath,
		rec.ObjectURL,
		rec.TextAnalysis,
	)
	if err != nil {
		return fmt.Errorf("failed to insert triage report: %w", err)
	}
	return nil
}

// ListReports - 최신순 리포트 이력 조회
func (db *Postgres) ListReports(ctx context.Context, limit int) ([]model.ReportHistory, error) {
	query := `
		SELECT id, created_at, mode, confidence, confidence_band,
			html_path, json_path, object_url, text_analysis
		FROM triage_reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := db.Pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list triage reports: %w", err)
	}
	defer rows.Close()

	list := []model.ReportHistory{}
	for rows.Next() {
		var (
			rec  model.ReportHistory
			id   uuid.UUID
			mode string
			band *string
		)
		if err := rows.Scan(
			&id,
			&rec.CreatedAt,
			&mode,
			&rec.Confidence,
			&band,
			&rec.HTMLPath,
			&rec.JSONPath,
			&rec.ObjectURL,
			&rec.TextAnalysis,
		); err != nil {
			return nil, fmt.Errorf("failed to scan triage report: %w", err)
		}
		rec.ID = id.String()
		rec.Mode = model.Mode(mode)
		if band != nil {
			b := model.Band(*band)
			rec.ConfidenceBand = &b
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate triage reports: %w", err)
	}
	return list, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
