// 리포트 생성 알림 (Slack 요약 + 사용자 설정 webhook)
//
// Slack과 webhook은 서로 독립적으로 동작합니다.
// 한 쪽이 실패해도 다른 쪽 전송은 계속 진행합니다.

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/kube-rca/triage-bot/internal/model"
	tmpl "github.com/kube-rca/triage-bot/internal/template"
)

// WEBHOOK_BODY가 비어 있을 때 사용하는 기본 body
const defaultWebhookBody = `{"text":"Triage report ({{report.mode}}, confidence {{report.confidence}} {{report.confidence_band}}): {{report.html_path}}","analysis":"{{report.text_analysis}}","timestamp":"{{report.timestamp}}"}`

// slackReporter - Slack 클라이언트 인터페이스 (리포트 요약 전용)
type slackReporter interface {
	IsConfigured() bool
	SendReport(ctx context.Context, report model.Report, paths model.ReportPaths) error
}

// NotifyService - 리포트 생성 후 Slack/webhook으로 알림을 전송하는 서비스
type NotifyService struct {
	slack      slackReporter
	webhook    config.WebhookConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNotifyService 생성자 (slack이 nil이면 Slack 전송 생략)
func NewNotifyService(slack slackReporter, webhook config.WebhookConfig) *NotifyService {
	return &NotifyService{
		slack:   slack,
		webhook: webhook,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.New("notify"),
	}
}

// Enabled - 설정된 알림 대상이 하나라도 있는지 여부
func (s *NotifyService) Enabled() bool {
	return (s.slack != nil && s.slack.IsConfigured()) || s.webhook.URL != ""
}

// Notify - 설정된 모든 대상에 전송하고 실패를 모아서 반환
func (s *NotifyService) Notify(ctx context.Context, report model.Report, paths model.ReportPaths) error {
	var errs []error

	if s.slack != nil && s.slack.IsConfigured() {
		if err := s.slack.SendReport(ctx, report, paths); err != nil {
			errs = append(errs, fmt.Errorf("slack: %w", err))
		} else {
			s.logger.Info("report sent to slack", "html", paths.HTMLPath)
		}
	}

	if s.webhook.URL != "" {
		body := s.webhook.Body
		if body == "" {
			body = defaultWebhookBody
		}
		contentType := s.webhook.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		rendered := tmpl.RenderBody(body, tmpl.ReportDataFromModel(report, paths), tmpl.IsJSONContentType(contentType))

		if err := s.sendHTTP(ctx, contentType, rendered); err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", s.webhook.URL, err))
		} else {
			s.logger.Info("report delivered to webhook", "url", s.webhook.URL)
		}
	}

	return errors.Join(errs...)
}

// sendHTTP - 렌더링된 body를 webhook URL로 POST
func (s *NotifyService) sendHTTP(ctx context.Context, contentType, body string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook.URL, bytes.NewBufferString(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
