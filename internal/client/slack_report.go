// Slack 리포트 요약 메시지 관련 메서드 정의

package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/kube-rca/triage-bot/internal/model"
)

// Slack attachment 본문 최대 길이 (초과 시 자름)
const slackTextLimit = 3000

// 리포트 요약을 Slack으로 전송
func (c *SlackClient) SendReport(ctx context.Context, report model.Report, paths model.ReportPaths) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token or channel ID not configured")
	}

	fields := []SlackField{{Title: "Mode", Value: string(report.Mode), Short: true}}
	if report.IncludeConfidence {
		fields = append(fields, SlackField{
			Title: "Confidence",
			Value: fmt.Sprintf("%d%% (%s)", report.Confidence.Value, report.Confidence.Band()),
			Short: true,
		})
	}
	fields = append(fields,
		SlackField{Title: "Generated", Value: report.Timestamp.Format("2006-01-02 15:04:05"), Short: true},
		SlackField{Title: "HTML Report", Value: paths.HTMLPath, Short: false},
	)
	if len(report.Recommendations) > 0 {
		fields = append(fields, SlackField{
			Title: "Recommendations",
			Value: "• " + strings.Join(report.Recommendations, "\n• "),
			Short: false,
		})
	}

	msg := SlackMessage{
		Channel: c.channelID,
		Attachments: []SlackAttachment{
			{
				Color:  colorByBand(report),
				Title:  "🔍 Triage Report",
				Text:   truncateRunes(toSlackMarkdown(report.TextAnalysis), slackTextLimit),
				Fields: fields,
				Footer: "triage-bot",
				Ts:     report.Timestamp.Unix(),
			},
		},
	}

	_, err := c.send(ctx, msg)
	return err
}

// 신뢰도 구간에 따른 메시지 색상 반환
func colorByBand(report model.Report) string {
	if !report.IncludeConfidence {
		return "#6f42c1" // purple
	}
	switch report.Confidence.Band() {
	case model.BandHigh:
		return "#28a745" // green
	case model.BandMedium:
		return "#fd7e14" // orange
	default:
		return "#dc3545" // red
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
