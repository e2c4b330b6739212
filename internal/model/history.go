package model

import "time"

// ReportHistory - triage_reports 테이블 한 행
type ReportHistory struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Mode           Mode      `json:"mode"`
	Confidence     *int      `json:"confidence"`
	ConfidenceBand *Band     `json:"confidence_band"`
	HTMLPath       string    `json:"html_path"`
	JSONPath       string    `json:"json_path"`
	ObjectURL      string    `json:"object_url,omitempty"`
	TextAnalysis   string    `json:"text_analysis"`
}
