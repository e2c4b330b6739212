// Package template renders triage reports: the HTML report document and
// webhook notification bodies.
//
// webhook body 변수 형식:
//
//	{{report.timestamp}}, {{report.mode}}, {{report.confidence}},
//	{{report.confidence_band}}, {{report.text_analysis}}, {{report.image_analysis}},
//	{{report.html_path}}, {{report.json_path}}, {{report.recommendations}}
package template

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/model"
)

// ReportData - webhook 템플릿 렌더링에 사용할 리포트 데이터
type ReportData struct {
	Timestamp       time.Time
	Mode            string
	Confidence      *int
	ConfidenceBand  string
	TextAnalysis    string
	ImageAnalysis   string
	HTMLPath        string
	JSONPath        string
	Recommendations []string
}

// ReportDataFromModel - model.Report와 출력 경로에서 ReportData 생성
func ReportDataFromModel(report model.Report, paths model.ReportPaths) ReportData {
	data := ReportData{
		Timestamp:       report.Timestamp,
		Mode:            string(report.Mode),
		TextAnalysis:    report.TextAnalysis,
		HTMLPath:        paths.HTMLPath,
		JSONPath:        paths.JSONPath,
		Recommendations: report.Recommendations,
	}
	if report.ImageAnalysis != nil {
		data.ImageAnalysis = *report.ImageAnalysis
	}
	if report.IncludeConfidence {
		v := report.Confidence.Value
		data.Confidence = &v
		data.ConfidenceBand = string(report.Confidence.Band())
	}
	return data
}

// RenderBody - webhook body 템플릿의 변수를 실제 값으로 치환
//
// jsonEscape가 true이면 값은 JSON 문자열 내부에 들어갈 수 있도록 escape됩니다.
// 신뢰도가 꺼져 있으면 confidence 변수는 빈 문자열로 치환됩니다.
func RenderBody(body string, report ReportData, jsonEscape bool) string {
	confidence := ""
	if report.Confidence != nil {
		confidence = strconv.Itoa(*report.Confidence)
	}
	timestamp := ""
	if !report.Timestamp.IsZero() {
		timestamp = report.Timestamp.Format(time.RFC3339)
	}

	values := []string{
		"{{report.timestamp}}", timestamp,
		"{{report.mode}}", report.Mode,
		"{{report.confidence}}", confidence,
		"{{report.confidence_band}}", report.ConfidenceBand,
		"{{report.text_analysis}}", report.TextAnalysis,
		"{{report.image_analysis}}", report.ImageAnalysis,
		"{{report.html_path}}", report.HTMLPath,
		"{{report.json_path}}", report.JSONPath,
		"{{report.recommendations}}", strings.Join(report.Recommendations, "\n"),
	}
	if jsonEscape {
		for i := 1; i < len(values); i += 2 {
			values[i] = escapeJSONString(values[i])
		}
	}
	return strings.NewReplacer(values...).Replace(body)
}

// IsJSONContentType - "application/json", "application/vnd.foo+json" 등
func IsJSONContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

func escapeJSONString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	// 앞뒤 따옴표 제거
	return string(b[1 : len(b)-1])
}
