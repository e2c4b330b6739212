package template

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"

	"github.com/kube-rca/triage-bot/internal/model"
)

//go:embed report.html.tmpl
var reportHTML string

var reportTemplate = htmltemplate.Must(htmltemplate.New("report").Parse(reportHTML))

type htmlView struct {
	Generated       string
	Timestamp       string
	Mode            model.Mode
	ShowConfidence  bool
	Confidence      int
	Band            model.Band
	TextAnalysis    string
	ImagePresent    bool
	ImageAnalysis   string
	HasKeyErrors    bool
	KeyErrors       model.KeyErrors
	Recommendations []string
	LogExcerpt      string
	LogFile         string
	ImageFile       string
}

// RenderHTML - 인라인 CSS를 포함한 단일 HTML 문서 (모든 값은 escape됨)
func RenderHTML(report model.Report) ([]byte, error) {
	doc := report.Document()
	view := htmlView{
		Generated:       report.Timestamp.Format("2006-01-02 15:04:05"),
		Timestamp:       doc.Timestamp,
		Mode:            report.Mode,
		ShowConfidence:  report.IncludeConfidence,
		Confidence:      report.Confidence.Value,
		Band:            report.Confidence.Band(),
		TextAnalysis:    report.TextAnalysis,
		ImagePresent:    report.ImagePresent,
		HasKeyErrors:    !report.KeyErrors.Empty(),
		KeyErrors:       report.KeyErrors,
		Recommendations: doc.Recommendations,
		LogExcerpt:      report.LogExcerpt,
		LogFile:         doc.LogFile,
	}
	if doc.ImageAnalysis != nil {
		view.ImageAnalysis = *doc.ImageAnalysis
	}
	if doc.ImageFile != nil {
		view.ImageFile = *doc.ImageFile
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJSON - 평면 JSON 문서 (들여쓰기 2칸)
func RenderJSON(report model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render json report: %w", err)
	}
	return append(data, '\n'), nil
}
