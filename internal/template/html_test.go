package template

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kube-rca/triage-bot/internal/model"
)

func sampleReport() model.Report {
	img := "The login button is missing and the page shows a 500 error."
	return model.Report{
		Timestamp:         time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC),
		Mode:              model.ModeLive,
		LogExcerpt:        "ERROR LoginTest failed\nNullPointerException: session was null <nil>",
		TextAnalysis:      "Root cause: null pointer in login flow due to missing session token & cookie.",
		ImagePresent:      true,
		ImageAnalysis:     &img,
		Confidence:        model.NewConfidenceScore(90, 80, 50),
		IncludeConfidence: true,
		Recommendations:   []string{"Check the session store.", "Attach <more> logs."},
		KeyErrors: model.KeyErrors{
			Exceptions:  []model.ExceptionMatch{{Type: "NullPointerException", Message: "session was null <nil>"}},
			StackFrames: 2,
		},
		LogFile:   "logs/fail_log.txt",
		ImageFile: "logs/login_screen.png",
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	out, err := RenderHTML(sampleReport())
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	page := string(out)
	if strings.Contains(page, "<nil>") || strings.Contains(page, "<more>") {
		t.Fatal("user content was not escaped")
	}
	if !strings.Contains(page, "&lt;more&gt;") {
		t.Fatal("expected escaped recommendation")
	}
}

func TestRenderHTMLContainsEveryJSONField(t *testing.T) {
	report := sampleReport()

	htmlOut, err := RenderHTML(report)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	jsonOut, err := RenderJSON(report)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var doc model.ReportDocument
	if err := json.Unmarshal(jsonOut, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	page := html.UnescapeString(string(htmlOut))

	want := []string{
		doc.Timestamp,
		string(doc.Mode),
		doc.LogExcerpt,
		doc.TextAnalysis,
		"Screenshot: attached",
		*doc.ImageAnalysis,
		strconv.Itoa(*doc.Confidence) + "%",
		string(*doc.ConfidenceBand),
		doc.LogFile,
		*doc.ImageFile,
	}
	want = append(want, doc.Recommendations...)
	for _, s := range want {
		if !strings.Contains(page, s) {
			t.Errorf("html is missing %q", s)
		}
	}
	if !strings.Contains(page, "Error Summary") {
		t.Error("html is missing the error summary section")
	}
}

func TestRenderHTMLBandColours(t *testing.T) {
	tests := []struct {
		value int
		class string
	}{
		{85, "band-high"},
		{65, "band-medium"},
		{20, "band-low"},
	}
	for _, tt := range tests {
		report := sampleReport()
		report.Confidence = model.NewConfidenceScore(tt.value, 80, 50)
		out, err := RenderHTML(report)
		if err != nil {
			t.Fatalf("RenderHTML() error = %v", err)
		}
		if !strings.Contains(string(out), `class="value `+tt.class+`"`) {
			t.Errorf("confidence %d: expected class %s", tt.value, tt.class)
		}
	}
}

func TestRenderWithoutConfidenceOrImage(t *testing.T) {
	report := sampleReport()
	report.IncludeConfidence = false
	report.ImagePresent = false
	report.ImageAnalysis = nil

	out, err := RenderHTML(report)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	page := string(out)
	if strings.Contains(page, "<h2>Confidence</h2>") {
		t.Error("confidence section should be hidden")
	}
	if !strings.Contains(page, "Screenshot: not provided") {
		t.Error("expected screenshot placeholder")
	}
	if !strings.Contains(page, "Screenshot file: none") {
		t.Error("expected no screenshot file in footer")
	}

	jsonOut, err := RenderJSON(report)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(jsonOut, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := raw["confidence"]; ok {
		t.Error("confidence should be omitted")
	}
	if v, ok := raw["image_analysis"]; !ok || v != nil {
		t.Errorf("image_analysis = %v, want null", v)
	}
	if v, ok := raw["image_file"]; !ok || v != nil {
		t.Errorf("image_file = %v, want null", v)
	}
}
