package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestConfidenceBandThresholds(t *testing.T) {
	tests := []struct {
		value int
		want  Band
	}{
		{value: -5, want: BandLow},
		{value: 0, want: BandLow},
		{value: 49, want: BandLow},
		{value: 50, want: BandMedium},
		{value: 79, want: BandMedium},
		{value: 80, want: BandHigh},
		{value: 100, want: BandHigh},
		{value: 140, want: BandHigh},
	}
	for _, tt := range tests {
		score := NewConfidenceScore(tt.value, DefaultHighThreshold, DefaultMediumThreshold)
		if score.Value < 0 || score.Value > 100 {
			t.Fatalf("value %d not clamped: %d", tt.value, score.Value)
		}
		if got := score.Band(); got != tt.want {
			t.Errorf("Band(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestZeroScoreUsesDefaultThresholds(t *testing.T) {
	if got := (ConfidenceScore{Value: 80}).Band(); got != BandHigh {
		t.Fatalf("expected high, got %s", got)
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("demo"); !ok || m != ModeDemo {
		t.Fatalf("expected demo")
	}
	if _, ok := ParseMode("DEMO"); ok {
		t.Fatalf("expected case-sensitive parse")
	}
}

func TestReportDocumentJSON(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	report := NewReport(
		AnalysisResult{LogExcerpt: "boom", TextAnalysis: "analysis", Mode: ModeDemo, Timestamp: ts},
		NewConfidenceScore(42, 80, 50),
		true,
		nil,
		KeyErrors{},
	)

	data, err := json.Marshal(report.Document())
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"timestamp":       "2026-03-01T12:30:00Z",
		"mode":            "demo",
		"log_excerpt":     "boom",
		"text_analysis":   "analysis",
		"image_present":   false,
		"image_analysis":  nil,
		"confidence":      float64(42),
		"confidence_band": "low",
		"recommendations": []any{},
		"log_file":        "",
		"image_file":      nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestReportDocumentOmitsConfidenceWhenDisabled(t *testing.T) {
	img := "broken layout"
	report := NewReport(
		AnalysisResult{TextAnalysis: "a", ImagePresent: true, ImageAnalysis: &img, Mode: ModeLive},
		NewConfidenceScore(90, 80, 50),
		false,
		[]string{"r1"},
		KeyErrors{},
	)
	doc := report.Document()
	if doc.Confidence != nil || doc.ConfidenceBand != nil {
		t.Fatalf("expected confidence omitted, got %+v", doc)
	}
	if doc.ImageAnalysis == nil || *doc.ImageAnalysis != img {
		t.Fatalf("expected image analysis, got %v", doc.ImageAnalysis)
	}
}

func TestReportDocumentInputFiles(t *testing.T) {
	img := "broken layout"
	report := NewReport(
		AnalysisResult{TextAnalysis: "a", ImagePresent: true, ImageAnalysis: &img, Mode: ModeLive},
		NewConfidenceScore(90, 80, 50),
		true,
		nil,
		KeyErrors{},
	)
	report.LogFile = "logs/fail_log.txt"
	report.ImageFile = "logs/screenshot.png"

	doc := report.Document()
	if doc.LogFile != "logs/fail_log.txt" {
		t.Fatalf("LogFile = %q", doc.LogFile)
	}
	if doc.ImageFile == nil || *doc.ImageFile != "logs/screenshot.png" {
		t.Fatalf("ImageFile = %v", doc.ImageFile)
	}

	report.ImagePresent = false
	report.ImageAnalysis = nil
	if doc := report.Document(); doc.ImageFile != nil {
		t.Fatalf("expected null image_file without a screenshot, got %q", *doc.ImageFile)
	}
}
