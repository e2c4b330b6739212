package service

import (
	"strings"
	"testing"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/model"
)

func strPtr(s string) *string { return &s }

func TestScoreScenarios(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	tests := []struct {
		name      string
		result    model.AnalysisResult
		wantValue int
		wantBand  model.Band
	}{
		{
			name: "live text with keyword",
			result: model.AnalysisResult{
				LogText:      "NullPointerException at Login.java:42",
				TextAnalysis: "Root cause: null pointer in login flow due to missing session token.",
				Mode:         model.ModeLive,
			},
			wantValue: 75,
			wantBand:  model.BandMedium,
		},
		{
			name: "demo with empty log",
			result: model.AnalysisResult{
				LogText:      "",
				TextAnalysis: demoTextAnalysis,
				Mode:         model.ModeDemo,
			},
			wantValue: 45,
			wantBand:  model.BandLow,
		},
		{
			name: "text and image with keyword",
			result: model.AnalysisResult{
				LogText:       "ERROR request timeout after 30s",
				TextAnalysis:  "The checkout request failed with a timeout waiting on the payment gateway.",
				ImagePresent:  true,
				ImageAnalysis: strPtr("The page shows a spinner that never resolves and a greyed-out pay button."),
				Mode:          model.ModeLive,
			},
			wantValue: 90,
			wantBand:  model.BandHigh,
		},
		{
			name: "short hedged analysis",
			result: model.AnalysisResult{
				LogText:      "something happened",
				TextAnalysis: "Unclear what failed.",
			},
			wantValue: 20,
			wantBand:  model.BandLow,
		},
		{
			name: "image present but empty analysis is neutral",
			result: model.AnalysisResult{
				LogText:       "log",
				TextAnalysis:  "short",
				ImagePresent:  true,
				ImageAnalysis: strPtr("  "),
			},
			wantValue: 40,
			wantBand:  model.BandLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.result)
			if got.Value != tt.wantValue {
				t.Fatalf("Value = %d, want %d", got.Value, tt.wantValue)
			}
			if got.Band() != tt.wantBand {
				t.Fatalf("Band = %s, want %s", got.Band(), tt.wantBand)
			}
		})
	}
}

func TestScoreIsClamped(t *testing.T) {
	cfg := config.DefaultScoring()
	cfg.Baseline = 95
	cfg.KeywordBonus = 40

	high := NewScorer(cfg).Score(model.AnalysisResult{
		LogText:      "log",
		TextAnalysis: strings.Repeat("timeout ", 20),
	})
	if high.Value != 100 {
		t.Fatalf("Value = %d, want 100", high.Value)
	}

	cfg = config.DefaultScoring()
	cfg.Baseline = 5
	low := NewScorer(cfg).Score(model.AnalysisResult{TextAnalysis: "unclear"})
	if low.Value != 0 {
		t.Fatalf("Value = %d, want 0", low.Value)
	}
}

func TestScoreIsPureAndBandConsistent(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())
	result := model.AnalysisResult{
		LogText:      "FAIL LoginTest",
		TextAnalysis: "A configuration mismatch between staging and prod caused the failure.",
	}
	before := result

	first := scorer.Score(result)
	second := scorer.Score(result)
	if first != second {
		t.Fatalf("Score not deterministic: %+v vs %+v", first, second)
	}
	if result != before {
		t.Fatal("Score mutated its input")
	}

	for v := -10; v <= 110; v++ {
		s := model.NewConfidenceScore(v, 80, 50)
		if s.Value < 0 || s.Value > 100 {
			t.Fatalf("value %d out of range", s.Value)
		}
		var want model.Band
		switch {
		case s.Value >= 80:
			want = model.BandHigh
		case s.Value >= 50:
			want = model.BandMedium
		default:
			want = model.BandLow
		}
		if s.Band() != want {
			t.Fatalf("value %d: band %s, want %s", s.Value, s.Band(), want)
		}
	}
}

func TestMatchedKeywords(t *testing.T) {
	got := MatchedKeywords("a timeout and a config mismatch", []string{"timeout", "null", "Mismatch", ""})
	if strings.Join(got, ",") != "timeout,mismatch" {
		t.Fatalf("MatchedKeywords() = %v", got)
	}
}
