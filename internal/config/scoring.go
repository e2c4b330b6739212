package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringConfig holds the tunable constants of the confidence heuristic.
// Keyword lists are matched case-insensitively as substrings.
type ScoringConfig struct {
	Baseline          int      `yaml:"baseline"`
	SubstantiveLength int      `yaml:"substantive_length"`
	SubstantiveBonus  int      `yaml:"substantive_bonus"`
	ShallowPenalty    int      `yaml:"shallow_penalty"`
	ImageBonus        int      `yaml:"image_bonus"`
	KeywordBonus      int      `yaml:"keyword_bonus"`
	HedgePenalty      int      `yaml:"hedge_penalty"`
	EmptyLogPenalty   int      `yaml:"empty_log_penalty"`
	HighThreshold     int      `yaml:"high_threshold"`
	MediumThreshold   int      `yaml:"medium_threshold"`
	RootCauseKeywords []string `yaml:"root_cause_keywords"`
	HedgingMarkers    []string `yaml:"hedging_markers"`
}

func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Baseline:          50,
		SubstantiveLength: 50,
		SubstantiveBonus:  15,
		ShallowPenalty:    10,
		ImageBonus:        15,
		KeywordBonus:      10,
		HedgePenalty:      20,
		EmptyLogPenalty:   30,
		HighThreshold:     80,
		MediumThreshold:   50,
		RootCauseKeywords: []string{"timeout", "null", "exception", "mismatch", "configuration"},
		HedgingMarkers: []string{
			"unable to determine",
			"unclear",
			"insufficient information",
			"not enough information",
			"cannot determine",
		},
	}
}

// LoadScoring reads a YAML scoring file on top of DefaultScoring.
// An empty path returns the defaults.
func LoadScoring(path string) (ScoringConfig, error) {
	cfg := DefaultScoring()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read scoring file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse scoring file %s: %w", path, err)
	}
	if cfg.MediumThreshold > cfg.HighThreshold {
		return cfg, fmt.Errorf("scoring file %s: medium_threshold %d exceeds high_threshold %d",
			path, cfg.MediumThreshold, cfg.HighThreshold)
	}
	return cfg, nil
}
