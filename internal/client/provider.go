package client

import (
	"context"
	"fmt"

	"github.com/kube-rca/triage-bot/internal/config"
)

// Analyzer is implemented by every provider client: text analysis plus
// screenshot (vision) analysis.
type Analyzer interface {
	AnalyzeText(ctx context.Context, prompt string) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// NewAnalyzer builds the provider client selected by cfg.Provider.
func NewAnalyzer(ctx context.Context, cfg config.AIConfig, secrets config.SecretProvider) (Analyzer, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		c, err := NewGeminiClient(ctx, cfg, secrets)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(cfg, secrets)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderAgent:
		c := NewAgentClient(cfg)
		if !c.IsConfigured() {
			return nil, fmt.Errorf("missing AGENT_URL")
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
