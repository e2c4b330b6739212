// Gemini API와 통신하는 텍스트/이미지 분석 클라이언트
//
// 환경변수:
//   - GEMINI_API_KEY: SecretProvider를 통해 주입
//   - AI_MODEL (default: gemini-2.0-flash)
//   - AI_TIMEOUT (default: 60s)

package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/config"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig, secrets config.SecretProvider) (*GeminiClient, error) {
	apiKey, err := secrets.Secret(config.APIKeyName(config.ProviderGemini))
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		clientCfg.HTTPOptions = genai.HTTPOptions{Timeout: &timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model, timeout: cfg.Timeout}, nil
}

func (c *GeminiClient) AnalyzeText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return c.generate(ctx, contents)
}

func (c *GeminiClient) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return c.generate(ctx, contents)
}

func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	if res == nil {
		return "", fmt.Errorf("empty generate content result")
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("empty generate content result")
	}
	return text, nil
}
