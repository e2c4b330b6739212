// OpenAI 호환 엔드포인트용 텍스트/이미지 분석 클라이언트
//
// 환경변수:
//   - OPENAI_API_KEY: SecretProvider를 통해 주입
//   - AI_BASE_URL: OpenAI 호환 게이트웨이 주소 (선택)
//   - AI_MODEL (default: gpt-4o)

package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/sashabaranov/go-openai"
)

const maxTokens = 1500

type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(cfg config.AIConfig, secrets config.SecretProvider) (*OpenAIClient, error) {
	apiKey, err := secrets.Secret(config.APIKeyName(config.ProviderOpenAI))
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *OpenAIClient) AnalyzeText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func (c *OpenAIClient) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	return c.complete(ctx, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURI,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	})
}

func (c *OpenAIClient) complete(ctx context.Context, msg openai.ChatCompletionMessage) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessage{msg},
	}
	// reasoning 계열 모델은 MaxCompletionTokens 사용
	if strings.HasPrefix(c.model, "o1") || strings.HasPrefix(c.model, "o3") || strings.HasPrefix(c.model, "o4") || strings.HasPrefix(c.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = 0.2
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai returned empty content")
	}
	return text, nil
}
