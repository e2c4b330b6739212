// 자체 호스팅 분석 Agent와 HTTP 통신하는 클라이언트 정의
//
// 환경변수:
//   - AGENT_URL: Agent 서비스 URL (예: http://triage-agent:8000)
//
// Agent에 전달하는 데이터:
//   - prompt: 분석 프롬프트 (로그 내용 포함)
//   - image: base64 인코딩된 스크린샷 (이미지 분석 시)

package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/config"
)

// 분석 응답 본문 최대 크기
const maxAgentResponseBytes = 1 << 20

// AgentClient 구조체 정의
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
}

// AgentAnalysisRequest 구조체 정의
type AgentAnalysisRequest struct {
	Prompt   string `json:"prompt"`
	Image    string `json:"image,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// AgentAnalysisResponse 구조체 정의
type AgentAnalysisResponse struct {
	Status   string `json:"status"`
	Analysis string `json:"analysis"`
	Error    string `json:"error,omitempty"`
}

// AgentClient 객체 생성
func NewAgentClient(cfg config.AIConfig) *AgentClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second // AI 분석 시간 고려
	}
	return &AgentClient{
		baseURL:    strings.TrimRight(cfg.AgentURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Agent 설정 여부 체크
func (c *AgentClient) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *AgentClient) AnalyzeText(ctx context.Context, prompt string) (string, error) {
	return c.requestAnalysis(ctx, AgentAnalysisRequest{Prompt: prompt})
}

func (c *AgentClient) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return c.requestAnalysis(ctx, AgentAnalysisRequest{
		Prompt:   prompt,
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: mimeType,
	})
}

// POST /analyze 분석 요청하고 분석 결과 반환 (동기)
func (c *AgentClient) requestAnalysis(ctx context.Context, req AgentAnalysisRequest) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("agent URL not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal agent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request to agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAgentResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxAgentResponseBytes {
		return "", fmt.Errorf("agent response exceeds %d bytes", maxAgentResponseBytes)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: agent returned status %d: %s", ErrQuotaExceeded, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(body))
	}

	var analysisResp AgentAnalysisResponse
	if err := json.Unmarshal(body, &analysisResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if analysisResp.Error != "" {
		return "", classify(fmt.Errorf("agent error: %s", analysisResp.Error))
	}
	analysis := strings.TrimSpace(analysisResp.Analysis)
	if analysis == "" {
		return "", fmt.Errorf("agent returned empty analysis")
	}
	return analysis, nil
}
