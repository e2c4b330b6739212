package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// IsQuotaError reports whether err is a provider quota or rate-limit failure.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) && genaiErr.Code == http.StatusTooManyRequests {
		return true
	}
	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) && openaiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted")
}

// quota 에러는 ErrQuotaExceeded로 감싸서 호출자가 errors.Is로 판별할 수 있게 함
func classify(err error) error {
	if IsQuotaError(err) && !errors.Is(err, ErrQuotaExceeded) {
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	}
	return err
}
