package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "genai-429", err: genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}, want: true},
		{name: "genai-500", err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}, want: false},
		{name: "openai-429", err: fmt.Errorf("wrapped: %w", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}), want: true},
		{name: "message", err: errors.New("You exceeded your current quota"), want: true},
		{name: "rate-limit", err: errors.New("Rate limit reached for requests"), want: true},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Fatalf("IsQuotaError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyWrapsQuota(t *testing.T) {
	cause := genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}
	err := classify(cause)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected underlying cause to stay reachable")
	}

	plain := errors.New("boom")
	if got := classify(plain); got != plain {
		t.Fatalf("non-quota errors must pass through unchanged")
	}
}
