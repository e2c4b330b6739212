// 로그/스크린샷 분석 어댑터
//
// live 모드는 TextAnalyzer / VisionAnalyzer 협력자를 호출하고,
// demo 모드는 협력자를 호출하지 않고 고정 응답을 반환합니다.
// live 실패 시 demo 응답으로 대체하지 않습니다 (대체 여부는 호출자가 결정).

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/model"
)

const (
	CapabilityText   = "text"
	CapabilityVision = "vision"
)

const (
	demoTextAnalysis  = "Demo analysis: The API endpoint returned a 500 error due to a null pointer exception. This is a code bug in the data validation layer. Severity: High."
	demoImageAnalysis = "Demo analysis: The screenshot shows a 500 error page with broken CSS styling and a truncated error message. The backend failure surfaced directly in the UI."
)

type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, prompt string) (string, error)
}

type VisionAnalyzer interface {
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// Analyzer - 모드는 생성 시점에 고정
type Analyzer struct {
	mode         model.Mode
	text         TextAnalyzer
	vision       VisionAnalyzer
	contextLines int
	maxLogChars  int
	now          func() time.Time
}

type AnalyzerOption func(*Analyzer)

// WithLogLimits - 긴 로그를 줄일 때 사용할 문맥 줄 수와 최대 글자 수
func WithLogLimits(contextLines, maxLogChars int) AnalyzerOption {
	return func(a *Analyzer) {
		a.contextLines = contextLines
		a.maxLogChars = maxLogChars
	}
}

func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer - live 모드는 text 협력자가 필수 (vision은 이미지가 있을 때만 필요)
func NewAnalyzer(mode model.Mode, text TextAnalyzer, vision VisionAnalyzer, opts ...AnalyzerOption) (*Analyzer, error) {
	switch mode {
	case model.ModeLive:
		if text == nil {
			return nil, fmt.Errorf("live mode requires a text analyzer")
		}
	case model.ModeDemo:
	default:
		return nil, fmt.Errorf("unknown analysis mode %q", mode)
	}

	a := &Analyzer{
		mode:         mode,
		text:         text,
		vision:       vision,
		contextLines: DefaultContextLines,
		maxLogChars:  DefaultMaxLogChars,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Analyzer) Mode() model.Mode { return a.mode }

// Analyze - 로그(필수, 빈 문자열 허용)와 선택적 스크린샷을 분석
func (a *Analyzer) Analyze(ctx context.Context, logText string, image *ImageInput) (model.AnalysisResult, error) {
	result := model.AnalysisResult{
		LogText:      logText,
		LogExcerpt:   PrepareLog(logText, a.contextLines, a.maxLogChars),
		ImagePresent: image != nil,
		Mode:         a.mode,
		Timestamp:    a.now(),
	}

	if a.mode == model.ModeDemo {
		result.TextAnalysis = demoTextAnalysis
		if image != nil {
			v := demoImageAnalysis
			result.ImageAnalysis = &v
		}
		return result, nil
	}

	text, err := a.text.AnalyzeText(ctx, textPrompt(result.LogExcerpt))
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("malformed response: empty text analysis")
	}
	if err != nil {
		return model.AnalysisResult{}, &AnalysisUnavailableError{Capability: CapabilityText, Err: err}
	}
	result.TextAnalysis = strings.TrimSpace(text)

	if image != nil {
		if a.vision == nil {
			return model.AnalysisResult{}, &AnalysisUnavailableError{
				Capability: CapabilityVision,
				Err:        fmt.Errorf("no vision analyzer configured"),
			}
		}
		desc, err := a.vision.AnalyzeImage(ctx, visionPrompt, image.Data, image.MimeType)
		if err == nil && strings.TrimSpace(desc) == "" {
			err = fmt.Errorf("malformed response: empty image analysis")
		}
		if err != nil {
			return model.AnalysisResult{}, &AnalysisUnavailableError{Capability: CapabilityVision, Err: err}
		}
		desc = strings.TrimSpace(desc)
		result.ImageAnalysis = &desc
	}

	return result, nil
}
