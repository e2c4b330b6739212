package service

import (
	"errors"
	"fmt"

	"github.com/kube-rca/triage-bot/internal/client"
	"github.com/kube-rca/triage-bot/internal/report"
)

// ErrInputNotFound - 로그/이미지 경로가 존재하지 않음 (복구 가능)
var ErrInputNotFound = errors.New("input not found")

// ErrLogNotFound - 로그 입력 누락 (errors.Is(err, ErrInputNotFound)도 true)
var ErrLogNotFound = fmt.Errorf("log %w", ErrInputNotFound)

// ErrQuotaExceeded - AnalysisUnavailableError를 통해 errors.Is로 확인 가능
var ErrQuotaExceeded = client.ErrQuotaExceeded

// ErrUnsupportedImage - PNG/JPEG 이외의 스크린샷
var ErrUnsupportedImage = errors.New("unsupported image type")

// AnalysisUnavailableError - live 모드 외부 분석 호출 실패
type AnalysisUnavailableError struct {
	// text | vision
	Capability string
	Err        error
}

func (e *AnalysisUnavailableError) Error() string {
	return fmt.Sprintf("%s analysis unavailable: %v", e.Capability, e.Err)
}

func (e *AnalysisUnavailableError) Unwrap() error { return e.Err }

// Quota - 원인이 quota/rate-limit 인지 여부
func (e *AnalysisUnavailableError) Quota() bool {
	return client.IsQuotaError(e.Err)
}

// ReportWriteFailedError - 리포트 파일 생성/쓰기 실패 (실행 실패로 처리)
type ReportWriteFailedError = report.WriteFailedError
