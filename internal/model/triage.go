package model

import (
	"time"
)

// Mode - 분석 경로 (live: 외부 AI 호출, demo: 고정 응답)
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLive:
		return ModeLive, true
	case ModeDemo:
		return ModeDemo, true
	}
	return "", false
}

// AnalysisResult - 한 번의 실행에서 생성되는 분석 결과 (생성 후 변경하지 않음)
type AnalysisResult struct {
	LogText       string
	LogExcerpt    string
	TextAnalysis  string
	ImagePresent  bool
	ImageAnalysis *string
	Mode          Mode
	Timestamp     time.Time
}

// ImageAnalysisText - 이미지 분석이 없으면 빈 문자열
func (r AnalysisResult) ImageAnalysisText() string {
	if r.ImageAnalysis == nil {
		return ""
	}
	return *r.ImageAnalysis
}

// Band - 신뢰도 표시 구간
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// 기본 구간 경계값
const (
	DefaultHighThreshold   = 80
	DefaultMediumThreshold = 50
)

// ConfidenceScore - 0~100 신뢰도. Band는 값에서 매번 계산한다.
type ConfidenceScore struct {
	Value int

	highThreshold   int
	mediumThreshold int
}

func NewConfidenceScore(value, high, medium int) ConfidenceScore {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return ConfidenceScore{Value: value, highThreshold: high, mediumThreshold: medium}
}

func (s ConfidenceScore) Band() Band {
	high, medium := s.highThreshold, s.mediumThreshold
	if high == 0 && medium == 0 {
		high, medium = DefaultHighThreshold, DefaultMediumThreshold
	}
	switch {
	case s.Value >= high:
		return BandHigh
	case s.Value >= medium:
		return BandMedium
	default:
		return BandLow
	}
}

// KeyErrors - 로그에서 추출한 주요 에러 패턴
type KeyErrors struct {
	Exceptions  []ExceptionMatch
	FailedTests []string
	StackFrames int
}

type ExceptionMatch struct {
	Type    string
	Message string
}

func (k KeyErrors) Empty() bool {
	return len(k.Exceptions) == 0 && len(k.FailedTests) == 0 && k.StackFrames == 0
}

// StageStatus - 파이프라인 단계별 결과 (input / analysis / report)
type StageStatus struct {
	Stage   string `json:"stage"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ReportPaths - 렌더링 결과 파일 경로 (JSONPath는 JSON 비활성화 시 빈 문자열)
type ReportPaths struct {
	HTMLPath string `json:"html_path"`
	JSONPath string `json:"json_path,omitempty"`
}

// TriageOutcome - 한 번의 실행 결과
type TriageOutcome struct {
	Report Report
	Paths  ReportPaths
	Stages []StageStatus
	// live 분석 실패 후 demo 결과로 대체했는지 여부
	FellBack bool
}
