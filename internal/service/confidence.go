package service

import (
	"strings"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/model"
)

// Scorer - 분석 결과의 휴리스틱 신뢰도 계산 (순수 함수, 상태 없음)
type Scorer struct {
	cfg config.ScoringConfig
}

func NewScorer(cfg config.ScoringConfig) Scorer {
	return Scorer{cfg: cfg}
}

// Score - baseline에서 시작해 가산/감산 후 [0,100]으로 고정
//
//   - 분석 길이가 SubstantiveLength 초과: +SubstantiveBonus, 아니면 -ShallowPenalty
//   - 이미지 분석 존재: +ImageBonus
//   - 원인 키워드 포함: +KeywordBonus
//   - 불확실 표현 포함: -HedgePenalty
//   - 로그가 비어 있음: -EmptyLogPenalty
func (s Scorer) Score(result model.AnalysisResult) model.ConfidenceScore {
	cfg := s.cfg
	score := cfg.Baseline

	if len(result.TextAnalysis) > cfg.SubstantiveLength {
		score += cfg.SubstantiveBonus
	} else {
		score -= cfg.ShallowPenalty
	}

	if result.ImagePresent && strings.TrimSpace(result.ImageAnalysisText()) != "" {
		score += cfg.ImageBonus
	}

	lower := strings.ToLower(result.TextAnalysis)
	if len(MatchedKeywords(lower, cfg.RootCauseKeywords)) > 0 {
		score += cfg.KeywordBonus
	}
	if len(MatchedKeywords(lower, cfg.HedgingMarkers)) > 0 {
		score -= cfg.HedgePenalty
	}

	if strings.TrimSpace(result.LogText) == "" {
		score -= cfg.EmptyLogPenalty
	}

	return model.NewConfidenceScore(score, cfg.HighThreshold, cfg.MediumThreshold)
}

// MatchedKeywords - text(소문자)에 포함된 키워드를 vocabulary 순서대로 반환
func MatchedKeywords(lowerText string, vocabulary []string) []string {
	var out []string
	for _, kw := range vocabulary {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lowerText, kw) {
			out = append(out, kw)
		}
	}
	return out
}
