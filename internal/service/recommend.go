package service

import (
	"fmt"
	"strings"

	"github.com/kube-rca/triage-bot/internal/model"
)

// 원인 키워드별 후속 조치
var keywordHints = map[string]string{
	"timeout":       "Check service latency and timeout settings; confirm dependent services were reachable during the run.",
	"null":          "Trace the null value back to its source and add validation where the data enters the failing path.",
	"exception":     "Review the exception stack trace and reproduce the failing call locally.",
	"mismatch":      "Compare expected and actual values; verify test fixtures and API contracts are in sync.",
	"configuration": "Diff the environment configuration against a known-good run (env vars, feature flags, secrets).",
}

// Recommend - 결정적 순서의 권장 조치 목록
//
//  1. 신뢰도 구간 평가 (신뢰도 비활성화 시 중립 문구)
//  2. 분석에서 발견된 원인 키워드별 조치 (vocabulary 순서)
//  3. 스크린샷이 없으면 첨부 권장
//  4. 로그가 비어 있으면 재실행 권장
func Recommend(result model.AnalysisResult, score *model.ConfidenceScore, keyErrors model.KeyErrors, vocabulary []string) []string {
	var recs []string

	if score == nil {
		recs = append(recs, "Review the analysis below and confirm the failure before filing a ticket.")
	} else {
		switch score.Band() {
		case model.BandHigh:
			recs = append(recs, fmt.Sprintf("High confidence (%d%%): likely a reproducible issue requiring investigation.", score.Value))
		case model.BandMedium:
			recs = append(recs, fmt.Sprintf("Medium confidence (%d%%): review in detail before filing.", score.Value))
		default:
			recs = append(recs, fmt.Sprintf("Low confidence (%d%%): may be a false positive; manual review recommended.", score.Value))
		}
	}

	for _, kw := range MatchedKeywords(strings.ToLower(result.TextAnalysis), vocabulary) {
		if hint, ok := keywordHints[kw]; ok {
			recs = append(recs, hint)
		}
	}

	if len(keyErrors.Exceptions) > 0 {
		first := keyErrors.Exceptions[0]
		recs = append(recs, fmt.Sprintf("Start with the first reported error: %s: %s", first.Type, first.Message))
	}

	if !result.ImagePresent {
		recs = append(recs, "Attach a screenshot of the failed step to improve triage accuracy.")
	}
	if strings.TrimSpace(result.LogText) == "" {
		recs = append(recs, "Re-run the triage with the failing test log; no log content was available.")
	}
	return recs
}
