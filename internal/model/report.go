package model

import (
	"time"
)

// Report - HTML/JSON 두 형식이 공유하는 렌더링 입력
type Report struct {
	Timestamp         time.Time
	Mode              Mode
	LogExcerpt        string
	TextAnalysis      string
	ImagePresent      bool
	ImageAnalysis     *string
	Confidence        ConfidenceScore
	IncludeConfidence bool
	Recommendations   []string
	KeyErrors         KeyErrors
	// 분석에 사용한 입력 파일 (없으면 빈 문자열)
	LogFile   string
	ImageFile string
}

func NewReport(result AnalysisResult, score ConfidenceScore, includeConfidence bool, recommendations []string, keyErrors KeyErrors) Report {
	recs := make([]string, len(recommendations))
	copy(recs, recommendations)
	return Report{
		Timestamp:         result.Timestamp,
		Mode:              result.Mode,
		LogExcerpt:        result.LogExcerpt,
		TextAnalysis:      result.TextAnalysis,
		ImagePresent:      result.ImagePresent,
		ImageAnalysis:     result.ImageAnalysis,
		Confidence:        score,
		IncludeConfidence: includeConfidence,
		Recommendations:   recs,
		KeyErrors:         keyErrors,
	}
}

// ReportDocument - JSON 직렬화용 평면 구조
//
// confidence / confidence_band 는 신뢰도 계산이 꺼져 있으면 생략됩니다.
// image_file 은 스크린샷이 없으면 null 입니다.
type ReportDocument struct {
	Timestamp       string   `json:"timestamp"`
	Mode            Mode     `json:"mode"`
	LogExcerpt      string   `json:"log_excerpt"`
	TextAnalysis    string   `json:"text_analysis"`
	ImagePresent    bool     `json:"image_present"`
	ImageAnalysis   *string  `json:"image_analysis"`
	Confidence      *int     `json:"confidence,omitempty"`
	ConfidenceBand  *Band    `json:"confidence_band,omitempty"`
	Recommendations []string `json:"recommendations"`
	LogFile         string   `json:"log_file"`
	ImageFile       *string  `json:"image_file"`
}

// Document - Report를 JSON 문서 구조로 변환
func (r Report) Document() ReportDocument {
	doc := ReportDocument{
		Timestamp:       r.Timestamp.Format(time.RFC3339),
		Mode:            r.Mode,
		LogExcerpt:      r.LogExcerpt,
		TextAnalysis:    r.TextAnalysis,
		ImagePresent:    r.ImagePresent,
		Recommendations: r.Recommendations,
		LogFile:         r.LogFile,
	}
	if r.ImagePresent && r.ImageFile != "" {
		v := r.ImageFile
		doc.ImageFile = &v
	}
	if r.ImagePresent && r.ImageAnalysis != nil {
		v := *r.ImageAnalysis
		doc.ImageAnalysis = &v
	}
	if r.IncludeConfidence {
		value := r.Confidence.Value
		band := r.Confidence.Band()
		doc.Confidence = &value
		doc.ConfidenceBand = &band
	}
	if doc.Recommendations == nil {
		doc.Recommendations = []string{}
	}
	return doc
}
