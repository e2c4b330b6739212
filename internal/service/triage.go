// 실패 분석 파이프라인 비즈니스 로직 정의
//
// 처리 흐름:
//  1. [1/3] input: 로그/스크린샷 읽기 (누락은 경고 후 진행)
//  2. [2/3] analysis: live/demo 분석 (옵션에 따라 live 실패 시 demo로 대체)
//  3. [3/3] report: 신뢰도 계산, 권장 조치 생성, HTML/JSON 렌더링
//  4. 선택적 후처리: 오브젝트 스토리지 업로드, 이력 저장, 알림 (실패해도 실행은 성공)

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/kube-rca/triage-bot/internal/report"
)

const (
	StageInput    = "[1/3] input"
	StageAnalysis = "[2/3] analysis"
	StageReport   = "[3/3] report"
)

// HistoryRepo - 리포트 이력 저장소 (Postgres)
type HistoryRepo interface {
	InsertReport(ctx context.Context, rec *model.ReportHistory) error
}

// ArtifactStore - 리포트 파일 업로드 (MinIO), HTML 오브젝트 URL 반환
type ArtifactStore interface {
	Upload(ctx context.Context, paths model.ReportPaths) (string, error)
}

// Notifier - 리포트 생성 알림 (Slack, webhook)
type Notifier interface {
	Notify(ctx context.Context, report model.Report, paths model.ReportPaths) error
}

// Options - 출력 위치, JSON/신뢰도 포함 여부, demo 대체 여부
type Options struct {
	Destination       report.Destination
	IncludeJSON       bool
	IncludeConfidence bool
	FallbackToDemo    bool
}

// OptionsFromConfig - 설정의 report 섹션에서 Options 생성
func OptionsFromConfig(cfg config.ReportConfig) (Options, error) {
	dest, err := report.DestinationFromConfig(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Destination:       dest,
		IncludeJSON:       cfg.IncludeJSON,
		IncludeConfidence: cfg.IncludeConfidence,
		FallbackToDemo:    cfg.FallbackToDemo,
	}, nil
}

// TriageRequest - 한 번의 실행 요청
//
// Inputs가 nil이면 Paths에서 입력을 읽습니다 (HTTP 업로드는 Inputs를 직접 채움).
type TriageRequest struct {
	Paths   InputPaths
	Inputs  *Inputs
	Mode    model.Mode
	Options Options
}

// TriageService 구조체 정의
type TriageService struct {
	text         TextAnalyzer
	vision       VisionAnalyzer
	analyzerOpts []AnalyzerOption
	scoring      config.ScoringConfig
	writer       *report.Writer

	history   HistoryRepo
	artifacts ArtifactStore
	notifier  Notifier

	logger *slog.Logger
}

type TriageOption func(*TriageService)

func WithHistory(repo HistoryRepo) TriageOption {
	return func(s *TriageService) { s.history = repo }
}

func WithArtifacts(store ArtifactStore) TriageOption {
	return func(s *TriageService) { s.artifacts = store }
}

func WithNotifier(n Notifier) TriageOption {
	return func(s *TriageService) { s.notifier = n }
}

func WithAnalyzerOptions(opts ...AnalyzerOption) TriageOption {
	return func(s *TriageService) { s.analyzerOpts = append(s.analyzerOpts, opts...) }
}

// NewTriageService 생성자
//
// text/vision은 live 모드에서만 사용됩니다 (demo 전용 실행이면 nil 가능).
func NewTriageService(text TextAnalyzer, vision VisionAnalyzer, scoring config.ScoringConfig, writer *report.Writer, opts ...TriageOption) *TriageService {
	if writer == nil {
		writer = report.NewWriter()
	}
	s := &TriageService{
		text:    text,
		vision:  vision,
		scoring: scoring,
		writer:  writer,
		logger:  logging.New("triage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run - 입력 → 분석 → 신뢰도 → 권장 조치 → 렌더링 → 보관 → 알림
func (s *TriageService) Run(ctx context.Context, req TriageRequest) (*model.TriageOutcome, error) {
	outcome := &model.TriageOutcome{}

	// 1. 입력
	var in Inputs
	if req.Inputs != nil {
		in = *req.Inputs
		status := model.StageStatus{Stage: StageInput, OK: len(in.Warnings) == 0}
		if !status.OK {
			status.Message = errors.Join(in.Warnings...).Error()
		}
		outcome.Stages = append(outcome.Stages, status)
	} else {
		var status model.StageStatus
		in, status = ReadInputs(req.Paths)
		outcome.Stages = append(outcome.Stages, status)
	}
	logMissing := false
	for _, w := range in.Warnings {
		if errors.Is(w, ErrLogNotFound) {
			logMissing = true
			s.logger.Warn(StageInput+": no log content, analysis will be based on the screenshot or defaults only", "error", w)
			continue
		}
		s.logger.Warn(StageInput+": input problem", "error", w)
	}
	s.logger.Info(StageInput, "log", in.LogPath, "log_bytes", len(in.LogText), "image", in.Image != nil)

	// 2. 분석
	mode := req.Mode
	if mode == "" {
		mode = model.ModeLive
	}
	result, err := s.analyze(ctx, mode, in)
	if err != nil {
		var unavailable *AnalysisUnavailableError
		if !req.Options.FallbackToDemo || !errors.As(err, &unavailable) {
			s.logger.Error(StageAnalysis+" failed", "mode", mode, "error", err)
			return nil, err
		}
		s.logger.Warn(StageAnalysis+" failed, falling back to demo analysis", "error", err, "quota", unavailable.Quota())
		outcome.Stages = append(outcome.Stages, model.StageStatus{Stage: StageAnalysis, OK: false, Message: err.Error()})
		outcome.FellBack = true

		result, err = s.analyze(ctx, model.ModeDemo, in)
		if err != nil {
			return nil, err
		}
	} else {
		outcome.Stages = append(outcome.Stages, model.StageStatus{Stage: StageAnalysis, OK: true})
	}
	s.logger.Info(StageAnalysis, "mode", result.Mode, "image_analyzed", result.ImageAnalysis != nil)

	// 3. 리포트
	score := NewScorer(s.scoring).Score(result)
	keyErrors := ExtractKeyErrors(result.LogText)
	var scoreRef *model.ConfidenceScore
	if req.Options.IncludeConfidence {
		scoreRef = &score
	}
	recs := Recommend(result, scoreRef, keyErrors, s.scoring.RootCauseKeywords)
	rep := model.NewReport(result, score, req.Options.IncludeConfidence, recs, keyErrors)
	if !logMissing {
		rep.LogFile = in.LogPath
	}
	if in.Image != nil {
		rep.ImageFile = in.Image.Path
	}

	dest := req.Options.Destination
	dest.IncludeJSON = req.Options.IncludeJSON
	paths, err := s.writer.Render(rep, dest)
	if err != nil {
		s.logger.Error(StageReport+" failed", "error", err)
		return nil, err
	}
	outcome.Stages = append(outcome.Stages, model.StageStatus{Stage: StageReport, OK: true})
	outcome.Report = rep
	outcome.Paths = paths
	if req.Options.IncludeConfidence {
		s.logger.Info(StageReport, "html", paths.HTMLPath, "json", paths.JSONPath, "confidence", score.Value, "band", score.Band())
	} else {
		s.logger.Info(StageReport, "html", paths.HTMLPath, "json", paths.JSONPath)
	}

	// 4. 후처리 (실패해도 실행 결과에는 영향 없음)
	s.archive(ctx, rep, paths)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, rep, paths); err != nil {
			s.logger.Warn("failed to send report notification", "error", err)
		}
	}

	return outcome, nil
}

func (s *TriageService) analyze(ctx context.Context, mode model.Mode, in Inputs) (model.AnalysisResult, error) {
	analyzer, err := NewAnalyzer(mode, s.text, s.vision, s.analyzerOpts...)
	if err != nil {
		if mode == model.ModeLive {
			return model.AnalysisResult{}, &AnalysisUnavailableError{Capability: CapabilityText, Err: err}
		}
		return model.AnalysisResult{}, fmt.Errorf("failed to create analyzer: %w", err)
	}
	return analyzer.Analyze(ctx, in.LogText, in.Image)
}

func (s *TriageService) archive(ctx context.Context, rep model.Report, paths model.ReportPaths) {
	var objectURL string
	if s.artifacts != nil {
		url, err := s.artifacts.Upload(ctx, paths)
		if err != nil {
			s.logger.Warn("failed to upload report files", "error", err)
		} else {
			objectURL = url
			s.logger.Info("report files uploaded", "url", url)
		}
	}

	if s.history == nil {
		return
	}
	rec := &model.ReportHistory{
		Mode:         rep.Mode,
		HTMLPath:     paths.HTMLPath,
		JSONPath:     paths.JSONPath,
		ObjectURL:    objectURL,
		TextAnalysis: rep.TextAnalysis,
	}
	if rep.IncludeConfidence {
		v := rep.Confidence.Value
		band := rep.Confidence.Band()
		rec.Confidence = &v
		rec.ConfidenceBand = &band
	}
	if err := s.history.InsertReport(ctx, rec); err != nil {
		s.logger.Warn("failed to save report history", "error", err)
		return
	}
	s.logger.Debug("report history saved", "id", rec.ID)
}
