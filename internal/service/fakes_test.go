package service

import (
	"context"
	"sync"

	"github.com/kube-rca/triage-bot/internal/model"
)

type fakeText struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeText) AnalyzeText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeVision struct {
	reply    string
	err      error
	calls    int
	mimeType string
}

func (f *fakeVision) AnalyzeImage(_ context.Context, _ string, _ []byte, mimeType string) (string, error) {
	f.calls++
	f.mimeType = mimeType
	return f.reply, f.err
}

type fakeHistory struct {
	mu      sync.Mutex
	records []model.ReportHistory
	err     error
}

func (f *fakeHistory) InsertReport(_ context.Context, rec *model.ReportHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	rec.ID = "id-1"
	f.records = append(f.records, *rec)
	return nil
}

type fakeArtifacts struct {
	uploaded []model.ReportPaths
	url      string
	err      error
}

func (f *fakeArtifacts) Upload(_ context.Context, paths model.ReportPaths) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, paths)
	return f.url, nil
}

type fakeNotifier struct {
	reports []model.Report
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, report model.Report, _ model.ReportPaths) error {
	f.reports = append(f.reports, report)
	return f.err
}

// 최소 PNG/JPEG 시그니처
var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)
