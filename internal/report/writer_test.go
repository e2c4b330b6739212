package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kube-rca/triage-bot/internal/model"
)

var fixedTime = time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)

func testReport() model.Report {
	return model.Report{
		Timestamp:         fixedTime,
		Mode:              model.ModeDemo,
		LogExcerpt:        "ERROR something failed",
		TextAnalysis:      "Demo analysis: null pointer exception in the validation layer.",
		Confidence:        model.NewConfidenceScore(75, 80, 50),
		IncludeConfidence: true,
		Recommendations:   []string{"Review in detail before filing."},
	}
}

func TestRenderTimestampedNeverCollides(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	first, err := w.Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatalf("first Render() error = %v", err)
	}
	second, err := w.Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatalf("second Render() error = %v", err)
	}

	want := model.ReportPaths{
		HTMLPath: filepath.Join(dir, "report_20260301_093005.html"),
		JSONPath: filepath.Join(dir, "report_20260301_093005.json"),
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first paths mismatch (-want +got):\n%s", diff)
	}
	want = model.ReportPaths{
		HTMLPath: filepath.Join(dir, "report_20260301_093005_1.html"),
		JSONPath: filepath.Join(dir, "report_20260301_093005_1.json"),
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("second paths mismatch (-want +got):\n%s", diff)
	}

	for _, p := range []string{first.HTMLPath, first.JSONPath, second.HTMLPath, second.JSONPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}
}

func TestRenderCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	paths, err := NewWriter().Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, p := range []string{paths.HTMLPath, paths.JSONPath} {
		if filepath.Dir(p) != dir {
			t.Fatalf("%s not inside %s", p, dir)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
	}
}

func TestRenderSkipsOrphanJSON(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, "report_20260301_093005.json")
	if err := os.WriteFile(orphan, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := NewWriter().Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasSuffix(paths.HTMLPath, "_1.html") || !strings.HasSuffix(paths.JSONPath, "_1.json") {
		t.Fatalf("expected suffixed pair, got %+v", paths)
	}
	if _, err := os.Stat(filepath.Join(dir, "report_20260301_093005.html")); !os.IsNotExist(err) {
		t.Fatalf("html for the taken base was not removed: %v", err)
	}
	data, _ := os.ReadFile(orphan)
	if string(data) != "{}" {
		t.Fatal("existing file was overwritten")
	}
}

func TestRenderSingleOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage_report.html")
	w := NewWriter()

	if _, err := w.Render(testReport(), SingleFile(path, true)); err != nil {
		t.Fatalf("first Render() error = %v", err)
	}
	report := testReport()
	report.TextAnalysis = "second run analysis"
	paths, err := w.Render(report, SingleFile(path, true))
	if err != nil {
		t.Fatalf("second Render() error = %v", err)
	}

	want := model.ReportPaths{HTMLPath: path, JSONPath: strings.TrimSuffix(path, ".html") + ".json"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(paths.JSONPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc model.ReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.TextAnalysis != "second run analysis" {
		t.Fatalf("json not overwritten: %q", doc.TextAnalysis)
	}
}

func TestRenderWithoutJSON(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter().Render(testReport(), Timestamped(dir, false))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if paths.JSONPath != "" {
		t.Fatalf("JSONPath = %q, want empty", paths.JSONPath)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}

func TestRenderLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()
	for i := 0; i < 3; i++ {
		if _, err := w.Render(testReport(), Timestamped(dir, true)); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 files, got %d", len(entries))
	}
}

func TestRenderWriteFailure(t *testing.T) {
	// a regular file where the reports directory should be
	blocker := filepath.Join(t.TempDir(), "reports")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewWriter().Render(testReport(), Timestamped(blocker, true))
	var writeErr *WriteFailedError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteFailedError, got %v", err)
	}
	if writeErr.Path != blocker {
		t.Fatalf("Path = %q, want %q", writeErr.Path, blocker)
	}
}

func TestRenderUsesClockWithoutTimestamp(t *testing.T) {
	dir := t.TempDir()
	report := testReport()
	report.Timestamp = time.Time{}

	w := NewWriter(WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }))
	paths, err := w.Render(report, Timestamped(dir, false))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if filepath.Base(paths.HTMLPath) != "report_20260102_030405.html" {
		t.Fatalf("HTMLPath = %q", paths.HTMLPath)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	if _, err := Latest(dir); err == nil {
		t.Fatal("expected error for empty dir")
	}

	w := NewWriter()
	first, err := w.Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Render(testReport(), Timestamped(dir, true))
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(first.HTMLPath, old, old); err != nil {
		t.Fatal(err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got != second.HTMLPath {
		t.Fatalf("Latest() = %q, want %q", got, second.HTMLPath)
	}
}

func TestRenderKeepsExistingHTML(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "report_20260301_093005.html")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := NewWriter().Render(testReport(), Timestamped(dir, false))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if filepath.Base(paths.HTMLPath) != "report_20260301_093005_1.html" {
		t.Fatalf("HTMLPath = %q", paths.HTMLPath)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "old" {
		t.Fatal("existing report was overwritten")
	}
}

func TestPublishExposesOnlyCompleteFiles(t *testing.T) {
	dir := t.TempDir()
	content := []byte("<html>complete</html>")

	tmp, err := writeTemp(dir, content)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp)

	matches, _ := filepath.Glob(filepath.Join(dir, filePrefix+"*"))
	if len(matches) != 0 {
		t.Fatalf("report names visible before publish: %v", matches)
	}

	paths, err := publish(dir, "report_20260301_093005", tmp, "")
	if err != nil {
		t.Fatalf("publish() error = %v", err)
	}
	data, err := os.ReadFile(paths.HTMLPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(content) {
		t.Fatalf("published content = %q", data)
	}
}

func TestRenderConcurrentRunsGetDistinctCompleteFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	const runs = 8
	var wg sync.WaitGroup
	results := make([]model.ReportPaths, runs)
	errs := make([]error, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = w.Render(testReport(), Timestamped(dir, true))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < runs; i++ {
		if errs[i] != nil {
			t.Fatalf("Render() error = %v", errs[i])
		}
		if seen[results[i].HTMLPath] {
			t.Fatalf("duplicate path %s", results[i].HTMLPath)
		}
		seen[results[i].HTMLPath] = true
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2*runs {
		t.Fatalf("expected %d files, got %d", 2*runs, len(entries))
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 || strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("unexpected file %s (%d bytes)", e.Name(), info.Size())
		}
	}
}

func TestLatestOrdersByNameNotModTime(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{
			name:  "numeric suffix",
			files: []string{"report_20260101_000000_9.html", "report_20260101_000000_10.html"},
			want:  "report_20260101_000000_10.html",
		},
		{
			name:  "suffix beats base",
			files: []string{"report_20260101_000000_1.html", "report_20260101_000000.html"},
			want:  "report_20260101_000000_1.html",
		},
		{
			name:  "newer timestamp beats suffix",
			files: []string{"report_20260102_000000.html", "report_20260101_000000_42.html"},
			want:  "report_20260102_000000.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			same := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
			for _, f := range tt.files {
				p := filepath.Join(dir, f)
				if err := os.WriteFile(p, []byte("<html></html>"), 0o644); err != nil {
					t.Fatal(err)
				}
				if err := os.Chtimes(p, same, same); err != nil {
					t.Fatal(err)
				}
			}
			got, err := Latest(dir)
			if err != nil {
				t.Fatalf("Latest() error = %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Fatalf("Latest() = %q, want %q", filepath.Base(got), tt.want)
			}
		})
	}
}
