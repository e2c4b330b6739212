// Package report writes rendered triage reports to disk.
//
// Two destinations are supported:
//   - single: one fixed path, overwritten on every run
//   - timestamped: report_<YYYYMMDD_HHMMSS>[_N].html/.json inside a directory,
//     never overwriting an existing report
//
// Every file is written to a temp file in the target directory and fsynced.
// Single-file reports are renamed into place; timestamped reports are
// hard-linked to a free name so an existing report is never replaced.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/logging"
	"github.com/kube-rca/triage-bot/internal/model"
	tmpl "github.com/kube-rca/triage-bot/internal/template"
)

const (
	filePrefix      = "report_"
	timestampLayout = "20060102_150405"
	maxSuffix       = 1000
)

// WriteFailedError is returned when a report file cannot be created or written.
type WriteFailedError struct {
	Path string
	Err  error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *WriteFailedError) Unwrap() error { return e.Err }

// Destination selects where Render writes.
type Destination struct {
	Kind string
	// timestamped
	Dir string
	// single
	Path        string
	IncludeJSON bool
}

func SingleFile(path string, includeJSON bool) Destination {
	return Destination{Kind: config.DestinationSingle, Path: path, IncludeJSON: includeJSON}
}

func Timestamped(dir string, includeJSON bool) Destination {
	return Destination{Kind: config.DestinationTimestamped, Dir: dir, IncludeJSON: includeJSON}
}

// DestinationFromConfig maps the report section of the config to a Destination.
func DestinationFromConfig(cfg config.ReportConfig) (Destination, error) {
	switch cfg.Destination {
	case config.DestinationSingle:
		return SingleFile(cfg.SingleFilePath, cfg.IncludeJSON), nil
	case config.DestinationTimestamped, "":
		return Timestamped(cfg.Dir, cfg.IncludeJSON), nil
	default:
		return Destination{}, fmt.Errorf("unknown report destination %q", cfg.Destination)
	}
}

type Writer struct {
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Writer)

// WithClock is used when the report has no timestamp of its own.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

func NewWriter(opts ...Option) *Writer {
	w := &Writer{now: time.Now, logger: logging.New("report")}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render writes the HTML report (and JSON when enabled) and returns the paths.
func (w *Writer) Render(report model.Report, dest Destination) (model.ReportPaths, error) {
	htmlData, err := tmpl.RenderHTML(report)
	if err != nil {
		return model.ReportPaths{}, err
	}
	var jsonData []byte
	if dest.IncludeJSON {
		if jsonData, err = tmpl.RenderJSON(report); err != nil {
			return model.ReportPaths{}, err
		}
	}

	switch dest.Kind {
	case config.DestinationSingle:
		return w.renderSingle(dest, htmlData, jsonData)
	case config.DestinationTimestamped, "":
		ts := report.Timestamp
		if ts.IsZero() {
			ts = w.now()
		}
		return w.renderTimestamped(dest, ts, htmlData, jsonData)
	default:
		return model.ReportPaths{}, fmt.Errorf("unknown report destination %q", dest.Kind)
	}
}

func (w *Writer) renderSingle(dest Destination, htmlData, jsonData []byte) (model.ReportPaths, error) {
	htmlPath := dest.Path
	if htmlPath == "" {
		htmlPath = "triage_report.html"
	}
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
		return model.ReportPaths{}, &WriteFailedError{Path: htmlPath, Err: err}
	}

	paths := model.ReportPaths{HTMLPath: htmlPath}
	if err := writeAtomic(htmlPath, htmlData); err != nil {
		return model.ReportPaths{}, &WriteFailedError{Path: htmlPath, Err: err}
	}
	if jsonData != nil {
		paths.JSONPath = strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".json"
		if err := writeAtomic(paths.JSONPath, jsonData); err != nil {
			return model.ReportPaths{}, &WriteFailedError{Path: paths.JSONPath, Err: err}
		}
	}
	w.logger.Debug("report written", "html", paths.HTMLPath, "json", paths.JSONPath)
	return paths, nil
}

func (w *Writer) renderTimestamped(dest Destination, ts time.Time, htmlData, jsonData []byte) (model.ReportPaths, error) {
	dir := dest.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.ReportPaths{}, &WriteFailedError{Path: dir, Err: err}
	}

	base := filePrefix + ts.Format(timestampLayout)
	htmlTmp, err := writeTemp(dir, htmlData)
	if err != nil {
		return model.ReportPaths{}, &WriteFailedError{Path: filepath.Join(dir, base+".html"), Err: err}
	}
	defer os.Remove(htmlTmp)

	var jsonTmp string
	if jsonData != nil {
		if jsonTmp, err = writeTemp(dir, jsonData); err != nil {
			return model.ReportPaths{}, &WriteFailedError{Path: filepath.Join(dir, base+".json"), Err: err}
		}
		defer os.Remove(jsonTmp)
	}

	paths, err := publish(dir, base, htmlTmp, jsonTmp)
	if err != nil {
		return model.ReportPaths{}, err
	}
	w.logger.Debug("report written", "html", paths.HTMLPath, "json", paths.JSONPath)
	return paths, nil
}

// publish hard-links the finished temp files to the first free base name so
// the html/json pair shares it. Taken names get a _1, _2, ... suffix.
// os.Link fails when the target exists.
func publish(dir, base, htmlTmp, jsonTmp string) (model.ReportPaths, error) {
	for n := 0; n < maxSuffix; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		paths := model.ReportPaths{HTMLPath: filepath.Join(dir, name+".html")}

		ok, err := link(htmlTmp, paths.HTMLPath)
		if err != nil {
			return model.ReportPaths{}, &WriteFailedError{Path: paths.HTMLPath, Err: err}
		}
		if !ok {
			continue
		}
		if jsonTmp == "" {
			return paths, nil
		}

		paths.JSONPath = filepath.Join(dir, name+".json")
		ok, err = link(jsonTmp, paths.JSONPath)
		if err != nil {
			os.Remove(paths.HTMLPath)
			return model.ReportPaths{}, &WriteFailedError{Path: paths.JSONPath, Err: err}
		}
		if !ok {
			os.Remove(paths.HTMLPath)
			continue
		}
		return paths, nil
	}
	return model.ReportPaths{}, &WriteFailedError{
		Path: filepath.Join(dir, base+".html"),
		Err:  fmt.Errorf("no free report name after %d attempts", maxSuffix),
	}
}

// link returns false when target is already taken.
func link(tmp, target string) (bool, error) {
	err := os.Link(tmp, target)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// writeTemp writes data to a fsynced 0644 temp file in dir and returns its name.
func writeTemp(dir string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return tmpName, nil
}

// writeAtomic writes data to a temp file next to path and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmpName, err := writeTemp(filepath.Dir(path), data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Latest returns the newest HTML report in dir, ordered by the timestamp in
// its name and then by collision suffix. Modification time only breaks ties
// between names that do not follow the report_<timestamp>[_N] layout.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports dir %s: %w", dir, err)
	}

	var (
		latest    string
		latestKey reportKey
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != ".html" {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		key := parseReportName(name, info.ModTime())
		if latest == "" || latestKey.less(key) {
			latest = filepath.Join(dir, name)
			latestKey = key
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no reports found in %s: %w", dir, fs.ErrNotExist)
	}
	return latest, nil
}

type reportKey struct {
	stamp  string
	suffix int
	mod    time.Time
}

func (k reportKey) less(o reportKey) bool {
	if k.stamp != o.stamp {
		return k.stamp < o.stamp
	}
	if k.suffix != o.suffix {
		return k.suffix < o.suffix
	}
	return k.mod.Before(o.mod)
}

// parseReportName splits report_YYYYMMDD_HHMMSS[_N].html into its timestamp and suffix.
func parseReportName(name string, mod time.Time) reportKey {
	stem := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".html")
	key := reportKey{stamp: stem, mod: mod}
	if len(stem) < len(timestampLayout) {
		return key
	}
	if _, err := time.Parse(timestampLayout, stem[:len(timestampLayout)]); err != nil {
		return key
	}
	rest := stem[len(timestampLayout):]
	if rest == "" {
		key.stamp = stem
		return key
	}
	n, err := strconv.Atoi(strings.TrimPrefix(rest, "_"))
	if !strings.HasPrefix(rest, "_") || err != nil || n < 0 {
		return key
	}
	key.stamp = stem[:len(timestampLayout)]
	key.suffix = n
	return key
}
