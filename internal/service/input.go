// 입력 로그/스크린샷 준비
//
// 처리 흐름:
//  1. 경로가 비어 있으면 LogsDir에서 첫 번째 로그(*.txt, *.log)와 이미지(*.png, *.jpg, *.jpeg)를 찾음
//  2. 로그 파일이 없으면 빈 로그로 진행 (ErrLogNotFound 경고)
//  3. 이미지 파일이 없거나 PNG/JPEG가 아니면 이미지 없이 진행

package service

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/kube-rca/triage-bot/internal/model"
)

const (
	DefaultContextLines = 20
	DefaultMaxLogChars  = 50000

	// 에러 패턴이 없는 로그를 그대로 보낼 최대 줄 수
	fullLogLineLimit = 100
	headTailLines    = 50

	omittedMarker   = "... [MIDDLE SECTION OMITTED] ..."
	truncatedMarker = "... [TRUNCATED FOR API LIMITS] ..."
)

var errorLinePattern = regexp.MustCompile(`(?i)\b(ERROR|EXCEPTION|FATAL|CRITICAL|FAIL)\b`)

var (
	logExtensions   = []string{".txt", ".log"}
	imageExtensions = []string{".png", ".jpg", ".jpeg"}
)

// ImageInput - 스크린샷 바이트와 감지된 MIME 타입
type ImageInput struct {
	Data     []byte
	MimeType string
	Path     string
}

// NewImageInput - 내용 기반으로 MIME 타입을 감지 (PNG/JPEG만 허용)
func NewImageInput(data []byte, path string) (*ImageInput, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnsupportedImage, path)
	}
	mimeType := http.DetectContentType(data)
	switch mimeType {
	case "image/png", "image/jpeg":
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedImage, path, mimeType)
	}
	return &ImageInput{Data: data, MimeType: mimeType, Path: path}, nil
}

type InputPaths struct {
	LogPath   string
	ImagePath string
	// 경로가 비어 있을 때 자동 탐색할 디렉터리
	LogsDir string
}

// Inputs - 한 번의 실행에 사용할 입력
type Inputs struct {
	LogPath string
	LogText string
	Image   *ImageInput
	// 복구 가능한 입력 문제 (ErrInputNotFound, ErrUnsupportedImage)
	Warnings []error
}

// ReadInputs - 로그와 선택적 스크린샷을 읽음
//
// 입력 문제는 실행을 중단하지 않으며 Warnings와 StageStatus에 기록됩니다.
func ReadInputs(paths InputPaths) (Inputs, model.StageStatus) {
	var in Inputs

	logPath := paths.LogPath
	if logPath == "" {
		logPath = discover(paths.LogsDir, logExtensions)
	}
	in.LogPath = logPath

	if logPath == "" {
		in.Warnings = append(in.Warnings, fmt.Errorf("%w: no log file given or found in %q", ErrLogNotFound, paths.LogsDir))
	} else {
		text, err := readText(logPath)
		if err != nil {
			in.Warnings = append(in.Warnings, err)
		}
		in.LogText = text
	}

	imagePath := paths.ImagePath
	if imagePath == "" {
		imagePath = discover(paths.LogsDir, imageExtensions)
	}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			in.Warnings = append(in.Warnings, fmt.Errorf("%w: %s", ErrInputNotFound, imagePath))
		case err != nil:
			in.Warnings = append(in.Warnings, fmt.Errorf("failed to read image %s: %w", imagePath, err))
		default:
			img, err := NewImageInput(data, imagePath)
			if err != nil {
				in.Warnings = append(in.Warnings, err)
			} else {
				in.Image = img
			}
		}
	}

	status := model.StageStatus{Stage: StageInput, OK: len(in.Warnings) == 0}
	if len(in.Warnings) > 0 {
		msgs := make([]string, 0, len(in.Warnings))
		for _, w := range in.Warnings {
			msgs = append(msgs, w.Error())
		}
		status.Message = strings.Join(msgs, "; ")
	}
	return in, status
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrLogNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read log %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// discover - dir 안에서 확장자가 일치하는 첫 번째 파일 (이름순)
func discover(dir string, exts []string) string {
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				names = append(names, e.Name())
				break
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

// PrepareLog - 프롬프트와 리포트에 들어갈 로그 발췌본
//
// maxChars 이하의 로그는 그대로 사용합니다. 더 긴 로그만 에러 주변 문맥으로
// 줄인 뒤 그래도 길면 앞/뒤 절반씩 잘라냅니다.
func PrepareLog(logText string, contextLines, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxLogChars
	}
	if len(logText) <= maxChars {
		return logText
	}
	return Truncate(ExtractContext(logText, contextLines), maxChars)
}

// ExtractContext - 에러 라인 전후 n줄만 남김 (겹치는 구간은 병합)
func ExtractContext(logText string, n int) string {
	if n < 0 {
		n = DefaultContextLines
	}
	lines := strings.Split(logText, "\n")

	var hits []int
	for i, line := range lines {
		if errorLinePattern.MatchString(line) {
			hits = append(hits, i)
		}
	}

	if len(hits) == 0 {
		if len(lines) <= fullLogLineLimit {
			return logText
		}
		var b strings.Builder
		b.WriteString(strings.Join(lines[:headTailLines], "\n"))
		b.WriteString("\n\n" + omittedMarker + "\n\n")
		b.WriteString(strings.Join(lines[len(lines)-headTailLines:], "\n"))
		return b.String()
	}

	type window struct{ start, end int }
	var windows []window
	for _, idx := range hits {
		start := max(0, idx-n)
		end := min(len(lines)-1, idx+n)
		if len(windows) > 0 && start <= windows[len(windows)-1].end+1 {
			windows[len(windows)-1].end = max(windows[len(windows)-1].end, end)
			continue
		}
		windows = append(windows, window{start, end})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %d error line(s) found in %d total lines, %d section(s) extracted ===\n",
		len(hits), len(lines), len(windows))
	for i, w := range windows {
		fmt.Fprintf(&b, "\n--- Section %d (lines %d-%d) ---\n", i+1, w.start+1, w.end+1)
		b.WriteString(strings.Join(lines[w.start:w.end+1], "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// Truncate - max 글자를 넘으면 앞/뒤 절반만 남김
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	half := maxChars / 2
	head := strings.ToValidUTF8(s[:half], "")
	tail := strings.ToValidUTF8(s[len(s)-half:], "")
	return head + "\n\n" + truncatedMarker + "\n\n" + tail
}
