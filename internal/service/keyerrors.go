package service

import (
	"regexp"
	"strings"

	"github.com/kube-rca/triage-bot/internal/model"
)

const maxKeyErrors = 5

var (
	exceptionPattern  = regexp.MustCompile(`(\w*(?:Exception|Error)):\s*(.+)`)
	failedTestPattern = regexp.MustCompile(`(FAILED|FAIL|ERROR)\s+(.+)`)
	stackFramePattern = regexp.MustCompile(`at\s+[\w.$]+\([\w.]+:\d+\)`)
)

// ExtractKeyErrors - 예외/실패 테스트/스택 프레임 요약
func ExtractKeyErrors(logText string) model.KeyErrors {
	var out model.KeyErrors

	for _, m := range exceptionPattern.FindAllStringSubmatch(logText, maxKeyErrors) {
		out.Exceptions = append(out.Exceptions, model.ExceptionMatch{
			Type:    m[1],
			Message: strings.TrimSpace(m[2]),
		})
	}
	for _, m := range failedTestPattern.FindAllStringSubmatch(logText, maxKeyErrors) {
		out.FailedTests = append(out.FailedTests, strings.TrimSpace(m[2]))
	}
	out.StackFrames = len(stackFramePattern.FindAllStringIndex(logText, -1))
	return out
}
