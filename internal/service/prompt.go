package service

import "fmt"

// 로그 분석 프롬프트 (로그 내용은 그대로 삽입)
func textPrompt(logExcerpt string) string {
	return fmt.Sprintf(`You are an expert QA Engineer. Analyze this error log in 3-4 sentences:
1. What specifically failed?
2. Is it a code bug or an environmental/infrastructure issue?
3. What is the severity (Critical/High/Medium/Low)?

Error Log:
%s`, logExcerpt)
}

const visionPrompt = `You are a UI/UX expert. Analyze this failed test screenshot in 2-3 sentences:
1. What visual elements are broken or missing?
2. What is the likely root cause?
3. How would you describe the severity of the UI failure?`
