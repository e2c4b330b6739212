package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TriageResponse - POST /api/v1/triage 응답
type TriageResponse struct {
	Status   string         `json:"status"`
	Report   ReportDocument `json:"report"`
	HTMLPath string         `json:"html_path"`
	JSONPath string         `json:"json_path,omitempty"`
	FellBack bool           `json:"fell_back"`
	Stages   []StageStatus  `json:"stages"`
}

// ReportHistoryResponse - GET /api/v1/reports 응답
type ReportHistoryResponse struct {
	Status string          `json:"status"`
	Data   []ReportHistory `json:"data"`
}
