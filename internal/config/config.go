// 실행 설정 로딩
//
// 환경변수 (.env 파일이 있으면 먼저 로드):
//   - AI_PROVIDER (gemini|openai|agent), AI_MODEL, AI_BASE_URL, AGENT_URL, AI_TIMEOUT, TRIAGE_MODE
//   - LOG_PATH, IMAGE_PATH, LOGS_DIR
//   - REPORT_DESTINATION, REPORTS_DIR, REPORT_FILE, REPORT_JSON, REPORT_CONFIDENCE
//   - MAX_LOG_CHARS, LOG_CONTEXT_LINES, FALLBACK_TO_DEMO, SCORING_FILE
//   - SLACK_BOT_TOKEN, SLACK_CHANNEL_ID
//   - WEBHOOK_URL, WEBHOOK_BODY, WEBHOOK_CONTENT_TYPE
//   - DATABASE_URL 또는 PGHOST/PGPORT/PGUSER/PGPASSWORD/PGDATABASE/PGSSLMODE
//   - MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET, MINIO_REGION, MINIO_USE_SSL
//   - SERVER_ADDR, CORS_ALLOWED_ORIGINS

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderAgent  = "agent"

	DestinationSingle      = "single"
	DestinationTimestamped = "timestamped"
)

type Config struct {
	AI       AIConfig
	Input    InputConfig
	Report   ReportConfig
	Slack    SlackConfig
	Webhook  WebhookConfig
	Postgres PostgresConfig
	Storage  StorageConfig
	Server   ServerConfig
}

type AIConfig struct {
	Provider string
	Model    string
	BaseURL  string
	AgentURL string
	Timeout  time.Duration
	// live | demo
	Mode string
}

type InputConfig struct {
	LogPath   string
	ImagePath string
	LogsDir   string
}

type ReportConfig struct {
	Destination       string
	Dir               string
	SingleFilePath    string
	IncludeJSON       bool
	IncludeConfidence bool
	MaxLogChars       int
	ContextLines      int
	FallbackToDemo    bool
	ScoringFile       string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type WebhookConfig struct {
	URL         string
	Body        string
	ContentType string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

// Postgres 사용 여부 (DATABASE_URL 또는 PGUSER/PGDATABASE 필요)
func (c PostgresConfig) Enabled() bool {
	return c.DatabaseURL != "" || (c.User != "" && c.Database != "")
}

type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string
	UseSSL     bool
}

func (c StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.BucketName != ""
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func Load() Config {
	// .env 파일은 선택 사항
	_ = godotenv.Load()

	provider := strings.ToLower(getenv("AI_PROVIDER", ProviderGemini))
	defaultModel := "gemini-2.0-flash"
	if provider == ProviderOpenAI {
		defaultModel = "gpt-4o"
	}

	return Config{
		AI: AIConfig{
			Provider: provider,
			Model:    getenv("AI_MODEL", defaultModel),
			BaseURL:  os.Getenv("AI_BASE_URL"),
			AgentURL: os.Getenv("AGENT_URL"),
			Timeout:  getenvDuration("AI_TIMEOUT", 60*time.Second),
			Mode:     strings.ToLower(getenv("TRIAGE_MODE", "live")),
		},
		Input: InputConfig{
			LogPath:   os.Getenv("LOG_PATH"),
			ImagePath: os.Getenv("IMAGE_PATH"),
			LogsDir:   getenv("LOGS_DIR", "logs"),
		},
		Report: ReportConfig{
			Destination:       strings.ToLower(getenv("REPORT_DESTINATION", DestinationTimestamped)),
			Dir:               getenv("REPORTS_DIR", "reports"),
			SingleFilePath:    getenv("REPORT_FILE", "triage_report.html"),
			IncludeJSON:       getenvBool("REPORT_JSON", true),
			IncludeConfidence: getenvBool("REPORT_CONFIDENCE", true),
			MaxLogChars:       getenvInt("MAX_LOG_CHARS", 50000),
			ContextLines:      getenvInt("LOG_CONTEXT_LINES", 20),
			FallbackToDemo:    getenvBool("FALLBACK_TO_DEMO", false),
			ScoringFile:       os.Getenv("SCORING_FILE"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Webhook: WebhookConfig{
			URL:         os.Getenv("WEBHOOK_URL"),
			Body:        os.Getenv("WEBHOOK_BODY"),
			ContentType: getenv("WEBHOOK_CONTENT_TYPE", "application/json"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Endpoint:   os.Getenv("MINIO_ENDPOINT"),
			AccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:  os.Getenv("MINIO_SECRET_KEY"),
			BucketName: getenv("MINIO_BUCKET", "triage-reports"),
			Region:     getenv("MINIO_REGION", "us-east-1"),
			UseSSL:     getenvBool("MINIO_USE_SSL", false),
		},
		Server: ServerConfig{
			Addr:           getenv("SERVER_ADDR", ":8080"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// "30s" 형식 또는 초 단위 정수 모두 허용
func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
