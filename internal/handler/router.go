package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RouterConfig - 라우터 구성 요소
type RouterConfig struct {
	Triage         *TriageHandler
	Reports        *ReportsHandler
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(RequestLogger(cfg.Logger))
	}
	router.Use(CORSMiddleware(cfg.AllowedOrigins, false))

	// 건강 체크 및 기본 엔드포인트
	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)

	api := router.Group("/api/v1")
	if cfg.Triage != nil {
		api.POST("/triage", cfg.Triage.CreateTriage)
	}
	if cfg.Reports == nil {
		cfg.Reports = NewReportsHandler(nil)
	}
	api.GET("/reports", cfg.Reports.ListReports)

	return router
}
