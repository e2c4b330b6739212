package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/triage-bot/internal/model"
)

type reportLister interface {
	ListReports(ctx context.Context, limit int) ([]model.ReportHistory, error)
}

type ReportsHandler struct {
	repo reportLister
}

// repo가 nil이면 이력 API는 503을 반환
func NewReportsHandler(repo reportLister) *ReportsHandler {
	return &ReportsHandler{repo: repo}
}

// ListReports godoc
// @Summary List recent triage reports
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum rows (default 20)"
// @Success 200 {object} model.ReportHistoryResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/v1/reports [get]
func (h *ReportsHandler) ListReports(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "report history is not configured"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	list, err := h.repo.ListReports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.ReportHistoryResponse{Status: "success", Data: list})
}
