package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/kube-rca/triage-bot/internal/service"
)

// 업로드 파일 최대 크기
const maxUploadBytes = 20 << 20

type triageRunner interface {
	Run(ctx context.Context, req service.TriageRequest) (*model.TriageOutcome, error)
}

type TriageHandler struct {
	svc         triageRunner
	opts        service.Options
	defaultMode model.Mode
}

func NewTriageHandler(svc triageRunner, opts service.Options, defaultMode model.Mode) *TriageHandler {
	if defaultMode == "" {
		defaultMode = model.ModeLive
	}
	return &TriageHandler{svc: svc, opts: opts, defaultMode: defaultMode}
}

// CreateTriage godoc
// @Summary Run failure triage on an uploaded log and screenshot
// @Tags triage
// @Accept multipart/form-data
// @Produce json
// @Param log formData file false "Failed test log"
// @Param image formData file false "Screenshot (PNG/JPEG)"
// @Param mode formData string false "live or demo"
// @Success 200 {object} model.TriageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/triage [post]
func (h *TriageHandler) CreateTriage(c *gin.Context) {
	mode := h.defaultMode
	if raw := strings.ToLower(strings.TrimSpace(c.PostForm("mode"))); raw != "" {
		parsed, ok := model.ParseMode(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: fmt.Sprintf("invalid mode %q", raw)})
			return
		}
		mode = parsed
	}

	in := service.Inputs{}
	logData, logName, err := readUpload(c, "log")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if logData == nil {
		in.Warnings = append(in.Warnings, fmt.Errorf("%w: no log uploaded", service.ErrLogNotFound))
	} else {
		in.LogPath = logName
		in.LogText = strings.ToValidUTF8(string(logData), "�")
	}

	imgData, imgName, err := readUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if imgData != nil {
		img, err := service.NewImageInput(imgData, imgName)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		in.Image = img
	}

	outcome, err := h.svc.Run(c.Request.Context(), service.TriageRequest{
		Inputs:  &in,
		Mode:    mode,
		Options: h.opts,
	})
	if err != nil {
		c.JSON(statusForError(err), model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TriageResponse{
		Status:   "success",
		Report:   outcome.Report.Document(),
		HTMLPath: outcome.Paths.HTMLPath,
		JSONPath: outcome.Paths.JSONPath,
		FellBack: outcome.FellBack,
		Stages:   outcome.Stages,
	})
}

// readUpload - 폼 파일이 없으면 nil 반환
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid %s upload: %w", field, err)
	}
	if fh.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("%s upload exceeds %d bytes", field, maxUploadBytes)
	}
	data, err := readFileHeader(fh)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return data, filepath.Base(fh.Filename), nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
}

// AnalysisUnavailable은 외부 AI 실패이므로 502, 리포트 쓰기 실패 등은 500
func statusForError(err error) int {
	var unavailable *service.AnalysisUnavailableError
	if errors.As(err, &unavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
