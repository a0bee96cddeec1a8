package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type exportService interface {
	Transcript(ctx context.Context, userID, format string) (*dto.ExportFile, error)
	Attendance(ctx context.Context, userID, format string) (*dto.ExportFile, error)
}

// ExportHandler streams generated files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Transcript godoc
// @Summary Download the transcript
// @Tags Exports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/transcript [get]
func (h *ExportHandler) Transcript(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	file, err := h.service.Transcript(c.Request.Context(), userID, c.Query("format"))
	h.send(c, file, err)
}

// Attendance godoc
// @Summary Download the attendance report
// @Tags Exports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or xlsx (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	file, err := h.service.Attendance(c.Request.Context(), userID, c.Query("format"))
	h.send(c, file, err)
}

func (h *ExportHandler) send(c *gin.Context, file *dto.ExportFile, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
