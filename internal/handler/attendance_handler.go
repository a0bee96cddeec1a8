package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/attendance"
	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type attendanceService interface {
	Get(ctx context.Context, userID string) (*dto.AttendanceResponse, error)
	Save(ctx context.Context, userID string, data models.AttendanceData) (*dto.AttendanceResponse, error)
	Report(ctx context.Context, userID string) (*attendance.Report, error)
	Evaluate(ctx context.Context, data models.AttendanceData) (*attendance.Report, error)
}

// AttendanceHandler exposes the attendance profile and its analysis.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Get godoc
// @Summary Attendance profile with report
// @Description Returns a default profile when none has been saved.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Save godoc
// @Summary Replace the attendance profile
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AttendanceData true "Attendance profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var data models.AttendanceData
	if !bindJSON(c, &data, "invalid attendance payload") {
		return
	}
	res, err := h.service.Save(c.Request.Context(), userID, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Report godoc
// @Summary Attendance report for the saved profile
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /attendance/report [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	report, err := h.service.Report(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Evaluate godoc
// @Summary What-if report for a posted profile
// @Description Nothing is stored.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AttendanceData true "Attendance profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/evaluate [post]
func (h *AttendanceHandler) Evaluate(c *gin.Context) {
	var data models.AttendanceData
	if !bindJSON(c, &data, "invalid attendance payload") {
		return
	}
	report, err := h.service.Evaluate(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
