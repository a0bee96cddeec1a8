package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/predictor"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type predictorService interface {
	Start(ctx context.Context, userID string) (*dto.PredictorView, error)
	View(ctx context.Context, userID string) (*dto.PredictorView, error)
	AddSemester(ctx context.Context, userID string, req dto.PredictorSemesterRequest) (*dto.PredictorView, error)
	EditSemester(ctx context.Context, userID, semesterKey string, req dto.PredictorSemesterUpdate) (*dto.PredictorView, error)
	DeleteSemester(ctx context.Context, userID, semesterKey string) (*dto.PredictorView, error)
	AddCourse(ctx context.Context, userID, semesterKey string, req dto.PredictorCourseRequest) (*dto.PredictorView, error)
	EditCourse(ctx context.Context, userID, semesterKey, courseKey string, req dto.PredictorCourseUpdate) (*dto.PredictorView, error)
	DeleteCourse(ctx context.Context, userID, semesterKey, courseKey string) (*dto.PredictorView, error)
	Reset(ctx context.Context, userID string) (*dto.PredictorView, error)
	Plan(ctx context.Context, userID string) ([]predictor.Operation, error)
	Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*predictor.CommitResult, error)
}

// PredictorHandler exposes the what-if draft of the official record.
type PredictorHandler struct {
	service predictorService
}

// NewPredictorHandler constructs the handler.
func NewPredictorHandler(svc predictorService) *PredictorHandler {
	return &PredictorHandler{service: svc}
}

func (h *PredictorHandler) respond(c *gin.Context, status int, view *dto.PredictorView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, status, view)
}

// Start godoc
// @Summary Open a predictor session
// @Description Copies the official record into a fresh draft, replacing any previous session.
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Router /predictor/session [post]
func (h *PredictorHandler) Start(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.Start(c.Request.Context(), userID)
	h.respond(c, http.StatusCreated, view, err)
}

// View godoc
// @Summary Current draft with predicted and official CGPA
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /predictor [get]
func (h *PredictorHandler) View(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), userID)
	h.respond(c, http.StatusOK, view, err)
}

// AddSemester godoc
// @Summary Add a draft semester
// @Tags Predictor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PredictorSemesterRequest true "Semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /predictor/semesters [post]
func (h *PredictorHandler) AddSemester(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.PredictorSemesterRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	view, err := h.service.AddSemester(c.Request.Context(), userID, req)
	h.respond(c, http.StatusOK, view, err)
}

// EditSemester godoc
// @Summary Rename or reorder a draft semester
// @Tags Predictor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester id or pending id"
// @Param payload body dto.PredictorSemesterUpdate true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /predictor/semesters/{id} [patch]
func (h *PredictorHandler) EditSemester(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.PredictorSemesterUpdate
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	view, err := h.service.EditSemester(c.Request.Context(), userID, c.Param("id"), req)
	h.respond(c, http.StatusOK, view, err)
}

// DeleteSemester godoc
// @Summary Remove a draft semester
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester id or pending id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /predictor/semesters/{id} [delete]
func (h *PredictorHandler) DeleteSemester(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.DeleteSemester(c.Request.Context(), userID, c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

// AddCourse godoc
// @Summary Add a draft course
// @Tags Predictor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester id or pending id"
// @Param payload body dto.PredictorCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /predictor/semesters/{id}/courses [post]
func (h *PredictorHandler) AddCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.PredictorCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	view, err := h.service.AddCourse(c.Request.Context(), userID, c.Param("id"), req)
	h.respond(c, http.StatusOK, view, err)
}

// EditCourse godoc
// @Summary Change a draft course
// @Tags Predictor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester id or pending id"
// @Param courseId path string true "Course id or pending id"
// @Param payload body dto.PredictorCourseUpdate true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /predictor/semesters/{id}/courses/{courseId} [patch]
func (h *PredictorHandler) EditCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.PredictorCourseUpdate
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	view, err := h.service.EditCourse(c.Request.Context(), userID, c.Param("id"), c.Param("courseId"), req)
	h.respond(c, http.StatusOK, view, err)
}

// DeleteCourse godoc
// @Summary Remove a draft course
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester id or pending id"
// @Param courseId path string true "Course id or pending id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /predictor/semesters/{id}/courses/{courseId} [delete]
func (h *PredictorHandler) DeleteCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.DeleteCourse(c.Request.Context(), userID, c.Param("id"), c.Param("courseId"))
	h.respond(c, http.StatusOK, view, err)
}

// Reset godoc
// @Summary Discard the draft
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /predictor/reset [post]
func (h *PredictorHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.Reset(c.Request.Context(), userID)
	h.respond(c, http.StatusOK, view, err)
}

// Plan godoc
// @Summary Storage steps an apply would run
// @Tags Predictor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /predictor/plan [get]
func (h *PredictorHandler) Plan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := h.service.Plan(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, map[string]interface{}{"steps": len(plan)})
}

// Apply godoc
// @Summary Overwrite the official record with the draft
// @Description Requires {"confirm": true}. A failed step leaves earlier steps applied and the draft intact.
// @Tags Predictor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ApplyRequest true "Confirmation"
// @Success 200 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /predictor/apply [post]
func (h *PredictorHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid apply payload") {
		return
	}
	result, err := h.service.Apply(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
