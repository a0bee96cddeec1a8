package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/gpa"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type semesterService interface {
	List(ctx context.Context, userID string) ([]models.Semester, error)
	CreateSemester(ctx context.Context, userID string, req dto.SemesterRequest) (*models.Semester, error)
	UpdateSemester(ctx context.Context, userID, id string, req dto.SemesterRequest) (*models.Semester, error)
	DeleteSemester(ctx context.Context, userID, id string) error
	AddCourse(ctx context.Context, userID, semesterID string, req dto.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, userID, courseID string, req dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, userID, courseID string) error
	Summary(ctx context.Context, userID string) (*dto.GPASummary, bool, error)
	Trend(ctx context.Context, userID string) ([]gpa.TrendPoint, bool, error)
	Breakdown(ctx context.Context, userID, semesterID string) ([]gpa.CourseBar, error)
}

// SemesterHandler exposes the official record and GPA figures.
type SemesterHandler struct {
	service semesterService
}

// NewSemesterHandler constructs the handler.
func NewSemesterHandler(svc semesterService) *SemesterHandler {
	return &SemesterHandler{service: svc}
}

// List godoc
// @Summary List semesters with courses
// @Tags Semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *SemesterHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	semesters, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters)
}

// Create godoc
// @Summary Add a semester
// @Description A zero index takes the next free index; an empty label becomes "Semester N".
// @Tags Semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /semesters [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	semester, err := h.service.CreateSemester(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// Update godoc
// @Summary Rename or renumber a semester
// @Tags Semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Param payload body dto.SemesterRequest true "Semester payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semesters/{id} [put]
func (h *SemesterHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	semester, err := h.service.UpdateSemester(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester)
}

// Delete godoc
// @Summary Delete a semester and its courses
// @Tags Semesters
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /semesters/{id} [delete]
func (h *SemesterHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSemester(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddCourse godoc
// @Summary Add a course to a semester
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Param payload body dto.CourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semesters/{id}/courses [post]
func (h *SemesterHandler) AddCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.service.AddCourse(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateCourse godoc
// @Summary Replace a course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body dto.CourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *SemesterHandler) UpdateCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *SemesterHandler) DeleteCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summary godoc
// @Summary CGPA, credits and per-semester SGPA
// @Tags GPA
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /gpa/summary [get]
func (h *SemesterHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, hit, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, cachedMeta(c, hit))
}

// Trend godoc
// @Summary SGPA per semester for charting
// @Tags GPA
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /gpa/trend [get]
func (h *SemesterHandler) Trend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	points, hit, err := h.service.Trend(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, cachedMeta(c, hit))
}

// Breakdown godoc
// @Summary Grade points per course of one semester
// @Tags GPA
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /gpa/semesters/{id}/breakdown [get]
func (h *SemesterHandler) Breakdown(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bars, err := h.service.Breakdown(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bars)
}
