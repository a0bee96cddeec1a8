package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/gpa"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

type semesterRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Semester, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id string) error
}

type courseRepository interface {
	ListBySemesterIDs(ctx context.Context, semesterIDs []string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// SemesterService manages a user's official academic record and the GPA figures derived from it.
type SemesterService struct {
	semesters semesterRepository
	courses   courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService constructs the service. cache may be nil.
func NewSemesterService(semesters semesterRepository, courses courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{semesters: semesters, courses: courses, cache: cache, validator: validate, logger: logger}
}

// List returns the user's semesters ordered by index with their courses.
func (s *SemesterService) List(ctx context.Context, userID string) ([]models.Semester, error) {
	semesters, err := s.semesters.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	if len(semesters) == 0 {
		return []models.Semester{}, nil
	}

	ids := make([]string, len(semesters))
	for i, sem := range semesters {
		ids[i] = sem.ID
	}
	courses, err := s.courses.ListBySemesterIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	return models.AttachCourses(semesters, courses), nil
}

// CreateSemester adds a semester. A zero index takes the next free one and an empty label is derived from it.
func (s *SemesterService) CreateSemester(ctx context.Context, userID string, req dto.SemesterRequest) (*models.Semester, error) {
	req.Label = strings.TrimSpace(req.Label)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	if req.Index == 0 {
		existing, err := s.semesters.ListByUser(ctx, userID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
		}
		req.Index = models.NextSemesterIndex(existing)
	}
	if req.Label == "" {
		req.Label = fmt.Sprintf("Semester %d", req.Index)
	}

	semester := &models.Semester{UserID: userID, Index: req.Index, Label: req.Label, Courses: []models.Course{}}
	if err := s.semesters.Create(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}
	s.invalidate(ctx, userID)
	return semester, nil
}

// UpdateSemester changes label and index of an owned semester.
func (s *SemesterService) UpdateSemester(ctx context.Context, userID, id string, req dto.SemesterRequest) (*models.Semester, error) {
	req.Label = strings.TrimSpace(req.Label)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	semester, err := s.ownedSemester(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Label != "" {
		semester.Label = req.Label
	}
	if req.Index > 0 {
		semester.Index = req.Index
	}
	if err := s.semesters.Update(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update semester")
	}
	s.invalidate(ctx, userID)
	return semester, nil
}

// DeleteSemester removes an owned semester with its courses.
func (s *SemesterService) DeleteSemester(ctx context.Context, userID, id string) error {
	if _, err := s.ownedSemester(ctx, userID, id); err != nil {
		return err
	}
	if err := s.semesters.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete semester")
	}
	s.invalidate(ctx, userID)
	return nil
}

// AddCourse appends a course to an owned semester.
func (s *SemesterService) AddCourse(ctx context.Context, userID, semesterID string, req dto.CourseRequest) (*models.Course, error) {
	req = normalizeCourse(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.ownedSemester(ctx, userID, semesterID); err != nil {
		return nil, err
	}

	course := &models.Course{SemesterID: semesterID, Name: req.Name, Code: req.Code, Credits: req.Credits, Grade: req.Grade}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidate(ctx, userID)
	return course, nil
}

// UpdateCourse replaces the fields of an owned course.
func (s *SemesterService) UpdateCourse(ctx context.Context, userID, courseID string, req dto.CourseRequest) (*models.Course, error) {
	req = normalizeCourse(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	course.Name = req.Name
	course.Code = req.Code
	course.Credits = req.Credits
	course.Grade = req.Grade
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidate(ctx, userID)
	return course, nil
}

// DeleteCourse removes an owned course.
func (s *SemesterService) DeleteCourse(ctx context.Context, userID, courseID string) error {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidate(ctx, userID)
	return nil
}

// NextIndex suggests the index of the user's next semester.
func (s *SemesterService) NextIndex(ctx context.Context, userID string) (int, error) {
	semesters, err := s.semesters.ListByUser(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	return models.NextSemesterIndex(semesters), nil
}

// Summary returns CGPA, total credits and per-semester SGPA.
func (s *SemesterService) Summary(ctx context.Context, userID string) (*dto.GPASummary, bool, error) {
	key := UserKey(userID, "summary")
	var cached dto.GPASummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	semesters, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	summary := BuildSummary(semesters)
	_ = s.cache.Set(ctx, key, summary, 0)
	return summary, false, nil
}

// Trend returns the SGPA trend line.
func (s *SemesterService) Trend(ctx context.Context, userID string) ([]gpa.TrendPoint, bool, error) {
	key := UserKey(userID, "trend")
	var cached []gpa.TrendPoint
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	semesters, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	points := gpa.Trend(semesters)
	_ = s.cache.Set(ctx, key, points, 0)
	return points, false, nil
}

// Breakdown returns the per-course grade bars of one owned semester.
func (s *SemesterService) Breakdown(ctx context.Context, userID, semesterID string) ([]gpa.CourseBar, error) {
	if _, err := s.ownedSemester(ctx, userID, semesterID); err != nil {
		return nil, err
	}
	courses, err := s.courses.ListBySemesterIDs(ctx, []string{semesterID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	return gpa.Breakdown(courses), nil
}

// Invalidate drops the user's cached GPA figures.
func (s *SemesterService) Invalidate(ctx context.Context, userID string) {
	s.invalidate(ctx, userID)
}

// BuildSummary computes the GPA summary of a record.
func BuildSummary(semesters []models.Semester) *dto.GPASummary {
	summary := &dto.GPASummary{
		CGPA:         gpa.CGPA(semesters),
		TotalCredits: gpa.TotalCredits(models.AllCourses(semesters)),
		Semesters:    make([]dto.SemesterGPA, 0, len(semesters)),
	}
	summary.Display = gpa.Format(summary.CGPA)
	for _, sem := range semesters {
		sgpa := gpa.SGPA(sem.Courses)
		summary.Semesters = append(summary.Semesters, dto.SemesterGPA{
			ID:          sem.ID,
			Index:       sem.Index,
			Label:       sem.Label,
			SGPA:        sgpa,
			Display:     gpa.Format(sgpa),
			Credits:     gpa.TotalCredits(sem.Courses),
			CourseCount: len(sem.Courses),
		})
	}
	return summary
}

func (s *SemesterService) ownedSemester(ctx context.Context, userID, id string) (*models.Semester, error) {
	semester, err := s.semesters.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	if semester.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
	}
	return semester, nil
}

func (s *SemesterService) ownedCourse(ctx context.Context, userID, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.ownedSemester(ctx, userID, course.SemesterID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

func (s *SemesterService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate gpa cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func normalizeCourse(req dto.CourseRequest) dto.CourseRequest {
	req.Name = strings.TrimSpace(req.Name)
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			req.Code = nil
		} else {
			req.Code = &code
		}
	}
	return req
}
