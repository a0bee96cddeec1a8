package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/attendance"
	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

type attendanceRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.AttendanceProfile, error)
	Upsert(ctx context.Context, profile *models.AttendanceProfile) error
}

// AttendanceService stores attendance profiles and derives bunk and condonation figures.
type AttendanceService struct {
	repo          attendanceRepository
	validator     *validator.Validate
	logger        *zap.Logger
	defaultTarget float64
}

// NewAttendanceService constructs the service. A non-positive target falls back to the pass threshold.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger, defaultTarget float64) *AttendanceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTarget <= 0 || defaultTarget > 100 {
		defaultTarget = attendance.DefaultTarget
	}
	return &AttendanceService{repo: repo, validator: validate, logger: logger, defaultTarget: defaultTarget}
}

// Get returns the user's profile, or a fresh one with a single blank course when none is stored.
func (s *AttendanceService) Get(ctx context.Context, userID string) (*dto.AttendanceResponse, error) {
	data, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AttendanceResponse{Profile: data, Report: attendance.Analyze(data)}, nil
}

// Save replaces the user's profile.
func (s *AttendanceService) Save(ctx context.Context, userID string, data models.AttendanceData) (*dto.AttendanceResponse, error) {
	data = normalizeAttendance(data)
	if err := s.validator.Struct(data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	profile := &models.AttendanceProfile{UserID: userID, Data: data}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	return &dto.AttendanceResponse{Profile: data, Report: attendance.Analyze(data)}, nil
}

// Report analyses the stored profile.
func (s *AttendanceService) Report(ctx context.Context, userID string) (*attendance.Report, error) {
	data, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := attendance.Analyze(data)
	return &report, nil
}

// Evaluate analyses a posted profile without storing it.
func (s *AttendanceService) Evaluate(ctx context.Context, data models.AttendanceData) (*attendance.Report, error) {
	data = normalizeAttendance(data)
	if err := s.validator.Struct(data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	report := attendance.Analyze(data)
	return &report, nil
}

func (s *AttendanceService) load(ctx context.Context, userID string) (models.AttendanceData, error) {
	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.defaults(), nil
		}
		return models.AttendanceData{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	data := profile.Data
	if data.Courses == nil {
		data.Courses = []models.AttendanceCourse{}
	}
	return data, nil
}

func (s *AttendanceService) defaults() models.AttendanceData {
	return models.AttendanceData{
		Courses: []models.AttendanceCourse{{ID: uuid.NewString()}},
		Target:  s.defaultTarget,
	}
}

func normalizeAttendance(data models.AttendanceData) models.AttendanceData {
	courses := make([]models.AttendanceCourse, len(data.Courses))
	for i, c := range data.Courses {
		c.Name = strings.TrimSpace(c.Name)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		courses[i] = c
	}
	data.Courses = courses
	return data
}
