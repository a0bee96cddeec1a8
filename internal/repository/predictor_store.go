package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/predictor"
)

type semesterWriter interface {
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id string) error
}

type courseWriter interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// PredictorStore applies predictor commit steps through the semester and course repositories.
// Deletes are idempotent so an apply that failed part way can be retried from the same draft.
type PredictorStore struct {
	semesters semesterWriter
	courses   courseWriter
}

// NewPredictorStore constructs the store.
func NewPredictorStore(semesters semesterWriter, courses courseWriter) *PredictorStore {
	return &PredictorStore{semesters: semesters, courses: courses}
}

var _ predictor.Store = (*PredictorStore)(nil)

// CreateSemester implements predictor.Store.
func (s *PredictorStore) CreateSemester(ctx context.Context, userID string, fields predictor.SemesterFields) (string, error) {
	semester := &models.Semester{UserID: userID, Index: fields.Index, Label: fields.Label}
	if err := s.semesters.Create(ctx, semester); err != nil {
		return "", err
	}
	return semester.ID, nil
}

// UpdateSemester implements predictor.Store.
func (s *PredictorStore) UpdateSemester(ctx context.Context, id string, fields predictor.SemesterFields) error {
	return s.semesters.Update(ctx, &models.Semester{ID: id, Index: fields.Index, Label: fields.Label})
}

// DeleteSemester implements predictor.Store.
func (s *PredictorStore) DeleteSemester(ctx context.Context, id string) error {
	return ignoreMissing(s.semesters.Delete(ctx, id))
}

// CreateCourse implements predictor.Store.
func (s *PredictorStore) CreateCourse(ctx context.Context, semesterID string, fields predictor.CourseFields) (string, error) {
	course := &models.Course{
		SemesterID: semesterID,
		Name:       fields.Name,
		Code:       fields.Code,
		Credits:    fields.Credits,
		Grade:      fields.Grade,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return "", err
	}
	return course.ID, nil
}

// UpdateCourse implements predictor.Store.
func (s *PredictorStore) UpdateCourse(ctx context.Context, id string, fields predictor.CourseFields) error {
	return s.courses.Update(ctx, &models.Course{
		ID:      id,
		Name:    fields.Name,
		Code:    fields.Code,
		Credits: fields.Credits,
		Grade:   fields.Grade,
	})
}

// DeleteCourse implements predictor.Store.
func (s *PredictorStore) DeleteCourse(ctx context.Context, id string) error {
	return ignoreMissing(s.courses.Delete(ctx, id))
}

func ignoreMissing(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
