package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

const semesterColumns = `id, user_id, index, label, created_at, updated_at`

// SemesterRepository persists semesters. Courses are loaded through CourseRepository.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// ListByUser returns a user's semesters ordered by index, without courses.
func (r *SemesterRepository) ListByUser(ctx context.Context, userID string) ([]models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE user_id = $1 ORDER BY index ASC, created_at ASC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, userID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID returns a semester or sql.ErrNoRows.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find semester: %w", err)
	}
	return &semester, nil
}

// Create inserts a semester and assigns its id.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if semester.CreatedAt.IsZero() {
		semester.CreatedAt = now
	}
	semester.UpdatedAt = now

	const query = `INSERT INTO semesters (id, user_id, index, label, created_at, updated_at) VALUES (:id, :user_id, :index, :label, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// Update changes label and index.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) error {
	semester.UpdatedAt = time.Now().UTC()
	const query = `UPDATE semesters SET index = :index, label = :label, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, semester)
	if err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	return expectAffected(res, "update semester")
}

// Delete removes a semester; its courses cascade.
func (r *SemesterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM semesters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete semester: %w", err)
	}
	return expectAffected(res, "delete semester")
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
