package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// AttendanceRepository stores one attendance document per user.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByUser returns the stored profile or sql.ErrNoRows.
func (r *AttendanceRepository) FindByUser(ctx context.Context, userID string) (*models.AttendanceProfile, error) {
	const query = `SELECT user_id, data, updated_at FROM attendance_profiles WHERE user_id = $1`
	var profile models.AttendanceProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance profile: %w", err)
	}
	return &profile, nil
}

// Upsert replaces the user's profile.
func (r *AttendanceRepository) Upsert(ctx context.Context, profile *models.AttendanceProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO attendance_profiles (user_id, data, updated_at) VALUES (:user_id, :data, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert attendance profile: %w", err)
	}
	return nil
}
