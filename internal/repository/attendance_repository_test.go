package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

func TestAttendanceFindByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	doc := []byte(`{"courses":[{"id":"a1","name":"Maths","attended":30,"dutyLeave":2,"totalClasses":40,"remaining":10}],"target":80,"prevTerm1":70,"prevTerm2":null}`)
	rows := sqlmock.NewRows([]string{"user_id", "data", "updated_at"}).AddRow("u1", doc, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, data, updated_at FROM attendance_profiles WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(rows)

	profile, err := repo.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, profile.Data.Courses, 1)
	assert.Equal(t, 2, profile.Data.Courses[0].DutyLeave)
	assert.Equal(t, 80.0, profile.Data.Target)
	require.NotNil(t, profile.Data.PrevTerm1)
	assert.Equal(t, 70.0, *profile.Data.PrevTerm1)
	assert.Nil(t, profile.Data.PrevTerm2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceFindByUserMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("FROM attendance_profiles").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAttendanceUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data")).
		WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	profile := &models.AttendanceProfile{UserID: "u1", Data: models.AttendanceData{Target: 75}}
	require.NoError(t, repo.Upsert(context.Background(), profile))
	assert.False(t, profile.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
