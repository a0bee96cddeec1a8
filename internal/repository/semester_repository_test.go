package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

func TestSemesterListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "index", "label", "created_at", "updated_at"}).
		AddRow("s1", "u1", 1, "Semester 1", now, now).
		AddRow("s2", "u1", 2, "Semester 2", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, index, label, created_at, updated_at FROM semesters WHERE user_id = $1 ORDER BY index ASC, created_at ASC")).
		WithArgs("u1").
		WillReturnRows(rows)

	semesters, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	assert.Equal(t, 2, semesters[1].Index)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec("INSERT INTO semesters").
		WithArgs(sqlmock.AnyArg(), "u1", int64(3), "Semester 3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	semester := &models.Semester{UserID: "u1", Index: 3, Label: "Semester 3"}
	require.NoError(t, repo.Create(context.Background(), semester))
	assert.NotEmpty(t, semester.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec("UPDATE semesters SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Semester{ID: "gone", Index: 1, Label: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM semesters WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM semesters WHERE id = $1")).
		WithArgs("s2").
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	err := repo.Delete(context.Background(), "s2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete semester")
	assert.NoError(t, mock.ExpectationsWereMet())
}
