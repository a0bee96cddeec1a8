package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

func TestValidatorAttendanceWithinTotal(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name   string
		course models.AttendanceCourse
		valid  bool
	}{
		{name: "all attended", course: models.AttendanceCourse{Attended: 38, DutyLeave: 2, TotalClasses: 40}, valid: true},
		{name: "nothing held", course: models.AttendanceCourse{}, valid: true},
		{name: "duty leave overflows", course: models.AttendanceCourse{Attended: 38, DutyLeave: 3, TotalClasses: 40}},
		{name: "attended overflows", course: models.AttendanceCourse{Attended: 5, TotalClasses: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(models.AttendanceData{Courses: []models.AttendanceCourse{tt.course}, Target: 75})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, "lte_total", verrs[0].Tag())
			assert.Equal(t, "Attended", verrs[0].Field())
		})
	}
}

func TestValidatorHalfStep(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Var(3.5, "half_step"))
	assert.Error(t, v.Var(3.25, "half_step"))
}

func TestAttendanceServiceRejectsOverfullCourse(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, zap.NewNop(), 75)

	_, err := svc.Save(context.Background(), "u1", models.AttendanceData{
		Courses: []models.AttendanceCourse{{Name: "Maths", Attended: 40, DutyLeave: 5, TotalClasses: 40, Remaining: 10}},
		Target:  75,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.profiles)

	_, err = svc.Evaluate(context.Background(), models.AttendanceData{
		Courses: []models.AttendanceCourse{{Name: "Maths", Attended: 11, TotalClasses: 10}},
		Target:  75,
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
