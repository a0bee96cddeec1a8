package service

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("half_step", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Mod(f*2, 1) == 0
	})
	v.RegisterStructValidation(attendanceCourseLevel, models.AttendanceCourse{})
	return v
}

// attendanceCourseLevel keeps attended plus duty leave within the classes held.
func attendanceCourseLevel(sl validator.StructLevel) {
	course := sl.Current().Interface().(models.AttendanceCourse)
	if course.CombinedAttended() > course.TotalClasses {
		sl.ReportError(course.Attended, "Attended", "attended", "lte_total", "")
	}
}
