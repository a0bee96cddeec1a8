package dto

import (
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/predictor"
)

// PredictorSemesterRequest adds a draft semester. A zero index takes the next free one.
type PredictorSemesterRequest struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// PredictorSemesterUpdate renames or reorders a draft semester; omitted fields stay unchanged.
type PredictorSemesterUpdate struct {
	Label *string `json:"label,omitempty"`
	Index *int    `json:"index,omitempty"`
}

// PredictorCourseRequest adds a draft course.
type PredictorCourseRequest struct {
	Name    string       `json:"name"`
	Code    *string      `json:"code,omitempty"`
	Credits float64      `json:"credits"`
	Grade   models.Grade `json:"grade"`
}

// PredictorCourseUpdate edits a draft course; omitted fields stay unchanged.
type PredictorCourseUpdate struct {
	Name    *string       `json:"name,omitempty"`
	Code    *string       `json:"code,omitempty"`
	Credits *float64      `json:"credits,omitempty"`
	Grade   *models.Grade `json:"grade,omitempty"`
}

// ApplyRequest confirms that the draft should overwrite the official record.
type ApplyRequest struct {
	Confirm bool `json:"confirm"`
}

// PredictorCourseView is a draft course with its modification flag.
type PredictorCourseView struct {
	Ref      predictor.Ref `json:"ref"`
	Name     string        `json:"name"`
	Code     *string       `json:"code"`
	Credits  float64       `json:"credits"`
	Grade    models.Grade  `json:"grade"`
	Modified bool          `json:"modified"`
}

// PredictorSemesterView is a draft semester with its predicted SGPA.
type PredictorSemesterView struct {
	Ref      predictor.Ref         `json:"ref"`
	Index    int                   `json:"index"`
	Label    string                `json:"label"`
	SGPA     *float64              `json:"sgpa"`
	Display  string                `json:"display"`
	Affected bool                  `json:"affected"`
	Courses  []PredictorCourseView `json:"courses"`
}

// PredictorView is the full state of a predictor session.
type PredictorView struct {
	Dirty         bool                    `json:"dirty"`
	PredictedCGPA *float64                `json:"predicted_cgpa"`
	OfficialCGPA  *float64                `json:"official_cgpa"`
	Delta         *float64                `json:"delta"`
	Display       string                  `json:"display"`
	Semesters     []PredictorSemesterView `json:"semesters"`
	NextIndex     int                     `json:"next_index"`
}
