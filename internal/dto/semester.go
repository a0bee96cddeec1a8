package dto

import "github.com/noah-isme/gpa-tracker-api/internal/models"

// SemesterRequest captures POST/PUT /semesters payloads. Zero index and empty label are filled in on create.
type SemesterRequest struct {
	Label string `json:"label" validate:"omitempty,max=64"`
	Index int    `json:"index" validate:"omitempty,gte=1"`
}

// CourseRequest captures course create and update payloads.
type CourseRequest struct {
	Name    string       `json:"name" validate:"required,max=128"`
	Code    *string      `json:"code,omitempty" validate:"omitempty,max=16"`
	Credits float64      `json:"credits" validate:"gt=0,half_step"`
	Grade   models.Grade `json:"grade" validate:"required,oneof=O A+ A B+ B C D E F R I"`
}

// SemesterGPA is one row of the GPA summary.
type SemesterGPA struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"`
	Label       string   `json:"label"`
	SGPA        *float64 `json:"sgpa"`
	Display     string   `json:"display"`
	Credits     float64  `json:"credits"`
	CourseCount int      `json:"course_count"`
}

// GPASummary is returned by GET /gpa/summary.
type GPASummary struct {
	CGPA         *float64      `json:"cgpa"`
	Display      string        `json:"display"`
	TotalCredits float64       `json:"total_credits"`
	Semesters    []SemesterGPA `json:"semesters"`
}
