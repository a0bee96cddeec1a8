// Package gpa computes grade point averages and credit totals.
//
// Courses graded I are left out of both the weighted sum and the credit total,
// so a list made only of such courses has no GPA at all. CGPA is recomputed from
// the flattened course list rather than averaged from semester SGPAs.
package gpa

import (
	"math"
	"strconv"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// NotApplicable is rendered when no course counts towards the average.
const NotApplicable = "N/A"

// Compute returns the credit-weighted grade point average, or nil when no course counts.
func Compute(courses []models.Course) *float64 {
	var points, credits float64
	for _, c := range courses {
		p, ok := c.Grade.Points()
		if !ok {
			continue
		}
		points += p * c.Credits
		credits += c.Credits
	}
	if credits == 0 {
		return nil
	}
	v := points / credits
	return &v
}

// SGPA is the average of a single semester.
func SGPA(courses []models.Course) *float64 {
	return Compute(courses)
}

// CGPA is the average over every course of every semester.
func CGPA(semesters []models.Semester) *float64 {
	return Compute(models.AllCourses(semesters))
}

// TotalCredits sums credits of counted courses.
func TotalCredits(courses []models.Course) float64 {
	var total float64
	for _, c := range courses {
		if c.Grade.Counted() {
			total += c.Credits
		}
	}
	return total
}

// Format renders a GPA with two decimals.
func Format(v *float64) string {
	if v == nil {
		return NotApplicable
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Delta returns predicted minus official when both are defined.
func Delta(predicted, official *float64) *float64 {
	if predicted == nil || official == nil {
		return nil
	}
	d := *predicted - *official
	return &d
}

// Round2 rounds to two decimals for chart values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
