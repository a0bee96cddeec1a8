package gpa

import "github.com/noah-isme/gpa-tracker-api/internal/models"

const shortNameLen = 12

// TrendPoint is one semester on the SGPA trend line.
type TrendPoint struct {
	SemesterID string  `json:"semester_id"`
	Label      string  `json:"label"`
	Index      int     `json:"index"`
	SGPA       float64 `json:"sgpa"`
	Defined    bool    `json:"defined"`
	Credits    float64 `json:"credits"`
}

// CourseBar is one course in a single-semester grade breakdown.
type CourseBar struct {
	Name        string       `json:"name"`
	FullName    string       `json:"full_name"`
	GradePoints float64      `json:"grade_points"`
	Grade       models.Grade `json:"grade"`
	Credits     float64      `json:"credits"`
}

// Trend maps semesters to chart points. Semesters without a defined SGPA plot at zero.
func Trend(semesters []models.Semester) []TrendPoint {
	points := make([]TrendPoint, 0, len(semesters))
	for _, s := range semesters {
		p := TrendPoint{
			SemesterID: s.ID,
			Label:      s.Label,
			Index:      s.Index,
			Credits:    TotalCredits(s.Courses),
		}
		if v := SGPA(s.Courses); v != nil {
			p.SGPA = Round2(*v)
			p.Defined = true
		}
		points = append(points, p)
	}
	return points
}

// Breakdown maps a semester's courses to bars labelled by code, or a shortened name.
func Breakdown(courses []models.Course) []CourseBar {
	bars := make([]CourseBar, 0, len(courses))
	for _, c := range courses {
		name := c.Name
		if c.Code != nil && *c.Code != "" {
			name = *c.Code
		} else if r := []rune(name); len(r) > shortNameLen {
			name = string(r[:shortNameLen])
		}
		points, _ := c.Grade.Points()
		bars = append(bars, CourseBar{
			Name:        name,
			FullName:    c.Name,
			GradePoints: points,
			Grade:       c.Grade,
			Credits:     c.Credits,
		})
	}
	return bars
}
