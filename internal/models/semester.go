package models

import "time"

// Semester groups the courses a user took in one academic term.
type Semester struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Index     int       `db:"index" json:"index"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Courses   []Course  `db:"-" json:"courses"`
}

// Course is a graded course owned by a semester.
type Course struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	Name       string    `db:"name" json:"name"`
	Code       *string   `db:"code" json:"code"`
	Credits    float64   `db:"credits" json:"credits"`
	Grade      Grade     `db:"grade" json:"grade"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AllCourses flattens the courses of every semester in order.
func AllCourses(semesters []Semester) []Course {
	var out []Course
	for _, s := range semesters {
		out = append(out, s.Courses...)
	}
	return out
}

// NextSemesterIndex suggests the index for a new semester.
func NextSemesterIndex(semesters []Semester) int {
	next := 1
	for _, s := range semesters {
		if s.Index >= next {
			next = s.Index + 1
		}
	}
	return next
}

// AttachCourses distributes courses onto their semesters, preserving course order.
func AttachCourses(semesters []Semester, courses []Course) []Semester {
	bySemester := make(map[string][]Course, len(semesters))
	for _, c := range courses {
		bySemester[c.SemesterID] = append(bySemester[c.SemesterID], c)
	}
	for i := range semesters {
		semesters[i].Courses = bySemester[semesters[i].ID]
		if semesters[i].Courses == nil {
			semesters[i].Courses = []Course{}
		}
	}
	return semesters
}
