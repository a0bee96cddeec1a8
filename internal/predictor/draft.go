package predictor

import (
	"time"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// Course is a course inside a draft semester.
type Course struct {
	Ref       Ref          `json:"ref"`
	Name      string       `json:"name"`
	Code      *string      `json:"code"`
	Credits   float64      `json:"credits"`
	Grade     models.Grade `json:"grade"`
	CreatedAt time.Time    `json:"created_at"`
}

// Semester is a semester aggregate inside a draft; it owns its courses.
type Semester struct {
	Ref       Ref       `json:"ref"`
	UserID    string    `json:"user_id"`
	Index     int       `json:"index"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Courses   []Course  `json:"courses"`
}

// Model converts the draft course into a plain course for GPA computations.
func (c Course) Model() models.Course {
	return models.Course{
		ID:        c.Ref.ID(),
		Name:      c.Name,
		Code:      cloneCode(c.Code),
		Credits:   c.Credits,
		Grade:     c.Grade,
		CreatedAt: c.CreatedAt,
	}
}

// Model converts the draft semester, courses included.
func (s Semester) Model() models.Semester {
	out := models.Semester{
		ID:        s.Ref.ID(),
		UserID:    s.UserID,
		Index:     s.Index,
		Label:     s.Label,
		CreatedAt: s.CreatedAt,
		Courses:   make([]models.Course, 0, len(s.Courses)),
	}
	for _, c := range s.Courses {
		m := c.Model()
		m.SemesterID = out.ID
		out.Courses = append(out.Courses, m)
	}
	return out
}

// Models converts a whole draft.
func Models(semesters []Semester) []models.Semester {
	out := make([]models.Semester, 0, len(semesters))
	for _, s := range semesters {
		out = append(out, s.Model())
	}
	return out
}

// FromModels builds draft aggregates from stored semesters.
func FromModels(official []models.Semester) []Semester {
	out := make([]Semester, 0, len(official))
	for _, s := range official {
		sem := Semester{
			Ref:       Persisted(s.ID),
			UserID:    s.UserID,
			Index:     s.Index,
			Label:     s.Label,
			CreatedAt: s.CreatedAt,
			Courses:   make([]Course, 0, len(s.Courses)),
		}
		for _, c := range s.Courses {
			sem.Courses = append(sem.Courses, Course{
				Ref:       Persisted(c.ID),
				Name:      c.Name,
				Code:      cloneCode(c.Code),
				Credits:   c.Credits,
				Grade:     c.Grade,
				CreatedAt: c.CreatedAt,
			})
		}
		out = append(out, sem)
	}
	return out
}

func cloneSemesters(in []Semester) []Semester {
	out := make([]Semester, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Courses = make([]Course, len(s.Courses))
		for j, c := range s.Courses {
			out[i].Courses[j] = c
			out[i].Courses[j].Code = cloneCode(c.Code)
		}
	}
	return out
}

func cloneCode(code *string) *string {
	if code == nil {
		return nil
	}
	v := *code
	return &v
}

func sameCode(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func courseChanged(draft, official Course) bool {
	return draft.Grade != official.Grade ||
		draft.Credits != official.Credits ||
		draft.Name != official.Name ||
		!sameCode(draft.Code, official.Code)
}

func findSemester(semesters []Semester, key string) int {
	for i, s := range semesters {
		if s.Ref.ID() == key {
			return i
		}
	}
	return -1
}

func findCourse(courses []Course, key string) int {
	for i, c := range courses {
		if c.Ref.ID() == key {
			return i
		}
	}
	return -1
}

func indexOfSemester(semesters []Semester, ref Ref) int {
	for i, s := range semesters {
		if s.Ref == ref {
			return i
		}
	}
	return -1
}

func indexOfCourse(courses []Course, ref Ref) int {
	for i, c := range courses {
		if c.Ref == ref {
			return i
		}
	}
	return -1
}
