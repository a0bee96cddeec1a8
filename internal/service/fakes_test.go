package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

type mockSemesterRepo struct {
	items   map[string]*models.Semester
	seq     int
	listErr error
	deleted []string
}

func newMockSemesterRepo(semesters ...models.Semester) *mockSemesterRepo {
	repo := &mockSemesterRepo{items: map[string]*models.Semester{}}
	for i := range semesters {
		s := semesters[i]
		s.Courses = nil
		repo.items[s.ID] = &s
	}
	return repo
}

func (m *mockSemesterRepo) ListByUser(ctx context.Context, userID string) ([]models.Semester, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Semester
	for _, s := range m.items {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (m *mockSemesterRepo) Create(ctx context.Context, semester *models.Semester) error {
	m.seq++
	semester.ID = fmt.Sprintf("sem-%d", m.seq)
	clone := *semester
	clone.Courses = nil
	m.items[semester.ID] = &clone
	return nil
}

func (m *mockSemesterRepo) Update(ctx context.Context, semester *models.Semester) error {
	s, ok := m.items[semester.ID]
	if !ok {
		return sql.ErrNoRows
	}
	s.Label = semester.Label
	s.Index = semester.Index
	return nil
}

func (m *mockSemesterRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCourseRepo struct {
	items    map[string]*models.Course
	order    []string
	seq      int
	failNext error
}

func newMockCourseRepo(semesters ...models.Semester) *mockCourseRepo {
	repo := &mockCourseRepo{items: map[string]*models.Course{}}
	for _, s := range semesters {
		for i := range s.Courses {
			c := s.Courses[i]
			c.SemesterID = s.ID
			repo.items[c.ID] = &c
			repo.order = append(repo.order, c.ID)
		}
	}
	return repo
}

func (m *mockCourseRepo) ListBySemesterIDs(ctx context.Context, semesterIDs []string) ([]models.Course, error) {
	wanted := map[string]bool{}
	for _, id := range semesterIDs {
		wanted[id] = true
	}
	var out []models.Course
	for _, id := range m.order {
		c, ok := m.items[id]
		if ok && wanted[c.SemesterID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.seq++
	course.ID = fmt.Sprintf("course-%d", m.seq)
	clone := *course
	m.items[course.ID] = &clone
	m.order = append(m.order, course.ID)
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	c, ok := m.items[course.ID]
	if !ok {
		return sql.ErrNoRows
	}
	semesterID := c.SemesterID
	*c = *course
	c.SemesterID = semesterID
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type memoryCacheRepo struct {
	values      map[string][]byte
	invalidated []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

var errStorage = errors.New("storage unavailable")

func strPtr(v string) *string { return &v }

func sampleRecord() []models.Semester {
	code := "CSE101"
	return []models.Semester{
		{ID: "s1", UserID: "u1", Index: 1, Label: "Semester 1", Courses: []models.Course{
			{ID: "c1", Name: "Computer Programming", Code: &code, Credits: 4, Grade: models.GradeO},
			{ID: "c2", Name: "Engineering Physics", Credits: 3, Grade: models.GradeB},
		}},
		{ID: "s2", UserID: "u1", Index: 2, Label: "Semester 2", Courses: []models.Course{
			{ID: "c3", Name: "Data Structures", Credits: 4, Grade: models.GradeA},
			{ID: "c4", Name: "Internship", Credits: 2, Grade: models.GradeI},
		}},
		{ID: "other", UserID: "u2", Index: 1, Label: "Semester 1", Courses: []models.Course{
			{ID: "c9", Name: "Foreign", Credits: 3, Grade: models.GradeA},
		}},
	}
}
