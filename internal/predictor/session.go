// Package predictor holds an editable draft of a user's semesters next to an
// immutable snapshot of the stored record, and reconciles the two on commit.
package predictor

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// Observer is notified with the new snapshot after a successful commit.
type Observer func(snapshot []Semester)

// SemesterInput describes a semester added to the draft.
type SemesterInput struct {
	Label string
	Index int
}

// SemesterUpdate carries the fields to change on a draft semester. Nil fields are left untouched.
type SemesterUpdate struct {
	Label *string
	Index *int
}

// CourseInput describes a course added to the draft.
type CourseInput struct {
	Name    string
	Code    *string
	Credits float64
	Grade   models.Grade
}

// CourseUpdate carries the fields to change on a draft course. Nil fields are left untouched;
// a Code pointing at an empty string clears the code.
type CourseUpdate struct {
	Name    *string
	Code    *string
	Credits *float64
	Grade   *models.Grade
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for timestamps of new entities.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is one predictor editing session for a user. It is not safe for concurrent use.
type Session struct {
	userID    string
	snapshot  []Semester
	draft     []Semester
	dirty     bool
	observers []Observer
	now       func() time.Time
	logger    *zap.Logger
}

// NewSession captures the official record as the snapshot and starts a clean draft from it.
func NewSession(userID string, official []models.Semester, opts ...Option) *Session {
	s := &Session{
		userID: userID,
		now:    func() time.Time { return time.Now().UTC() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = FromModels(official)
	sortSemesters(s.snapshot)
	s.draft = cloneSemesters(s.snapshot)
	return s
}

// UserID returns the owner of the session.
func (s *Session) UserID() string { return s.userID }

// Dirty reports whether the draft has unapplied changes.
func (s *Session) Dirty() bool { return s.dirty }

// Draft returns a copy of the working draft.
func (s *Session) Draft() []Semester { return cloneSemesters(s.draft) }

// Snapshot returns a copy of the official record captured by the session.
func (s *Session) Snapshot() []Semester { return cloneSemesters(s.snapshot) }

// OnCommit registers an observer for successful commits.
func (s *Session) OnCommit(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// NextIndex suggests the index for a new draft semester.
func (s *Session) NextIndex() int {
	next := 1
	for _, sem := range s.draft {
		if sem.Index >= next {
			next = sem.Index + 1
		}
	}
	return next
}

// AddSemester appends a pending semester and keeps the draft ordered by index.
func (s *Session) AddSemester(in SemesterInput) (Semester, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return Semester{}, &ValidationError{Field: "label", Message: "is required"}
	}
	if in.Index < 1 {
		return Semester{}, &ValidationError{Field: "index", Message: "must be a positive integer"}
	}

	sem := Semester{
		Ref:       NewPending(),
		UserID:    s.userID,
		Index:     in.Index,
		Label:     label,
		CreatedAt: s.now(),
		Courses:   []Course{},
	}
	s.draft = append(s.draft, sem)
	sortSemesters(s.draft)
	s.dirty = true
	return sem, nil
}

// DeleteSemester removes a semester and every course it owns from the draft.
func (s *Session) DeleteSemester(key string) error {
	i := findSemester(s.draft, key)
	if i < 0 {
		return ErrSemesterNotFound
	}
	s.draft = append(s.draft[:i], s.draft[i+1:]...)
	s.dirty = true
	return nil
}

// EditSemester renames or reorders a draft semester. The draft stays ordered by index.
func (s *Session) EditSemester(key string, upd SemesterUpdate) (Semester, error) {
	i := findSemester(s.draft, key)
	if i < 0 {
		return Semester{}, ErrSemesterNotFound
	}
	sem := s.draft[i]
	if upd.Label != nil {
		sem.Label = strings.TrimSpace(*upd.Label)
		if sem.Label == "" {
			return Semester{}, &ValidationError{Field: "label", Message: "is required"}
		}
	}
	if upd.Index != nil {
		if *upd.Index < 1 {
			return Semester{}, &ValidationError{Field: "index", Message: "must be a positive integer"}
		}
		sem.Index = *upd.Index
	}

	s.draft[i].Label = sem.Label
	s.draft[i].Index = sem.Index
	sortSemesters(s.draft)
	s.dirty = true
	return s.draft[findSemester(s.draft, key)], nil
}

// AddCourse appends a pending course to a draft semester.
func (s *Session) AddCourse(semesterKey string, in CourseInput) (Course, error) {
	i := findSemester(s.draft, semesterKey)
	if i < 0 {
		return Course{}, ErrSemesterNotFound
	}
	name := strings.TrimSpace(in.Name)
	if err := validateCourse(name, in.Credits, in.Grade); err != nil {
		return Course{}, err
	}

	c := Course{
		Ref:       NewPending(),
		Name:      name,
		Code:      normalizeCode(in.Code),
		Credits:   in.Credits,
		Grade:     in.Grade,
		CreatedAt: s.now(),
	}
	s.draft[i].Courses = append(s.draft[i].Courses, c)
	s.dirty = true
	return c, nil
}

// EditCourse changes grade, credits, name or code of a draft course.
func (s *Session) EditCourse(semesterKey, courseKey string, upd CourseUpdate) (Course, error) {
	i := findSemester(s.draft, semesterKey)
	if i < 0 {
		return Course{}, ErrSemesterNotFound
	}
	j := findCourse(s.draft[i].Courses, courseKey)
	if j < 0 {
		return Course{}, ErrCourseNotFound
	}

	next := s.draft[i].Courses[j]
	next.Code = cloneCode(next.Code)
	if upd.Name != nil {
		next.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Code != nil {
		next.Code = normalizeCode(upd.Code)
	}
	if upd.Credits != nil {
		next.Credits = *upd.Credits
	}
	if upd.Grade != nil {
		next.Grade = *upd.Grade
	}
	if err := validateCourse(next.Name, next.Credits, next.Grade); err != nil {
		return Course{}, err
	}

	s.draft[i].Courses[j] = next
	s.dirty = true
	return next, nil
}

// DeleteCourse removes a course from a draft semester.
func (s *Session) DeleteCourse(semesterKey, courseKey string) error {
	i := findSemester(s.draft, semesterKey)
	if i < 0 {
		return ErrSemesterNotFound
	}
	j := findCourse(s.draft[i].Courses, courseKey)
	if j < 0 {
		return ErrCourseNotFound
	}
	courses := s.draft[i].Courses
	s.draft[i].Courses = append(courses[:j:j], courses[j+1:]...)
	s.dirty = true
	return nil
}

// Reset discards the draft and starts over from the snapshot.
func (s *Session) Reset() {
	s.draft = cloneSemesters(s.snapshot)
	s.dirty = false
}

// IsCourseModified reports whether a draft course is new or differs from the snapshot.
func (s *Session) IsCourseModified(c Course) bool {
	if c.Ref.IsPending() {
		return true
	}
	for _, sem := range s.snapshot {
		if j := indexOfCourse(sem.Courses, c.Ref); j >= 0 {
			return courseChanged(c, sem.Courses[j])
		}
	}
	return true
}

// IsSemesterAffected reports whether a draft semester is new or holds a modified course.
func (s *Session) IsSemesterAffected(sem Semester) bool {
	if sem.Ref.IsPending() {
		return true
	}
	for _, c := range sem.Courses {
		if s.IsCourseModified(c) {
			return true
		}
	}
	return false
}

func validateCourse(name string, credits float64, grade models.Grade) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if credits <= 0 || math.IsNaN(credits) || math.IsInf(credits, 0) {
		return &ValidationError{Field: "credits", Message: "must be greater than zero"}
	}
	if math.Mod(credits*2, 1) != 0 {
		return &ValidationError{Field: "credits", Message: "must be a multiple of 0.5"}
	}
	if !grade.Valid() {
		return &ValidationError{Field: "grade", Message: "is not a known grade"}
	}
	return nil
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	v := strings.TrimSpace(*code)
	if v == "" {
		return nil
	}
	return &v
}

func sortSemesters(semesters []Semester) {
	sort.SliceStable(semesters, func(i, j int) bool {
		return semesters[i].Index < semesters[j].Index
	})
}
