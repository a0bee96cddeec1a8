package predictor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

type call struct {
	kind   OpKind
	id     string
	parent string
}

type fakeStore struct {
	calls  []call
	seq    int
	failOn OpKind
}

func (f *fakeStore) next() string {
	f.seq++
	return fmt.Sprintf("new-%d", f.seq)
}

func (f *fakeStore) record(kind OpKind, id, parent string) error {
	if f.failOn == kind {
		return errors.New("storage unavailable")
	}
	f.calls = append(f.calls, call{kind: kind, id: id, parent: parent})
	return nil
}

func (f *fakeStore) CreateSemester(_ context.Context, userID string, _ SemesterFields) (string, error) {
	id := f.next()
	return id, f.record(OpCreateSemester, id, userID)
}

func (f *fakeStore) UpdateSemester(_ context.Context, id string, _ SemesterFields) error {
	return f.record(OpUpdateSemester, id, "")
}

func (f *fakeStore) DeleteSemester(_ context.Context, id string) error {
	return f.record(OpDeleteSemester, id, "")
}

func (f *fakeStore) CreateCourse(_ context.Context, semesterID string, _ CourseFields) (string, error) {
	id := f.next()
	return id, f.record(OpCreateCourse, id, semesterID)
}

func (f *fakeStore) UpdateCourse(_ context.Context, id string, _ CourseFields) error {
	return f.record(OpUpdateCourse, id, "")
}

func (f *fakeStore) DeleteCourse(_ context.Context, id string) error {
	return f.record(OpDeleteCourse, id, "")
}

func (f *fakeStore) kinds() []OpKind {
	out := make([]OpKind, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.kind
	}
	return out
}

func official() []models.Semester {
	code := "CSE101"
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Semester{
		{ID: "s2", UserID: "u1", Index: 2, Label: "Semester 2", CreatedAt: created, Courses: []models.Course{
			{ID: "c3", SemesterID: "s2", Name: "Data Structures", Credits: 4, Grade: models.GradeB, CreatedAt: created},
		}},
		{ID: "s1", UserID: "u1", Index: 1, Label: "Semester 1", CreatedAt: created, Courses: []models.Course{
			{ID: "c1", SemesterID: "s1", Name: "Computer Programming", Code: &code, Credits: 3, Grade: models.GradeA, CreatedAt: created},
			{ID: "c2", SemesterID: "s1", Name: "Physics", Credits: 3, Grade: models.GradeI, CreatedAt: created},
		}},
	}
}

func gradePtr(g models.Grade) *models.Grade { return &g }
func floatPtr(v float64) *float64           { return &v }
func strPtr(v string) *string               { return &v }

func TestNewSessionIsCleanAndOrdered(t *testing.T) {
	s := NewSession("u1", official())
	assert.False(t, s.Dirty())
	draft := s.Draft()
	require.Len(t, draft, 2)
	assert.Equal(t, "s1", draft[0].Ref.ID())
	assert.Equal(t, s.Snapshot(), draft)
	assert.Equal(t, 3, s.NextIndex())
}

func TestDraftDoesNotAliasSnapshot(t *testing.T) {
	s := NewSession("u1", official())
	_, err := s.EditCourse("s1", "c1", CourseUpdate{Code: strPtr("CSE999")})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "CSE101", *snap[0].Courses[0].Code)

	draft := s.Draft()
	*draft[0].Courses[0].Code = "mutated"
	assert.Equal(t, "CSE999", *s.Draft()[0].Courses[0].Code)
}

func TestAddSemesterKeepsIndexOrder(t *testing.T) {
	s := NewSession("u1", official())
	sem, err := s.AddSemester(SemesterInput{Label: "Summer", Index: 1})
	require.NoError(t, err)
	assert.True(t, sem.Ref.IsPending())
	assert.True(t, s.Dirty())

	draft := s.Draft()
	require.Len(t, draft, 3)
	assert.Equal(t, []int{1, 1, 2}, []int{draft[0].Index, draft[1].Index, draft[2].Index})
	assert.Equal(t, "s1", draft[0].Ref.ID())
	assert.Equal(t, sem.Ref, draft[1].Ref)
}

func TestValidationRejectsBeforeMutation(t *testing.T) {
	s := NewSession("u1", official())
	var verr *ValidationError

	_, err := s.AddSemester(SemesterInput{Label: " ", Index: 3})
	require.ErrorAs(t, err, &verr)
	_, err = s.AddSemester(SemesterInput{Label: "S3", Index: 0})
	require.ErrorAs(t, err, &verr)
	_, err = s.AddCourse("s1", CourseInput{Name: "", Credits: 3, Grade: models.GradeA})
	require.ErrorAs(t, err, &verr)
	_, err = s.AddCourse("s1", CourseInput{Name: "Maths", Credits: 0, Grade: models.GradeA})
	require.ErrorAs(t, err, &verr)
	_, err = s.AddCourse("s1", CourseInput{Name: "Maths", Credits: 2.25, Grade: models.GradeA})
	require.ErrorAs(t, err, &verr)
	_, err = s.AddCourse("s1", CourseInput{Name: "Maths", Credits: 3, Grade: "Z"})
	require.ErrorAs(t, err, &verr)
	_, err = s.EditCourse("s1", "c1", CourseUpdate{Credits: floatPtr(-1)})
	require.ErrorAs(t, err, &verr)

	assert.False(t, s.Dirty())
	assert.Equal(t, s.Snapshot(), s.Draft())
}

func TestUnknownEntities(t *testing.T) {
	s := NewSession("u1", official())
	assert.ErrorIs(t, s.DeleteSemester("nope"), ErrSemesterNotFound)
	assert.ErrorIs(t, s.DeleteCourse("s1", "nope"), ErrCourseNotFound)
	_, err := s.AddCourse("nope", CourseInput{Name: "x", Credits: 1, Grade: models.GradeA})
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestModifiedDetection(t *testing.T) {
	s := NewSession("u1", official())
	_, err := s.EditCourse("s1", "c1", CourseUpdate{Grade: gradePtr(models.GradeO)})
	require.NoError(t, err)
	added, err := s.AddCourse("s2", CourseInput{Name: "Networks", Credits: 3, Grade: models.GradeB})
	require.NoError(t, err)

	draft := s.Draft()
	assert.True(t, s.IsCourseModified(draft[0].Courses[0]))
	assert.False(t, s.IsCourseModified(draft[0].Courses[1]))
	assert.True(t, s.IsCourseModified(added))
	assert.False(t, s.IsCourseModified(draft[1].Courses[0]))
	assert.True(t, s.IsCourseModified(Course{Ref: Persisted("ghost"), Name: "x"}))

	assert.True(t, s.IsSemesterAffected(draft[0]))
	assert.True(t, s.IsSemesterAffected(draft[1]))

	s.Reset()
	for _, sem := range s.Draft() {
		assert.False(t, s.IsSemesterAffected(sem))
	}
}

func TestCommitAddedCourseCreatesOnce(t *testing.T) {
	s := NewSession("u1", official())
	_, err := s.AddCourse("s1", CourseInput{Name: "Maths", Credits: 4, Grade: models.GradeAPlus})
	require.NoError(t, err)

	store := &fakeStore{}
	res, err := s.Commit(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	assert.Equal(t, call{kind: OpCreateCourse, id: "new-1", parent: "s1"}, store.calls[0])
	assert.Equal(t, 1, res.Applied)

	assert.False(t, s.Dirty())
	assert.Equal(t, s.Draft(), s.Snapshot())
	added := s.Snapshot()[0].Courses[2]
	assert.Equal(t, Persisted("new-1"), added.Ref)
}

func TestCommitDeletedCourseDeletesOnlyIt(t *testing.T) {
	s := NewSession("u1", official())
	require.NoError(t, s.DeleteCourse("s1", "c2"))

	store := &fakeStore{}
	_, err := s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []call{{kind: OpDeleteCourse, id: "c2"}}, store.calls)
}

func TestCommitNewSemesterResolvesParent(t *testing.T) {
	s := NewSession("u1", official())
	sem, err := s.AddSemester(SemesterInput{Label: "Semester 3", Index: 3})
	require.NoError(t, err)
	_, err = s.AddCourse(sem.Ref.ID(), CourseInput{Name: "Compilers", Credits: 3, Grade: models.GradeA})
	require.NoError(t, err)
	_, err = s.AddCourse(sem.Ref.ID(), CourseInput{Name: "Networks", Code: strPtr(" CSE306 "), Credits: 3, Grade: models.GradeB})
	require.NoError(t, err)

	store := &fakeStore{}
	_, err = s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []call{
		{kind: OpCreateSemester, id: "new-1", parent: "u1"},
		{kind: OpCreateCourse, id: "new-2", parent: "new-1"},
		{kind: OpCreateCourse, id: "new-3", parent: "new-1"},
	}, store.calls)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, Persisted("new-1"), snap[2].Ref)
	assert.Equal(t, "CSE306", *snap[2].Courses[1].Code)
	for _, c := range snap[2].Courses {
		assert.False(t, c.Ref.IsPending())
	}
}

func TestCommitOrdersDeletesFirst(t *testing.T) {
	s := NewSession("u1", official())
	require.NoError(t, s.DeleteSemester("s2"))
	_, err := s.EditCourse("s1", "c1", CourseUpdate{Credits: floatPtr(4)})
	require.NoError(t, err)
	require.NoError(t, s.DeleteCourse("s1", "c2"))
	_, err = s.AddSemester(SemesterInput{Label: "Semester 2b", Index: 2})
	require.NoError(t, err)

	plan := s.Plan()
	require.Len(t, plan, 4)

	store := &fakeStore{}
	_, err = s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []OpKind{OpDeleteSemester, OpDeleteCourse, OpUpdateCourse, OpCreateSemester}, store.kinds())
	assert.Equal(t, "s2", store.calls[0].id)
}

func TestCommitEditBackToOriginalIsNoop(t *testing.T) {
	s := NewSession("u1", official())
	_, err := s.EditCourse("s1", "c1", CourseUpdate{Grade: gradePtr(models.GradeO)})
	require.NoError(t, err)
	_, err = s.EditCourse("s1", "c1", CourseUpdate{Grade: gradePtr(models.GradeA)})
	require.NoError(t, err)
	assert.True(t, s.Dirty())

	store := &fakeStore{}
	_, err = s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, store.calls)
	assert.False(t, s.Dirty())
}

func TestCommitCleanSessionIssuesNoCalls(t *testing.T) {
	s := NewSession("u1", official())
	notified := false
	s.OnCommit(func([]Semester) { notified = true })

	store := &fakeStore{}
	res, err := s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, store.calls)
	assert.Equal(t, 0, res.Applied)
	assert.False(t, notified)
	assert.Nil(t, s.Plan())
}

func TestCommitUpdatesRenamedSemester(t *testing.T) {
	s := NewSession("u1", official())
	label := "First Semester"
	sem, err := s.EditSemester("s1", SemesterUpdate{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "First Semester", sem.Label)
	assert.True(t, s.Dirty())

	store := &fakeStore{}
	_, err = s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []call{{kind: OpUpdateSemester, id: "s1"}}, store.calls)
	assert.Equal(t, "First Semester", s.Snapshot()[0].Label)
}

func TestEditSemesterReordersAndValidates(t *testing.T) {
	s := NewSession("u1", official())
	index := 5
	sem, err := s.EditSemester("s1", SemesterUpdate{Index: &index})
	require.NoError(t, err)
	assert.Equal(t, 5, sem.Index)
	draft := s.Draft()
	assert.Equal(t, "s1", draft[len(draft)-1].Ref.ID())

	blank := "  "
	zero := 0
	_, err = s.EditSemester("s2", SemesterUpdate{Label: &blank})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "label", verr.Field)
	_, err = s.EditSemester("s2", SemesterUpdate{Index: &zero})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "index", verr.Field)
	assert.Equal(t, "Semester 2", s.Draft()[0].Label)

	_, err = s.EditSemester("missing", SemesterUpdate{})
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestEditSemesterBackToOriginalIsNoop(t *testing.T) {
	s := NewSession("u1", official())
	renamed, original := "Renamed", "Semester 1"
	_, err := s.EditSemester("s1", SemesterUpdate{Label: &renamed})
	require.NoError(t, err)
	_, err = s.EditSemester("s1", SemesterUpdate{Label: &original})
	require.NoError(t, err)
	assert.Empty(t, s.Plan())
}

func TestCommitFailureKeepsDraftDirty(t *testing.T) {
	s := NewSession("u1", official())
	require.NoError(t, s.DeleteSemester("s2"))
	_, err := s.AddCourse("s1", CourseInput{Name: "Maths", Credits: 4, Grade: models.GradeA})
	require.NoError(t, err)
	before := s.Draft()
	notified := false
	s.OnCommit(func([]Semester) { notified = true })

	store := &fakeStore{failOn: OpCreateCourse}
	_, err = s.Commit(context.Background(), store)
	require.Error(t, err)

	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, OpCreateCourse, cerr.Op.Kind)
	assert.Equal(t, 1, cerr.Applied)
	assert.Equal(t, []OpKind{OpDeleteSemester}, store.kinds())

	assert.True(t, s.Dirty())
	assert.Equal(t, before, s.Draft())
	assert.Len(t, s.Snapshot(), 2)
	assert.False(t, notified)
}

func TestCommitNotifiesObservers(t *testing.T) {
	s := NewSession("u1", official())
	var got []Semester
	s.OnCommit(func(snap []Semester) { got = snap })
	require.NoError(t, s.DeleteSemester("s1"))

	_, err := s.Commit(context.Background(), &fakeStore{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].Ref.ID())
}

func TestResetRestoresSnapshot(t *testing.T) {
	s := NewSession("u1", official())
	sem, err := s.AddSemester(SemesterInput{Label: "Semester 3", Index: 3})
	require.NoError(t, err)
	_, err = s.AddCourse(sem.Ref.ID(), CourseInput{Name: "Compilers", Credits: 3, Grade: models.GradeA})
	require.NoError(t, err)
	require.NoError(t, s.DeleteCourse("s1", "c1"))

	s.Reset()
	assert.False(t, s.Dirty())
	assert.Equal(t, s.Snapshot(), s.Draft())
	for _, d := range s.Draft() {
		assert.False(t, d.Ref.IsPending())
		for _, c := range d.Courses {
			assert.False(t, c.Ref.IsPending())
		}
	}
}

func TestInconsistentSemesterIsSkipped(t *testing.T) {
	s := NewSession("u1", official())
	s.draft = append(s.draft, Semester{Ref: Persisted("ghost"), Index: 9, Label: "Ghost", Courses: []Course{
		{Ref: NewPending(), Name: "Orphan", Credits: 1, Grade: models.GradeA},
	}})
	s.dirty = true

	store := &fakeStore{}
	_, err := s.Commit(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, store.calls)
}

func TestRefJSON(t *testing.T) {
	raw, err := Pending("abc").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","pending":true}`, string(raw))

	var r Ref
	require.NoError(t, r.UnmarshalJSON([]byte(`{"id":"s1","pending":false}`)))
	assert.Equal(t, Persisted("s1"), r)
	assert.NotEqual(t, Persisted("abc"), Pending("abc"))
}
