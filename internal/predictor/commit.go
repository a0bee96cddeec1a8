package predictor

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// OpKind names a storage step of a commit.
type OpKind string

const (
	OpDeleteSemester OpKind = "delete_semester"
	OpCreateSemester OpKind = "create_semester"
	OpUpdateSemester OpKind = "update_semester"
	OpDeleteCourse   OpKind = "delete_course"
	OpCreateCourse   OpKind = "create_course"
	OpUpdateCourse   OpKind = "update_course"
)

// SemesterFields are the stored fields of a semester.
type SemesterFields struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// CourseFields are the stored fields of a course.
type CourseFields struct {
	Name    string       `json:"name"`
	Code    *string      `json:"code"`
	Credits float64      `json:"credits"`
	Grade   models.Grade `json:"grade"`
}

// Operation is one step of a commit plan. Parent is set for course steps.
type Operation struct {
	Kind     OpKind          `json:"kind"`
	Target   Ref             `json:"target"`
	Parent   Ref             `json:"parent"`
	Semester *SemesterFields `json:"semester,omitempty"`
	Course   *CourseFields   `json:"course,omitempty"`
}

// Store persists semesters and courses. Deleting a semester deletes its courses.
type Store interface {
	CreateSemester(ctx context.Context, userID string, fields SemesterFields) (string, error)
	UpdateSemester(ctx context.Context, id string, fields SemesterFields) error
	DeleteSemester(ctx context.Context, id string) error
	CreateCourse(ctx context.Context, semesterID string, fields CourseFields) (string, error)
	UpdateCourse(ctx context.Context, id string, fields CourseFields) error
	DeleteCourse(ctx context.Context, id string) error
}

// CommitResult summarises an applied commit.
type CommitResult struct {
	Applied    int         `json:"applied"`
	Operations []Operation `json:"operations"`
}

// Plan lists the storage steps that would reconcile the snapshot with the draft, in execution order:
// removed semesters first, then per draft semester its create/update, its removed courses, and its
// course creates and updates. A clean session plans nothing.
func (s *Session) Plan() []Operation {
	if !s.dirty {
		return nil
	}

	var ops []Operation
	for _, official := range s.snapshot {
		if indexOfSemester(s.draft, official.Ref) < 0 {
			ops = append(ops, Operation{Kind: OpDeleteSemester, Target: official.Ref})
		}
	}

	for _, sem := range s.draft {
		var official *Semester
		if sem.Ref.IsPending() {
			ops = append(ops, Operation{
				Kind:     OpCreateSemester,
				Target:   sem.Ref,
				Semester: &SemesterFields{Label: sem.Label, Index: sem.Index},
			})
		} else if i := indexOfSemester(s.snapshot, sem.Ref); i >= 0 {
			official = &s.snapshot[i]
			if official.Label != sem.Label || official.Index != sem.Index {
				ops = append(ops, Operation{
					Kind:     OpUpdateSemester,
					Target:   sem.Ref,
					Semester: &SemesterFields{Label: sem.Label, Index: sem.Index},
				})
			}
		} else {
			s.logger.Warn("draft semester missing from snapshot, skipping", zap.String("semester_id", sem.Ref.ID()))
			continue
		}

		if official != nil {
			for _, oc := range official.Courses {
				if indexOfCourse(sem.Courses, oc.Ref) < 0 {
					ops = append(ops, Operation{Kind: OpDeleteCourse, Target: oc.Ref, Parent: sem.Ref})
				}
			}
		}

		for _, c := range sem.Courses {
			fields := &CourseFields{Name: c.Name, Code: cloneCode(c.Code), Credits: c.Credits, Grade: c.Grade}
			if c.Ref.IsPending() {
				ops = append(ops, Operation{Kind: OpCreateCourse, Target: c.Ref, Parent: sem.Ref, Course: fields})
				continue
			}
			if official == nil {
				continue
			}
			j := indexOfCourse(official.Courses, c.Ref)
			if j < 0 {
				s.logger.Warn("draft course missing from snapshot semester, skipping",
					zap.String("course_id", c.Ref.ID()), zap.String("semester_id", sem.Ref.ID()))
				continue
			}
			if courseChanged(c, official.Courses[j]) {
				ops = append(ops, Operation{Kind: OpUpdateCourse, Target: c.Ref, Parent: sem.Ref, Course: fields})
			}
		}
	}
	return ops
}

// Commit applies the plan through store one step at a time. The first failing step aborts the
// commit and leaves the draft and dirty flag as they were; earlier steps stay applied. On success
// pending refs in the draft are replaced by the ids the store assigned, the snapshot becomes a copy
// of the draft and observers are notified.
func (s *Session) Commit(ctx context.Context, store Store) (*CommitResult, error) {
	if !s.dirty {
		return &CommitResult{Operations: []Operation{}}, nil
	}
	ops := s.Plan()

	assigned := make(map[Ref]string)
	for i, op := range ops {
		s.logger.Debug("applying predictor step",
			zap.String("user_id", s.userID), zap.String("kind", string(op.Kind)), zap.String("target", op.Target.String()))
		if err := s.apply(ctx, store, op, assigned); err != nil {
			s.logger.Error("predictor commit failed",
				zap.String("user_id", s.userID), zap.String("kind", string(op.Kind)), zap.Int("applied", i), zap.Error(err))
			return nil, &CommitError{Op: op, Applied: i, Err: err}
		}
	}

	for i := range s.draft {
		sem := &s.draft[i]
		if id, ok := assigned[sem.Ref]; ok {
			sem.Ref = Persisted(id)
		}
		for j := range sem.Courses {
			if id, ok := assigned[sem.Courses[j].Ref]; ok {
				sem.Courses[j].Ref = Persisted(id)
			}
		}
	}
	s.snapshot = cloneSemesters(s.draft)
	s.dirty = false

	for _, o := range s.observers {
		o(cloneSemesters(s.snapshot))
	}
	return &CommitResult{Applied: len(ops), Operations: ops}, nil
}

func (s *Session) apply(ctx context.Context, store Store, op Operation, assigned map[Ref]string) error {
	switch op.Kind {
	case OpDeleteSemester:
		return store.DeleteSemester(ctx, op.Target.ID())
	case OpCreateSemester:
		id, err := store.CreateSemester(ctx, s.userID, *op.Semester)
		if err != nil {
			return err
		}
		assigned[op.Target] = id
		return nil
	case OpUpdateSemester:
		return store.UpdateSemester(ctx, op.Target.ID(), *op.Semester)
	case OpDeleteCourse:
		return store.DeleteCourse(ctx, op.Target.ID())
	case OpCreateCourse:
		parent := op.Parent.ID()
		if op.Parent.IsPending() {
			parent = assigned[op.Parent]
		}
		id, err := store.CreateCourse(ctx, parent, *op.Course)
		if err != nil {
			return err
		}
		assigned[op.Target] = id
		return nil
	case OpUpdateCourse:
		return store.UpdateCourse(ctx, op.Target.ID(), *op.Course)
	}
	return nil
}
