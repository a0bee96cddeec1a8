package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/gpa"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/predictor"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

type officialRecord interface {
	List(ctx context.Context, userID string) ([]models.Semester, error)
	Invalidate(ctx context.Context, userID string)
}

type predictorEntry struct {
	mu      sync.Mutex
	session *predictor.Session
	touched time.Time
}

// PredictorService keeps one predictor session per user in memory and applies them to the official record.
type PredictorService struct {
	record  officialRecord
	store   predictor.Store
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*predictorEntry
}

// NewPredictorService constructs the service. Idle sessions expire after ttl.
func NewPredictorService(record officialRecord, store predictor.Store, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *PredictorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &PredictorService{
		record:   record,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*predictorEntry),
	}
}

// Start captures the user's official record and opens a fresh session, replacing any previous one.
func (s *PredictorService) Start(ctx context.Context, userID string) (*dto.PredictorView, error) {
	official, err := s.record.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := predictor.NewSession(userID, official, predictor.WithLogger(s.logger.With(zap.String("user_id", userID))))
	session.OnCommit(func(snapshot []predictor.Semester) {
		s.record.Invalidate(context.Background(), userID)
		s.logger.Info("predictor draft applied", zap.String("user_id", userID), zap.Int("semesters", len(snapshot)))
	})

	entry := &predictorEntry{session: session}
	s.mu.Lock()
	entry.touched = s.now()
	s.sessions[userID] = entry
	active := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(active)

	return buildPredictorView(session), nil
}

// View returns the current draft with predicted and official CGPA.
func (s *PredictorService) View(ctx context.Context, userID string) (*dto.PredictorView, error) {
	return s.mutate(userID, func(*predictor.Session) error { return nil })
}

// AddSemester adds a draft semester. A zero index takes the next free one and an empty label is derived from it.
func (s *PredictorService) AddSemester(ctx context.Context, userID string, req dto.PredictorSemesterRequest) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		index := req.Index
		if index == 0 {
			index = session.NextIndex()
		}
		label := strings.TrimSpace(req.Label)
		if label == "" && index > 0 {
			label = fmt.Sprintf("Semester %d", index)
		}
		_, err := session.AddSemester(predictor.SemesterInput{Label: label, Index: index})
		return err
	})
}

// DeleteSemester removes a draft semester with its courses.
func (s *PredictorService) DeleteSemester(ctx context.Context, userID, semesterKey string) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		return session.DeleteSemester(semesterKey)
	})
}

// EditSemester renames or reorders a draft semester.
func (s *PredictorService) EditSemester(ctx context.Context, userID, semesterKey string, req dto.PredictorSemesterUpdate) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		_, err := session.EditSemester(semesterKey, predictor.SemesterUpdate{Label: req.Label, Index: req.Index})
		return err
	})
}

// AddCourse adds a draft course.
func (s *PredictorService) AddCourse(ctx context.Context, userID, semesterKey string, req dto.PredictorCourseRequest) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		_, err := session.AddCourse(semesterKey, predictor.CourseInput{
			Name:    req.Name,
			Code:    req.Code,
			Credits: req.Credits,
			Grade:   req.Grade,
		})
		return err
	})
}

// EditCourse changes a draft course.
func (s *PredictorService) EditCourse(ctx context.Context, userID, semesterKey, courseKey string, req dto.PredictorCourseUpdate) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		_, err := session.EditCourse(semesterKey, courseKey, predictor.CourseUpdate{
			Name:    req.Name,
			Code:    req.Code,
			Credits: req.Credits,
			Grade:   req.Grade,
		})
		return err
	})
}

// DeleteCourse removes a draft course.
func (s *PredictorService) DeleteCourse(ctx context.Context, userID, semesterKey, courseKey string) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		return session.DeleteCourse(semesterKey, courseKey)
	})
}

// Reset discards the draft.
func (s *PredictorService) Reset(ctx context.Context, userID string) (*dto.PredictorView, error) {
	return s.mutate(userID, func(session *predictor.Session) error {
		session.Reset()
		return nil
	})
}

// Plan lists the storage steps an apply would run.
func (s *PredictorService) Plan(ctx context.Context, userID string) ([]predictor.Operation, error) {
	plan := []predictor.Operation{}
	_, err := s.mutate(userID, func(session *predictor.Session) error {
		if ops := session.Plan(); ops != nil {
			plan = ops
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Apply writes the draft to the official record. The caller must confirm the overwrite.
func (s *PredictorService) Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*predictor.CommitResult, error) {
	if !req.Confirm {
		return nil, appErrors.Clone(appErrors.ErrConfirmRequired, "applying the prediction overwrites your official record; resend with confirm=true")
	}

	entry, err := s.entry(userID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	start := time.Now()
	result, err := entry.session.Commit(ctx, s.store)
	s.metrics.ObserveDBQuery("predictor_commit", time.Since(start))
	if err != nil {
		s.metrics.RecordPredictorCommit(false, 0)
		var commitErr *predictor.CommitError
		if errors.As(err, &commitErr) {
			if commitErr.Applied > 0 {
				s.record.Invalidate(ctx, userID)
			}
			s.logger.Warn("predictor apply failed part way",
				zap.String("user_id", userID),
				zap.String("step", string(commitErr.Op.Kind)),
				zap.Int("applied", commitErr.Applied),
				zap.Error(commitErr.Err))
			msg := fmt.Sprintf("failed to %s after %d applied step(s)", strings.ReplaceAll(string(commitErr.Op.Kind), "_", " "), commitErr.Applied)
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, msg)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	s.metrics.RecordPredictorCommit(true, result.Applied)
	return result, nil
}

// Close drops the user's session.
func (s *PredictorService) Close(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	active := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(active)
}

// Sweep removes sessions idle for longer than the TTL and returns how many were dropped.
func (s *PredictorService) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for userID, entry := range s.sessions {
		if now.Sub(entry.touched) > s.ttl {
			delete(s.sessions, userID)
			removed++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(active)
	if removed > 0 {
		s.logger.Debug("expired predictor sessions", zap.Int("removed", removed))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *PredictorService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *PredictorService) entry(userID string) (*predictorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[userID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNoSession, "start a predictor session first")
	}
	now := s.now()
	if now.Sub(entry.touched) > s.ttl {
		delete(s.sessions, userID)
		return nil, appErrors.Clone(appErrors.ErrNoSession, "predictor session expired")
	}
	entry.touched = now
	return entry, nil
}

func (s *PredictorService) mutate(userID string, fn func(*predictor.Session) error) (*dto.PredictorView, error) {
	entry, err := s.entry(userID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.session); err != nil {
		return nil, mapPredictorError(err)
	}
	return buildPredictorView(entry.session), nil
}

func mapPredictorError(err error) error {
	var validationErr *predictor.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationErr.Error())
	case errors.Is(err, predictor.ErrSemesterNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "semester not found in draft")
	case errors.Is(err, predictor.ErrCourseNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "course not found in draft")
	}
	return appErrors.FromError(err)
}

func buildPredictorView(session *predictor.Session) *dto.PredictorView {
	draft := session.Draft()
	predicted := gpa.CGPA(predictor.Models(draft))
	official := gpa.CGPA(predictor.Models(session.Snapshot()))

	view := &dto.PredictorView{
		Dirty:         session.Dirty(),
		PredictedCGPA: predicted,
		OfficialCGPA:  official,
		Delta:         gpa.Delta(predicted, official),
		Display:       gpa.Format(predicted),
		Semesters:     make([]dto.PredictorSemesterView, 0, len(draft)),
		NextIndex:     session.NextIndex(),
	}
	for _, sem := range draft {
		sgpa := gpa.SGPA(sem.Model().Courses)
		sv := dto.PredictorSemesterView{
			Ref:      sem.Ref,
			Index:    sem.Index,
			Label:    sem.Label,
			SGPA:     sgpa,
			Display:  gpa.Format(sgpa),
			Affected: session.IsSemesterAffected(sem),
			Courses:  make([]dto.PredictorCourseView, 0, len(sem.Courses)),
		}
		for _, c := range sem.Courses {
			sv.Courses = append(sv.Courses, dto.PredictorCourseView{
				Ref:      c.Ref,
				Name:     c.Name,
				Code:     c.Code,
				Credits:  c.Credits,
				Grade:    c.Grade,
				Modified: session.IsCourseModified(c),
			})
		}
		view.Semesters = append(view.Semesters, sv)
	}
	return view
}
