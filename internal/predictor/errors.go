package predictor

import (
	"errors"
	"fmt"
)

var (
	// ErrSemesterNotFound is returned when a draft semester does not exist.
	ErrSemesterNotFound = errors.New("semester not found in draft")
	// ErrCourseNotFound is returned when a draft course does not exist.
	ErrCourseNotFound = errors.New("course not found in draft")
)

// ValidationError reports input rejected before any draft mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CommitError reports the storage step that failed. Steps before it were applied and are not reverted.
type CommitError struct {
	Op      Operation
	Applied int
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op.Kind, e.Op.Target, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
