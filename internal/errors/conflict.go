package errors

import (
	"fmt"
	"time"

	model "project-board.com/project-board/internal/models"
)

const (
	ConflictKind            = "OPTIMISTIC_LOCK_CONFLICT"
	ConflictMessage         = "Task was modified by another user"
	ConflictResponseMessage = "Task was modified by another user. Please refresh and try again."
)

// ConflictError reports a lost optimistic-lock race together with the
// authoritative record, so the caller can reconcile without another read.
type ConflictError struct {
	Message          string
	CurrentVersion   int64
	AttemptedVersion int64
	Current          *model.Task
	Timestamp        time.Time
}

func NewConflictError(current *model.Task, attemptedVersion int64, at time.Time) *ConflictError {
	return &ConflictError{
		Message:          ConflictMessage,
		CurrentVersion:   current.Version,
		AttemptedVersion: attemptedVersion,
		Current:          current,
		Timestamp:        at,
	}
}

func (e *ConflictError) Kind() string {
	return ConflictKind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: current version %d, attempted version %d",
		e.Message, e.CurrentVersion, e.AttemptedVersion)
}
