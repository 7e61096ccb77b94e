package resolution

import (
	"context"
	"errors"
	"fmt"

	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

type State int

const (
	Editing State = iota
	Conflicted
	Resolving
	Abandoned
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Conflicted:
		return "conflicted"
	case Resolving:
		return "resolving"
	case Abandoned:
		return "abandoned"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Choice int

const (
	Mine Choice = iota + 1
	Theirs
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrUnresolvedField   = errors.New("contested field has no choice")
)

// Updater submits a complete field set for task id at an expected version. A lost
// race is reported as *apperrors.ConflictError.
type Updater interface {
	AttemptUpdate(ctx context.Context, id string, fields dto.TaskFields, expectedVersion int64) (*model.Task, error)
}

// Session is one editor's view of a task: the base it loaded, the draft being
// edited and, after a rejected save, the server snapshot it lost against.
type Session struct {
	updater  Updater
	base     *model.Task
	draft    dto.TaskFields
	touched  map[Field]bool
	expected int64
	state    State
	snapshot *model.Task
}

func NewSession(updater Updater, base *model.Task) *Session {
	s := &Session{updater: updater}
	s.adopt(base)
	return s
}

func (s *Session) State() State               { return s.state }
func (s *Session) Draft() dto.TaskFields      { return s.draft }
func (s *Session) Base() *model.Task          { return s.base.Clone() }
func (s *Session) Snapshot() *model.Task      { return s.snapshot.Clone() }
func (s *Session) ExpectedVersion() int64     { return s.expected }
func (s *Session) IsTouched(field Field) bool { return s.touched[field] }

// Set edits one draft field and marks it as actively edited.
func (s *Session) Set(field Field, raw string) error {
	if s.state != Editing {
		return fmt.Errorf("set %s while %s: %w", field, s.state, ErrInvalidTransition)
	}
	if err := set(&s.draft, field, raw); err != nil {
		return err
	}
	s.touched[field] = true
	return nil
}

// Save submits the draft at the pinned version.
func (s *Session) Save(ctx context.Context) (*model.Task, error) {
	if s.state != Editing {
		return nil, fmt.Errorf("save while %s: %w", s.state, ErrInvalidTransition)
	}
	return s.submit(ctx, s.draft, s.expected, Editing)
}

// Discard drops the draft and continues editing from the server snapshot.
func (s *Session) Discard() error {
	if s.state != Conflicted {
		return fmt.Errorf("discard while %s: %w", s.state, ErrInvalidTransition)
	}
	s.adopt(s.snapshot)
	return nil
}

// ForceOverwrite keeps the value of every edited field and retries at the snapshot
// version. Fields the user did not edit take the snapshot value.
func (s *Session) ForceOverwrite(ctx context.Context) (*model.Task, error) {
	if s.state != Conflicted {
		return nil, fmt.Errorf("force overwrite while %s: %w", s.state, ErrInvalidTransition)
	}

	fields := dto.FieldsOf(s.snapshot)
	for field := range s.touched {
		copyField(&fields, s.draft, field)
	}

	s.state = Resolving
	return s.submit(ctx, fields, s.snapshot.Version, Conflicted)
}

// ContestedFields returns the edited fields the server also changed to a different
// value, in form order. Only these need a Mine/Theirs choice.
func (s *Session) ContestedFields() []Field {
	if s.snapshot == nil {
		return nil
	}

	base := dto.FieldsOf(s.base)
	theirs := dto.FieldsOf(s.snapshot)

	var contested []Field
	for _, field := range Fields {
		if !s.touched[field] {
			continue
		}
		serverChanged := value(theirs, field) != value(base, field)
		if serverChanged && value(s.draft, field) != value(theirs, field) {
			contested = append(contested, field)
		}
	}
	return contested
}

// Merge assembles one field set from the snapshot, the uncontested edits and the
// given choice for every contested field, then submits it at the snapshot version.
func (s *Session) Merge(ctx context.Context, choices map[Field]Choice) (*model.Task, error) {
	if s.state != Conflicted {
		return nil, fmt.Errorf("merge while %s: %w", s.state, ErrInvalidTransition)
	}

	contested := make(map[Field]bool)
	for _, field := range s.ContestedFields() {
		switch choices[field] {
		case Mine, Theirs:
			contested[field] = true
		default:
			return nil, fmt.Errorf("%s: %w", field, ErrUnresolvedField)
		}
	}

	fields := dto.FieldsOf(s.snapshot)
	for field := range s.touched {
		if contested[field] && choices[field] == Theirs {
			continue
		}
		copyField(&fields, s.draft, field)
	}

	s.state = Resolving
	return s.submit(ctx, fields, s.snapshot.Version, Conflicted)
}

// Cancel returns to editing with the draft and the stale version unchanged.
func (s *Session) Cancel() error {
	if s.state != Conflicted {
		return fmt.Errorf("cancel while %s: %w", s.state, ErrInvalidTransition)
	}
	s.state = Editing
	s.snapshot = nil
	return nil
}

// Abandon ends the session. Nothing is held on the server, so nothing is released.
func (s *Session) Abandon() {
	s.state = Abandoned
}

// submit sends fields at version. Success adopts the result as the new base; a
// conflict records the snapshot; any other error restores the previous state.
func (s *Session) submit(ctx context.Context, fields dto.TaskFields, version int64, onError State) (*model.Task, error) {
	task, err := s.updater.AttemptUpdate(ctx, s.base.ID, fields, version)
	if err == nil {
		s.adopt(task)
		return task.Clone(), nil
	}

	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		s.state = Conflicted
		s.snapshot = conflict.Current.Clone()
		return nil, err
	}

	s.state = onError
	return nil, err
}

func (s *Session) adopt(task *model.Task) {
	s.base = task.Clone()
	s.draft = dto.FieldsOf(task)
	s.touched = make(map[Field]bool)
	s.expected = task.Version
	s.state = Editing
	s.snapshot = nil
}
