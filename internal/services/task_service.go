package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"project-board.com/project-board/internal/constants"
	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
	repository "project-board.com/project-board/internal/repositories"
	"project-board.com/project-board/internal/validators"
)

// TaskService owns every task mutation. Updates go through AttemptUpdate, which
// compares the caller's expected version before writing and relies on the store's
// own version check to settle races between concurrent callers.
type TaskService struct {
	repo   repository.TaskStore
	logger *zap.Logger
	now    func() time.Time
	actor  string
}

type Option func(*TaskService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *TaskService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithActor sets the attribution written to createdBy and updatedBy.
func WithActor(actor string) Option {
	return func(s *TaskService) {
		if actor != "" {
			s.actor = actor
		}
	}
}

func NewTaskService(repo repository.TaskStore, opts ...Option) *TaskService {
	s := &TaskService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    time.Now,
		actor:  constants.SystemUser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) CreateTask(ctx context.Context, fields dto.TaskFields) (*model.Task, error) {
	if fields.Status == "" {
		fields.Status = string(constants.StatusBacklog)
	}
	if fields.Priority == "" {
		fields.Priority = string(constants.PriorityMedium)
	}
	if err := validators.ValidateTaskFields(fields); err != nil {
		return nil, err
	}

	now := s.timestamp()
	task := &model.Task{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: s.actor,
		UpdatedBy: s.actor,
	}
	applyFields(task, fields)

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.String("task_id", task.ID))
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// FreshTask reads the authoritative record straight from the store.
func (s *TaskService) FreshTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// AttemptUpdate replaces the editable fields of task id, provided expectedVersion is
// still the stored version. A stale version yields *apperrors.ConflictError carrying
// the current record; the store is left untouched.
func (s *TaskService) AttemptUpdate(ctx context.Context, id string, fields dto.TaskFields, expectedVersion int64) (*model.Task, error) {
	if err := validators.ValidateTaskFields(fields); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Version != expectedVersion {
		return nil, s.conflict(current, expectedVersion)
	}

	next := current.Clone()
	applyFields(next, fields)
	s.touch(next, current.UpdatedAt)

	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, s.conflictAfterRace(ctx, id, expectedVersion)
		}
		s.logger.Error("task update failed", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("task updated", zap.String("task_id", id), zap.Int64("version", next.Version))
	return next, nil
}

// DeleteTask removes the task regardless of its version.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// moveToStatus sets a task's status with the store's compare-and-swap, re-reading
// and retrying when a concurrent writer gets there first.
func (s *TaskService) moveToStatus(ctx context.Context, id string, status constants.TaskStatus, attempts int) (*model.Task, error) {
	var attempted int64
	for i := 0; i < attempts; i++ {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			return current, nil
		}

		next := current.Clone()
		next.Status = status
		s.touch(next, current.UpdatedAt)
		attempted = current.Version

		err = s.repo.Update(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, repository.ErrOptimisticLock) {
			return nil, err
		}
	}
	return nil, s.conflictAfterRace(ctx, id, attempted)
}

func (s *TaskService) conflictAfterRace(ctx context.Context, id string, attempted int64) error {
	latest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.conflict(latest, attempted)
}

func (s *TaskService) conflict(current *model.Task, attempted int64) *apperrors.ConflictError {
	s.logger.Info("optimistic lock conflict",
		zap.String("task_id", current.ID),
		zap.Int64("current_version", current.Version),
		zap.Int64("attempted_version", attempted),
	)
	return apperrors.NewConflictError(current, attempted, s.timestamp())
}

// touch stamps a pending mutation. updatedAt always moves past prev, even when the
// clock has not.
func (s *TaskService) touch(task *model.Task, prev time.Time) {
	now := s.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	task.UpdatedAt = now
	task.UpdatedBy = s.actor
}

func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func applyFields(task *model.Task, f dto.TaskFields) {
	task.Title = f.Title
	task.Description = f.Description
	task.Status = constants.TaskStatus(f.Status)
	task.Priority = constants.TaskPriority(f.Priority)
	task.Assignee = f.Assignee
	task.Tags = f.Tags
	task.EstimatedHours = nil
	if f.EstimatedHours != nil {
		h := *f.EstimatedHours
		task.EstimatedHours = &h
	}
}
