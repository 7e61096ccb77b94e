package repository

import (
	"context"
	"errors"

	model "project-board.com/project-board/internal/models"
)

// ErrOptimisticLock means an update carried a version that was no longer current
// at write time, or the row disappeared before the write landed.
var ErrOptimisticLock = errors.New("optimistic locking conflict")

// TaskStore persists tasks. Update is a compare-and-swap on Version: it succeeds only
// when the stored version equals task.Version, and then advances both the stored row
// and task to task.Version+1.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	Close() error
}
