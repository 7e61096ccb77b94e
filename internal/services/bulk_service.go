package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"project-board.com/project-board/internal/constants"
	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
	"project-board.com/project-board/internal/validators"
)

const bulkUpdateAttempts = 3

// BulkService moves many tasks to one status with a bounded number of concurrent
// store writes. Each task still goes through the versioned compare-and-swap.
type BulkService struct {
	tasks   *TaskService
	workers int
}

func NewBulkService(tasks *TaskService, workers int) *BulkService {
	if workers <= 0 {
		workers = 1
	}
	return &BulkService{tasks: tasks, workers: workers}
}

// UpdateStatus returns the updated tasks in request order. Unknown ids are skipped
// and repeated ids are applied once.
//
// Each id commits on its own. When one id still loses its compare-and-swap after
// bulkUpdateAttempts, UpdateStatus returns that error together with the tasks that
// were already committed; those writes are not rolled back.
func (b *BulkService) UpdateStatus(ctx context.Context, req dto.BulkStatusRequest) ([]model.Task, error) {
	if err := validators.ValidateBulkStatusRequest(&req); err != nil {
		return nil, err
	}
	status := constants.TaskStatus(req.Status)
	ids := uniqueIDs(req.TaskIDs)

	results := make([]*model.Task, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			task, err := b.tasks.moveToStatus(gctx, id, status, bulkUpdateAttempts)
			if errors.Is(err, apperrors.ErrTaskNotFound) {
				b.tasks.logger.Debug("bulk status skipped missing task", zap.String("task_id", id))
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = task
			return nil
		})
	}
	waitErr := g.Wait()

	updated := make([]model.Task, 0, len(results))
	for _, t := range results {
		if t != nil {
			updated = append(updated, *t)
		}
	}
	if waitErr != nil {
		b.tasks.logger.Warn("bulk status change partially applied",
			zap.String("status", string(status)),
			zap.Int("requested", len(req.TaskIDs)),
			zap.Int("updated", len(updated)),
			zap.Error(waitErr),
		)
		return updated, waitErr
	}

	b.tasks.logger.Info("bulk status change applied",
		zap.String("status", string(status)),
		zap.Int("requested", len(req.TaskIDs)),
		zap.Int("updated", len(updated)),
	)
	return updated, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
