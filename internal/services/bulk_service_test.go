package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-board.com/project-board/internal/constants"
	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
	repository "project-board.com/project-board/internal/repositories"
)

// contestedStore makes every write to one id lose its version check.
type contestedStore struct {
	repository.TaskStore
	id string
}

func (s *contestedStore) Update(ctx context.Context, task *model.Task) error {
	if task.ID == s.id {
		return repository.ErrOptimisticLock
	}
	return s.TaskStore.Update(ctx, task)
}

func TestBulkService_ReportsCommittedTasksOnConflict(t *testing.T) {
	inner := setupTestStore(t)
	seeder := NewTaskService(inner)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"First", "Second", "Stuck"} {
		task, err := seeder.CreateTask(ctx, dto.TaskFields{Title: title})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	svc := NewTaskService(&contestedStore{TaskStore: inner, id: ids[2]})
	updated, err := NewBulkService(svc, 1).UpdateStatus(ctx, dto.BulkStatusRequest{TaskIDs: ids, Status: "REVIEW"})

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, ids[2], conflict.Current.ID)

	require.Len(t, updated, 2)
	assert.Equal(t, ids[0], updated[0].ID)
	assert.Equal(t, ids[1], updated[1].ID)

	for i, id := range ids {
		stored, err := inner.FindByID(ctx, id)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, constants.StatusReview, stored.Status)
			assert.Equal(t, int64(1), stored.Version)
		} else {
			assert.Equal(t, constants.StatusBacklog, stored.Status)
			assert.Equal(t, int64(0), stored.Version)
		}
	}
}

func TestBulkService_UpdateStatus(t *testing.T) {
	svc, clock := setupService(t)
	tasks := seedBoard(t, svc, clock)
	bulk := NewBulkService(svc, 2)
	ctx := context.Background()

	ids := []string{tasks[2].ID, "missing", tasks[1].ID, tasks[2].ID, tasks[3].ID}
	updated, err := bulk.UpdateStatus(ctx, dto.BulkStatusRequest{TaskIDs: ids, Status: "TESTING"})
	require.NoError(t, err)

	require.Len(t, updated, 3)
	assert.Equal(t, tasks[2].ID, updated[0].ID)
	assert.Equal(t, tasks[1].ID, updated[1].ID)
	assert.Equal(t, tasks[3].ID, updated[2].ID)

	for _, task := range updated {
		assert.Equal(t, constants.StatusTesting, task.Status)
		assert.Equal(t, int64(1), task.Version)

		stored, err := svc.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version)
		assert.Equal(t, constants.StatusTesting, stored.Status)
	}

	untouched, err := svc.GetTask(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), untouched.Version)
}

func TestBulkService_SameStatusKeepsVersion(t *testing.T) {
	svc, clock := setupService(t)
	tasks := seedBoard(t, svc, clock)

	updated, err := NewBulkService(svc, 1).UpdateStatus(context.Background(), dto.BulkStatusRequest{
		TaskIDs: []string{tasks[0].ID},
		Status:  "DONE",
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, int64(0), updated[0].Version)
}

func TestBulkService_RejectsInvalidRequest(t *testing.T) {
	svc, _ := setupService(t)
	_, err := NewBulkService(svc, 1).UpdateStatus(context.Background(), dto.BulkStatusRequest{Status: "DONE"})
	assert.Error(t, err)
}
