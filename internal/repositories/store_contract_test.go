package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-board.com/project-board/internal/constants"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)

func newTask(title string, at time.Time) *model.Task {
	return &model.Task{
		Title:     title,
		Status:    constants.StatusBacklog,
		Priority:  constants.PriorityMedium,
		CreatedAt: at,
		UpdatedAt: at,
		CreatedBy: constants.SystemUser,
		UpdatedBy: constants.SystemUser,
	}
}

// runStoreContract exercises the behaviour every TaskStore backend must share.
func runStoreContract(t *testing.T, open func(t *testing.T) TaskStore) {
	ctx := context.Background()

	t.Run("create starts at version zero", func(t *testing.T) {
		store := open(t)
		task := newTask("Write tests", baseTime)
		task.Version = 7

		require.NoError(t, store.Create(ctx, task))
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, int64(0), task.Version)

		got, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, int64(0), got.Version)
		assert.True(t, got.CreatedAt.Equal(baseTime), "createdAt %v", got.CreatedAt)
		assert.True(t, got.UpdatedAt.Equal(baseTime), "updatedAt %v", got.UpdatedAt)
	})

	t.Run("find missing", func(t *testing.T) {
		store := open(t)
		_, err := store.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("update advances version by one", func(t *testing.T) {
		store := open(t)
		task := newTask("Original", baseTime)
		require.NoError(t, store.Create(ctx, task))

		for want := int64(1); want <= 3; want++ {
			task.Title = "Revision"
			task.UpdatedAt = baseTime.Add(time.Duration(want) * time.Second)
			require.NoError(t, store.Update(ctx, task))
			assert.Equal(t, want, task.Version)

			got, err := store.FindByID(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got.Version)
			assert.True(t, got.UpdatedAt.Equal(task.UpdatedAt))
			assert.True(t, got.CreatedAt.Equal(baseTime))
		}
	})

	t.Run("stale version is rejected and row untouched", func(t *testing.T) {
		store := open(t)
		task := newTask("Original", baseTime)
		require.NoError(t, store.Create(ctx, task))

		winner := task.Clone()
		winner.Title = "Winner"
		require.NoError(t, store.Update(ctx, winner))

		loser := task.Clone()
		loser.Title = "Loser"
		err := store.Update(ctx, loser)
		assert.ErrorIs(t, err, ErrOptimisticLock)
		assert.Equal(t, int64(0), loser.Version)

		got, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Winner", got.Title)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("concurrent writers from the same base", func(t *testing.T) {
		store := open(t)
		task := newTask("Contended", baseTime)
		require.NoError(t, store.Create(ctx, task))

		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				attempt := task.Clone()
				attempt.Assignee = "writer"
				err := store.Update(ctx, attempt)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ErrOptimisticLock):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, writers-1, conflicts)

		got, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("update of missing row", func(t *testing.T) {
		store := open(t)
		task := newTask("Ghost", baseTime)
		task.ID = "does-not-exist"
		assert.ErrorIs(t, store.Update(ctx, task), ErrOptimisticLock)
	})

	t.Run("delete is unconditional", func(t *testing.T) {
		store := open(t)
		task := newTask("Doomed", baseTime)
		require.NoError(t, store.Create(ctx, task))
		task.UpdatedAt = baseTime.Add(time.Second)
		require.NoError(t, store.Update(ctx, task))

		require.NoError(t, store.Delete(ctx, task.ID))

		_, err := store.FindByID(ctx, task.ID)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		assert.ErrorIs(t, store.Delete(ctx, task.ID), apperrors.ErrTaskNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		store := open(t)
		older := newTask("Older", baseTime)
		newer := newTask("Newer", baseTime.Add(time.Minute))
		require.NoError(t, store.Create(ctx, older))
		require.NoError(t, store.Create(ctx, newer))

		tasks, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, newer.ID, tasks[0].ID)
		assert.Equal(t, older.ID, tasks[1].ID)
	})
}
