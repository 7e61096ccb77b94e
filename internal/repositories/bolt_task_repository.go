package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

var tasksBucket = []byte("tasks")

// BoltTaskRepository keeps tasks as JSON documents keyed by id in a single bucket.
// Compare-and-swap runs inside one read-write transaction, which bolt serializes.
type BoltTaskRepository struct {
	db *bolt.DB
}

var _ TaskStore = (*BoltTaskRepository)(nil)

func OpenBoltTaskRepository(path string) (*BoltTaskRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tasksBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltTaskRepository{db: db}, nil
}

func (r *BoltTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 0

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tasksBucket)
		if b.Get([]byte(task.ID)) != nil {
			return fmt.Errorf("create task: id %s already exists", task.ID)
		}
		return b.Put([]byte(task.ID), payload)
	})
}

func (r *BoltTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var task *model.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		task, err = decodeTask(tx.Bucket(tasksBucket).Get([]byte(id)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *BoltTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tasksBucket).ForEach(func(_, v []byte) error {
			task, err := decodeTask(v)
			if err != nil {
				return err
			}
			tasks = append(tasks, *task)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (r *BoltTaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tasksBucket)

		current, err := decodeTask(b.Get([]byte(task.ID)))
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return ErrOptimisticLock
		}
		if err != nil {
			return err
		}
		if current.Version != task.Version {
			return ErrOptimisticLock
		}

		next := task.Clone()
		next.Version = current.Version + 1
		next.CreatedAt = current.CreatedAt
		next.CreatedBy = current.CreatedBy

		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode task: %w", err)
		}
		if err := b.Put([]byte(task.ID), payload); err != nil {
			return err
		}

		task.Version = next.Version
		return nil
	})
}

func (r *BoltTaskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tasksBucket)
		if b.Get([]byte(id)) == nil {
			return apperrors.ErrTaskNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (r *BoltTaskRepository) Close() error {
	return r.db.Close()
}

func decodeTask(raw []byte) (*model.Task, error) {
	if raw == nil {
		return nil, apperrors.ErrTaskNotFound
	}
	var task model.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}
