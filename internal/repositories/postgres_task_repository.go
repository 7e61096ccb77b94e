package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

const taskColumns = `id, title, description, status, priority, assignee,
	estimated_hours, tags, version, created_at, updated_at, created_by, updated_by`

type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

var _ TaskStore = (*PostgresTaskRepository)(nil)

func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 0

	const query = `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.Assignee,
		task.EstimatedHours, task.Tags, task.Version, task.CreatedAt, task.UpdatedAt,
		task.CreatedBy, task.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return task, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *model.Task) error {
	const query = `UPDATE tasks SET
			title = $3,
			description = $4,
			status = $5,
			priority = $6,
			assignee = $7,
			estimated_hours = $8,
			tags = $9,
			updated_at = $10,
			updated_by = $11,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`

	var next int64
	err := r.pool.QueryRow(ctx, query,
		task.ID, task.Version,
		task.Title, task.Description, task.Status, task.Priority, task.Assignee,
		task.EstimatedHours, task.Tags, task.UpdatedAt, task.UpdatedBy,
	).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOptimisticLock
	}
	if err != nil {
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}

	task.Version = next
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Close() error {
	r.pool.Close()
	return nil
}

func scanTask(row interface{ Scan(dest ...any) error }) (*model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Assignee,
		&t.EstimatedHours, &t.Tags, &t.Version, &t.CreatedAt, &t.UpdatedAt,
		&t.CreatedBy, &t.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
