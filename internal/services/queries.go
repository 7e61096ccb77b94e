package services

import (
	"context"
	"math"
	"strings"

	"project-board.com/project-board/internal/constants"
	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
	"project-board.com/project-board/internal/validators"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchTasks returns the tasks matching every non-empty criterion. Assignee and
// search term matching is case-insensitive substring matching; the search term is
// looked up in title and description.
func (s *TaskService) SearchTasks(ctx context.Context, c dto.SearchCriteria) ([]model.Task, error) {
	v := apperrors.NewValidationError()
	if c.Status != "" && !constants.TaskStatus(c.Status).Valid() {
		v.Add("status", "Invalid status: "+c.Status)
	}
	if c.Priority != "" && !constants.TaskPriority(c.Priority).Valid() {
		v.Add("priority", "Invalid priority: "+c.Priority)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	assignee := strings.ToLower(strings.TrimSpace(c.Assignee))
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))

	return s.filter(ctx, func(t *model.Task) bool {
		if c.Status != "" && t.Status != constants.TaskStatus(c.Status) {
			return false
		}
		if c.Priority != "" && t.Priority != constants.TaskPriority(c.Priority) {
			return false
		}
		if assignee != "" && !strings.Contains(strings.ToLower(t.Assignee), assignee) {
			return false
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
		return true
	})
}

func (s *TaskService) TasksByStatus(ctx context.Context, status string) ([]model.Task, error) {
	if err := validators.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.filter(ctx, func(t *model.Task) bool {
		return t.Status == constants.TaskStatus(status)
	})
}

func (s *TaskService) TasksByPriority(ctx context.Context, priority string) ([]model.Task, error) {
	if err := validators.ValidatePriority(priority); err != nil {
		return nil, err
	}
	return s.filter(ctx, func(t *model.Task) bool {
		return t.Priority == constants.TaskPriority(priority)
	})
}

// ListPage returns the zero-based page of the task list. size 0 selects the default.
func (s *TaskService) ListPage(ctx context.Context, page, size int) (*dto.TaskPage, error) {
	if size == 0 {
		size = DefaultPageSize
	}

	v := apperrors.NewValidationError()
	if page < 0 {
		v.Add("page", "Page must be non-negative")
	}
	if size < 1 || size > MaxPageSize {
		v.Add("size", "Size must be between 1 and 100")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	total := len(tasks)
	start := total
	if page < total/size+1 {
		start = min(page*size, total)
	}
	end := min(start+size, total)

	return &dto.TaskPage{
		Content:       tasks[start:end],
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	}, nil
}

func (s *TaskService) Statistics(ctx context.Context) (*dto.Statistics, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.Statistics{
		TotalTasks: len(tasks),
		ByStatus:   make(map[string]int, len(constants.Statuses)),
		ByPriority: make(map[string]int, len(constants.Priorities)),
		ByAssignee: make(map[string]int),
		Timestamp:  s.timestamp(),
	}
	for _, st := range constants.Statuses {
		stats.ByStatus[string(st)] = 0
	}
	for _, p := range constants.Priorities {
		stats.ByPriority[string(p)] = 0
	}

	for i := range tasks {
		t := &tasks[i]
		stats.ByStatus[string(t.Status)]++
		stats.ByPriority[string(t.Priority)]++
		if a := strings.TrimSpace(t.Assignee); a != "" {
			stats.ByAssignee[a]++
		}
		if t.EstimatedHours != nil {
			stats.TotalEstimatedHours += *t.EstimatedHours
		}
	}

	if stats.TotalTasks > 0 {
		done := float64(stats.ByStatus[string(constants.StatusDone)])
		stats.CompletionRate = math.Round(done/float64(stats.TotalTasks)*100*100) / 100
	}
	return stats, nil
}

func (s *TaskService) filter(ctx context.Context, keep func(*model.Task) bool) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

// Meta describes the status and priority enums for clients.
func Meta() dto.TaskMeta {
	meta := dto.TaskMeta{
		Statuses:   make([]dto.StatusMeta, 0, len(constants.Statuses)),
		Priorities: make([]dto.PriorityMeta, 0, len(constants.Priorities)),
	}
	for _, st := range constants.Statuses {
		meta.Statuses = append(meta.Statuses, dto.StatusMeta{Value: string(st), DisplayName: st.DisplayName()})
	}
	for _, p := range constants.Priorities {
		meta.Priorities = append(meta.Priorities, dto.PriorityMeta{Value: string(p), Level: p.Level()})
	}
	return meta
}
