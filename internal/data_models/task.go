package dto

import (
	"time"

	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

// TaskFields are the user-editable task attributes shared by create and update.
type TaskFields struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Assignee       string   `json:"assignee"`
	EstimatedHours *float64 `json:"estimatedHours"`
	Tags           string   `json:"tags"`
}

// FieldsOf extracts the editable attributes of a stored task.
func FieldsOf(t *model.Task) TaskFields {
	f := TaskFields{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Assignee:    t.Assignee,
		Tags:        t.Tags,
	}
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		f.EstimatedHours = &h
	}
	return f
}

type CreateTaskRequest struct {
	TaskFields
}

type UpdateTaskRequest struct {
	TaskFields
	Version *int64 `json:"version"`
}

type BulkStatusRequest struct {
	TaskIDs []string `json:"taskIds"`
	Status  string   `json:"status"`
}

type SearchCriteria struct {
	Status     string `query:"status"`
	Priority   string `query:"priority"`
	Assignee   string `query:"assignee"`
	SearchTerm string `query:"searchTerm"`
}

type TaskPage struct {
	Content       []model.Task `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int          `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

type ConflictCheck struct {
	HasConflict     bool        `json:"hasConflict"`
	CurrentSnapshot *model.Task `json:"currentSnapshot,omitempty"`
	Error           string      `json:"error,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
}

type Statistics struct {
	TotalTasks          int            `json:"totalTasks"`
	ByStatus            map[string]int `json:"byStatus"`
	ByPriority          map[string]int `json:"byPriority"`
	ByAssignee          map[string]int `json:"byAssignee"`
	CompletionRate      float64        `json:"completionRate"`
	TotalEstimatedHours float64        `json:"totalEstimatedHours"`
	Timestamp           time.Time      `json:"timestamp"`
}

type StatusMeta struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

type PriorityMeta struct {
	Value string `json:"value"`
	Level int    `json:"level"`
}

type TaskMeta struct {
	Statuses   []StatusMeta   `json:"statuses"`
	Priorities []PriorityMeta `json:"priorities"`
}

type ConflictResponse struct {
	Error            string      `json:"error"`
	Message          string      `json:"message"`
	CurrentData      *model.Task `json:"currentData"`
	CurrentVersion   int64       `json:"currentVersion"`
	AttemptedVersion int64       `json:"attemptedVersion"`
	Timestamp        int64       `json:"timestamp"`
}

// NewConflictResponse renders a conflict as the 409 body; timestamp is epoch millis.
func NewConflictResponse(err *apperrors.ConflictError) ConflictResponse {
	return ConflictResponse{
		Error:            err.Kind(),
		Message:          apperrors.ConflictResponseMessage,
		CurrentData:      err.Current,
		CurrentVersion:   err.CurrentVersion,
		AttemptedVersion: err.AttemptedVersion,
		Timestamp:        err.Timestamp.UnixMilli(),
	}
}

type ValidationResponse struct {
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Timestamp   int64             `json:"timestamp"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
