package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	model "project-board.com/project-board/internal/models"
)

func TestStatusCode(t *testing.T) {
	conflict := NewConflictError(&model.Task{ID: "t1", Version: 4}, 2, time.Now())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", conflict, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("update: %w", conflict), http.StatusConflict},
		{"validation", InvalidJSON(), http.StatusBadRequest},
		{"not found", ErrTaskNotFound, http.StatusNotFound},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("title", "Title is required")
	v.Add("title", "Title must be between 3 and 200 characters")
	v.Add("assignee", "Assignee name must not exceed 100 characters")

	assert.Equal(t, "Title is required", v.Fields["title"])
	assert.Equal(t, ValidationMessage+": assignee: Assignee name must not exceed 100 characters; title: Title is required", v.Error())
	assert.Error(t, v.OrNil())
}

func TestConflictError(t *testing.T) {
	current := &model.Task{ID: "t1", Version: 3}
	err := NewConflictError(current, 1, time.Now())

	assert.Equal(t, ConflictKind, err.Kind())
	assert.Equal(t, int64(3), err.CurrentVersion)
	assert.Equal(t, int64(1), err.AttemptedVersion)
	assert.Same(t, current, err.Current)
	assert.Contains(t, err.Error(), "current version 3, attempted version 1")
}
