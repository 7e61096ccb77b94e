package validators

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var v *apperrors.ValidationError
	require.True(t, errors.As(err, &v), "expected validation error, got %v", err)
	return v.Fields
}

func hours(h float64) *float64 { return &h }

func TestValidateCreateTaskRequest_AllowsMissingEnums(t *testing.T) {
	err := ValidateCreateTaskRequest(&dto.CreateTaskRequest{TaskFields: dto.TaskFields{Title: "Write docs"}})
	assert.NoError(t, err)
}

func TestValidateCreateTaskRequest_FieldMessages(t *testing.T) {
	req := &dto.CreateTaskRequest{TaskFields: dto.TaskFields{
		Title:          "ab",
		Description:    strings.Repeat("d", DescriptionMaxLength+1),
		Status:         "ARCHIVED",
		Priority:       "URGENT",
		Assignee:       strings.Repeat("a", AssigneeMaxLength+1),
		EstimatedHours: hours(-1),
		Tags:           strings.Repeat("t", TagsMaxLength+1),
	}}

	fields := fieldErrors(t, ValidateCreateTaskRequest(req))

	assert.Equal(t, "Title must be between 3 and 200 characters", fields["title"])
	assert.Equal(t, "Description must not exceed 1000 characters", fields["description"])
	assert.Equal(t, "Invalid status: ARCHIVED", fields["status"])
	assert.Equal(t, "Invalid priority: URGENT", fields["priority"])
	assert.Equal(t, "Assignee name must not exceed 100 characters", fields["assignee"])
	assert.Equal(t, "Estimated hours must be non-negative", fields["estimatedHours"])
	assert.Equal(t, "Tags must not exceed 500 characters", fields["tags"])
}

func TestValidateCreateTaskRequest_BlankTitle(t *testing.T) {
	fields := fieldErrors(t, ValidateCreateTaskRequest(&dto.CreateTaskRequest{TaskFields: dto.TaskFields{Title: "   "}}))
	assert.Equal(t, "Title is required", fields["title"])
}

func TestValidateCreateTaskRequest_TitleCountsRunes(t *testing.T) {
	err := ValidateCreateTaskRequest(&dto.CreateTaskRequest{TaskFields: dto.TaskFields{Title: "äöü"}})
	assert.NoError(t, err)
}

func TestValidateCreateTaskRequest_HoursUpperBound(t *testing.T) {
	assert.NoError(t, ValidateCreateTaskRequest(&dto.CreateTaskRequest{TaskFields: dto.TaskFields{Title: "Plan", EstimatedHours: hours(1000)}}))

	fields := fieldErrors(t, ValidateCreateTaskRequest(&dto.CreateTaskRequest{TaskFields: dto.TaskFields{Title: "Plan", EstimatedHours: hours(1000.5)}}))
	assert.Equal(t, "Estimated hours must not exceed 1000", fields["estimatedHours"])
}

func TestValidateUpdateTaskRequest_RequiresVersionAndEnums(t *testing.T) {
	fields := fieldErrors(t, ValidateUpdateTaskRequest(&dto.UpdateTaskRequest{TaskFields: dto.TaskFields{Title: "Valid"}}))

	assert.Equal(t, "Version is required for optimistic locking", fields["version"])
	assert.Equal(t, "Status is required", fields["status"])
	assert.Equal(t, "Priority is required", fields["priority"])
}

func TestValidateUpdateTaskRequest_Valid(t *testing.T) {
	v := int64(3)
	err := ValidateUpdateTaskRequest(&dto.UpdateTaskRequest{
		TaskFields: dto.TaskFields{Title: "Valid", Status: "DONE", Priority: "LOW"},
		Version:    &v,
	})
	assert.NoError(t, err)
}

func TestValidateBulkStatusRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.BulkStatusRequest
		field string
		msg   string
	}{
		{"no ids", dto.BulkStatusRequest{Status: "DONE"}, "taskIds", "Task IDs are required"},
		{"blank id", dto.BulkStatusRequest{TaskIDs: []string{"a", " "}, Status: "DONE"}, "taskIds", "Task IDs must not be blank"},
		{"missing status", dto.BulkStatusRequest{TaskIDs: []string{"a"}}, "status", "Status is required"},
		{"bad status", dto.BulkStatusRequest{TaskIDs: []string{"a"}, Status: "NOPE"}, "status", "Invalid status: NOPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldErrors(t, ValidateBulkStatusRequest(&tt.req))
			assert.Equal(t, tt.msg, fields[tt.field])
		})
	}

	assert.NoError(t, ValidateBulkStatusRequest(&dto.BulkStatusRequest{TaskIDs: []string{"a", "b"}, Status: "REVIEW"}))
}
