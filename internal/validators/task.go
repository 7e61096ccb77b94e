package validators

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"project-board.com/project-board/internal/constants"
	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
	AssigneeMaxLength    = 100
	TagsMaxLength        = 500
	MaxEstimatedHours    = 1000
	MaxBulkTaskIDs       = 100
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	v := apperrors.NewValidationError()
	checkFields(v, r.TaskFields, false)
	return v.OrNil()
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	v := apperrors.NewValidationError()
	checkFields(v, r.TaskFields, true)
	if r.Version == nil {
		v.Add("version", "Version is required for optimistic locking")
	} else if *r.Version < 0 {
		v.Add("version", "Version must be non-negative")
	}
	return v.OrNil()
}

// ValidateTaskFields checks a complete field set; status and priority must be present.
func ValidateTaskFields(f dto.TaskFields) error {
	v := apperrors.NewValidationError()
	checkFields(v, f, true)
	return v.OrNil()
}

func ValidateBulkStatusRequest(r *dto.BulkStatusRequest) error {
	v := apperrors.NewValidationError()

	switch {
	case len(r.TaskIDs) == 0:
		v.Add("taskIds", "Task IDs are required")
	case len(r.TaskIDs) > MaxBulkTaskIDs:
		v.Add("taskIds", fmt.Sprintf("At most %d task IDs may be updated at once", MaxBulkTaskIDs))
	default:
		for _, id := range r.TaskIDs {
			if strings.TrimSpace(id) == "" {
				v.Add("taskIds", "Task IDs must not be blank")
				break
			}
		}
	}
	checkStatus(v, r.Status, true)

	return v.OrNil()
}

func ValidateStatus(status string) error {
	v := apperrors.NewValidationError()
	checkStatus(v, status, true)
	return v.OrNil()
}

func ValidatePriority(priority string) error {
	v := apperrors.NewValidationError()
	checkPriority(v, priority, true)
	return v.OrNil()
}

func checkFields(v *apperrors.ValidationError, f dto.TaskFields, requireEnums bool) {
	if strings.TrimSpace(f.Title) == "" {
		v.Add("title", "Title is required")
	} else if n := utf8.RuneCountInString(f.Title); n < TitleMinLength || n > TitleMaxLength {
		v.Add("title", fmt.Sprintf("Title must be between %d and %d characters", TitleMinLength, TitleMaxLength))
	}

	if utf8.RuneCountInString(f.Description) > DescriptionMaxLength {
		v.Add("description", fmt.Sprintf("Description must not exceed %d characters", DescriptionMaxLength))
	}

	checkStatus(v, f.Status, requireEnums)
	checkPriority(v, f.Priority, requireEnums)

	if utf8.RuneCountInString(f.Assignee) > AssigneeMaxLength {
		v.Add("assignee", fmt.Sprintf("Assignee name must not exceed %d characters", AssigneeMaxLength))
	}

	if f.EstimatedHours != nil {
		switch h := *f.EstimatedHours; {
		case h < 0:
			v.Add("estimatedHours", "Estimated hours must be non-negative")
		case h > MaxEstimatedHours:
			v.Add("estimatedHours", fmt.Sprintf("Estimated hours must not exceed %d", MaxEstimatedHours))
		}
	}

	if utf8.RuneCountInString(f.Tags) > TagsMaxLength {
		v.Add("tags", fmt.Sprintf("Tags must not exceed %d characters", TagsMaxLength))
	}
}

func checkStatus(v *apperrors.ValidationError, status string, required bool) {
	if status == "" {
		if required {
			v.Add("status", "Status is required")
		}
		return
	}
	if !constants.TaskStatus(status).Valid() {
		v.Add("status", "Invalid status: "+status)
	}
}

func checkPriority(v *apperrors.ValidationError, priority string, required bool) {
	if priority == "" {
		if required {
			v.Add("priority", "Priority is required")
		}
		return
	}
	if !constants.TaskPriority(priority).Valid() {
		v.Add("priority", "Invalid priority: "+priority)
	}
}
