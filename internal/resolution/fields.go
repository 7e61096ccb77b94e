package resolution

import (
	"fmt"
	"strconv"
	"strings"

	dto "project-board.com/project-board/internal/data_models"
)

type Field string

const (
	FieldTitle          Field = "title"
	FieldDescription    Field = "description"
	FieldStatus         Field = "status"
	FieldPriority       Field = "priority"
	FieldAssignee       Field = "assignee"
	FieldEstimatedHours Field = "estimatedHours"
	FieldTags           Field = "tags"
)

// Fields lists the editable fields in form order.
var Fields = []Field{
	FieldTitle,
	FieldDescription,
	FieldStatus,
	FieldPriority,
	FieldAssignee,
	FieldEstimatedHours,
	FieldTags,
}

// value renders a field so that absent and blank values compare equal.
func value(f dto.TaskFields, field Field) string {
	switch field {
	case FieldTitle:
		return strings.TrimSpace(f.Title)
	case FieldDescription:
		return strings.TrimSpace(f.Description)
	case FieldStatus:
		return strings.TrimSpace(f.Status)
	case FieldPriority:
		return strings.TrimSpace(f.Priority)
	case FieldAssignee:
		return strings.TrimSpace(f.Assignee)
	case FieldEstimatedHours:
		if f.EstimatedHours == nil {
			return ""
		}
		return strconv.FormatFloat(*f.EstimatedHours, 'f', -1, 64)
	case FieldTags:
		return strings.TrimSpace(f.Tags)
	}
	return ""
}

func set(f *dto.TaskFields, field Field, raw string) error {
	switch field {
	case FieldTitle:
		f.Title = raw
	case FieldDescription:
		f.Description = raw
	case FieldStatus:
		f.Status = raw
	case FieldPriority:
		f.Priority = raw
	case FieldAssignee:
		f.Assignee = raw
	case FieldEstimatedHours:
		if strings.TrimSpace(raw) == "" {
			f.EstimatedHours = nil
			return nil
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("estimated hours %q: %w", raw, err)
		}
		f.EstimatedHours = &h
	case FieldTags:
		f.Tags = raw
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// copyField copies one field from src to dst.
func copyField(dst *dto.TaskFields, src dto.TaskFields, field Field) {
	switch field {
	case FieldTitle:
		dst.Title = src.Title
	case FieldDescription:
		dst.Description = src.Description
	case FieldStatus:
		dst.Status = src.Status
	case FieldPriority:
		dst.Priority = src.Priority
	case FieldAssignee:
		dst.Assignee = src.Assignee
	case FieldEstimatedHours:
		dst.EstimatedHours = nil
		if src.EstimatedHours != nil {
			h := *src.EstimatedHours
			dst.EstimatedHours = &h
		}
	case FieldTags:
		dst.Tags = src.Tags
	}
}
