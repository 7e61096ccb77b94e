package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	dto "project-board.com/project-board/internal/data_models"
)

const InvalidDateFormat = "Invalid date format"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 timestamps and zone-less ISO-8601 date-times,
// the latter read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// CheckForConflicts reports whether task id changed after lastFetched. It is advisory;
// AttemptUpdate's version comparison remains authoritative. An unparseable
// lastFetched is reported as a conflict.
func (s *TaskService) CheckForConflicts(ctx context.Context, id, lastFetched string) (*dto.ConflictCheck, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	check := &dto.ConflictCheck{Timestamp: s.timestamp()}

	since, err := ParseTimestamp(lastFetched)
	if err != nil {
		s.logger.Warn("unparseable lastFetched timestamp",
			zap.String("task_id", id),
			zap.String("last_fetched", lastFetched),
		)
		check.HasConflict = true
		check.CurrentSnapshot = current
		check.Error = InvalidDateFormat
		return check, nil
	}

	if current.UpdatedAt.After(since) {
		check.HasConflict = true
		check.CurrentSnapshot = current
	}
	return check, nil
}
