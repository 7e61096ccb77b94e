package model

import (
	"time"

	"project-board.com/project-board/internal/constants"
)

type Task struct {
	ID             string                 `gorm:"primaryKey;size:36" json:"id"`
	Title          string                 `gorm:"size:200;not null" json:"title"`
	Description    string                 `gorm:"size:2000" json:"description"`
	Status         constants.TaskStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority       constants.TaskPriority `gorm:"type:varchar(20);not null;index" json:"priority"`
	Assignee       string                 `gorm:"size:100" json:"assignee"`
	EstimatedHours *float64               `json:"estimatedHours"`
	Tags           string                 `gorm:"size:500" json:"tags"`
	Version        int64                  `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time              `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      time.Time              `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
	CreatedBy      string                 `gorm:"size:100;not null" json:"createdBy"`
	UpdatedBy      string                 `gorm:"size:100;not null" json:"updatedBy"`
}

// Clone returns a deep copy so callers can mutate a task without touching a shared snapshot.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	return &c
}
