package constants

type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusTesting    TaskStatus = "TESTING"
	StatusDone       TaskStatus = "DONE"
)

// Statuses lists every status in board column order.
var Statuses = []TaskStatus{
	StatusBacklog,
	StatusInProgress,
	StatusReview,
	StatusTesting,
	StatusDone,
}

var statusDisplayNames = map[TaskStatus]string{
	StatusBacklog:    "Backlog",
	StatusInProgress: "In Progress",
	StatusReview:     "In Review",
	StatusTesting:    "Testing",
	StatusDone:       "Done",
}

func (s TaskStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

func (s TaskStatus) DisplayName() string {
	return statusDisplayNames[s]
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

var Priorities = []TaskPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

var priorityLevels = map[TaskPriority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityLevels[p]
	return ok
}

// Level orders priorities from 1 (LOW) to 4 (CRITICAL). Unknown priorities are 0.
func (p TaskPriority) Level() int {
	return priorityLevels[p]
}

const SystemUser = "system"
