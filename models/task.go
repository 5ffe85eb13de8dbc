package models

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus validates a caller-supplied status string against the
// closed status set.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return TaskStatus(s), true
	}
	return "", false
}

// MaxTitleLength is the upper bound on a task title after trimming.
const MaxTitleLength = 100

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedByID *int       `json:"createdById,omitempty"`
	CreatedDate time.Time  `json:"createdDate"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClosedDate  *time.Time `json:"closedDate,omitempty"`
}
