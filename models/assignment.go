package models

import "time"

// Assignment links one user to one task. The pair (TaskID, UserID) is the
// composite identity; the store enforces uniqueness on it.
type Assignment struct {
	TaskID       int        `json:"taskId"`
	UserID       int        `json:"userId"`
	Status       TaskStatus `json:"status"`
	Feedback     *string    `json:"feedback,omitempty"`
	AssignedDate time.Time  `json:"assignedDate"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClosedDate   *time.Time `json:"closedDate,omitempty"`
}
