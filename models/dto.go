package models

import "time"

// Response shapes consumed by the SPA clients. These are projections built
// by the query service; they never drive mutations.

type UserTaskInfo struct {
	UserID         int        `json:"userId"`
	UserName       string     `json:"userName"`
	UserStatus     TaskStatus `json:"userStatus"`
	Feedback       *string    `json:"feedback,omitempty"`
	AssignedDate   time.Time  `json:"assignedDate"`
	UserClosedDate *time.Time `json:"userClosedDate,omitempty"`
	UserDueDate    *time.Time `json:"userDueDate,omitempty"`
}

type TaskResponse struct {
	TaskID         int            `json:"taskId"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	TaskItemStatus TaskStatus     `json:"taskItemStatus"`
	CreatedDate    time.Time      `json:"createdDate"`
	DueDate        *time.Time     `json:"dueDate,omitempty"`
	ClosedDate     *time.Time     `json:"closedDate,omitempty"`
	CreatedBy      *string        `json:"createdBy,omitempty"`
	AssignedUsers  []UserTaskInfo `json:"assignedUsers"`
}

// MyTask joins one of the caller's assignments with its parent task fields.
type MyTask struct {
	TaskID           int        `json:"taskId"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	TaskDueDate      *time.Time `json:"taskDueDate,omitempty"`
	TaskClosedDate   *time.Time `json:"taskClosedDate,omitempty"`
	TaskItemStatus   TaskStatus `json:"taskItemStatus"`
	UserStatus       TaskStatus `json:"userStatus"`
	UserAssignedDate time.Time  `json:"userAssignedDate"`
	UserClosedDate   *time.Time `json:"userClosedDate,omitempty"`
	UserDueDate      *time.Time `json:"userDueDate,omitempty"`
	Feedback         *string    `json:"feedback,omitempty"`
}

// TaskDetail is one row of the flattened user x task x assignment report.
type TaskDetail struct {
	UserName           *string    `json:"userName,omitempty"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	CreatedDate        time.Time  `json:"createdDate"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	ClosedDate         *time.Time `json:"closedDate,omitempty"`
	TaskStatus         TaskStatus `json:"taskStatus"`
	CreatedByName      *string    `json:"createdByName,omitempty"`
	Feedback           *string    `json:"feedback,omitempty"`
	UserTaskStatus     *string    `json:"userTaskStatus,omitempty"`
	AssignedDate       *time.Time `json:"assignedDate,omitempty"`
	UserTaskDueDate    *time.Time `json:"userTaskDueDate,omitempty"`
	UserTaskClosedDate *time.Time `json:"userTaskClosedDate,omitempty"`
}

type UserResponse struct {
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}
