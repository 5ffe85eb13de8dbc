package repositories

import (
	"context"
	"time"

	"github.com/MAAF1/Task-System/models"
)

// TaskAssigneeRow is one flat row of a task joined with zero or one of its
// assignments. Tasks without assignees produce a single row with nil
// assignee fields; the query service groups rows back into task responses.
type TaskAssigneeRow struct {
	TaskID        int
	Title         string
	Description   *string
	Status        models.TaskStatus
	CreatedDate   time.Time
	DueDate       *time.Time
	ClosedDate    *time.Time
	CreatedByName *string

	AssigneeID     *int
	AssigneeName   *string
	AssigneeStatus *models.TaskStatus
	Feedback       *string
	AssignedDate   *time.Time
	AssigneeDue    *time.Time
	AssigneeClosed *time.Time
}

// TaskStore is the persistence contract for tasks and assignments.
// Implementations must enforce uniqueness on (taskId, userId), cascade
// assignment deletion with their task, and keep multi-row mutations
// all-or-nothing. Failures are reported as errs package errors.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task, assigneeIDs []int) (int, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id int) error

	AssignUsers(ctx context.Context, taskID int, userIDs []int) error
	RemoveUsers(ctx context.Context, taskID int, userIDs []int) error
	GetAssignment(ctx context.Context, taskID, userID int) (*models.Assignment, error)
	CompleteAssignment(ctx context.Context, taskID, userID int, closed time.Time) error
	SetAssignmentFeedback(ctx context.Context, taskID, userID int, feedback string) error

	ListTaskRows(ctx context.Context) ([]TaskAssigneeRow, error)
	TaskRowsByID(ctx context.Context, id int) ([]TaskAssigneeRow, error)
	TaskRowsByTitle(ctx context.Context, title string) ([]TaskAssigneeRow, error)
	UserTaskRows(ctx context.Context, userID int) ([]models.MyTask, error)
	TaskDetailRows(ctx context.Context) ([]models.TaskDetail, error)
}

// UserStore is the identity collaborator: accounts, role memberships and
// existence checks. Deleting a user cascades that user's assignments only.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string, roles []models.Role) (int, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error)
	ListUsers(ctx context.Context) ([]models.UserResponse, error)
	SearchByName(ctx context.Context, name string) ([]models.UserResponse, error)
	DeleteUser(ctx context.Context, id int) error
}
