package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/repositories"
)

// TaskService owns the task lifecycle rules: creation, assignment,
// partial updates, deletion, per-user completion and feedback. It reads
// identity through the user store and mutates through the task store.
type TaskService struct {
	tasks repositories.TaskStore
	users repositories.UserStore
}

func NewTaskService(tasks repositories.TaskStore, users repositories.UserStore) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errs.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", errs.Validation("title must not exceed %d characters", models.MaxTitleLength)
	}
	return title, nil
}

// CreateTask persists a new task, optionally assigning an initial set of
// users. Assignment is all-or-nothing: one unknown user id and nothing is
// created. Returns the new task id.
func (s *TaskService) CreateTask(ctx context.Context, requesterID int, title string, description *string,
	dueDate *time.Time, status *string, assignedUserIDs []int) (int, error) {

	title, err := validateTitle(title)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	if dueDate != nil && !dueDate.After(now) {
		return 0, errs.Validation("due date must be in the future")
	}

	taskStatus := models.StatusPending
	if status != nil {
		parsed, ok := models.ParseTaskStatus(*status)
		if !ok {
			return 0, errs.Validation("invalid status value")
		}
		taskStatus = parsed
	}

	if len(assignedUserIDs) > 0 {
		existing, err := s.users.ExistingIDs(ctx, assignedUserIDs)
		if err != nil {
			return 0, err
		}
		for _, id := range assignedUserIDs {
			if !existing[id] {
				return 0, errs.NotFound("one or more assigned users do not exist")
			}
		}
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      taskStatus,
		CreatedByID: &requesterID,
		CreatedDate: now,
		DueDate:     dueDate,
	}
	return s.tasks.CreateTask(ctx, task, assignedUserIDs)
}

// AssignUsers adds the given users to a task. Users already assigned are
// left unchanged; new assignments start pending. All ids must resolve to
// existing users or nothing is assigned.
func (s *TaskService) AssignUsers(ctx context.Context, taskID int, userIDs []int) error {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return err
	}

	existing, err := s.users.ExistingIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if !existing[id] {
			return errs.Validation("one or more users do not exist")
		}
	}

	return s.tasks.AssignUsers(ctx, taskID, userIDs)
}

// RemoveUsers deletes the named assignments, all-or-nothing.
func (s *TaskService) RemoveUsers(ctx context.Context, taskID int, userIDs []int) error {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return err
	}
	return s.tasks.RemoveUsers(ctx, taskID, userIDs)
}

// UpdateTask applies a partial update and returns the updated task. Only
// fields present in the patch change; an empty title is ignored rather
// than rejected. A transition to completed stamps the closed date.
func (s *TaskService) UpdateTask(ctx context.Context, taskID int, patch TaskPatch) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}

	if patch.Description != nil {
		task.Description = patch.Description
	}

	if patch.Status != nil {
		parsed, ok := models.ParseTaskStatus(*patch.Status)
		if !ok {
			return nil, errs.Validation("invalid status value")
		}
		task.Status = parsed

		if parsed == models.StatusCompleted {
			closed := time.Now().UTC()
			task.ClosedDate = &closed
		}
	}

	if patch.DueDate != nil {
		if !patch.DueDate.After(task.CreatedDate) {
			return nil, errs.Validation("due date must be after created date")
		}
		task.DueDate = patch.DueDate
	}

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task and, through the store's cascade, all of its
// assignments.
func (s *TaskService) DeleteTask(ctx context.Context, taskID int) error {
	return s.tasks.DeleteTask(ctx, taskID)
}

// CompleteAssignment marks the caller's assignment completed. The
// transition is one-way: a second completion is rejected, not absorbed.
func (s *TaskService) CompleteAssignment(ctx context.Context, taskID, userID int) error {
	assignment, err := s.tasks.GetAssignment(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if assignment.Status == models.StatusCompleted {
		return errs.Conflict("task is already completed")
	}
	return s.tasks.CompleteAssignment(ctx, taskID, userID, time.Now().UTC())
}

// SetAssignmentFeedback overwrites the assignment's feedback. Feedback may
// be set at any assignment status, including after completion.
func (s *TaskService) SetAssignmentFeedback(ctx context.Context, taskID, userID int, feedback string) error {
	if strings.TrimSpace(feedback) == "" {
		return errs.Validation("feedback cannot be empty")
	}
	return s.tasks.SetAssignmentFeedback(ctx, taskID, userID, feedback)
}
