package services

import (
	"context"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/repositories"
)

// QueryService is the read-only side: stateless projections over
// repository reads, no mutation.
type QueryService struct {
	tasks         repositories.TaskStore
	reportBreaker *gobreaker.CircuitBreaker
}

func NewQueryService(tasks repositories.TaskStore, reportBreaker *gobreaker.CircuitBreaker) *QueryService {
	return &QueryService{tasks: tasks, reportBreaker: reportBreaker}
}

// groupTaskRows folds flat task/assignee rows into task responses with
// nested assignee info, preserving row order.
func groupTaskRows(rows []repositories.TaskAssigneeRow) []models.TaskResponse {
	var tasks []models.TaskResponse
	index := make(map[int]int)

	for _, row := range rows {
		i, seen := index[row.TaskID]
		if !seen {
			tasks = append(tasks, models.TaskResponse{
				TaskID:         row.TaskID,
				Title:          row.Title,
				Description:    row.Description,
				TaskItemStatus: row.Status,
				CreatedDate:    row.CreatedDate,
				DueDate:        row.DueDate,
				ClosedDate:     row.ClosedDate,
				CreatedBy:      row.CreatedByName,
				AssignedUsers:  []models.UserTaskInfo{},
			})
			i = len(tasks) - 1
			index[row.TaskID] = i
		}

		if row.AssigneeID == nil {
			continue
		}
		info := models.UserTaskInfo{
			UserID:         *row.AssigneeID,
			UserStatus:     *row.AssigneeStatus,
			Feedback:       row.Feedback,
			UserClosedDate: row.AssigneeClosed,
			UserDueDate:    row.AssigneeDue,
		}
		if row.AssigneeName != nil {
			info.UserName = *row.AssigneeName
		}
		if row.AssignedDate != nil {
			info.AssignedDate = *row.AssignedDate
		}
		tasks[i].AssignedUsers = append(tasks[i].AssignedUsers, info)
	}
	return tasks
}

// ListTasks returns every task with its nested assignee info.
func (s *QueryService) ListTasks(ctx context.Context) ([]models.TaskResponse, error) {
	rows, err := s.tasks.ListTaskRows(ctx)
	if err != nil {
		return nil, err
	}
	return groupTaskRows(rows), nil
}

func (s *QueryService) GetTaskByID(ctx context.Context, id int) (*models.TaskResponse, error) {
	rows, err := s.tasks.TaskRowsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks := groupTaskRows(rows)
	if len(tasks) == 0 {
		return nil, errs.NotFound("no tasks found with the given id")
	}
	return &tasks[0], nil
}

// SearchTasks matches tasks whose title contains the given text, case
// insensitively. Zero matches is reported as not found.
func (s *QueryService) SearchTasks(ctx context.Context, title string) ([]models.TaskResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.Validation("title is required")
	}

	rows, err := s.tasks.TaskRowsByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	tasks := groupTaskRows(rows)
	if len(tasks) == 0 {
		return nil, errs.NotFound("no tasks found with the given title")
	}
	return tasks, nil
}

// MyTasks lists the caller's assignments joined with their parent task
// fields.
func (s *QueryService) MyTasks(ctx context.Context, userID int) ([]models.MyTask, error) {
	tasks, err := s.tasks.UserTaskRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, errs.NotFound("no tasks found for the current user")
	}
	return tasks, nil
}

// TaskDetails builds the flattened user x task x assignment report. The
// query is the heaviest read in the service, so it runs behind a circuit
// breaker.
func (s *QueryService) TaskDetails(ctx context.Context) ([]models.TaskDetail, error) {
	result, err := s.reportBreaker.Execute(func() (interface{}, error) {
		return s.tasks.TaskDetailRows(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.TaskDetail), nil
}
