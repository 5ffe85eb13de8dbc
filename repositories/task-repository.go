package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/models"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask persists a task and one assignment per assignee id inside a
// single transaction. Assignments created here start in progress with the
// task's creation time as their assigned date.
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task, assigneeIDs []int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO tasks (title, description, status, created_by, created_date, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		task.Title, task.Description, task.Status, task.CreatedByID, task.CreatedDate, task.DueDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	for _, userID := range assigneeIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_tasks (task_id, user_id, status, assigned_date)
			 VALUES ($1, $2, $3, $4);`,
			id, userID, models.StatusInProgress, task.CreatedDate)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case ForeignKeyViolation:
					return 0, errs.NotFound("user %d does not exist", userID)
				case UniqueViolation:
					return 0, errs.Conflict("user %d is already assigned to this task", userID)
				}
			}
			return 0, fmt.Errorf("failed to assign user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id int) (*models.Task, error) {
	var task models.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, status, created_by, created_date, due_date, closed_date
		 FROM tasks WHERE id = $1;`, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status,
		&task.CreatedByID, &task.CreatedDate, &task.DueDate, &task.ClosedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := r.db.Exec(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, due_date = $4, closed_date = $5
		 WHERE id = $6;`,
		task.Title, task.Description, task.Status, task.DueDate, task.ClosedDate, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("task not found")
	}
	return nil
}

// DeleteTask removes the task; its assignments go with it through the
// cascade on user_tasks.
func (r *TaskRepository) DeleteTask(ctx context.Context, id int) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("task not found")
	}
	return nil
}

// AssignUsers adds pending assignments for the given users. Users already
// assigned are left untouched, so repeated calls are idempotent.
func (r *TaskRepository) AssignUsers(ctx context.Context, taskID int, userIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_tasks (task_id, user_id, status, assigned_date)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (task_id, user_id) DO NOTHING;`,
			taskID, userID, models.StatusPending, now)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == ForeignKeyViolation {
				return errs.Validation("user %d does not exist", userID)
			}
			return fmt.Errorf("failed to assign user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveUsers deletes the named assignments. Every user must be assigned to
// the task; the check runs before any deletion so a single unknown user
// leaves the task untouched.
func (r *TaskRepository) RemoveUsers(ctx context.Context, taskID int, userIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, userID := range userIDs {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_tasks WHERE task_id = $1 AND user_id = $2);`,
			taskID, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check assignment for user %d: %w", userID, err)
		}
		if !exists {
			return errs.Validation("user %d is not assigned to this task", userID)
		}
	}

	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`DELETE FROM user_tasks WHERE task_id = $1 AND user_id = $2;`, taskID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetAssignment(ctx context.Context, taskID, userID int) (*models.Assignment, error) {
	var a models.Assignment
	err := r.db.QueryRow(ctx,
		`SELECT task_id, user_id, status, feedback, assigned_date, due_date, closed_date
		 FROM user_tasks WHERE task_id = $1 AND user_id = $2;`, taskID, userID).Scan(
		&a.TaskID, &a.UserID, &a.Status, &a.Feedback, &a.AssignedDate, &a.DueDate, &a.ClosedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("task not found or not assigned to user")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CompleteAssignment marks the assignment completed exactly once. The
// status guard in the WHERE clause settles races between two completion
// attempts: the loser matches no row and gets a conflict.
func (r *TaskRepository) CompleteAssignment(ctx context.Context, taskID, userID int, closed time.Time) error {
	res, err := r.db.Exec(ctx,
		`UPDATE user_tasks SET status = $1, closed_date = $2
		 WHERE task_id = $3 AND user_id = $4 AND status <> $1;`,
		models.StatusCompleted, closed, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to complete assignment: %w", err)
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_tasks WHERE task_id = $1 AND user_id = $2);`,
			taskID, userID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return errs.Conflict("task is already completed")
		}
		return errs.NotFound("task not found or not assigned to user")
	}
	return nil
}

func (r *TaskRepository) SetAssignmentFeedback(ctx context.Context, taskID, userID int, feedback string) error {
	res, err := r.db.Exec(ctx,
		`UPDATE user_tasks SET feedback = $1 WHERE task_id = $2 AND user_id = $3;`,
		feedback, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("task not found for this user")
	}
	return nil
}

const taskAssigneeSelect = `
	SELECT t.id, t.title, t.description, t.status, t.created_date, t.due_date, t.closed_date,
	       c.username,
	       ut.user_id, u.username, ut.status, ut.feedback, ut.assigned_date, ut.due_date, ut.closed_date
	FROM tasks t
	LEFT JOIN users c ON c.id = t.created_by
	LEFT JOIN user_tasks ut ON ut.task_id = t.id
	LEFT JOIN users u ON u.id = ut.user_id`

func (r *TaskRepository) ListTaskRows(ctx context.Context) ([]TaskAssigneeRow, error) {
	rows, err := r.db.Query(ctx, taskAssigneeSelect+` ORDER BY t.id ASC;`)
	if err != nil {
		return nil, err
	}
	return scanTaskAssigneeRows(rows)
}

func (r *TaskRepository) TaskRowsByID(ctx context.Context, id int) ([]TaskAssigneeRow, error) {
	rows, err := r.db.Query(ctx, taskAssigneeSelect+` WHERE t.id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanTaskAssigneeRows(rows)
}

func (r *TaskRepository) TaskRowsByTitle(ctx context.Context, title string) ([]TaskAssigneeRow, error) {
	rows, err := r.db.Query(ctx, taskAssigneeSelect+` WHERE t.title ILIKE $1 ORDER BY t.id ASC;`,
		"%"+title+"%")
	if err != nil {
		return nil, err
	}
	return scanTaskAssigneeRows(rows)
}

func scanTaskAssigneeRows(rows pgx.Rows) ([]TaskAssigneeRow, error) {
	defer rows.Close()

	var result []TaskAssigneeRow
	for rows.Next() {
		var row TaskAssigneeRow
		err := rows.Scan(
			&row.TaskID, &row.Title, &row.Description, &row.Status,
			&row.CreatedDate, &row.DueDate, &row.ClosedDate,
			&row.CreatedByName,
			&row.AssigneeID, &row.AssigneeName, &row.AssigneeStatus,
			&row.Feedback, &row.AssignedDate, &row.AssigneeDue, &row.AssigneeClosed)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *TaskRepository) UserTaskRows(ctx context.Context, userID int) ([]models.MyTask, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ut.task_id, t.title, t.description, t.due_date, t.closed_date, t.status,
		        ut.status, ut.assigned_date, ut.closed_date, ut.due_date, ut.feedback
		 FROM user_tasks ut
		 JOIN tasks t ON t.id = ut.task_id
		 WHERE ut.user_id = $1
		 ORDER BY ut.assigned_date DESC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.MyTask
	for rows.Next() {
		var mt models.MyTask
		err := rows.Scan(
			&mt.TaskID, &mt.Title, &mt.Description, &mt.TaskDueDate, &mt.TaskClosedDate, &mt.TaskItemStatus,
			&mt.UserStatus, &mt.UserAssignedDate, &mt.UserClosedDate, &mt.UserDueDate, &mt.Feedback)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskDetailRows produces the flattened user x task x assignment report.
func (r *TaskRepository) TaskDetailRows(ctx context.Context) ([]models.TaskDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.username, t.title, t.description, t.created_date, t.due_date, t.closed_date,
		        t.status, c.username, ut.feedback, ut.status, ut.assigned_date, ut.due_date, ut.closed_date
		 FROM tasks t
		 LEFT JOIN user_tasks ut ON ut.task_id = t.id
		 LEFT JOIN users u ON u.id = ut.user_id
		 LEFT JOIN users c ON c.id = t.created_by
		 ORDER BY t.id ASC, u.username ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.TaskDetail
	for rows.Next() {
		var d models.TaskDetail
		err := rows.Scan(
			&d.UserName, &d.Title, &d.Description, &d.CreatedDate, &d.DueDate, &d.ClosedDate,
			&d.TaskStatus, &d.CreatedByName, &d.Feedback, &d.UserTaskStatus,
			&d.AssignedDate, &d.UserTaskDueDate, &d.UserTaskClosedDate)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
