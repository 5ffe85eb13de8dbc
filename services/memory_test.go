package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/repositories"
)

// In-memory stores implementing the repository contracts, used to exercise
// the services without a database. They mirror the storage-level rules:
// composite-key uniqueness, cascade deletes and all-or-nothing bulk
// mutations.

type memUserStore struct {
	nextID int
	users  map[int]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int]*models.User)}
}

func (s *memUserStore) addUser(username, email string, roles ...models.Role) int {
	id := s.nextID
	s.nextID++
	s.users[id] = &models.User{ID: id, Username: username, Email: email, Roles: roles}
	return id
}

func (s *memUserStore) CreateUser(_ context.Context, username, email, passwordHash string, roles []models.Role) (int, error) {
	for _, u := range s.users {
		if u.Email == email {
			return 0, errs.Conflict("email already exists")
		}
	}
	id := s.addUser(username, email, roles...)
	s.users[id].PasswordHash = passwordHash
	return id, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errs.NotFound("user not found")
}

func (s *memUserStore) FindByID(_ context.Context, id int) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errs.NotFound("user not found")
}

func (s *memUserStore) ExistingIDs(_ context.Context, ids []int) (map[int]bool, error) {
	existing := make(map[int]bool)
	for _, id := range ids {
		if _, ok := s.users[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (s *memUserStore) ListUsers(_ context.Context) ([]models.UserResponse, error) {
	var out []models.UserResponse
	for _, id := range s.sortedIDs() {
		u := s.users[id]
		out = append(out, models.UserResponse{UserID: u.ID, UserName: u.Username, UserEmail: u.Email})
	}
	return out, nil
}

func (s *memUserStore) SearchByName(_ context.Context, name string) ([]models.UserResponse, error) {
	var out []models.UserResponse
	for _, id := range s.sortedIDs() {
		u := s.users[id]
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(name)) {
			out = append(out, models.UserResponse{UserID: u.ID, UserName: u.Username, UserEmail: u.Email})
		}
	}
	return out, nil
}

func (s *memUserStore) DeleteUser(_ context.Context, id int) error {
	if _, ok := s.users[id]; !ok {
		return errs.NotFound("user not found")
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) sortedIDs() []int {
	ids := make([]int, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type assignmentKey struct {
	taskID int
	userID int
}

type memTaskStore struct {
	nextID      int
	tasks       map[int]*models.Task
	assignments map[assignmentKey]*models.Assignment
	userStore   *memUserStore
}

func newMemTaskStore(users *memUserStore) *memTaskStore {
	return &memTaskStore{
		nextID:      1,
		tasks:       make(map[int]*models.Task),
		assignments: make(map[assignmentKey]*models.Assignment),
		userStore:   users,
	}
}

func (s *memTaskStore) CreateTask(_ context.Context, task *models.Task, assigneeIDs []int) (int, error) {
	for _, userID := range assigneeIDs {
		if _, ok := s.userStore.users[userID]; !ok {
			return 0, errs.NotFound("user %d does not exist", userID)
		}
	}

	id := s.nextID
	s.nextID++
	stored := *task
	stored.ID = id
	s.tasks[id] = &stored

	for _, userID := range assigneeIDs {
		s.assignments[assignmentKey{id, userID}] = &models.Assignment{
			TaskID:       id,
			UserID:       userID,
			Status:       models.StatusInProgress,
			AssignedDate: task.CreatedDate,
		}
	}
	return id, nil
}

func (s *memTaskStore) GetTask(_ context.Context, id int) (*models.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, errs.NotFound("task not found")
	}
	copy := *task
	return &copy, nil
}

func (s *memTaskStore) UpdateTask(_ context.Context, task *models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return errs.NotFound("task not found")
	}
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) DeleteTask(_ context.Context, id int) error {
	if _, ok := s.tasks[id]; !ok {
		return errs.NotFound("task not found")
	}
	delete(s.tasks, id)
	for key := range s.assignments {
		if key.taskID == id {
			delete(s.assignments, key)
		}
	}
	return nil
}

func (s *memTaskStore) AssignUsers(_ context.Context, taskID int, userIDs []int) error {
	for _, userID := range userIDs {
		if _, ok := s.userStore.users[userID]; !ok {
			return errs.Validation("user %d does not exist", userID)
		}
	}
	now := time.Now().UTC()
	for _, userID := range userIDs {
		key := assignmentKey{taskID, userID}
		if _, ok := s.assignments[key]; ok {
			continue
		}
		s.assignments[key] = &models.Assignment{
			TaskID:       taskID,
			UserID:       userID,
			Status:       models.StatusPending,
			AssignedDate: now,
		}
	}
	return nil
}

func (s *memTaskStore) RemoveUsers(_ context.Context, taskID int, userIDs []int) error {
	for _, userID := range userIDs {
		if _, ok := s.assignments[assignmentKey{taskID, userID}]; !ok {
			return errs.Validation("user %d is not assigned to this task", userID)
		}
	}
	for _, userID := range userIDs {
		delete(s.assignments, assignmentKey{taskID, userID})
	}
	return nil
}

func (s *memTaskStore) GetAssignment(_ context.Context, taskID, userID int) (*models.Assignment, error) {
	a, ok := s.assignments[assignmentKey{taskID, userID}]
	if !ok {
		return nil, errs.NotFound("task not found or not assigned to user")
	}
	copy := *a
	return &copy, nil
}

func (s *memTaskStore) CompleteAssignment(_ context.Context, taskID, userID int, closed time.Time) error {
	a, ok := s.assignments[assignmentKey{taskID, userID}]
	if !ok {
		return errs.NotFound("task not found or not assigned to user")
	}
	if a.Status == models.StatusCompleted {
		return errs.Conflict("task is already completed")
	}
	a.Status = models.StatusCompleted
	a.ClosedDate = &closed
	return nil
}

func (s *memTaskStore) SetAssignmentFeedback(_ context.Context, taskID, userID int, feedback string) error {
	a, ok := s.assignments[assignmentKey{taskID, userID}]
	if !ok {
		return errs.NotFound("task not found for this user")
	}
	a.Feedback = &feedback
	return nil
}

func (s *memTaskStore) taskAssignments(taskID int) []*models.Assignment {
	var out []*models.Assignment
	for key, a := range s.assignments {
		if key.taskID == taskID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (s *memTaskStore) sortedTaskIDs() []int {
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *memTaskStore) rowsForTask(task *models.Task) []repositories.TaskAssigneeRow {
	base := repositories.TaskAssigneeRow{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedDate: task.CreatedDate,
		DueDate:     task.DueDate,
		ClosedDate:  task.ClosedDate,
	}
	if task.CreatedByID != nil {
		if u, ok := s.userStore.users[*task.CreatedByID]; ok {
			name := u.Username
			base.CreatedByName = &name
		}
	}

	assignments := s.taskAssignments(task.ID)
	if len(assignments) == 0 {
		return []repositories.TaskAssigneeRow{base}
	}

	var rows []repositories.TaskAssigneeRow
	for _, a := range assignments {
		row := base
		userID := a.UserID
		status := a.Status
		assigned := a.AssignedDate
		row.AssigneeID = &userID
		row.AssigneeStatus = &status
		row.AssignedDate = &assigned
		row.Feedback = a.Feedback
		row.AssigneeDue = a.DueDate
		row.AssigneeClosed = a.ClosedDate
		if u, ok := s.userStore.users[a.UserID]; ok {
			name := u.Username
			row.AssigneeName = &name
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *memTaskStore) ListTaskRows(_ context.Context) ([]repositories.TaskAssigneeRow, error) {
	var rows []repositories.TaskAssigneeRow
	for _, id := range s.sortedTaskIDs() {
		rows = append(rows, s.rowsForTask(s.tasks[id])...)
	}
	return rows, nil
}

func (s *memTaskStore) TaskRowsByID(_ context.Context, id int) ([]repositories.TaskAssigneeRow, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return s.rowsForTask(task), nil
}

func (s *memTaskStore) TaskRowsByTitle(_ context.Context, title string) ([]repositories.TaskAssigneeRow, error) {
	var rows []repositories.TaskAssigneeRow
	for _, id := range s.sortedTaskIDs() {
		task := s.tasks[id]
		if strings.Contains(strings.ToLower(task.Title), strings.ToLower(title)) {
			rows = append(rows, s.rowsForTask(task)...)
		}
	}
	return rows, nil
}

func (s *memTaskStore) UserTaskRows(_ context.Context, userID int) ([]models.MyTask, error) {
	var out []models.MyTask
	for _, taskID := range s.sortedTaskIDs() {
		a, ok := s.assignments[assignmentKey{taskID, userID}]
		if !ok {
			continue
		}
		task := s.tasks[taskID]
		out = append(out, models.MyTask{
			TaskID:           taskID,
			Title:            task.Title,
			Description:      task.Description,
			TaskDueDate:      task.DueDate,
			TaskClosedDate:   task.ClosedDate,
			TaskItemStatus:   task.Status,
			UserStatus:       a.Status,
			UserAssignedDate: a.AssignedDate,
			UserClosedDate:   a.ClosedDate,
			UserDueDate:      a.DueDate,
			Feedback:         a.Feedback,
		})
	}
	return out, nil
}

func (s *memTaskStore) TaskDetailRows(_ context.Context) ([]models.TaskDetail, error) {
	var out []models.TaskDetail
	for _, taskID := range s.sortedTaskIDs() {
		task := s.tasks[taskID]
		var createdBy *string
		if task.CreatedByID != nil {
			if u, ok := s.userStore.users[*task.CreatedByID]; ok {
				name := u.Username
				createdBy = &name
			}
		}

		assignments := s.taskAssignments(taskID)
		if len(assignments) == 0 {
			out = append(out, models.TaskDetail{
				Title:         task.Title,
				Description:   task.Description,
				CreatedDate:   task.CreatedDate,
				DueDate:       task.DueDate,
				ClosedDate:    task.ClosedDate,
				TaskStatus:    task.Status,
				CreatedByName: createdBy,
			})
			continue
		}
		for _, a := range assignments {
			var username *string
			if u, ok := s.userStore.users[a.UserID]; ok {
				name := u.Username
				username = &name
			}
			status := string(a.Status)
			assigned := a.AssignedDate
			out = append(out, models.TaskDetail{
				UserName:           username,
				Title:              task.Title,
				Description:        task.Description,
				CreatedDate:        task.CreatedDate,
				DueDate:            task.DueDate,
				ClosedDate:         task.ClosedDate,
				TaskStatus:         task.Status,
				CreatedByName:      createdBy,
				Feedback:           a.Feedback,
				UserTaskStatus:     &status,
				AssignedDate:       &assigned,
				UserTaskDueDate:    a.DueDate,
				UserTaskClosedDate: a.ClosedDate,
			})
		}
	}
	return out, nil
}
