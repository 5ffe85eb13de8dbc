package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/MAAF1/Task-System/logging"
	"github.com/MAAF1/Task-System/middleware"
	"github.com/MAAF1/Task-System/services"
)

type TaskHandler struct {
	taskService  *services.TaskService
	queryService *services.QueryService
}

func NewTaskHandler(taskService *services.TaskService, queryService *services.QueryService) *TaskHandler {
	return &TaskHandler{taskService: taskService, queryService: queryService}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r)
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title           string     `json:"title"`
		Description     *string    `json:"description"`
		Status          *string    `json:"status"`
		DueDate         *time.Time `json:"dueDate"`
		AssignedUserIds []int      `json:"assignedUserIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	taskID, err := h.taskService.CreateTask(r.Context(), claims.UserID,
		req.Title, req.Description, req.DueDate, req.Status, req.AssignedUserIds)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d created by user %d", taskID, claims.UserID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Task Created Successfully",
		"taskId":  taskID,
	})
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.queryService.ListTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	tasks, err := h.queryService.SearchTasks(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.queryService.GetTaskByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Task deleted successfully"})
}

// TaskDetails serves the flattened administrative report.
func (h *TaskHandler) TaskDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.queryService.TaskDetails(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}
