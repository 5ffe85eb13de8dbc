package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MAAF1/Task-System/logging"
	"github.com/MAAF1/Task-System/middleware"
	"github.com/MAAF1/Task-System/services"
)

// AssignmentHandler covers the admin-side assignment endpoints and the
// assignee-side completion, feedback and my-tasks endpoints.
type AssignmentHandler struct {
	taskService  *services.TaskService
	queryService *services.QueryService
}

func NewAssignmentHandler(taskService *services.TaskService, queryService *services.QueryService) *AssignmentHandler {
	return &AssignmentHandler{taskService: taskService, queryService: queryService}
}

func (h *AssignmentHandler) AssignUsers(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		UserIds []int `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.taskService.AssignUsers(r.Context(), taskID, req.UserIds); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USERS_ASSIGNED, Description: %d users assigned to task %d", len(req.UserIds), taskID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Users assigned successfully"})
}

func (h *AssignmentHandler) RemoveUsers(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		UserIds []int `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.taskService.RemoveUsers(r.Context(), taskID, req.UserIds); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Users removed from task successfully"})
}

// MyTasks lists the authenticated caller's assignments with parent task
// fields.
func (h *AssignmentHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r)
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	tasks, err := h.queryService.MyTasks(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// CompleteTask marks the caller's own assignment completed.
func (h *AssignmentHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r)
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	if err := h.taskService.CompleteAssignment(r.Context(), taskID, claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ASSIGNMENT_COMPLETED, Description: User %d completed task %d", claims.UserID, taskID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Task completed successfully"})
}

// UpdateFeedback overwrites the feedback on the caller's own assignment.
func (h *AssignmentHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r)
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.taskService.SetAssignmentFeedback(r.Context(), taskID, claims.UserID, req.Feedback); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "Feedback updated successfully",
		"feedback": req.Feedback,
	})
}
