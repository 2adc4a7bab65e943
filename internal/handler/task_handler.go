package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/weekboard/api/internal/domain"
	"github.com/weekboard/api/internal/service"
	"github.com/weekboard/api/internal/validator"
)

// TaskService defines the behavior TaskHandler needs from the task service.
type TaskService interface {
	List(ctx context.Context, callerID uuid.UUID, weekStart *string) ([]*domain.Task, error)
	Create(ctx context.Context, callerID uuid.UUID, req domain.CreateTaskRequest) (*domain.Task, error)
	Assign(ctx context.Context, adminID, targetID uuid.UUID, req domain.AssignTaskRequest) (*domain.Task, error)
	Complete(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error)
	Analytics(ctx context.Context, adminID uuid.UUID, weekStart *string) (*domain.AnalyticsResponse, error)
}

type TaskHandler struct {
	taskService TaskService
	logger      *slog.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// List returns the caller's own tasks, newest first, optionally filtered
// to one week bucket.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID, weekStartParam(r))
	if err != nil {
		h.logger.Error("Failed to list tasks", "error", err, "user_id", userID)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.TaskListResponse{Tasks: tasks})
}

// Create inserts a task owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"body": "invalid JSON format",
		}))
		return
	}

	if err := validator.ValidateCreateTask(req); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, req)
	if err != nil {
		h.logger.Error("Failed to create task", "error", err, "user_id", userID)
		respondError(w, err)
		return
	}

	h.logger.Info("Task created", "task_id", task.ID, "user_id", userID)
	respondJSON(w, http.StatusOK, domain.TaskResponse{Task: task})
}

// Assign creates a task owned by another user on behalf of an admin
// caller. Field validation runs first, then the admin lookup.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	adminID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	var req domain.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"body": "invalid JSON format",
		}))
		return
	}

	if err := validator.ValidateAssignTask(req); err != nil {
		respondError(w, err)
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"user_id": "must be a valid user id",
		}))
		return
	}

	task, err := h.taskService.Assign(r.Context(), adminID, targetID, req)
	if err != nil {
		if appErr, ok := err.(*domain.AppError); !ok || appErr.StatusCode >= 500 {
			h.logger.Error("Failed to assign task", "error", err, "admin_id", adminID, "target_id", targetID)
		}
		respondError(w, err)
		return
	}

	h.logger.Info("Task assigned", "task_id", task.ID, "admin_id", adminID, "target_id", targetID)
	respondJSON(w, http.StatusOK, domain.TaskResponse{Task: task})
}

// Complete marks an owned task completed. A missing task and a task owned
// by someone else both answer 404.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		// A malformed id cannot name an existing task; same answer as a
		// missing one.
		respondError(w, domain.ErrTaskNotFound)
		return
	}

	task, err := h.taskService.Complete(r.Context(), userID, taskID)
	if err != nil {
		if appErr, ok := err.(*domain.AppError); !ok || appErr.StatusCode >= 500 {
			h.logger.Error("Failed to complete task", "error", err, "task_id", taskID, "user_id", userID)
		}
		respondError(w, err)
		return
	}

	h.logger.Info("Task completed", "task_id", task.ID, "user_id", userID)
	respondJSON(w, http.StatusOK, domain.TaskResponse{Task: task})
}

// Analytics returns overall and per-user completion figures for admins.
func (h *TaskHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	adminID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	resp, err := h.taskService.Analytics(r.Context(), adminID, weekStartParam(r))
	if err != nil {
		if appErr, ok := err.(*domain.AppError); !ok || appErr.StatusCode >= 500 {
			h.logger.Error("Failed to compute analytics", "error", err, "admin_id", adminID)
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
