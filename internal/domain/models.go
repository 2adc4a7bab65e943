package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role types
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents a user in the system. Users are managed by the auth
// subsystem; the task layer only reads id, name and role.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Task status
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task represents a task owned by a single user. AssignedBy is set only
// when an admin created the task on behalf of the owner. CompletedAt is
// set if and only if Status is completed.
//
// UserID is excluded from the JSON shape: task responses are always
// scoped to the authenticated owner.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"-" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      TaskStatus `json:"status" db:"status"`
	WeekStart   *string    `json:"week_start" db:"week_start"`
	AssignedBy  *uuid.UUID `json:"assigned_by" db:"assigned_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// Request/Response DTOs
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignupResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	WeekStart   *string `json:"week_start,omitempty"`
}

type AssignTaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	WeekStart   *string `json:"week_start,omitempty"`
}

type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
}

type TaskResponse struct {
	Task *Task `json:"task"`
}

// AnalyticsTotals summarizes completion across all tasks in scope.
type AnalyticsTotals struct {
	Assigned       int `json:"assigned"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
}

// UserAnalytics is one row of the per-user breakdown. Users with zero
// tasks still appear with Assigned == 0.
type UserAnalytics struct {
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Assigned       int       `json:"assigned"`
	Completed      int       `json:"completed"`
	CompletionRate int       `json:"completion_rate"`
}

type AnalyticsResponse struct {
	Totals  AnalyticsTotals  `json:"totals"`
	PerUser []*UserAnalytics `json:"perUser"`
}

type ErrorResponse struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
