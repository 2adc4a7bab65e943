package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/weekboard/api/internal/domain"
	"github.com/weekboard/api/internal/repository"
)

// TaskRepository defines the behavior TaskService needs from the task repository.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, weekStart *string) ([]*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Complete(ctx context.Context, taskID, ownerID uuid.UUID, completedAt time.Time) error
	CountTotals(ctx context.Context, weekStart *string) (assigned, completed int, err error)
	PerUserBreakdown(ctx context.Context, weekStart *string) ([]*domain.UserAnalytics, error)
}

// RoleChecker defines the behavior TaskService needs from the user repository.
type RoleChecker interface {
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// AnalyticsCache is the minimal cache surface for analytics snapshots.
type AnalyticsCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

type TaskService struct {
	taskRepo TaskRepository
	roles    RoleChecker
	cache    AnalyticsCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewTaskService wires the task service. cache may be nil; cacheTTL <= 0
// disables analytics caching entirely.
func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, cache AnalyticsCache, cacheTTL time.Duration, logger *slog.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		roles:    userRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns the caller's own tasks, newest first. The owner filter is
// always the authenticated caller id.
func (s *TaskService) List(ctx context.Context, callerID uuid.UUID, weekStart *string) ([]*domain.Task, error) {
	return s.taskRepo.ListByOwner(ctx, callerID, weekStart)
}

// Create inserts a task owned by the caller. AssignedBy stays null; only
// admin assignment sets it.
func (s *TaskService) Create(ctx context.Context, callerID uuid.UUID, req domain.CreateTaskRequest) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      callerID,
		Title:       req.Title,
		Description: req.Description,
		WeekStart:   req.WeekStart,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Assign inserts a task owned by targetID on behalf of adminID. The
// caller must be an admin; an unknown caller id is denied the same way a
// non-admin one is.
func (s *TaskService) Assign(ctx context.Context, adminID, targetID uuid.UUID, req domain.AssignTaskRequest) (*domain.Task, error) {
	isAdmin, err := s.roles.IsAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, domain.ErrForbidden
	}

	task := &domain.Task{
		UserID:      targetID,
		Title:       req.Title,
		Description: req.Description,
		WeekStart:   req.WeekStart,
		AssignedBy:  &adminID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Complete transitions an owned task to completed and returns the updated
// row. Missing and not-owned tasks yield the same not-found outcome.
func (s *TaskService) Complete(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.taskRepo.Complete(ctx, taskID, callerID, time.Now()); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, taskID)
}

// Analytics computes overall and per-user completion figures. The caller
// must be an admin. Results are served from the snapshot cache when one
// is fresh enough.
func (s *TaskService) Analytics(ctx context.Context, adminID uuid.UUID, weekStart *string) (*domain.AnalyticsResponse, error) {
	isAdmin, err := s.roles.IsAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, domain.ErrForbidden
	}

	key := analyticsCacheKey(weekStart)
	if s.cacheEnabled() {
		var cached domain.AnalyticsResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	resp, err := s.computeAnalytics(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache analytics snapshot", "error", err, "key", key)
		}
	}

	return resp, nil
}

// RefreshSnapshot recomputes the unfiltered analytics snapshot and stores
// it in the cache. Used by the background worker; never called on the
// request path.
func (s *TaskService) RefreshSnapshot(ctx context.Context) error {
	if !s.cacheEnabled() {
		return nil
	}

	resp, err := s.computeAnalytics(ctx, nil)
	if err != nil {
		return err
	}

	return s.cache.Set(ctx, analyticsCacheKey(nil), resp, s.cacheTTL)
}

func (s *TaskService) computeAnalytics(ctx context.Context, weekStart *string) (*domain.AnalyticsResponse, error) {
	assigned, completed, err := s.taskRepo.CountTotals(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	perUser, err := s.taskRepo.PerUserBreakdown(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	for _, row := range perUser {
		row.CompletionRate = CompletionRate(row.Completed, row.Assigned)
	}

	return &domain.AnalyticsResponse{
		Totals: domain.AnalyticsTotals{
			Assigned:       assigned,
			Completed:      completed,
			CompletionRate: CompletionRate(completed, assigned),
		},
		PerUser: perUser,
	}, nil
}

func (s *TaskService) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

func analyticsCacheKey(weekStart *string) string {
	if weekStart == nil {
		return "analytics:all"
	}
	return fmt.Sprintf("analytics:week:%s", *weekStart)
}

// CompletionRate is the percentage of completed tasks rounded to the
// nearest integer, defined as 0 for an empty task set.
func CompletionRate(completed, assigned int) int {
	if assigned == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(assigned) * 100))
}
