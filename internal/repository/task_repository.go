package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/weekboard/api/internal/database"
	"github.com/weekboard/api/internal/domain"
)

const taskColumns = "id, user_id, title, description, status, week_start, assigned_by, created_at, completed_at"

type TaskRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewTaskRepository(db *sql.DB, dialect database.Dialect) *TaskRepository {
	return &TaskRepository{db: db, dialect: dialect}
}

// ListByOwner returns every task owned by ownerID, newest first,
// optionally restricted to one week bucket. The owner id always comes
// from the authenticated caller, never from client input.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, weekStart *string) ([]*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ?"
	args := []interface{}{ownerID}
	if weekStart != nil {
		query += " AND week_start = ?"
		args = append(args, *weekStart)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, domain.ErrDatabaseError.WithError(err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, domain.ErrDatabaseError.WithError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDatabaseError.WithError(err)
	}

	return tasks, nil
}

// Create inserts a new pending task. The id and creation timestamp are
// generated here so the insert behaves identically on every backend.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	task.ID = uuid.New()
	task.Status = domain.TaskStatusPending
	task.CreatedAt = time.Now()

	query := r.dialect.Rebind(`
		INSERT INTO tasks (id, user_id, title, description, status, week_start, assigned_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Status,
		task.WeekStart, task.AssignedBy, task.CreatedAt,
	)
	if err != nil {
		return domain.ErrDatabaseError.WithError(err)
	}

	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := r.dialect.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ?")

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.ErrDatabaseError.WithError(err)
	}

	return task, nil
}

// Complete marks a task completed in a single conditional update: the
// statement only matches when the task exists and belongs to ownerID, so
// there is no read-then-write window. Zero rows affected means not found,
// which deliberately covers "exists but owned by someone else" as well.
// Re-completing an already-completed task rewrites the row harmlessly.
func (r *TaskRepository) Complete(ctx context.Context, taskID, ownerID uuid.UUID, completedAt time.Time) error {
	query := r.dialect.Rebind(`
		UPDATE tasks
		SET status = ?, completed_at = ?
		WHERE id = ? AND user_id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		domain.TaskStatusCompleted, completedAt, taskID, ownerID,
	)
	if err != nil {
		return domain.ErrDatabaseError.WithError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// CountTotals returns the assigned and completed task counts, optionally
// restricted to one week bucket.
func (r *TaskRepository) CountTotals(ctx context.Context, weekStart *string) (assigned, completed int, err error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM tasks
	`
	args := []interface{}{}
	if weekStart != nil {
		query += " WHERE week_start = ?"
		args = append(args, *weekStart)
	}

	err = r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&assigned, &completed)
	if err != nil {
		return 0, 0, domain.ErrDatabaseError.WithError(err)
	}

	return assigned, completed, nil
}

// PerUserBreakdown returns assigned and completed counts for every user,
// ordered by name. The outer join keeps users with zero tasks in the
// result. Completion rates are computed by the caller.
func (r *TaskRepository) PerUserBreakdown(ctx context.Context, weekStart *string) ([]*domain.UserAnalytics, error) {
	query := `
		SELECT u.id, u.name,
		       COUNT(t.id),
		       COALESCE(SUM(CASE WHEN t.status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
	`
	args := []interface{}{}
	if weekStart != nil {
		query += " AND t.week_start = ?"
		args = append(args, *weekStart)
	}
	query += `
		GROUP BY u.id, u.name
		ORDER BY u.name ASC
	`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, domain.ErrDatabaseError.WithError(err)
	}
	defer rows.Close()

	breakdown := make([]*domain.UserAnalytics, 0)
	for rows.Next() {
		var row domain.UserAnalytics
		if err := rows.Scan(&row.UserID, &row.Name, &row.Assigned, &row.Completed); err != nil {
			return nil, domain.ErrDatabaseError.WithError(err)
		}
		breakdown = append(breakdown, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDatabaseError.WithError(err)
	}

	return breakdown, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*domain.Task, error) {
	var task domain.Task
	err := s.Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status,
		&task.WeekStart, &task.AssignedBy, &task.CreatedAt, &task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
