package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/weekboard/api/internal/database"
	"github.com/weekboard/api/internal/domain"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive and shared.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.DialectSQLite))
	return db
}

func seedUser(t *testing.T, db *sql.DB, name string, role domain.Role) *domain.User {
	t.Helper()

	repo := NewUserRepository(db, database.DialectSQLite)
	user := &domain.User{
		Email:        name + "@example.com",
		PasswordHash: "x",
		Name:         name,
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

// seedTask inserts a task with full control over its fields, so tests can
// pin creation order and status precisely.
func seedTask(t *testing.T, db *sql.DB, owner uuid.UUID, title string, status domain.TaskStatus, weekStart *string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	var completedAt *time.Time
	if status == domain.TaskStatusCompleted {
		ts := createdAt.Add(time.Hour)
		completedAt = &ts
	}

	_, err := db.Exec(
		`INSERT INTO tasks (id, user_id, title, description, status, week_start, assigned_by, created_at, completed_at)
		 VALUES (?, ?, ?, NULL, ?, ?, NULL, ?, ?)`,
		id, owner, title, status, weekStart, createdAt, completedAt,
	)
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }
