package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekboard/api/internal/database"
	"github.com/weekboard/api/internal/domain"
)

func TestTaskCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	owner := seedUser(t, db, "alice", domain.RoleMember)

	task := &domain.Task{
		UserID: owner.ID,
		Title:  "Buy milk",
	}
	require.NoError(t, repo.Create(context.Background(), task))

	got, err := repo.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Nil(t, got.AssignedBy)
	assert.Nil(t, got.CompletedAt)
	assert.Nil(t, got.WeekStart)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTaskCreateWithAssignment(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	admin := seedUser(t, db, "boss", domain.RoleAdmin)
	owner := seedUser(t, db, "alice", domain.RoleMember)

	task := &domain.Task{
		UserID:     owner.ID,
		Title:      "Report",
		WeekStart:  strPtr("2026-08-24"),
		AssignedBy: &admin.ID,
	}
	require.NoError(t, repo.Create(context.Background(), task))

	got, err := repo.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedBy)
	assert.Equal(t, admin.ID, *got.AssignedBy)
	require.NotNil(t, got.WeekStart)
	assert.Equal(t, "2026-08-24", *got.WeekStart)
}

func TestListByOwnerOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	owner := seedUser(t, db, "alice", domain.RoleMember)

	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	seedTask(t, db, owner.ID, "oldest", domain.TaskStatusPending, nil, base)
	seedTask(t, db, owner.ID, "middle", domain.TaskStatusPending, nil, base.Add(time.Minute))
	seedTask(t, db, owner.ID, "newest", domain.TaskStatusPending, nil, base.Add(2*time.Minute))

	tasks, err := repo.ListByOwner(context.Background(), owner.ID, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "newest", tasks[0].Title)
	assert.Equal(t, "middle", tasks[1].Title)
	assert.Equal(t, "oldest", tasks[2].Title)
}

func TestListByOwnerNeverLeaksOtherUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	alice := seedUser(t, db, "alice", domain.RoleMember)
	bob := seedUser(t, db, "bob", domain.RoleMember)

	now := time.Now()
	seedTask(t, db, alice.ID, "mine", domain.TaskStatusPending, nil, now)
	seedTask(t, db, bob.ID, "theirs", domain.TaskStatusPending, nil, now)
	seedTask(t, db, bob.ID, "also theirs", domain.TaskStatusCompleted, nil, now)

	tasks, err := repo.ListByOwner(context.Background(), alice.ID, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
	for _, task := range tasks {
		assert.Equal(t, alice.ID, task.UserID)
	}
}

func TestListByOwnerWeekFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	owner := seedUser(t, db, "alice", domain.RoleMember)

	now := time.Now()
	seedTask(t, db, owner.ID, "this week", domain.TaskStatusPending, strPtr("2026-08-24"), now)
	seedTask(t, db, owner.ID, "last week", domain.TaskStatusPending, strPtr("2026-08-17"), now)
	seedTask(t, db, owner.ID, "no bucket", domain.TaskStatusPending, nil, now)

	tasks, err := repo.ListByOwner(context.Background(), owner.ID, strPtr("2026-08-24"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "this week", tasks[0].Title)
}

func TestCompleteOwnedTask(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	owner := seedUser(t, db, "alice", domain.RoleMember)
	taskID := seedTask(t, db, owner.ID, "Buy milk", domain.TaskStatusPending, nil, time.Now())

	completedAt := time.Now()
	require.NoError(t, repo.Complete(context.Background(), taskID, owner.ID, completedAt))

	got, err := repo.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	owner := seedUser(t, db, "alice", domain.RoleMember)
	taskID := seedTask(t, db, owner.ID, "Buy milk", domain.TaskStatusPending, nil, time.Now())

	require.NoError(t, repo.Complete(context.Background(), taskID, owner.ID, time.Now()))
	// Second completion re-runs the update harmlessly.
	require.NoError(t, repo.Complete(context.Background(), taskID, owner.ID, time.Now()))

	got, err := repo.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
}

func TestCompleteOtherUsersTaskIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	alice := seedUser(t, db, "alice", domain.RoleMember)
	bob := seedUser(t, db, "bob", domain.RoleMember)
	taskID := seedTask(t, db, bob.ID, "theirs", domain.TaskStatusPending, nil, time.Now())

	err := repo.Complete(context.Background(), taskID, alice.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	// The task must be untouched.
	got, err := repo.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestCompleteMissingTaskIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	alice := seedUser(t, db, "alice", domain.RoleMember)

	err := repo.Complete(context.Background(), uuid.New(), alice.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCountTotals(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	alice := seedUser(t, db, "alice", domain.RoleMember)
	bob := seedUser(t, db, "bob", domain.RoleMember)

	now := time.Now()
	seedTask(t, db, alice.ID, "a", domain.TaskStatusCompleted, strPtr("2026-08-24"), now)
	seedTask(t, db, alice.ID, "b", domain.TaskStatusPending, strPtr("2026-08-24"), now)
	seedTask(t, db, bob.ID, "c", domain.TaskStatusCompleted, strPtr("2026-08-17"), now)

	assigned, completed, err := repo.CountTotals(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, assigned)
	assert.Equal(t, 2, completed)

	assigned, completed, err = repo.CountTotals(context.Background(), strPtr("2026-08-24"))
	require.NoError(t, err)
	assert.Equal(t, 2, assigned)
	assert.Equal(t, 1, completed)
}

func TestCountTotalsEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)

	assigned, completed, err := repo.CountTotals(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, assigned)
	assert.Zero(t, completed)
}

func TestPerUserBreakdown(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	// Names chosen so ordering by name differs from insertion order.
	carol := seedUser(t, db, "carol", domain.RoleMember)
	alice := seedUser(t, db, "alice", domain.RoleMember)
	seedUser(t, db, "bob", domain.RoleMember) // zero tasks

	now := time.Now()
	seedTask(t, db, carol.ID, "a", domain.TaskStatusCompleted, nil, now)
	seedTask(t, db, carol.ID, "b", domain.TaskStatusPending, nil, now)
	seedTask(t, db, alice.ID, "c", domain.TaskStatusCompleted, nil, now)

	rows, err := repo.PerUserBreakdown(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Ordered by name ascending; users with zero tasks still present.
	assert.Equal(t, "alice", rows[0].Name)
	assert.Equal(t, 1, rows[0].Assigned)
	assert.Equal(t, 1, rows[0].Completed)

	assert.Equal(t, "bob", rows[1].Name)
	assert.Zero(t, rows[1].Assigned)
	assert.Zero(t, rows[1].Completed)

	assert.Equal(t, "carol", rows[2].Name)
	assert.Equal(t, 2, rows[2].Assigned)
	assert.Equal(t, 1, rows[2].Completed)
}

func TestPerUserBreakdownWeekFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db, database.DialectSQLite)
	alice := seedUser(t, db, "alice", domain.RoleMember)

	now := time.Now()
	seedTask(t, db, alice.ID, "this week", domain.TaskStatusCompleted, strPtr("2026-08-24"), now)
	seedTask(t, db, alice.ID, "last week", domain.TaskStatusCompleted, strPtr("2026-08-17"), now)

	rows, err := repo.PerUserBreakdown(context.Background(), strPtr("2026-08-24"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Assigned)
	assert.Equal(t, 1, rows[0].Completed)
}
