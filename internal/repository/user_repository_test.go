package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekboard/api/internal/database"
	"github.com/weekboard/api/internal/domain"
)

func TestUserCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, database.DialectSQLite)

	user := &domain.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Name:         "alice",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, domain.RoleMember, user.Role)

	byID, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Name)

	byEmail, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserEmailExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, database.DialectSQLite)
	seedUser(t, db, "alice", domain.RoleMember)

	exists, err := repo.EmailExists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIsAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, database.DialectSQLite)
	admin := seedUser(t, db, "boss", domain.RoleAdmin)
	member := seedUser(t, db, "alice", domain.RoleMember)

	isAdmin, err := repo.IsAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = repo.IsAdmin(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// An unknown id answers false, same as a non-admin.
	isAdmin, err = repo.IsAdmin(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
