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

type UserRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewUserRepository(db *sql.DB, dialect database.Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = domain.RoleMember
	}

	query := r.dialect.Rebind(`
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.CreatedAt,
	)
	if err != nil {
		return domain.ErrDatabaseError.WithError(err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := r.dialect.Rebind(`
		SELECT id, email, password_hash, name, role, created_at
		FROM users
		WHERE id = ?
	`)

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewAppError(domain.ErrCodeUserNotFound, "User not found", 404)
		}
		return nil, domain.ErrDatabaseError.WithError(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := r.dialect.Rebind(`
		SELECT id, email, password_hash, name, role, created_at
		FROM users
		WHERE email = ?
	`)

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewAppError(domain.ErrCodeUserNotFound, "User not found", 404)
		}
		return nil, domain.ErrDatabaseError.WithError(err)
	}

	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := r.dialect.Rebind("SELECT COUNT(*) FROM users WHERE email = ?")

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, domain.ErrDatabaseError.WithError(err)
	}

	return count > 0, nil
}

// IsAdmin reports whether id belongs to an admin user. A missing user is
// treated the same as a non-admin one: both answer false without error,
// so callers deny access identically in either case.
func (r *UserRepository) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.dialect.Rebind("SELECT role FROM users WHERE id = ?")

	var role domain.Role
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, domain.ErrDatabaseError.WithError(err)
	}

	return role == domain.RoleAdmin, nil
}
