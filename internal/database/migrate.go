package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the users and tasks tables if they do not exist.
// Postgres and MySQL deployments typically manage the schema out of band;
// sqlite deployments (and the test suite) self-provision through this.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for _, stmt := range schema(dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func schema(dialect Dialect) []string {
	// week_start is stored as a YYYY-MM-DD text bucket key on every
	// backend; it is compared for equality only, never date arithmetic.
	switch dialect {
	case DialectMySQL:
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id CHAR(36) PRIMARY KEY,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				name VARCHAR(100) NOT NULL,
				role VARCHAR(16) NOT NULL DEFAULT 'member',
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id CHAR(36) PRIMARY KEY,
				user_id CHAR(36) NOT NULL,
				title VARCHAR(200) NOT NULL,
				description TEXT,
				status VARCHAR(16) NOT NULL DEFAULT 'pending',
				week_start VARCHAR(10),
				assigned_by CHAR(36),
				created_at DATETIME NOT NULL,
				completed_at DATETIME,
				CONSTRAINT fk_tasks_user FOREIGN KEY (user_id) REFERENCES users(id)
			)`,
		}
	case DialectPostgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				name TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'member',
				created_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				description TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				week_start VARCHAR(10),
				assigned_by UUID,
				created_at TIMESTAMPTZ NOT NULL,
				completed_at TIMESTAMPTZ
			)`,
		}
	default: // sqlite
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				name TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'member',
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				description TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				week_start TEXT,
				assigned_by TEXT,
				created_at TIMESTAMP NOT NULL,
				completed_at TIMESTAMP
			)`,
		}
	}
}
