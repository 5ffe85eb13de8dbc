package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Postgres error codes checked when mapping storage failures.
const (
	ForeignKeyViolation = "23503"
	UniqueViolation     = "23505"
)

func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	db, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables the service needs if they are missing.
// user_tasks carries the composite primary key and both cascade rules;
// tasks keeps its creator reference nullable so deleting a creator never
// drops the task.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			PRIMARY KEY (user_id, role)
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id SERIAL PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_by INT REFERENCES users(id) ON DELETE SET NULL,
			created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			due_date TIMESTAMPTZ,
			closed_date TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS user_tasks (
			task_id INT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'pending',
			feedback TEXT,
			assigned_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			due_date TIMESTAMPTZ,
			closed_date TIMESTAMPTZ,
			PRIMARY KEY (task_id, user_id)
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
