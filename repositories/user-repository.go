package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/models"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser stores the account and its role memberships in one transaction.
// A duplicate email surfaces as a conflict.
func (r *UserRepository) CreateUser(ctx context.Context, username, email, passwordHash string, roles []models.Role) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id;`,
		username, email, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
			return 0, errs.Conflict("email already exists")
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2);`, id, role); err != nil {
			return 0, fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.findBy(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) findBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash FROM users `+where+`;`, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1;`, user.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if role, ok := models.ParseRole(name); ok {
			user.Roles = append(user.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistingIDs reports which of the given ids resolve to stored users.
func (r *UserRepository) ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error) {
	existing := make(map[int]bool, len(ids))
	for _, id := range ids {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1);`, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check user %d: %w", id, err)
		}
		if exists {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, email FROM users ORDER BY id ASC;`)
	if err != nil {
		return nil, err
	}
	return scanUserRows(rows)
}

func (r *UserRepository) SearchByName(ctx context.Context, name string) ([]models.UserResponse, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, email FROM users WHERE username ILIKE $1 ORDER BY id ASC;`,
		"%"+name+"%")
	if err != nil {
		return nil, err
	}
	return scanUserRows(rows)
}

func scanUserRows(rows pgx.Rows) ([]models.UserResponse, error) {
	defer rows.Close()

	var users []models.UserResponse
	for rows.Next() {
		var u models.UserResponse
		if err := rows.Scan(&u.UserID, &u.UserName, &u.UserEmail); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes the account; the user's assignments and role rows go
// with it through the cascades. Tasks the user created stay behind with a
// null creator.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}
