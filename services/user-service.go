package services

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/logging"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/repositories"
	"github.com/MAAF1/Task-System/utils"
)

// UserService handles registration, login and user administration on top
// of the identity store.
type UserService struct {
	users repositories.UserStore
}

func NewUserService(users repositories.UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterUser creates an account with the default User role. Accounts are
// created active; there is no verification step.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, errs.Validation("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Validation("a valid email is required")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, errs.Validation("%s", err.Error())
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, errs.Validation("email already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	id, err := s.users.CreateUser(ctx, username, email, hash, []models.Role{models.RoleUser})
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with id %d", username, id)
	return &models.User{
		ID:       id,
		Username: username,
		Email:    email,
		Roles:    []models.Role{models.RoleUser},
	}, nil
}

// LoginUser verifies the credentials and issues a token carrying the
// user's id, username, email and roles.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", errs.Authorization("invalid email or password")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, "", errs.Authorization("invalid email or password")
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	return s.users.ListUsers(ctx)
}

// SearchUsers matches users by name, case insensitively. Zero matches is
// reported as not found.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]models.UserResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	users, err := s.users.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errs.NotFound("no users found with the specified name")
	}
	return users, nil
}

// DeleteUser removes an account; the store cascades the user's assignments
// but leaves their tasks behind.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.users.DeleteUser(ctx, id)
}

// SeedDefaults creates the bootstrap admin accounts when they are missing.
// Passwords come from the environment with development defaults.
func (s *UserService) SeedDefaults(ctx context.Context) error {
	seeds := []struct {
		username string
		email    string
		envKey   string
		fallback string
		roles    []models.Role
	}{
		{"admin", "admin@tasksystem.local", "ADMIN_PASSWORD", "Admin@123", []models.Role{models.RoleAdmin}},
		{"superadmin", "superadmin@tasksystem.local", "SUPERADMIN_PASSWORD", "SuperAdmin@123", []models.Role{models.RoleSuperAdmin}},
	}

	for _, seed := range seeds {
		_, err := s.users.FindByEmail(ctx, seed.email)
		if err == nil {
			continue
		}
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}

		password := os.Getenv(seed.envKey)
		if password == "" {
			password = seed.fallback
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		if _, err := s.users.CreateUser(ctx, seed.username, seed.email, hash, seed.roles); err != nil {
			return err
		}
		logging.Logger.Infof("Event ID: USER_SEEDED, Description: Seeded account %s", seed.username)
	}
	return nil
}
