package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sentinel-id/sentinel/internal/rbac"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	EnableUser(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

// RoleAssigner links new users to their default role.
type RoleAssigner interface {
	AssignRole(ctx context.Context, userID int64, roleName string) error
}

// AccountVerifier issues the account verification artifact and delivers it
// out-of-band. Implemented by the verification service.
type AccountVerifier interface {
	SendAccountVerification(ctx context.Context, user User) error
}

// CreateUserInput is the registration payload after validation.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// Service handles user account business logic.
type Service struct {
	repo     RepositoryPort
	roles    RoleAssigner
	verifier AccountVerifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RoleAssigner, verifier AccountVerifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, roles: roles, verifier: verifier, logger: logger}
}

// CreateUser registers a new account. The user starts disabled; the default
// role is assigned and an account verification URL is issued and delivered.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     NormalizeEmail(in.Email),
		Password:  string(hash),
		Phone:     strings.TrimSpace(in.Phone),
		Enabled:   false,
		NonLocked: true,
	})
	if err != nil {
		return User{}, err
	}

	if err := s.roles.AssignRole(ctx, user.ID, rbac.DefaultRole); err != nil {
		return User{}, fmt.Errorf("users: assign default role: %w", err)
	}

	if err := s.verifier.SendAccountVerification(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// GetUserByEmail returns the account owning the email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("user deleted", slog.Int64("user_id", id))
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
