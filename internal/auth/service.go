package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sentinel-id/sentinel/internal/rbac"
	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/token"
	"github.com/sentinel-id/sentinel/internal/users"
)

// UserSource looks up accounts for credential checks.
type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
}

// RoleSource resolves the role backing a principal's authorities.
type RoleSource interface {
	GetRoleByUserID(ctx context.Context, userID int64) (rbac.Role, error)
}

// Service wraps authentication business rules.
type Service struct {
	users   UserSource
	roles   RoleSource
	codec   *token.Codec
	limiter AttemptLimiter
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(userSource UserSource, roles RoleSource, codec *token.Codec, limiter AttemptLimiter, logger *slog.Logger) *Service {
	return &Service{users: userSource, roles: roles, codec: codec, limiter: limiter, logger: logger}
}

// Authenticate validates email/password credentials against an enabled,
// unlocked account. Unknown accounts and wrong passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	email = users.NormalizeEmail(email)

	if s.limiter != nil {
		limited, err := s.limiter.TooManyAttempts(ctx, email)
		if err != nil {
			s.logger.Warn("attempt limiter unavailable", slog.Any("error", err))
		} else if limited {
			return users.User{}, shared.ErrTooManyAttempts
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, email)
		return users.User{}, shared.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return users.User{}, shared.ErrInvalidCredentials
	}

	if !user.NonLocked {
		return users.User{}, shared.ErrAccountLocked
	}
	if !user.Enabled {
		return users.User{}, shared.ErrAccountDisabled
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn("attempt limiter reset", slog.Any("error", err))
		}
	}

	return user, nil
}

// TokenPair mints the access and refresh tokens for a user, embedding the
// role's permission set as the access token authorities.
func (s *Service) TokenPair(ctx context.Context, user users.User) (string, string, error) {
	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return "", "", err
	}

	access, err := s.codec.CreateAccessToken(principal)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.codec.CreateRefreshToken(principal)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh validates a refresh token and mints a new access token for its
// subject. The refresh token itself is returned unchanged.
func (s *Service) Refresh(ctx context.Context, raw string) (users.User, string, error) {
	subject, err := s.codec.Subject(raw)
	if err != nil {
		return users.User{}, "", err
	}
	if !s.codec.IsValid(subject, raw) {
		return users.User{}, "", shared.ErrTokenInvalid
	}

	user, err := s.users.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, "", shared.ErrTokenInvalid
		}
		return users.User{}, "", err
	}

	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return users.User{}, "", err
	}
	access, err := s.codec.CreateAccessToken(principal)
	if err != nil {
		return users.User{}, "", err
	}
	return user, access, nil
}

func (s *Service) principalFor(ctx context.Context, user users.User) (token.Principal, error) {
	role, err := s.roles.GetRoleByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return shared.NewPrincipal(user.Email, role.Authorities()), nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("attempt limiter record", slog.Any("error", err))
	}
}
