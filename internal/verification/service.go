package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentinel-id/sentinel/internal/notify"
	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/users"
)

// UserSource is the slice of user persistence the lifecycle needs.
type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	EnableUser(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// Service drives the three verification protocols: generate, persist
// (replacing any prior live artifact), deliver out-of-band, redeem once.
type Service struct {
	repo      RepositoryPort
	usersRepo UserSource
	notifier  notify.Notifier
	baseURL   string
	ttl       time.Duration
	logger    *slog.Logger
	clock     func() time.Time
}

// NewService builds a Service instance. baseURL is the public origin embedded
// in verification links; ttl bounds the life of every artifact.
func NewService(repo RepositoryPort, usersRepo UserSource, notifier notify.Notifier, baseURL string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		usersRepo: usersRepo,
		notifier:  notifier,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ttl:       ttl,
		logger:    logger,
		clock:     time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// SendAccountVerification issues a fresh account activation URL for the user
// and mails it.
func (s *Service) SendAccountVerification(ctx context.Context, user users.User) error {
	url := s.verificationURL(uuid.NewString(), KindAccount)
	if err := s.repo.ReplaceAccountURL(ctx, user.ID, url, s.clock().Add(s.ttl)); err != nil {
		return fmt.Errorf("verification: store account url: %w", err)
	}
	body := fmt.Sprintf("Hello %s,\n\nPlease click the link below to verify your account:\n%s\n", user.FirstName, url)
	if err := s.notifier.SendEmail(ctx, user.Email, "Verify your account", body); err != nil {
		return fmt.Errorf("verification: deliver account url: %w", err)
	}
	return nil
}

// VerifyAccountKey redeems an account activation URL, enabling the account.
// The artifact row is retained after redemption as an audit trail, so
// redeeming the same link again is a no-op that succeeds.
func (s *Service) VerifyAccountKey(ctx context.Context, key string) (users.User, error) {
	user, err := s.repo.FindUserByAccountURL(ctx, s.verificationURL(key, KindAccount))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrLinkInvalid
		}
		return users.User{}, err
	}
	if err := s.usersRepo.EnableUser(ctx, user.ID); err != nil {
		return users.User{}, err
	}
	user.Enabled = true
	return user, nil
}

// SendVerificationCode issues a fresh MFA code for the user, invalidating any
// prior code, and delivers it over SMS (email when no phone is on file).
func (s *Service) SendVerificationCode(ctx context.Context, user users.User) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("verification: generate code: %w", err)
	}
	if err := s.repo.ReplaceCode(ctx, user.ID, code, s.clock().Add(s.ttl)); err != nil {
		return fmt.Errorf("verification: store code: %w", err)
	}

	message := fmt.Sprintf("From: Sentinel\nVerification code\n%s", code)
	if user.Phone != "" {
		err = s.notifier.SendSMS(ctx, user.Phone, message)
	} else {
		err = s.notifier.SendEmail(ctx, user.Email, "Verification code", message)
	}
	if err != nil {
		return fmt.Errorf("verification: deliver code: %w", err)
	}
	return nil
}

// VerifyCode redeems an MFA code for the given email. Codes store no email,
// so the code's owning user is cross-checked against the supplied address;
// a mismatch fails the same way an unknown code does. Successful redemption
// deletes the code.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (users.User, error) {
	expired, err := s.repo.IsCodeExpired(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrCodeInvalid
		}
		return users.User{}, err
	}
	if expired {
		return users.User{}, shared.ErrCodeExpired
	}

	owner, err := s.repo.FindUserByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrCodeInvalid
		}
		return users.User{}, err
	}

	claimant, err := s.usersRepo.GetUserByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrCodeInvalid
		}
		return users.User{}, err
	}

	if !strings.EqualFold(owner.Email, claimant.Email) {
		return users.User{}, shared.ErrCodeInvalid
	}

	if err := s.repo.DeleteCode(ctx, code); err != nil {
		return users.User{}, err
	}
	return owner, nil
}

// ResetPassword issues a fresh password reset URL for the account owning the
// email and mails it.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	user, err := s.usersRepo.GetUserByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		return err
	}

	url := s.verificationURL(uuid.NewString(), KindPassword)
	if err := s.repo.ReplaceResetURL(ctx, user.ID, url, s.clock().Add(s.ttl)); err != nil {
		return fmt.Errorf("verification: store reset url: %w", err)
	}
	body := fmt.Sprintf("Hello %s,\n\nPlease click the link below to reset your password:\n%s\n", user.FirstName, url)
	if err := s.notifier.SendEmail(ctx, user.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("verification: deliver reset url: %w", err)
	}
	return nil
}

// VerifyPasswordKey confirms a reset link is live and returns its owner. The
// caller then prompts for a new password; the artifact stays until
// RenewPassword consumes it.
func (s *Service) VerifyPasswordKey(ctx context.Context, key string) (users.User, error) {
	url := s.verificationURL(key, KindPassword)

	expired, err := s.repo.IsResetURLExpired(ctx, url)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrLinkInvalid
		}
		return users.User{}, err
	}
	if expired {
		return users.User{}, shared.ErrLinkExpired
	}

	user, err := s.repo.FindUserByResetURL(ctx, url)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return users.User{}, shared.ErrLinkInvalid
		}
		return users.User{}, err
	}
	return user, nil
}

// RenewPassword completes the reset: the passwords must match, the link must
// still be live, then the hash is replaced and the artifact deleted.
func (s *Service) RenewPassword(ctx context.Context, key, password, confirmPassword string) error {
	if password != confirmPassword {
		return shared.ErrPasswordMismatch
	}

	user, err := s.VerifyPasswordKey(ctx, key)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("verification: hash password: %w", err)
	}
	if err := s.usersRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.repo.DeleteResetURL(ctx, s.verificationURL(key, KindPassword)); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("password renewed", slog.Int64("user_id", user.ID))
	}
	return nil
}

func (s *Service) verificationURL(key string, kind Kind) string {
	return fmt.Sprintf("%s/user/verify/%s/%s", s.baseURL, kind, key)
}

func generateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
