package verification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-id/sentinel/internal/platform/db"
	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/users"
)

// RepositoryPort defines persistence operations for verification artifacts.
// Replace* methods atomically drop any prior live artifact of the same kind
// for the user before inserting the new one, so at most one is live.
type RepositoryPort interface {
	ReplaceAccountURL(ctx context.Context, userID int64, url string, expires time.Time) error
	ReplaceResetURL(ctx context.Context, userID int64, url string, expires time.Time) error
	ReplaceCode(ctx context.Context, userID int64, code string, expires time.Time) error

	FindUserByAccountURL(ctx context.Context, url string) (users.User, error)
	FindUserByResetURL(ctx context.Context, url string) (users.User, error)
	FindUserByCode(ctx context.Context, code string) (users.User, error)

	IsResetURLExpired(ctx context.Context, url string) (bool, error)
	IsCodeExpired(ctx context.Context, code string) (bool, error)

	DeleteResetURL(ctx context.Context, url string) error
	DeleteCode(ctx context.Context, code string) error
}

// Repository implements RepositoryPort using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) replace(ctx context.Context, deleteQuery, insertQuery string, userID int64, value string, expires time.Time) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteQuery, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertQuery, userID, value, expires)
		return err
	})
}

// ReplaceAccountURL stores a fresh account verification URL for the user.
func (r *Repository) ReplaceAccountURL(ctx context.Context, userID int64, url string, expires time.Time) error {
	return r.replace(ctx,
		`DELETE FROM account_verifications WHERE user_id = $1`,
		`INSERT INTO account_verifications (user_id, url, expiration_date) VALUES ($1, $2, $3)`,
		userID, url, expires)
}

// ReplaceResetURL stores a fresh password reset URL for the user.
func (r *Repository) ReplaceResetURL(ctx context.Context, userID int64, url string, expires time.Time) error {
	return r.replace(ctx,
		`DELETE FROM reset_password_verifications WHERE user_id = $1`,
		`INSERT INTO reset_password_verifications (user_id, url, expiration_date) VALUES ($1, $2, $3)`,
		userID, url, expires)
}

// ReplaceCode stores a fresh MFA code for the user.
func (r *Repository) ReplaceCode(ctx context.Context, userID int64, code string, expires time.Time) error {
	return r.replace(ctx,
		`DELETE FROM two_factor_verifications WHERE user_id = $1`,
		`INSERT INTO two_factor_verifications (user_id, code, expiration_date) VALUES ($1, $2, $3)`,
		userID, code, expires)
}

const userColumns = `u.id, u.first_name, u.last_name, u.email, u.password, u.phone, u.enabled, u.non_locked, u.using_mfa, u.created_at`

// FindUserByAccountURL resolves the owner of an account verification URL.
func (r *Repository) FindUserByAccountURL(ctx context.Context, url string) (users.User, error) {
	const query = `
		SELECT ` + userColumns + ` FROM users u
		JOIN account_verifications av ON av.user_id = u.id
		WHERE av.url = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, url))
}

// FindUserByResetURL resolves the owner of a password reset URL.
func (r *Repository) FindUserByResetURL(ctx context.Context, url string) (users.User, error) {
	const query = `
		SELECT ` + userColumns + ` FROM users u
		JOIN reset_password_verifications rpv ON rpv.user_id = u.id
		WHERE rpv.url = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, url))
}

// FindUserByCode resolves the owner of an MFA code.
func (r *Repository) FindUserByCode(ctx context.Context, code string) (users.User, error) {
	const query = `
		SELECT ` + userColumns + ` FROM users u
		JOIN two_factor_verifications tfv ON tfv.user_id = u.id
		WHERE tfv.code = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, code))
}

// IsResetURLExpired reports whether the reset URL is past its expiration.
// The comparison runs store-side so application clock skew cannot widen the
// redemption window.
func (r *Repository) IsResetURLExpired(ctx context.Context, url string) (bool, error) {
	const query = `SELECT expiration_date < NOW() FROM reset_password_verifications WHERE url = $1`
	var expired bool
	if err := r.pool.QueryRow(ctx, query, url).Scan(&expired); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, shared.ErrNotFound
		}
		return false, err
	}
	return expired, nil
}

// IsCodeExpired reports whether the MFA code is past its expiration.
func (r *Repository) IsCodeExpired(ctx context.Context, code string) (bool, error) {
	const query = `SELECT expiration_date < NOW() FROM two_factor_verifications WHERE code = $1`
	var expired bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&expired); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, shared.ErrNotFound
		}
		return false, err
	}
	return expired, nil
}

// DeleteResetURL removes a redeemed password reset artifact.
func (r *Repository) DeleteResetURL(ctx context.Context, url string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reset_password_verifications WHERE url = $1`, url)
	return err
}

// DeleteCode removes a redeemed MFA code so it cannot be used twice.
func (r *Repository) DeleteCode(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM two_factor_verifications WHERE code = $1`, code)
	return err
}

func (r *Repository) scanUser(row pgx.Row) (users.User, error) {
	var user users.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
		&user.Phone, &user.Enabled, &user.NonLocked, &user.UsingMFA, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, shared.ErrNotFound
		}
		return users.User{}, err
	}
	return user, nil
}

var _ RepositoryPort = (*Repository)(nil)
