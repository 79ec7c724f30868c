package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-id/sentinel/internal/shared"
)

// RepositoryPort defines role persistence operations.
type RepositoryPort interface {
	GetRoleByUserID(ctx context.Context, userID int64) (Role, error)
	GetRoleByUserEmail(ctx context.Context, email string) (Role, error)
	AssignRole(ctx context.Context, userID int64, roleName string) error
	UpdateUserRole(ctx context.Context, userID int64, roleName string) error
}

// Repository provides PostgreSQL backed role persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRoleByUserID fetches the role assigned to a user.
func (r *Repository) GetRoleByUserID(ctx context.Context, userID int64) (Role, error) {
	const query = `
		SELECT r.id, r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1`
	var role Role
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// GetRoleByUserEmail fetches the role assigned to the user owning the email.
func (r *Repository) GetRoleByUserEmail(ctx context.Context, email string) (Role, error) {
	const query = `
		SELECT r.id, r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		JOIN users u ON u.id = ur.user_id
		WHERE LOWER(u.email) = LOWER($1)`
	var role Role
	if err := r.pool.QueryRow(ctx, query, email).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// AssignRole links a user to a role by name.
func (r *Repository) AssignRole(ctx context.Context, userID int64, roleName string) error {
	const query = `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2`
	tag, err := r.pool.Exec(ctx, query, userID, roleName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateUserRole replaces the user's role assignment.
func (r *Repository) UpdateUserRole(ctx context.Context, userID int64, roleName string) error {
	const query = `
		UPDATE user_roles
		SET role_id = (SELECT id FROM roles WHERE name = $2)
		WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, roleName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
