// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

const userColumns = `id, name, user_name, email, profile_img, password_hash, role, status,
	is_deleted, is_email_verified, password_changed_at, other_devices_logout_at, created_at, updated_at`

// UserRepository implements account.UserRepository using PostgreSQL.
type UserRepository struct {
	pool Pool
}

var _ account.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. Unique violations on email or user name are
// reported as account.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *account.User) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, u.ID.String(), u.Name, u.UserName, u.Email, u.ProfileImg, u.PasswordHash, string(u.Role), string(u.Status),
		u.IsDeleted, u.IsEmailVerified, u.PasswordChangedAt, u.OtherDevicesLogOutAt, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_DUPLICATE").
				With("constraint", pgErr.ConstraintName).
				Wrap(account.ErrDuplicate)
		}
		return oops.With("operation", "create user").With("id", u.ID.String()).Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get user").With("id", id.String()).Wrap(err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get user by email").Wrap(err)
	}
	return u, nil
}

// ExistsByEmailOrUserName reports whether either value is already taken.
func (r *UserRepository) ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) OR user_name = $2)
	`, email, userName).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "check user exists").Wrap(err)
	}
	return exists, nil
}

// UpdatePassword stores a new hash and its change time, and the global
// logout time when logoutOthersAt is set.
func (r *UserRepository) UpdatePassword(ctx context.Context, id ulid.ULID, hash string, changedAt time.Time, logoutOthersAt *time.Time) error {
	return r.update(ctx, "update password", id, `
		UPDATE users SET password_hash = $2, password_changed_at = $3,
		other_devices_logout_at = COALESCE($4, other_devices_logout_at), updated_at = $3
		WHERE id = $1
	`, hash, changedAt, logoutOthersAt)
}

// UpdatePasswordHash replaces the hash only.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id ulid.ULID, hash string) error {
	return r.update(ctx, "update password hash", id, `UPDATE users SET password_hash = $2 WHERE id = $1`, hash)
}

// UpdateStatus sets the account status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id ulid.ULID, status account.Status) error {
	return r.update(ctx, "update status", id,
		`UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, string(status))
}

// UpdateRole sets the account role.
func (r *UserRepository) UpdateRole(ctx context.Context, id ulid.ULID, role account.Role) error {
	return r.update(ctx, "update role", id,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, string(role))
}

func (r *UserRepository) update(ctx context.Context, operation string, id ulid.ULID, sql string, args ...any) error {
	result, err := conn(ctx, r.pool).Exec(ctx, sql, append([]any{id.String()}, args...)...)
	if err != nil {
		return oops.With("operation", operation).With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(account.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*account.User, error) {
	var u account.User
	var idStr, role, status string
	if err := row.Scan(&idStr, &u.Name, &u.UserName, &u.Email, &u.ProfileImg, &u.PasswordHash, &role, &status,
		&u.IsDeleted, &u.IsEmailVerified, &u.PasswordChangedAt, &u.OtherDevicesLogOutAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := parseULID(idStr, "user_id")
	if err != nil {
		return nil, err
	}
	u.ID = id
	u.Role = account.Role(role)
	u.Status = account.Status(status)
	return &u, nil
}
