// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Status is the lifecycle state of a user account.
type Status string

// Account statuses.
const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusPending Status = "pending"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusPending:
		return true
	}
	return false
}

// Role is the authorization role embedded in access tokens.
type Role string

// Roles.
const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 6

// User is an account that can log in and recover its password.
type User struct {
	ID                   ulid.ULID
	Name                 string
	UserName             string
	Email                string
	ProfileImg           string
	PasswordHash         string
	Role                 Role
	Status               Status
	IsDeleted            bool
	IsEmailVerified      bool
	PasswordChangedAt    *time.Time
	OtherDevicesLogOutAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CheckUsable returns the classified error for a user that may not use
// recovery or refresh: deleted or blocked accounts.
func (u *User) CheckUsable() error {
	if u.IsDeleted {
		return errUserDeleted()
	}
	if u.Status == StatusBlocked {
		return errUserBlocked()
	}
	return nil
}

// CheckCanLogin is CheckUsable plus the pending check applied at login.
func (u *User) CheckCanLogin() error {
	if err := u.CheckUsable(); err != nil {
		return err
	}
	if u.Status == StatusPending {
		return errUserPending()
	}
	return nil
}

// LoggedOutAfter reports whether the user requested a global logout after t.
func (u *User) LoggedOutAfter(t time.Time) bool {
	return u.OtherDevicesLogOutAt != nil && u.OtherDevicesLogOutAt.After(t)
}

// NewUserInput holds the fields supplied when registering a user.
type NewUserInput struct {
	Name       string
	UserName   string
	Email      string
	Password   string
	ProfileImg string
}

// Validate checks the registration fields.
func (in NewUserInput) Validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return fail(CodeInvalidInput, "Full name must be at least 2 characters long.").Errorf("name too short")
	}
	if len(strings.TrimSpace(in.UserName)) < 3 {
		return fail(CodeInvalidInput, "Username must be at least 3 characters long.").Errorf("username too short")
	}
	email := strings.TrimSpace(in.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fail(CodeInvalidInput, "Invalid email format.").Errorf("invalid email")
	}
	return ValidatePassword(in.Password)
}

// ValidatePassword applies the password policy to a new password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fail(CodePasswordPolicy, "Password must be at least 6 characters long.").
			With("min_length", MinPasswordLength).
			Errorf("password shorter than %d characters", MinPasswordLength)
	}
	return nil
}

// NewUser builds an active user with the default role from validated input
// and an already computed password hash.
func NewUser(in NewUserInput, passwordHash string, now time.Time) (*User, error) {
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           ulid.Make(),
		Name:         strings.TrimSpace(in.Name),
		UserName:     strings.TrimSpace(in.UserName),
		Email:        NormalizeEmail(in.Email),
		ProfileImg:   in.ProfileImg,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive). Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmailOrUserName reports whether either value is taken.
	ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error)

	// UpdatePassword stores a new hash and the time it changed. When
	// logoutOthersAt is non-nil it also becomes the user's global logout time.
	UpdatePassword(ctx context.Context, id ulid.ULID, hash string, changedAt time.Time, logoutOthersAt *time.Time) error

	// UpdatePasswordHash replaces the hash without touching PasswordChangedAt.
	UpdatePasswordHash(ctx context.Context, id ulid.ULID, hash string) error

	// UpdateStatus sets the account status.
	UpdateStatus(ctx context.Context, id ulid.ULID, status Status) error

	// UpdateRole sets the account role.
	UpdateRole(ctx context.Context, id ulid.ULID, role Role) error
}
