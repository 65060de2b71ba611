// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateUser registers an active user with the default role.
func (s *Service) CreateUser(ctx context.Context, in NewUserInput) (user *User, err error) {
	ctx, span := tracer.Start(ctx, "Service.CreateUser")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.Email)
	exists, err := s.users.ExistsByEmailOrUserName(ctx, email, in.UserName)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "check existing user").Wrap(err)
	}
	if exists {
		return nil, errUserExists()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "hash password").Wrap(err)
	}

	user, err = NewUser(in, hash, s.now())
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "build user").Wrap(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, errUserExists()
		}
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "create user").Wrap(err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	publishEvent(ctx, s.events, s.logger, Event{
		Type:       EventUserCreated,
		UserID:     user.ID,
		OccurredAt: user.CreatedAt,
		Attributes: map[string]string{"role": string(user.Role)},
	})
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *Service) GetUser(ctx context.Context, id ulid.ULID) (*User, error) {
	return s.getUser(ctx, id)
}

// ChangeUserStatus sets the status of the user with the given ID.
func (s *Service) ChangeUserStatus(ctx context.Context, id ulid.ULID, status Status) (user *User, err error) {
	ctx, span := tracer.Start(ctx, "Service.ChangeUserStatus",
		trace.WithAttributes(attribute.String("user.id", id.String()), attribute.String("user.status", string(status))))
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return nil, fail(CodeInvalidStatus, "Invalid user status.").
			With("status", string(status)).
			Errorf("unknown status")
	}
	user, err = s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return nil, fail(CodeStatusUnchanged, "User already has this status.").
			With("status", string(status)).
			Errorf("status unchanged")
	}

	previous := user.Status
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update status").
			With("user_id", id.String()).
			Wrap(err)
	}
	user.Status = status

	publishEvent(ctx, s.events, s.logger, Event{
		Type:       EventStatusChanged,
		UserID:     id,
		OccurredAt: s.now(),
		Attributes: map[string]string{"from": string(previous), "to": string(status)},
	})
	return user, nil
}

// ChangeUserRole sets the role of the user with the given ID.
func (s *Service) ChangeUserRole(ctx context.Context, id ulid.ULID, role Role) (user *User, err error) {
	ctx, span := tracer.Start(ctx, "Service.ChangeUserRole",
		trace.WithAttributes(attribute.String("user.id", id.String()), attribute.String("user.role", string(role))))
	defer func() { endSpan(span, err) }()

	if !role.Valid() {
		return nil, fail(CodeInvalidRole, "Invalid user role.").
			With("role", string(role)).
			Errorf("unknown role")
	}
	user, err = s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return nil, fail(CodeRoleUnchanged, "User already has this role.").
			With("role", string(role)).
			Errorf("role unchanged")
	}

	previous := user.Role
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update role").
			With("user_id", id.String()).
			Wrap(err)
	}
	user.Role = role

	publishEvent(ctx, s.events, s.logger, Event{
		Type:       EventRoleChanged,
		UserID:     id,
		OccurredAt: s.now(),
		Attributes: map[string]string{"from": string(previous), "to": string(role)},
	})
	return user, nil
}

func errUserExists() error {
	return fail(CodeUserExists, "User already exists. Please login.").Errorf("user already exists")
}
