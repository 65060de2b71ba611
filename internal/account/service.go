// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// dummyPasswordHash is verified when no user matches, so a missing account
// costs the same as a wrong password.
//
//nolint:gosec // G101: not a credential
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	UserID           ulid.ULID
	Role             Role
}

// RefreshResult carries a new access token.
type RefreshResult struct {
	AccessToken string
}

// Service is the account API used by transports.
type Service struct {
	users    UserRepository
	tokens   *TokenService
	hasher   PasswordHasher
	recovery *RecoveryService
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEvents publishes account events after successful changes.
func WithEvents(events EventPublisher) ServiceOption {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(
	users UserRepository,
	tokens *TokenService,
	hasher PasswordHasher,
	recovery *RecoveryService,
	opts ...ServiceOption,
) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if recovery == nil {
		return nil, oops.Errorf("recovery service is required")
	}

	s := &Service{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		recovery: recovery,
		events:   discardEvents{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks the password of the account with the given email and issues
// an access and a refresh token.
func (s *Service) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "Service.Login")
	defer func() { endSpan(span, err) }()

	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "get user by email").Wrap(lookupErr)
		}
		_, _ = s.hasher.Verify(password, dummyPasswordHash)
		return nil, errUserNotFound()
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	if err := user.CheckCanLogin(); err != nil {
		return nil, err
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	if !valid {
		return nil, errPasswordMismatch()
	}

	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	subject := TokenSubject{UserID: user.ID, Role: user.Role, Email: user.Email}
	access, _, err := s.tokens.Issue(TokenAccess, subject)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "issue access token").Wrap(err)
	}
	refresh, refreshExp, err := s.tokens.Issue(TokenRefresh, subject)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "issue refresh token").Wrap(err)
	}

	return &LoginResult{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		UserID:           user.ID,
		Role:             user.Role,
	}, nil
}

func (s *Service) upgradeHash(ctx context.Context, user *User, password string) {
	newHash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, newHash)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "password hash upgrade failed (best-effort)",
			"user_id", user.ID.String(),
			"operation", "upgrade_hash",
			"error", err)
	}
}

// Refresh issues a new access token for a valid refresh token. Tokens issued
// before the user's last global logout are rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (result *RefreshResult, err error) {
	ctx, span := tracer.Start(ctx, "Service.Refresh")
	defer func() { endSpan(span, err) }()

	claims, err := s.tokens.Verify(TokenRefresh, refreshToken)
	if err != nil {
		return nil, errToken(err, TokenRefresh)
	}
	user, err := s.userFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := user.CheckUsable(); err != nil {
		return nil, err
	}
	if user.LoggedOutAfter(claims.IssuedAtTime()) {
		return nil, errNotAuthorized(CodeSessionRevoked, "refresh token issued before global logout")
	}

	access, _, err := s.tokens.Issue(TokenAccess, TokenSubject{UserID: user.ID, Role: user.Role, Email: user.Email})
	if err != nil {
		return nil, oops.Code("AUTH_REFRESH_FAILED").With("operation", "issue access token").Wrap(err)
	}
	return &RefreshResult{AccessToken: access}, nil
}

// ChangePassword replaces the password of userID after checking the old one.
// With logoutOtherDevices every refresh token issued before now stops working.
func (s *Service) ChangePassword(ctx context.Context, userID ulid.ULID, oldPassword, newPassword string, logoutOtherDevices bool) (err error) {
	ctx, span := tracer.Start(ctx, "Service.ChangePassword",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer func() { endSpan(span, err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.CheckUsable(); err != nil {
		return err
	}

	valid, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").With("operation", "verify password").Wrap(err)
	}
	if !valid {
		return errPasswordMismatch()
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := s.now()
	var logoutAt *time.Time
	if logoutOtherDevices {
		// Token issue times have millisecond precision.
		t := now.Truncate(time.Millisecond)
		logoutAt = &t
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, now, logoutAt); err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	attrs := map[string]string{}
	if logoutOtherDevices {
		attrs["logout_other_devices"] = "true"
	}
	publishEvent(ctx, s.events, s.logger, Event{Type: EventPasswordChanged, UserID: user.ID, OccurredAt: now, Attributes: attrs})
	return nil
}

// Authenticate verifies an access token and returns its claims with the
// user's current role.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Claims, error) {
	claims, err := s.tokens.Verify(TokenAccess, accessToken)
	if err != nil {
		return nil, errToken(err, TokenAccess)
	}
	user, err := s.userFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := user.CheckUsable(); err != nil {
		return nil, err
	}
	if user.LoggedOutAfter(claims.IssuedAtTime()) {
		return nil, errNotAuthorized(CodeSessionRevoked, "access token issued before global logout")
	}
	claims.Role = user.Role
	return claims, nil
}

// RequestRecovery starts password recovery. See RecoveryService.Request.
func (s *Service) RequestRecovery(ctx context.Context, email string) (*RecoveryTicket, error) {
	return s.recovery.Request(ctx, email)
}

// VerifyRecoveryCode checks a recovery code. See RecoveryService.VerifyCode.
func (s *Service) VerifyRecoveryCode(ctx context.Context, stage1Token, code string) (*ResetTicket, error) {
	return s.recovery.VerifyCode(ctx, stage1Token, code)
}

// CommitRecovery sets the new password. See RecoveryService.Commit.
func (s *Service) CommitRecovery(ctx context.Context, stage2Token, newPassword string) error {
	return s.recovery.Commit(ctx, stage2Token, newPassword)
}

func (s *Service) userFromClaims(ctx context.Context, claims *Claims) (*User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, errNotAuthorized(CodeTokenInvalid, "malformed token subject")
	}
	return s.getUser(ctx, userID)
}

func (s *Service) getUser(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, errUserNotFound()
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").
			With("operation", "get user").
			With("user_id", id.String()).
			Wrap(err)
	}
	return user, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, PublicMessage(err))
	}
	span.End()
}
