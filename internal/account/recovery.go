// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/pkg/errutil"
)

var tracer = otel.Tracer("keyward/account")

// RecoveryTicket is returned by the request step. The code itself only
// travels by email.
type RecoveryTicket struct {
	Token     string
	ExpiresAt time.Time
}

// ResetTicket carries the stage-2 token that authorizes the commit step.
type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}

// RecoveryService runs the request, verify and commit steps of password
// recovery. Each step re-checks the account and only advances the OTP record
// through conditional updates.
type RecoveryService struct {
	users   UserRepository
	otps    *OTPStore
	tokens  *TokenService
	hasher  PasswordHasher
	sender  CodeSender
	tx      Transactor
	limiter RequestLimiter
	events  EventPublisher
	logger  *slog.Logger
	now     func() time.Time
}

// RecoveryOption configures a RecoveryService during construction.
type RecoveryOption func(*RecoveryService)

// WithRecoveryLogger sets the logger. Defaults to slog.Default().
func WithRecoveryLogger(logger *slog.Logger) RecoveryOption {
	return func(s *RecoveryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestLimiter throttles the request step per user.
func WithRequestLimiter(limiter RequestLimiter) RecoveryOption {
	return func(s *RecoveryService) {
		s.limiter = limiter
	}
}

// WithRecoveryEvents publishes an event after every successful step.
func WithRecoveryEvents(events EventPublisher) RecoveryOption {
	return func(s *RecoveryService) {
		if events != nil {
			s.events = events
		}
	}
}

// WithRecoveryClock replaces time.Now.
func WithRecoveryClock(now func() time.Time) RecoveryOption {
	return func(s *RecoveryService) {
		s.now = now
	}
}

// NewRecoveryService creates a RecoveryService. tx groups the storage writes
// of each step; commit relies on it to leave the record verified when the
// password write fails.
func NewRecoveryService(
	users UserRepository,
	otps *OTPStore,
	tokens *TokenService,
	hasher PasswordHasher,
	sender CodeSender,
	tx Transactor,
	opts ...RecoveryOption,
) (*RecoveryService, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if otps == nil {
		return nil, oops.Errorf("otp store is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if sender == nil {
		return nil, oops.Errorf("code sender is required")
	}
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}

	s := &RecoveryService{
		users:  users,
		otps:   otps,
		tokens: tokens,
		hasher: hasher,
		sender: sender,
		tx:     tx,
		events: discardEvents{},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request starts recovery for the account with the given email. It emails a
// fresh code and returns the stage-1 token the caller must present with it.
func (s *RecoveryService) Request(ctx context.Context, email string) (ticket *RecoveryTicket, err error) {
	ctx, span := tracer.Start(ctx, "RecoveryService.Request")
	defer func() { s.finishStep(span, "request", err) }()

	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	if err := user.CheckUsable(); err != nil {
		return nil, err
	}

	if err := s.checkLimit(ctx, user.ID); err != nil {
		return nil, err
	}

	subject := recoverySubject(user)
	var issued *IssuedOTP
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		var issueErr error
		issued, issueErr = s.otps.Issue(ctx, subject)
		return issueErr
	})
	if err != nil {
		return nil, oops.Code("RECOVERY_REQUEST_FAILED").
			With("operation", "issue otp").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	msg := RecoveryMessage{To: user.Email, Name: user.Name, Code: issued.Code, TTL: s.otps.TTL()}
	if err := s.sender.SendRecoveryCode(ctx, msg); err != nil {
		// The record stays; a new request supersedes it.
		return nil, fail(CodeMailFailed, "Failed to send OTP email. Please try again later.").
			With("user_id", user.ID.String()).
			With("cause", err.Error()).
			Errorf("send recovery code")
	}

	s.publish(ctx, EventRecoveryRequested, user.ID, nil)
	return &RecoveryTicket{Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// VerifyCode checks code against the record bound to the stage-1 token and
// returns the stage-2 token on success.
func (s *RecoveryService) VerifyCode(ctx context.Context, stage1Token, code string) (ticket *ResetTicket, err error) {
	ctx, span := tracer.Start(ctx, "RecoveryService.VerifyCode")
	defer func() { s.finishStep(span, "verify", err) }()

	if !WellFormedCode(code, s.otps.CodeLength()) {
		return nil, fail(CodeMalformedCode, fmt.Sprintf("OTP must be a %d-digit number.", s.otps.CodeLength())).
			Errorf("malformed otp")
	}

	user, err := s.userFromToken(ctx, TokenRecoveryStage1, stage1Token)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	var (
		resetToken string
		expiresAt  time.Time
		verifyErr  error
	)
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		resetToken, expiresAt, verifyErr = s.otps.Verify(ctx, recoverySubject(user), stage1Token, code)
		if errors.Is(verifyErr, ErrOTPMismatch) {
			// Commit the failed attempt count.
			return nil
		}
		return verifyErr
	})
	if err == nil {
		err = verifyErr
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrOTPNotFound):
		return nil, fail(CodeOTPNotFound, "OTP not found or already used!").
			With("user_id", user.ID.String()).
			Errorf("no active otp record")
	case errors.Is(err, ErrOTPExpired):
		return nil, fail(CodeOTPExpired, "OTP has expired! Please request a new one.").
			With("user_id", user.ID.String()).
			Errorf("otp expired")
	case errors.Is(err, ErrOTPExhausted):
		return nil, fail(CodeOTPExhausted, "Too many invalid OTP attempts! Please request a new one.").
			With("user_id", user.ID.String()).
			Errorf("otp attempts exhausted")
	case errors.Is(err, ErrOTPMismatch):
		return nil, fail(CodeInvalidCode, "Invalid OTP!").
			With("user_id", user.ID.String()).
			Errorf("otp mismatch")
	default:
		return nil, oops.Code("RECOVERY_VERIFY_FAILED").
			With("operation", "verify otp").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.publish(ctx, EventRecoveryVerified, user.ID, nil)
	return &ResetTicket{Token: resetToken, ExpiresAt: expiresAt}, nil
}

// Commit sets newPassword for the account bound to the stage-2 token and
// closes the recovery record. The record is finished before the password is
// written, inside one transaction, so only one caller can commit it.
func (s *RecoveryService) Commit(ctx context.Context, stage2Token, newPassword string) (err error) {
	ctx, span := tracer.Start(ctx, "RecoveryService.Commit")
	defer func() { s.finishStep(span, "commit", err) }()

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userFromToken(ctx, TokenRecoveryStage2, stage2Token)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	subject := recoverySubject(user)
	if _, err := s.otps.Find(ctx, subject, stage2Token); err != nil {
		return s.sessionError(user.ID, err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RECOVERY_COMMIT_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := s.now()
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.otps.Complete(ctx, subject, stage2Token); err != nil {
			return err
		}
		return s.users.UpdatePassword(ctx, user.ID, hash, now, nil)
	})
	if err != nil {
		return s.sessionError(user.ID, err)
	}

	s.publish(ctx, EventRecoveryCompleted, user.ID, nil)
	return nil
}

func (s *RecoveryService) sessionError(userID ulid.ULID, err error) error {
	switch {
	case errors.Is(err, ErrOTPNotFound):
		return errNotAuthorized(CodeRecoveryInvalid, "no verified recovery record")
	case errors.Is(err, ErrOTPExpired):
		return fail(CodeOTPExpired, "OTP has expired! Please request a new one.").
			With("user_id", userID.String()).
			Errorf("recovery record expired")
	default:
		return oops.Code("RECOVERY_COMMIT_FAILED").
			With("operation", "complete recovery").
			With("user_id", userID.String()).
			Wrap(err)
	}
}

// userFromToken verifies a recovery token and loads its still-usable user.
func (s *RecoveryService) userFromToken(ctx context.Context, class TokenClass, token string) (*User, error) {
	claims, err := s.tokens.Verify(class, token)
	if err != nil {
		return nil, errToken(err, class)
	}
	if claims.Purpose != PurposeResetPassword {
		return nil, errNotAuthorized(CodeTokenInvalid, "unexpected token purpose")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, errNotAuthorized(CodeTokenInvalid, "malformed token subject")
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, errUserNotFound()
	}
	if err != nil {
		return nil, oops.Code("RECOVERY_LOOKUP_FAILED").With("operation", "get user").Wrap(err)
	}
	if err := user.CheckUsable(); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *RecoveryService) lookupByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, errUserNotFound()
	}
	if err != nil {
		return nil, oops.Code("RECOVERY_LOOKUP_FAILED").With("operation", "get user by email").Wrap(err)
	}
	return user, nil
}

// checkLimit fails open when the limiter itself errors.
func (s *RecoveryService) checkLimit(ctx context.Context, userID ulid.ULID) error {
	if s.limiter == nil {
		return nil
	}
	decision, err := s.limiter.Allow(ctx, string(PurposeResetPassword)+":"+userID.String())
	if err != nil {
		s.logger.WarnContext(ctx, "rate limiter unavailable, allowing request (best-effort)",
			"user_id", userID.String(),
			"operation", "rate_limit",
			"error", err)
		return nil
	}
	if !decision.Allowed {
		return fail(CodeRecoveryThrottled, "Too many OTP requests. Please try again later.").
			With("user_id", userID.String()).
			With("retry_after", decision.RetryAfter.String()).
			Errorf("recovery request throttled")
	}
	return nil
}

func (s *RecoveryService) publish(ctx context.Context, typ EventType, userID ulid.ULID, attrs map[string]string) {
	publishEvent(ctx, s.events, s.logger, Event{Type: typ, UserID: userID, OccurredAt: s.now(), Attributes: attrs})
}

func (s *RecoveryService) finishStep(span trace.Span, step string, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, PublicMessage(err))
		if KindOf(err) == KindInternal {
			errutil.LogError(s.logger.With("step", step), "recovery step failed", err)
		}
	}
	observability.RecordRecoveryTransition(step, outcome)
	span.End()
}

func recoverySubject(u *User) TokenSubject {
	return TokenSubject{UserID: u.ID, Role: u.Role, Email: u.Email, Purpose: PurposeResetPassword}
}

// publishEvent never fails the caller.
func publishEvent(ctx context.Context, events EventPublisher, logger *slog.Logger, event Event) {
	if err := events.Publish(ctx, event); err != nil {
		observability.RecordEventPublishFailure(string(event.Type))
		logger.WarnContext(ctx, "publish account event failed (best-effort)",
			"event_type", string(event.Type),
			"user_id", event.UserID.String(),
			"operation", "publish_event",
			"error", err)
	}
}
