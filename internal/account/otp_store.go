// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// OTPConfig holds the code length, lifetime and how many wrong codes a
// record tolerates. A zero MaxAttempts means DefaultOTPMaxAttempts.
type OTPConfig struct {
	Length      int
	TTL         time.Duration
	MaxAttempts int
}

// DefaultOTPConfig returns six-digit codes valid for five minutes.
func DefaultOTPConfig() OTPConfig {
	return OTPConfig{Length: DefaultOTPLength, TTL: DefaultOTPTTL, MaxAttempts: DefaultOTPMaxAttempts}
}

// Validate checks length bounds and a positive TTL.
func (c OTPConfig) Validate() error {
	if c.Length < MinOTPLength || c.Length > MaxOTPLength {
		return oops.Code("OTP_CONFIG_INVALID").
			With("length", c.Length).
			Errorf("otp length must be between %d and %d", MinOTPLength, MaxOTPLength)
	}
	if c.TTL <= 0 {
		return oops.Code("OTP_CONFIG_INVALID").Errorf("otp ttl must be positive")
	}
	if c.MaxAttempts < 0 {
		return oops.Code("OTP_CONFIG_INVALID").
			With("max_attempts", c.MaxAttempts).
			Errorf("otp max attempts cannot be negative")
	}
	return nil
}

// IssuedOTP is the result of OTPStore.Issue. Code must only leave the process
// through the out-of-band channel.
type IssuedOTP struct {
	Code      string
	Token     string
	ExpiresAt time.Time
}

// OTPStore issues and checks one-time codes bound to a stage-1 token.
type OTPStore struct {
	repo     OTPRepository
	tokens   *TokenService
	cfg      OTPConfig
	now      func() time.Time
	generate func(length int) (string, error)
}

// OTPStoreOption configures an OTPStore during construction.
type OTPStoreOption func(*OTPStore)

// WithOTPClock replaces time.Now.
func WithOTPClock(now func() time.Time) OTPStoreOption {
	return func(s *OTPStore) {
		s.now = now
	}
}

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(generate func(length int) (string, error)) OTPStoreOption {
	return func(s *OTPStore) {
		s.generate = generate
	}
}

// NewOTPStore creates an OTPStore.
func NewOTPStore(repo OTPRepository, tokens *TokenService, cfg OTPConfig, opts ...OTPStoreOption) (*OTPStore, error) {
	if repo == nil {
		return nil, oops.Errorf("otp repository is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultOTPMaxAttempts
	}
	s := &OTPStore{
		repo:     repo,
		tokens:   tokens,
		cfg:      cfg,
		now:      time.Now,
		generate: GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CodeLength returns the number of digits in issued codes.
func (s *OTPStore) CodeLength() int {
	return s.cfg.Length
}

// TTL returns the lifetime of issued codes.
func (s *OTPStore) TTL() time.Duration {
	return s.cfg.TTL
}

// Issue creates a code and a stage-1 token for subject and persists the
// record, superseding earlier unfinished records for the same purpose.
func (s *OTPStore) Issue(ctx context.Context, subject TokenSubject) (*IssuedOTP, error) {
	code, err := s.generate(s.cfg.Length)
	if err != nil {
		return nil, oops.Code("OTP_ISSUE_FAILED").With("operation", "generate code").Wrap(err)
	}

	token, _, err := s.tokens.Issue(TokenRecoveryStage1, subject)
	if err != nil {
		return nil, oops.Code("OTP_ISSUE_FAILED").With("operation", "issue stage-1 token").Wrap(err)
	}

	now := s.now()
	rec, err := NewOTPRecord(subject.UserID, subject.Purpose, HashSecret(code), HashSecret(token), now, now.Add(s.cfg.TTL))
	if err != nil {
		return nil, oops.Code("OTP_ISSUE_FAILED").With("operation", "new record").Wrap(err)
	}

	if _, err := s.repo.SupersedeActive(ctx, subject.UserID, subject.Purpose, now); err != nil {
		return nil, oops.Code("OTP_ISSUE_FAILED").
			With("operation", "supersede active records").
			With("user_id", subject.UserID.String()).
			Wrap(err)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, oops.Code("OTP_ISSUE_FAILED").
			With("operation", "create record").
			With("user_id", subject.UserID.String()).
			Wrap(err)
	}

	return &IssuedOTP{Code: code, Token: token, ExpiresAt: rec.ExpiresAt}, nil
}

// Verify checks code against the latest active record for the stage-1 token.
// On success the record becomes used and the returned stage-2 token is the
// only credential that can finish it.
func (s *OTPStore) Verify(ctx context.Context, subject TokenSubject, token, code string) (string, time.Time, error) {
	rec, err := s.repo.FindActive(ctx, subject.UserID, subject.Purpose, HashSecret(token))
	if errors.Is(err, ErrNotFound) {
		return "", time.Time{}, oops.Code(CodeOTPNotFound).With("user_id", subject.UserID.String()).Wrap(ErrOTPNotFound)
	}
	if err != nil {
		return "", time.Time{}, oops.Code("OTP_VERIFY_FAILED").With("operation", "find active record").Wrap(err)
	}

	now := s.now()
	if rec.IsExpiredAt(now) {
		return "", time.Time{}, oops.Code(CodeOTPExpired).With("otp_id", rec.ID.String()).Wrap(ErrOTPExpired)
	}
	if !rec.MatchesCode(code) {
		return "", time.Time{}, s.recordMismatch(ctx, rec, now)
	}

	resetToken, expiresAt, err := s.tokens.Issue(TokenRecoveryStage2, subject)
	if err != nil {
		return "", time.Time{}, oops.Code("OTP_VERIFY_FAILED").With("operation", "issue stage-2 token").Wrap(err)
	}

	marked, err := s.repo.MarkUsed(ctx, rec.ID, HashSecret(resetToken), now)
	if err != nil {
		return "", time.Time{}, oops.Code("OTP_VERIFY_FAILED").With("operation", "mark used").Wrap(err)
	}
	if !marked {
		// Another request consumed or expired the record between read and write.
		return "", time.Time{}, oops.Code(CodeOTPNotFound).With("otp_id", rec.ID.String()).Wrap(ErrOTPNotFound)
	}

	return resetToken, expiresAt, nil
}

// recordMismatch counts the failed attempt. Callers running Verify in a
// transaction must commit it even though Verify fails.
func (s *OTPStore) recordMismatch(ctx context.Context, rec *OTPRecord, now time.Time) error {
	finished, err := s.repo.RecordFailedAttempt(ctx, rec.ID, s.cfg.MaxAttempts, now)
	if err != nil {
		return oops.Code("OTP_VERIFY_FAILED").
			With("operation", "record failed attempt").
			With("otp_id", rec.ID.String()).
			Wrap(err)
	}
	if finished {
		return oops.Code(CodeOTPExhausted).With("otp_id", rec.ID.String()).Wrap(ErrOTPExhausted)
	}
	return oops.Code(CodeInvalidCode).With("otp_id", rec.ID.String()).Wrap(ErrOTPMismatch)
}

// Find returns the verified, unfinished record for a stage-2 token.
func (s *OTPStore) Find(ctx context.Context, subject TokenSubject, usedToken string) (*OTPRecord, error) {
	rec, err := s.repo.FindVerified(ctx, subject.UserID, subject.Purpose, HashSecret(usedToken))
	if errors.Is(err, ErrNotFound) {
		return nil, oops.Code(CodeOTPNotFound).With("user_id", subject.UserID.String()).Wrap(ErrOTPNotFound)
	}
	if err != nil {
		return nil, oops.Code("OTP_FIND_FAILED").With("operation", "find verified record").Wrap(err)
	}
	if rec.IsExpiredAt(s.now()) {
		return nil, oops.Code(CodeOTPExpired).With("otp_id", rec.ID.String()).Wrap(ErrOTPExpired)
	}
	return rec, nil
}

// Complete finishes the verified record for usedToken. It fails with
// ErrOTPNotFound when no such record is open, so a stage-2 token closes at
// most one flow.
func (s *OTPStore) Complete(ctx context.Context, subject TokenSubject, usedToken string) error {
	finished, err := s.repo.Finish(ctx, subject.UserID, subject.Purpose, HashSecret(usedToken), s.now())
	if err != nil {
		return oops.Code("OTP_COMPLETE_FAILED").With("operation", "finish record").Wrap(err)
	}
	if !finished {
		return oops.Code(CodeOTPNotFound).With("user_id", subject.UserID.String()).Wrap(ErrOTPNotFound)
	}
	return nil
}

// PurgeExpired deletes records that expired before the given time.
func (s *OTPStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, before)
	if err != nil {
		return 0, oops.Code("OTP_PURGE_FAILED").With("before", before).Wrap(err)
	}
	return n, nil
}
