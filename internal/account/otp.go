// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Purpose scopes an OTP record to one flow.
type Purpose string

// OTP purposes.
const (
	PurposeResetPassword Purpose = "reset_password"
	PurposeCreateAccount Purpose = "create_account"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeResetPassword || p == PurposeCreateAccount
}

// OTP code length bounds.
const (
	MinOTPLength     = 4
	MaxOTPLength     = 10
	DefaultOTPLength = 6
	DefaultOTPTTL    = 5 * time.Minute

	// DefaultOTPMaxAttempts is how many wrong codes close a record.
	DefaultOTPMaxAttempts = 5
)

// OTP store outcomes. Callers distinguish them with errors.Is.
var (
	ErrOTPNotFound = errors.New("otp record not found")
	ErrOTPExpired  = errors.New("otp record expired")
	ErrOTPMismatch = errors.New("otp code mismatch")

	// ErrOTPExhausted is a mismatch that used up the record's last attempt.
	ErrOTPExhausted = fmt.Errorf("%w: attempts exhausted", ErrOTPMismatch)
)

// OTPRecord is one issued code. Secrets are stored as SHA-256 hashes only.
type OTPRecord struct {
	ID            ulid.ULID
	UserID        ulid.ULID
	CodeHash      string
	TokenHash     string
	Purpose       Purpose
	Used          bool
	UsedTokenHash string
	IsFinished    bool
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UsedAt        *time.Time
	FinishedAt    *time.Time

	// FailedAttempts counts wrong codes presented against the record.
	FailedAttempts int
}

// NewOTPRecord creates a validated, unused record.
func NewOTPRecord(userID ulid.ULID, purpose Purpose, codeHash, tokenHash string, createdAt, expiresAt time.Time) (*OTPRecord, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("OTP_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if !purpose.Valid() {
		return nil, oops.Code("OTP_INVALID_PURPOSE").With("purpose", string(purpose)).Errorf("unknown otp purpose")
	}
	if codeHash == "" || tokenHash == "" {
		return nil, oops.Code("OTP_INVALID_HASH").Errorf("code and token hashes cannot be empty")
	}
	if !expiresAt.After(createdAt) {
		return nil, oops.Code("OTP_INVALID_EXPIRY").Errorf("expiry must be after creation")
	}
	return &OTPRecord{
		ID:        ulid.Make(),
		UserID:    userID,
		CodeHash:  codeHash,
		TokenHash: tokenHash,
		Purpose:   purpose,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// IsExpiredAt reports whether the record is expired at t. A record is only
// live strictly before ExpiresAt, matching the conditional updates.
func (r *OTPRecord) IsExpiredAt(t time.Time) bool {
	return !t.Before(r.ExpiresAt)
}

// MatchesCode compares code against the stored hash in constant time.
func (r *OTPRecord) MatchesCode(code string) bool {
	return subtle.ConstantTimeCompare([]byte(HashSecret(code)), []byte(r.CodeHash)) == 1
}

// HashSecret returns the hex SHA-256 of a code or token, as stored.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// GenerateCode returns a uniformly random numeric code of the given length.
func GenerateCode(length int) (string, error) {
	if length < MinOTPLength || length > MaxOTPLength {
		return "", oops.Code("OTP_INVALID_LENGTH").
			With("length", length).
			Errorf("otp length must be between %d and %d", MinOTPLength, MaxOTPLength)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", oops.Code("OTP_GENERATE_FAILED").With("operation", "crypto/rand.Int").Wrap(err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// WellFormedCode reports whether code has exactly length ASCII digits.
func WellFormedCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// OTPRepository persists OTP records. MarkUsed and Finish are conditional
// updates so only one concurrent caller can move a record forward.
type OTPRepository interface {
	// Create stores a new record.
	Create(ctx context.Context, rec *OTPRecord) error

	// SupersedeActive finishes every unfinished record for (user, purpose).
	SupersedeActive(ctx context.Context, userID ulid.ULID, purpose Purpose, at time.Time) (int64, error)

	// FindActive returns the newest unused, unfinished record for
	// (user, purpose, tokenHash), ordered by created_at DESC, id DESC.
	// Returns ErrNotFound if none.
	FindActive(ctx context.Context, userID ulid.ULID, purpose Purpose, tokenHash string) (*OTPRecord, error)

	// FindVerified returns the newest used, unfinished record for
	// (user, purpose, usedTokenHash). Returns ErrNotFound if none.
	FindVerified(ctx context.Context, userID ulid.ULID, purpose Purpose, usedTokenHash string) (*OTPRecord, error)

	// MarkUsed sets used=true and the used token hash on record id if it is
	// still unused, unfinished and unexpired at t. Returns false when no row
	// changed.
	MarkUsed(ctx context.Context, id ulid.ULID, usedTokenHash string, at time.Time) (bool, error)

	// Finish sets is_finished=true on the used, unfinished record matching
	// (user, purpose, usedTokenHash). Returns false when no row changed.
	Finish(ctx context.Context, userID ulid.ULID, purpose Purpose, usedTokenHash string, at time.Time) (bool, error)

	// RecordFailedAttempt counts a wrong code against the unused, unfinished
	// record id and finishes it once maxAttempts is reached. Returns whether
	// the record is now finished; false with no error when it was already
	// closed.
	RecordFailedAttempt(ctx context.Context, id ulid.ULID, maxAttempts int, at time.Time) (bool, error)

	// DeleteExpired removes records that expired before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
