// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

const otpColumns = `id, user_id, purpose, code_hash, token_hash, used, used_token_hash,
	is_finished, expires_at, created_at, used_at, finished_at, failed_attempts`

// OTPRepository implements account.OTPRepository using PostgreSQL. State
// transitions are single conditional UPDATE statements.
type OTPRepository struct {
	pool Pool
}

var _ account.OTPRepository = (*OTPRepository)(nil)

// NewOTPRepository creates a new OTPRepository.
func NewOTPRepository(pool Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

// Create persists a new record.
func (r *OTPRepository) Create(ctx context.Context, rec *account.OTPRecord) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO otp_records (`+otpColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, rec.ID.String(), rec.UserID.String(), string(rec.Purpose), rec.CodeHash, rec.TokenHash, rec.Used,
		nullableString(rec.UsedTokenHash), rec.IsFinished, rec.ExpiresAt, rec.CreatedAt, rec.UsedAt, rec.FinishedAt,
		rec.FailedAttempts)
	if err != nil {
		return oops.With("operation", "create otp record").With("id", rec.ID.String()).Wrap(err)
	}
	return nil
}

// SupersedeActive finishes every unfinished record for (user, purpose).
func (r *OTPRepository) SupersedeActive(ctx context.Context, userID ulid.ULID, purpose account.Purpose, at time.Time) (int64, error) {
	result, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE otp_records SET is_finished = TRUE, finished_at = $3
		WHERE user_id = $1 AND purpose = $2 AND is_finished = FALSE
	`, userID.String(), string(purpose), at)
	if err != nil {
		return 0, oops.With("operation", "supersede otp records").With("user_id", userID.String()).Wrap(err)
	}
	return result.RowsAffected(), nil
}

// FindActive returns the newest unused, unfinished record for the stage-1
// token hash.
func (r *OTPRepository) FindActive(ctx context.Context, userID ulid.ULID, purpose account.Purpose, tokenHash string) (*account.OTPRecord, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+otpColumns+` FROM otp_records
		WHERE user_id = $1 AND purpose = $2 AND token_hash = $3 AND used = FALSE AND is_finished = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID.String(), string(purpose), tokenHash)
	return r.one(row, "find active otp record", userID)
}

// FindVerified returns the newest used, unfinished record for the stage-2
// token hash.
func (r *OTPRepository) FindVerified(ctx context.Context, userID ulid.ULID, purpose account.Purpose, usedTokenHash string) (*account.OTPRecord, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+otpColumns+` FROM otp_records
		WHERE user_id = $1 AND purpose = $2 AND used_token_hash = $3 AND used = TRUE AND is_finished = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID.String(), string(purpose), usedTokenHash)
	return r.one(row, "find verified otp record", userID)
}

// MarkUsed moves record id from unused to used if it is still open at t.
func (r *OTPRepository) MarkUsed(ctx context.Context, id ulid.ULID, usedTokenHash string, at time.Time) (bool, error) {
	result, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE otp_records SET used = TRUE, used_token_hash = $2, used_at = $3
		WHERE id = $1 AND used = FALSE AND is_finished = FALSE AND expires_at > $3
	`, id.String(), usedTokenHash, at)
	if err != nil {
		return false, oops.With("operation", "mark otp record used").With("id", id.String()).Wrap(err)
	}
	return result.RowsAffected() == 1, nil
}

// Finish moves the used record for the stage-2 token hash to finished.
func (r *OTPRepository) Finish(ctx context.Context, userID ulid.ULID, purpose account.Purpose, usedTokenHash string, at time.Time) (bool, error) {
	result, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE otp_records SET is_finished = TRUE, finished_at = $4
		WHERE user_id = $1 AND purpose = $2 AND used_token_hash = $3 AND used = TRUE AND is_finished = FALSE
	`, userID.String(), string(purpose), usedTokenHash, at)
	if err != nil {
		return false, oops.With("operation", "finish otp record").With("user_id", userID.String()).Wrap(err)
	}
	return result.RowsAffected() > 0, nil
}

// RecordFailedAttempt increments the failure counter of an open record and
// finishes it in the same statement once maxAttempts is reached.
func (r *OTPRepository) RecordFailedAttempt(ctx context.Context, id ulid.ULID, maxAttempts int, at time.Time) (bool, error) {
	var finished bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE otp_records SET failed_attempts = failed_attempts + 1,
			is_finished = failed_attempts + 1 >= $2,
			finished_at = CASE WHEN failed_attempts + 1 >= $2 THEN $3 ELSE finished_at END
		WHERE id = $1 AND used = FALSE AND is_finished = FALSE
		RETURNING is_finished
	`, id.String(), maxAttempts, at).Scan(&finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.With("operation", "record failed otp attempt").With("id", id.String()).Wrap(err)
	}
	return finished, nil
}

// DeleteExpired removes records that expired before the given time.
func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM otp_records WHERE expires_at < $1`, before)
	if err != nil {
		return 0, oops.With("operation", "delete expired otp records").Wrap(err)
	}
	return result.RowsAffected(), nil
}

func (r *OTPRepository) one(row pgx.Row, operation string, userID ulid.ULID) (*account.OTPRecord, error) {
	rec, err := scanOTPRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("OTP_NOT_FOUND").With("user_id", userID.String()).Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", operation).With("user_id", userID.String()).Wrap(err)
	}
	return rec, nil
}

func scanOTPRecord(row pgx.Row) (*account.OTPRecord, error) {
	var rec account.OTPRecord
	var idStr, userIDStr, purpose string
	var usedTokenHash *string
	if err := row.Scan(&idStr, &userIDStr, &purpose, &rec.CodeHash, &rec.TokenHash, &rec.Used, &usedTokenHash,
		&rec.IsFinished, &rec.ExpiresAt, &rec.CreatedAt, &rec.UsedAt, &rec.FinishedAt, &rec.FailedAttempts); err != nil {
		return nil, err
	}
	var err error
	if rec.ID, err = parseULID(idStr, "otp_id"); err != nil {
		return nil, err
	}
	if rec.UserID, err = parseULID(userIDStr, "user_id"); err != nil {
		return nil, err
	}
	rec.Purpose = account.Purpose(purpose)
	if usedTokenHash != nil {
		rec.UsedTokenHash = *usedTokenHash
	}
	return &rec, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
