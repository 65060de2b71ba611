// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package store owns the database connection and schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection defaults.
const (
	DefaultConnectAttempts = 5
	DefaultConnectBackoff  = 500 * time.Millisecond
)

// ConnectOptions controls how Connect retries.
type ConnectOptions struct {
	Attempts int
	Backoff  time.Duration
	Logger   *slog.Logger
}

// pinger is the part of *pgxpool.Pool that Connect checks.
type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// openPool is replaced in tests.
var openPool = func(ctx context.Context, dsn string) (pinger, error) {
	return pgxpool.New(ctx, dsn)
}

// Connect opens a pgx pool and waits until the database answers a ping,
// retrying with exponential backoff.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	p, err := connect(ctx, dsn, opts)
	if err != nil {
		return nil, err
	}
	pool, ok := p.(*pgxpool.Pool)
	if !ok {
		p.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").Errorf("unexpected pool type %T", p)
	}
	return pool, nil
}

func connect(ctx context.Context, dsn string, opts ConnectOptions) (pinger, error) {
	if dsn == "" {
		return nil, oops.Code("DB_CONFIG_INVALID").Errorf("database url is required")
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	base := opts.Backoff
	if base <= 0 {
		base = DefaultConnectBackoff
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base)) //nolint:gosec // attempts > 0

	var (
		pool    pinger
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := openPool(ctx, dsn)
		if err != nil {
			// A malformed DSN will not fix itself.
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.WarnContext(ctx, "database not ready",
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err)
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}
	logger.DebugContext(ctx, "database connected", "attempts", attempt)
	return pool, nil
}
