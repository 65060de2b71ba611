// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package reaper periodically deletes expired OTP records.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/pkg/errutil"
)

// Defaults.
const (
	DefaultInterval = 10 * time.Minute
	DefaultGrace    = time.Hour
)

// Purger deletes OTP records that expired before a cutoff.
// *account.OTPStore implements it.
type Purger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// PurgerFunc adapts a function, such as an OTP repository's DeleteExpired,
// to Purger.
type PurgerFunc func(ctx context.Context, before time.Time) (int64, error)

// PurgeExpired calls f.
func (f PurgerFunc) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return f(ctx, before)
}

// Config controls the purge cadence.
type Config struct {
	Interval time.Duration
	// Grace keeps recently expired records around for inspection.
	Grace time.Duration
}

// Reaper runs purge cycles until its context is cancelled.
type Reaper struct {
	cfg    Config
	purger Purger
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Reaper.
type Option func(*Reaper)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reaper) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reaper) { r.now = now }
}

// New creates a Reaper. A zero Interval means DefaultInterval.
func New(purger Purger, cfg Config, opts ...Option) (*Reaper, error) {
	if purger == nil {
		return nil, oops.Code("REAPER_CONFIG_INVALID").Errorf("purger is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Grace < 0 {
		return nil, oops.Code("REAPER_CONFIG_INVALID").With("grace", cfg.Grace.String()).Errorf("grace cannot be negative")
	}
	r := &Reaper{cfg: cfg, purger: purger, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunOnce purges records that expired more than Grace ago and returns how
// many were deleted.
func (r *Reaper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.cfg.Grace)
	n, err := r.purger.PurgeExpired(ctx, cutoff)
	if err != nil {
		return 0, oops.With("operation", "reap otp records").With("cutoff", cutoff).Wrap(err)
	}
	observability.RecordOTPReaped(n)
	r.logger.DebugContext(ctx, "reaped expired otp records", "count", n, "cutoff", cutoff)
	return n, nil
}

// Run purges once immediately and then every Interval. It returns nil when
// ctx is cancelled. A failed cycle is logged and retried on the next tick.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.DebugContext(context.WithoutCancel(ctx), "otp reaper stopped")
			return nil
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Reaper) cycle(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
		errutil.LogWarn(ctx, r.logger, "otp reap cycle failed", err)
	}
}
