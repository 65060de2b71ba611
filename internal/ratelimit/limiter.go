// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package ratelimit throttles recovery requests with fixed-window counters
// in Redis.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

// DefaultPrefix namespaces limiter keys.
const DefaultPrefix = "keyward:ratelimit:"

// Config sets the window and the penalty once the window is exceeded.
type Config struct {
	Limit  int
	Window time.Duration
	// Block is how long a key stays rejected after exceeding Limit. Zero
	// means one Window.
	Block  time.Duration
	Prefix string
}

// commander is the subset of redis.Cmdable the limiter issues.
type commander interface {
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Limiter is a Redis backed account.RequestLimiter.
type Limiter struct {
	rdb commander
	cfg Config
}

var _ account.RequestLimiter = (*Limiter)(nil)

// New creates a Limiter over any go-redis client.
func New(rdb redis.Cmdable, cfg Config) (*Limiter, error) {
	return newLimiter(rdb, cfg)
}

func newLimiter(rdb commander, cfg Config) (*Limiter, error) {
	if rdb == nil {
		return nil, oops.Code("RATELIMIT_CONFIG_INVALID").Errorf("redis client is required")
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, oops.Code("RATELIMIT_CONFIG_INVALID").
			With("limit", cfg.Limit).
			With("window", cfg.Window.String()).
			Errorf("limit and window must be positive")
	}
	if cfg.Block <= 0 {
		cfg.Block = cfg.Window
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	return &Limiter{rdb: rdb, cfg: cfg}, nil
}

// Allow counts one request for key. Once more than Limit requests land in a
// window the key is blocked for Block, and RetryAfter reports the time left.
func (l *Limiter) Allow(ctx context.Context, key string) (account.LimitDecision, error) {
	blockKey := l.cfg.Prefix + key + ":block"
	countKey := l.cfg.Prefix + key + ":count"

	ttl, err := l.rdb.TTL(ctx, blockKey).Result()
	if err != nil {
		return account.LimitDecision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "check block").Wrap(err)
	}
	if ttl > 0 {
		return account.LimitDecision{Allowed: false, RetryAfter: ttl}, nil
	}

	count, err := l.rdb.Incr(ctx, countKey).Result()
	if err != nil {
		return account.LimitDecision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "count request").Wrap(err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, countKey, l.cfg.Window).Err(); err != nil {
			return account.LimitDecision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "start window").Wrap(err)
		}
	}

	if count > int64(l.cfg.Limit) {
		if err := l.rdb.Set(ctx, blockKey, "1", l.cfg.Block).Err(); err != nil {
			return account.LimitDecision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "block key").Wrap(err)
		}
		return account.LimitDecision{Allowed: false, RetryAfter: l.cfg.Block}, nil
	}
	return account.LimitDecision{Allowed: true}, nil
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("RATELIMIT_UNAVAILABLE").With("addr", addr).Wrap(err)
	}
	return client, nil
}
