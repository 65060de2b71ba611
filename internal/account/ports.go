// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the context passed to fn participate in it.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RecoveryMessage is what the out-of-band channel needs to deliver a code.
type RecoveryMessage struct {
	To   string
	Name string
	Code string
	TTL  time.Duration
}

// CodeSender delivers recovery codes to the account owner.
type CodeSender interface {
	SendRecoveryCode(ctx context.Context, msg RecoveryMessage) error
}

// LimitDecision is the outcome of a rate limit check.
type LimitDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RequestLimiter throttles recovery requests per key.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) (LimitDecision, error)
}

// EventType names an account event.
type EventType string

// Account events.
const (
	EventRecoveryRequested EventType = "recovery.requested"
	EventRecoveryVerified  EventType = "recovery.verified"
	EventRecoveryCompleted EventType = "recovery.completed"
	EventPasswordChanged   EventType = "password.changed"
	EventUserCreated       EventType = "user.created"
	EventStatusChanged     EventType = "user.status_changed"
	EventRoleChanged       EventType = "user.role_changed"
)

// Event describes a completed account change. It never carries secrets.
type Event struct {
	Type       EventType         `json:"type"`
	UserID     ulid.ULID         `json:"user_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// EventPublisher receives account events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type discardEvents struct{}

func (discardEvents) Publish(context.Context, Event) error { return nil }
