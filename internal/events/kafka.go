// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package events publishes account events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/segmentio/kafka-go"

	"github.com/keyward/keyward/internal/account"
)

// DefaultWriteTimeout bounds a single publish so a slow broker cannot hold
// up the request that produced the event.
const DefaultWriteTimeout = 5 * time.Second

// Discard drops every event.
var Discard account.EventPublisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, account.Event) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes account events as JSON messages keyed by user ID.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

var _ account.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, oops.Code("EVENTS_CONFIG_INVALID").Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, oops.Code("EVENTS_CONFIG_INVALID").Errorf("kafka topic is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Warn("kafka writer", "detail", fmt.Sprintf(msg, args...))
		}),
	}
	return newKafkaPublisher(w), nil
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, timeout: DefaultWriteTimeout}
}

// Publish writes one event. The key keeps a user's events on one partition
// so consumers see them in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event account.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return oops.Code("EVENT_ENCODE_FAILED").With("event_type", string(event.Type)).Wrap(err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(event.UserID.String()),
		Value:   payload,
		Time:    event.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	})
	if err != nil {
		return oops.Code("EVENT_PUBLISH_FAILED").
			With("event_type", string(event.Type)).
			With("user_id", event.UserID.String()).
			Wrap(err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return oops.Code("EVENTS_CLOSE_FAILED").Wrap(err)
	}
	return nil
}
