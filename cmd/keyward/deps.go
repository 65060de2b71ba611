// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/events"
	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/internal/ratelimit"
	"github.com/keyward/keyward/internal/store"
	"github.com/keyward/keyward/internal/telemetry"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader builds the configuration.
	// Default: config.Load
	ConfigLoader func(opts config.LoadOptions) (*config.Config, error)

	// DatabaseConnector opens the connection pool.
	// Default: store.Connect
	DatabaseConnector func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error)

	// RedisDialer connects to the rate limiter backend.
	// Default: ratelimit.Dial
	RedisDialer func(ctx context.Context, addr, password string, db int) (RedisClient, error)

	// EventPublisherFactory creates the account event publisher.
	// Default: events.NewKafkaPublisher
	EventPublisherFactory func(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error)

	// TelemetrySetup installs the tracer provider.
	// Default: telemetry.Setup
	TelemetrySetup func(ctx context.Context, cfg telemetry.Config) (TelemetryProvider, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.ConfigLoader == nil {
		out.ConfigLoader = config.Load
	}
	if out.DatabaseConnector == nil {
		out.DatabaseConnector = connectDatabase
	}
	if out.RedisDialer == nil {
		out.RedisDialer = func(ctx context.Context, addr, password string, db int) (RedisClient, error) {
			return ratelimit.Dial(ctx, addr, password, db)
		}
	}
	if out.EventPublisherFactory == nil {
		out.EventPublisherFactory = func(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
			return events.NewKafkaPublisher(brokers, topic, logger)
		}
	}
	if out.TelemetrySetup == nil {
		out.TelemetrySetup = func(ctx context.Context, cfg telemetry.Config) (TelemetryProvider, error) {
			return telemetry.Setup(ctx, cfg)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if out.ListenerFactory == nil {
		out.ListenerFactory = net.Listen
	}
	return &out
}

// connectDatabase adapts store.Connect to the Database interface.
func connectDatabase(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error) {
	return store.Connect(ctx, dsn, opts)
}

// Database is the part of *pgxpool.Pool the commands use.
type Database interface {
	postgres.Pool
	Ping(ctx context.Context) error
	Close()
}

// RedisClient is the part of *redis.Client the limiter needs.
type RedisClient interface {
	redis.Cmdable
	Close() error
}

// EventPublisher is an account event sink that holds a connection.
type EventPublisher interface {
	account.EventPublisher
	Close() error
}

// TelemetryProvider wraps the methods used from telemetry.Provider.
type TelemetryProvider interface {
	Shutdown(ctx context.Context) error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// MaintenanceDeps contains injectable dependencies for the one-shot
// database commands (seed, reap).
type MaintenanceDeps struct {
	// ConfigLoader builds the configuration.
	// Default: config.Load
	ConfigLoader func(opts config.LoadOptions) (*config.Config, error)

	// DatabaseConnector opens the connection pool.
	// Default: store.Connect
	DatabaseConnector func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error)

	// Now is the clock.
	// Default: time.Now
	Now func() time.Time
}

func (d *MaintenanceDeps) withDefaults() *MaintenanceDeps {
	out := MaintenanceDeps{}
	if d != nil {
		out = *d
	}
	if out.ConfigLoader == nil {
		out.ConfigLoader = config.Load
	}
	if out.DatabaseConnector == nil {
		out.DatabaseConnector = connectDatabase
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// openDatabase loads config without token validation and connects.
func (d *MaintenanceDeps) openDatabase(ctx context.Context, cmd *cobra.Command, flags *globalFlags) (*config.Config, Database, error) {
	cfg, err := d.ConfigLoader(flags.loadOptions(cmd, true))
	if err != nil {
		return nil, nil, oops.With("operation", "load config").Wrap(err)
	}
	if cfg.Database.URL == "" {
		return nil, nil, oops.Code("CONFIG_INVALID").Errorf("database url is required (--database-url or KEYWARD_DATABASE_URL)")
	}
	db, err := d.DatabaseConnector(ctx, cfg.Database.URL, store.ConnectOptions{
		Attempts: cfg.Database.ConnectAttempts,
		Backoff:  cfg.Database.ConnectBackoff,
	})
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return cfg, db, nil
}
