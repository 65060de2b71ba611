// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/internal/store"
)

// testConfig returns a configuration that passes validation and keeps
// every optional backend disabled.
func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Addr:            "127.0.0.1:0",
			CORSOrigins:     []string{"http://localhost:3000"},
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{URL: "postgres://keyward@localhost/keyward", ConnectAttempts: 1},
		Mail:     config.MailConfig{Driver: "log", From: "Keyward <no-reply@keyward.local>"},
		Tokens: config.TokensConfig{
			Issuer:         "keyward",
			Access:         config.TokenClassConfig{Secret: "access-secret", TTL: 15 * time.Minute},
			Refresh:        config.TokenClassConfig{Secret: "refresh-secret", TTL: time.Hour},
			RecoveryStage1: config.TokenClassConfig{Secret: "stage1-secret", TTL: 10 * time.Minute},
			RecoveryStage2: config.TokenClassConfig{Secret: "stage2-secret", TTL: 10 * time.Minute},
		},
		OTP: config.OTPConfig{
			Length:        account.DefaultOTPLength,
			TTL:           account.DefaultOTPTTL,
			ReapInterval:  time.Hour,
			RequestLimit:  5,
			RequestWindow: time.Hour,
		},
		Hash: config.HashConfig{Time: 1, MemoryKiB: 1024, Threads: 1},
		Log:  config.LogConfig{Format: "json", Level: "error"},
	}
}

func staticLoader(cfg *config.Config) func(config.LoadOptions) (*config.Config, error) {
	return func(config.LoadOptions) (*config.Config, error) {
		return cfg, nil
	}
}

// fakeDB implements Database. Exec answers the reaper's DELETE and reports
// each call on execs.
type fakeDB struct {
	postgres.Pool

	execs   chan string
	pingErr error

	mu     sync.Mutex
	closed bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{execs: make(chan string, 8)}
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	select {
	case f.execs <- sql:
	default:
	}
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeDB) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func fakeConnector(db Database) func(context.Context, string, store.ConnectOptions) (Database, error) {
	return func(context.Context, string, store.ConnectOptions) (Database, error) {
		return db, nil
	}
}

type noopTelemetry struct{}

func (noopTelemetry) Shutdown(context.Context) error { return nil }

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	metrics   *observability.Metrics

	mu      sync.Mutex
	stopped bool
}

func newMockObservabilityServer() *mockObservabilityServer {
	return &mockObservabilityServer{metrics: observability.NewMetrics(prometheus.NewRegistry())}
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	return make(chan error, 1), nil
}

func (m *mockObservabilityServer) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockObservabilityServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *mockObservabilityServer) Addr() string { return "127.0.0.1:9100" }

func (m *mockObservabilityServer) Metrics() *observability.Metrics { return m.metrics }
