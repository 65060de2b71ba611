// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/events"
	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/internal/store"
	"github.com/keyward/keyward/internal/telemetry"
	"github.com/keyward/keyward/pkg/errutil"
)

func newServeTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := newServeCmd(&globalFlags{}, nil)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd, buf
}

// capturingListener records the listener so tests can dial the API.
type capturingListener struct {
	mu sync.Mutex
	ln net.Listener
}

func (c *capturingListener) listen(network, address string) (net.Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.ln = ln
	c.mu.Unlock()
	return ln, nil
}

func (c *capturingListener) addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ln == nil {
		return ""
	}
	return c.ln.Addr().String()
}

func TestRunServe_ServesAPIAndShutsDownOnCancel(t *testing.T) {
	db := newFakeDB()
	listener := &capturingListener{}
	deps := &ServeDeps{
		ConfigLoader:      staticLoader(testConfig()),
		DatabaseConnector: fakeConnector(db),
		TelemetrySetup: func(context.Context, telemetry.Config) (TelemetryProvider, error) {
			return noopTelemetry{}, nil
		},
		ListenerFactory: listener.listen,
	}

	cmd, out := newServeTestCmd()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runServeWithDeps(ctx, cmd, &globalFlags{}, deps) }()

	select {
	case sql := <-db.execs:
		assert.Contains(t, sql, "DELETE FROM otp_records", "reaper runs a cycle at startup")
	case <-time.After(5 * time.Second):
		t.Fatal("reaper did not run")
	}

	require.Eventually(t, func() bool { return listener.addr() != "" }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + listener.addr() + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var banner map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&banner))
	assert.Equal(t, version, banner["version"])

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
	assert.True(t, db.isClosed())
	assert.Contains(t, out.String(), "Keyward started")
}

func TestRunServe_ConfigError(t *testing.T) {
	deps := &ServeDeps{
		ConfigLoader: func(config.LoadOptions) (*config.Config, error) {
			return nil, errors.New("tokens.access.secret is required")
		},
	}
	cmd, _ := newServeTestCmd()

	err := runServeWithDeps(context.Background(), cmd, &globalFlags{}, deps)
	require.Error(t, err)
	errutil.AssertErrorContext(t, err, "operation", "load config")
}

func TestRunServe_DatabaseError(t *testing.T) {
	deps := &ServeDeps{
		ConfigLoader: staticLoader(testConfig()),
		DatabaseConnector: func(context.Context, string, store.ConnectOptions) (Database, error) {
			return nil, errors.New("connection refused")
		},
		TelemetrySetup: func(context.Context, telemetry.Config) (TelemetryProvider, error) {
			return noopTelemetry{}, nil
		},
	}
	cmd, _ := newServeTestCmd()

	err := runServeWithDeps(context.Background(), cmd, &globalFlags{}, deps)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestRunServe_ObservabilityStartError(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Addr = "127.0.0.1:0"
	obs := newMockObservabilityServer()
	obs.startFunc = func() (<-chan error, error) { return nil, errors.New("address in use") }

	deps := &ServeDeps{
		ConfigLoader:      staticLoader(cfg),
		DatabaseConnector: fakeConnector(newFakeDB()),
		TelemetrySetup: func(context.Context, telemetry.Config) (TelemetryProvider, error) {
			return noopTelemetry{}, nil
		},
		ObservabilityServerFactory: func(string, observability.ReadinessChecker) ObservabilityServer {
			return obs
		},
	}
	cmd, _ := newServeTestCmd()

	err := runServeWithDeps(context.Background(), cmd, &globalFlags{}, deps)
	errutil.AssertErrorCode(t, err, "OBSERVABILITY_START_FAILED")
}

func TestRunServe_ListenErrorStopsObservability(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Addr = "127.0.0.1:0"
	obs := newMockObservabilityServer()
	db := newFakeDB()
	var ready observability.ReadinessChecker

	deps := &ServeDeps{
		ConfigLoader:      staticLoader(cfg),
		DatabaseConnector: fakeConnector(db),
		TelemetrySetup: func(context.Context, telemetry.Config) (TelemetryProvider, error) {
			return noopTelemetry{}, nil
		},
		ObservabilityServerFactory: func(_ string, checker observability.ReadinessChecker) ObservabilityServer {
			ready = checker
			return obs
		},
		ListenerFactory: func(string, string) (net.Listener, error) {
			return nil, errors.New("permission denied")
		},
	}
	cmd, _ := newServeTestCmd()

	err := runServeWithDeps(context.Background(), cmd, &globalFlags{}, deps)
	errutil.AssertErrorCode(t, err, "LISTEN_FAILED")
	assert.True(t, obs.wasStopped())

	require.NotNil(t, ready)
	assert.True(t, ready(), "ready while the database answers pings")
	db.pingErr = errors.New("gone")
	assert.False(t, ready())
}

func TestNewRecoverySender(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	cfg := testConfig()
	sender, err := newRecoverySender(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, sender)

	cfg.Mail.Driver = "smtp"
	_, err = newRecoverySender(cfg, logger)
	errutil.AssertErrorCode(t, err, "MAIL_CONFIG_INVALID")

	cfg.Mail.Host = "smtp.example.com"
	sender, err = newRecoverySender(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

type closingPublisher struct {
	closed bool
}

func (p *closingPublisher) Publish(context.Context, account.Event) error { return nil }

func (p *closingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestNewPublisher(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := testConfig()

	t.Run("no brokers discards events", func(t *testing.T) {
		pub, closeFn, err := newPublisher(cfg, (&ServeDeps{}).withDefaults(), logger)
		require.NoError(t, err)
		assert.Equal(t, events.Discard, pub)
		closeFn()
	})

	t.Run("brokers use the factory", func(t *testing.T) {
		cfg := testConfig()
		cfg.Kafka = config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "keyward.account-events"}
		fake := &closingPublisher{}
		var gotTopic string
		deps := (&ServeDeps{
			EventPublisherFactory: func(_ []string, topic string, _ *slog.Logger) (EventPublisher, error) {
				gotTopic = topic
				return fake, nil
			},
		}).withDefaults()

		pub, closeFn, err := newPublisher(cfg, deps, logger)
		require.NoError(t, err)
		assert.Same(t, fake, pub)
		assert.Equal(t, "keyward.account-events", gotTopic)
		closeFn()
		assert.True(t, fake.closed)
	})

	t.Run("factory error", func(t *testing.T) {
		cfg := testConfig()
		cfg.Kafka = config.KafkaConfig{Brokers: []string{"localhost:9092"}}
		deps := (&ServeDeps{
			EventPublisherFactory: func([]string, string, *slog.Logger) (EventPublisher, error) {
				return nil, errors.New("kafka topic is required")
			},
		}).withDefaults()

		_, _, err := newPublisher(cfg, deps, logger)
		require.Error(t, err)
	})
}

func TestNewLimiter(t *testing.T) {
	cfg := testConfig()
	deps := (&ServeDeps{
		RedisDialer: func(context.Context, string, string, int) (RedisClient, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}).withDefaults()

	limiter, closeFn, err := newLimiter(context.Background(), cfg, deps)
	require.NoError(t, err)
	assert.Nil(t, limiter, "no redis address disables limiting")
	closeFn()

	cfg.Redis.Addr = "localhost:6379"
	_, _, err = newLimiter(context.Background(), cfg, deps)
	require.Error(t, err)
}
