// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/events"
	"github.com/keyward/keyward/internal/httpapi"
	"github.com/keyward/keyward/internal/logging"
	"github.com/keyward/keyward/internal/mail"
	"github.com/keyward/keyward/internal/observability"
	"github.com/keyward/keyward/internal/ratelimit"
	"github.com/keyward/keyward/internal/reaper"
	"github.com/keyward/keyward/internal/store"
	"github.com/keyward/keyward/internal/telemetry"
	"github.com/keyward/keyward/pkg/errutil"
)

const (
	serviceName = "keyward"

	// readinessTimeout bounds the database ping behind /healthz/readiness.
	readinessTimeout = 2 * time.Second
)

// newServeCmd creates the serve subcommand.
func newServeCmd(flags *globalFlags, deps *ServeDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the account API",
		Long: `Start the HTTP API together with the observability server and the
expired OTP reaper. Runs until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, flags, deps)
		},
	}

	cmd.Flags().String("http-addr", "", "API listen address")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log-format", "", "log format (json or text)")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().String("otlp-endpoint", "", "OTLP gRPC endpoint for traces (empty = disabled)")

	return cmd
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, flags *globalFlags, deps *ServeDeps) error {
	deps = deps.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := deps.ConfigLoader(flags.loadOptions(cmd, false))
	if err != nil {
		return oops.With("operation", "load config").Wrap(err)
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
	})

	tp, err := deps.TelemetrySetup(ctx, telemetry.Config{
		ServiceName:  serviceName,
		Version:      version,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			errutil.LogWarn(shutdownCtx, logger, "error flushing traces", err)
		}
	}()

	logger.InfoContext(ctx, "starting keyward", "http_addr", cfg.HTTP.Addr)

	db, err := deps.DatabaseConnector(ctx, cfg.Database.URL, store.ConnectOptions{
		Attempts: cfg.Database.ConnectAttempts,
		Backoff:  cfg.Database.ConnectBackoff,
		Logger:   logger,
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.InfoContext(ctx, "connected to database")

	limiter, closeLimiter, err := newLimiter(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer closeLimiter()

	publisher, closePublisher, err := newPublisher(cfg, deps, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	sender, err := newRecoverySender(cfg, logger)
	if err != nil {
		return err
	}

	svc, otps, err := newAccountService(cfg, db, limiter, publisher, sender, logger)
	if err != nil {
		return err
	}

	r, err := reaper.New(otps, reaper.Config{Interval: cfg.OTP.ReapInterval, Grace: cfg.OTP.ReapGrace}, reaper.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), readinessTimeout)
			defer pingCancel()
			return db.Ping(pingCtx) == nil
		})
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)
		metrics = obsServer.Metrics()
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}

	api := httpapi.New(svc,
		httpapi.WithLogger(logger),
		httpapi.WithMetrics(metrics),
		httpapi.WithCORSOrigins(cfg.HTTP.CORSOrigins),
		httpapi.WithSecureCookies(cfg.HTTP.SecureCookies),
		httpapi.WithVersion(version),
	)

	listener, err := deps.ListenerFactory("tcp", cfg.HTTP.Addr)
	if err != nil {
		stopObservability(obsServer, cfg.HTTP.ShutdownTimeout, logger)
		return oops.Code("LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}
	httpServer := &http.Server{
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	errChan := make(chan error, 1)
	go func() {
		if serveErr := httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Keyward started")
	logger.InfoContext(ctx, "keyward ready", "http_addr", listener.Addr().String())

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case serveErr = <-errChan:
		serveErr = oops.Code("HTTP_SERVE_FAILED").Wrap(serveErr)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		errutil.LogWarn(shutdownCtx, logger, "error stopping http server", err)
	}
	stopObservability(obsServer, cfg.HTTP.ShutdownTimeout, logger)
	wg.Wait()

	logger.Info("shutdown complete")
	return serveErr
}

// newAccountService assembles the account services over the database.
func newAccountService(
	cfg *config.Config,
	db Database,
	limiter account.RequestLimiter,
	publisher account.EventPublisher,
	sender account.CodeSender,
	logger *slog.Logger,
) (*account.Service, *account.OTPStore, error) {
	users := postgres.NewUserRepository(db)
	hasher, err := account.NewArgon2idHasher(cfg.HashParams())
	if err != nil {
		return nil, nil, err
	}
	tokens, err := account.NewTokenService(cfg.TokenConfig())
	if err != nil {
		return nil, nil, err
	}
	otps, err := account.NewOTPStore(postgres.NewOTPRepository(db), tokens, cfg.OTPSettings())
	if err != nil {
		return nil, nil, err
	}

	recoveryOpts := []account.RecoveryOption{
		account.WithRecoveryLogger(logger),
		account.WithRecoveryEvents(publisher),
	}
	if limiter != nil {
		recoveryOpts = append(recoveryOpts, account.WithRequestLimiter(limiter))
	}
	recovery, err := account.NewRecoveryService(users, otps, tokens, hasher, sender,
		postgres.NewTransactor(db), recoveryOpts...)
	if err != nil {
		return nil, nil, err
	}

	svc, err := account.NewService(users, tokens, hasher, recovery,
		account.WithLogger(logger),
		account.WithEvents(publisher),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, otps, nil
}

// newLimiter returns nil when no Redis address is configured.
func newLimiter(ctx context.Context, cfg *config.Config, deps *ServeDeps) (account.RequestLimiter, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}, nil
	}
	client, err := deps.RedisDialer(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	limiter, err := ratelimit.New(client, ratelimit.Config{
		Limit:  cfg.OTP.RequestLimit,
		Window: cfg.OTP.RequestWindow,
		Block:  cfg.OTP.RequestBlock,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return limiter, func() { _ = client.Close() }, nil
}

// newPublisher returns events.Discard when no brokers are configured.
func newPublisher(cfg *config.Config, deps *ServeDeps, logger *slog.Logger) (account.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.Discard, func() {}, nil
	}
	publisher, err := deps.EventPublisherFactory(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			errutil.LogWarn(context.Background(), logger, "error closing event publisher", err)
		}
	}, nil
}

// newRecoverySender picks the mail driver.
func newRecoverySender(cfg *config.Config, logger *slog.Logger) (account.CodeSender, error) {
	var mailer mail.Mailer
	switch cfg.Mail.Driver {
	case "smtp":
		smtp, err := mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			StartTLS: cfg.Mail.StartTLS,
		})
		if err != nil {
			return nil, err
		}
		mailer = smtp
	default:
		mailer = mail.NewLogMailer(logger)
	}
	return mail.NewRecoveryNotifier(mailer), nil
}

func stopObservability(srv ObservabilityServer, timeout time.Duration, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		errutil.LogWarn(ctx, logger, "error stopping observability server", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
