// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/accounttest"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testTokenConfig() account.TokenConfig {
	return account.TokenConfig{
		Issuer:         "keyward-test",
		Access:         account.TokenSpec{Secret: "access-secret", TTL: 15 * time.Minute},
		Refresh:        account.TokenSpec{Secret: "refresh-secret", TTL: 30 * 24 * time.Hour},
		RecoveryStage1: account.TokenSpec{Secret: "stage1-secret", TTL: 10 * time.Minute},
		RecoveryStage2: account.TokenSpec{Secret: "stage2-secret", TTL: 10 * time.Minute},
	}
}

// fixture wires the account services over in-memory stores and a fake clock.
type fixture struct {
	clock    *accounttest.Clock
	users    *accounttest.UserStore
	otps     *accounttest.OTPStore
	sender   *accounttest.Sender
	events   *accounttest.Events
	hasher   *account.Argon2idHasher
	tokens   *account.TokenService
	store    *account.OTPStore
	recovery *account.RecoveryService
	svc      *account.Service
	logs     *bytes.Buffer
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	code     string
	limiter  account.RequestLimiter
	sender   account.CodeSender
	userRepo account.UserRepository
}

// withCode makes every issued OTP equal code.
func withCode(code string) fixtureOption {
	return func(c *fixtureConfig) { c.code = code }
}

func withLimiter(l account.RequestLimiter) fixtureOption {
	return func(c *fixtureConfig) { c.limiter = l }
}

func withSender(s account.CodeSender) fixtureOption {
	return func(c *fixtureConfig) { c.sender = s }
}

func withUserRepo(r account.UserRepository) fixtureOption {
	return func(c *fixtureConfig) { c.userRepo = r }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := &fixtureConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &fixture{
		clock:  accounttest.NewClock(baseTime),
		users:  accounttest.NewUserStore(),
		otps:   accounttest.NewOTPStore(),
		sender: &accounttest.Sender{},
		events: &accounttest.Events{},
		logs:   &bytes.Buffer{},
	}
	logger := slog.New(slog.NewJSONHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	f.hasher, err = account.NewArgon2idHasher(fastParams)
	require.NoError(t, err)

	f.tokens, err = account.NewTokenService(testTokenConfig(), account.WithTokenClock(f.clock.Now))
	require.NoError(t, err)

	storeOpts := []account.OTPStoreOption{account.WithOTPClock(f.clock.Now)}
	if cfg.code != "" {
		code := cfg.code
		storeOpts = append(storeOpts, account.WithCodeGenerator(func(int) (string, error) { return code, nil }))
	}
	otpCfg := account.OTPConfig{Length: 5, TTL: 5 * time.Minute}
	if cfg.code != "" {
		otpCfg.Length = len(cfg.code)
	}
	f.store, err = account.NewOTPStore(f.otps, f.tokens, otpCfg, storeOpts...)
	require.NoError(t, err)

	var users account.UserRepository = f.users
	if cfg.userRepo != nil {
		users = cfg.userRepo
	}
	var sender account.CodeSender = f.sender
	if cfg.sender != nil {
		sender = cfg.sender
	}

	f.recovery, err = account.NewRecoveryService(users, f.store, f.tokens, f.hasher, sender,
		accounttest.NewTransactor(f.users, f.otps),
		account.WithRecoveryClock(f.clock.Now),
		account.WithRecoveryEvents(f.events),
		account.WithRecoveryLogger(logger),
		account.WithRequestLimiter(cfg.limiter),
	)
	require.NoError(t, err)

	f.svc, err = account.NewService(users, f.tokens, f.hasher, f.recovery,
		account.WithClock(f.clock.Now),
		account.WithEvents(f.events),
		account.WithLogger(logger),
	)
	require.NoError(t, err)
	return f
}

// addUser stores an active user with the given password.
func (f *fixture) addUser(t *testing.T, email, password string, mutate ...func(*account.User)) *account.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u, err := account.NewUser(account.NewUserInput{
		Name:     "Test User",
		UserName: email,
		Email:    email,
		Password: password,
	}, hash, f.clock.Now())
	require.NoError(t, err)
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, f.users.Create(t.Context(), u))
	return u
}

// lastCode returns the code from the most recent recovery email.
func (f *fixture) lastCode(t *testing.T) string {
	t.Helper()
	msg, ok := f.sender.Last()
	require.True(t, ok, "no recovery email sent")
	return msg.Code
}
