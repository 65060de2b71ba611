// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/pkg/errutil"
)

type fakePool struct {
	pingErrs []error
	pings    int
	closed   int
}

func (p *fakePool) Ping(context.Context) error {
	p.pings++
	if len(p.pingErrs) == 0 {
		return nil
	}
	err := p.pingErrs[0]
	p.pingErrs = p.pingErrs[1:]
	return err
}

func (p *fakePool) Close() { p.closed++ }

func stubOpenPool(t *testing.T, open func(ctx context.Context, dsn string) (pinger, error)) {
	t.Helper()
	prev := openPool
	openPool = open
	t.Cleanup(func() { openPool = prev })
}

func TestConnect_RetriesUntilPingSucceeds(t *testing.T) {
	pool := &fakePool{pingErrs: []error{errors.New("connection refused"), errors.New("the database system is starting up")}}
	opens := 0
	stubOpenPool(t, func(context.Context, string) (pinger, error) {
		opens++
		return pool, nil
	})

	got, err := connect(context.Background(), "postgres://db/keyward", ConnectOptions{Attempts: 5, Backoff: time.Millisecond})
	require.NoError(t, err)
	assert.Same(t, pool, got)
	assert.Equal(t, 3, opens)
	assert.Equal(t, 3, pool.pings)
	assert.Equal(t, 2, pool.closed, "failed attempts close their pool")
}

func TestConnect_GivesUpAfterAttempts(t *testing.T) {
	stubOpenPool(t, func(context.Context, string) (pinger, error) {
		return &fakePool{pingErrs: []error{errors.New("no route to host")}}, nil
	})

	_, err := connect(context.Background(), "postgres://db/keyward", ConnectOptions{Attempts: 3, Backoff: time.Millisecond})
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	errutil.AssertErrorContext(t, err, "attempts", 3)
}

func TestConnect_DoesNotRetryBadDSN(t *testing.T) {
	opens := 0
	stubOpenPool(t, func(context.Context, string) (pinger, error) {
		opens++
		return nil, errors.New("cannot parse dsn")
	})

	_, err := connect(context.Background(), "::", ConnectOptions{Attempts: 5, Backoff: time.Millisecond})
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	assert.Equal(t, 1, opens)
}

func TestConnect_RequiresDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", ConnectOptions{})
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestConnect_StopsOnCancel(t *testing.T) {
	stubOpenPool(t, func(context.Context, string) (pinger, error) {
		return &fakePool{pingErrs: []error{errors.New("refused"), errors.New("refused"), errors.New("refused")}}, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := connect(ctx, "postgres://db/keyward", ConnectOptions{Attempts: 10, Backoff: time.Hour})
	require.Error(t, err)
}
