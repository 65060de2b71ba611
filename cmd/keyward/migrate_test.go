// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/store"
	"github.com/keyward/keyward/pkg/errutil"
)

// fakeMigrator records the calls made by the migrate commands.
type fakeMigrator struct {
	calls   []string
	steps   []int
	forced  int
	status  *store.Status
	err     error
	closed  bool
	closeEr error
}

func (m *fakeMigrator) Up() error {
	m.calls = append(m.calls, "up")
	return m.err
}

func (m *fakeMigrator) Down() error {
	m.calls = append(m.calls, "down")
	return m.err
}

func (m *fakeMigrator) Steps(n int) error {
	m.calls = append(m.calls, "steps")
	m.steps = append(m.steps, n)
	return m.err
}

func (m *fakeMigrator) Force(version int) error {
	m.calls = append(m.calls, "force")
	m.forced = version
	return m.err
}

func (m *fakeMigrator) Status() (*store.Status, error) {
	m.calls = append(m.calls, "status")
	return m.status, m.err
}

func (m *fakeMigrator) Close() error {
	m.closed = true
	return m.closeEr
}

func runMigrateCmd(t *testing.T, m *fakeMigrator, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var gotURL string
	cmd := newMigrateCmd(&globalFlags{}, &MigrateDeps{
		ConfigLoader: func(opts config.LoadOptions) (*config.Config, error) {
			assert.True(t, opts.SkipValidation, "migrations do not need token secrets")
			return cfg, nil
		},
		MigratorFactory: func(url string) (Migrator, error) {
			gotURL = url
			return m, nil
		},
	})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		assert.Equal(t, cfg.Database.URL, gotURL)
	}
	return buf.String(), err
}

func TestMigrateUp(t *testing.T) {
	m := &fakeMigrator{}
	out, err := runMigrateCmd(t, m, testConfig(), "up")
	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, m.calls)
	assert.True(t, m.closed)
	assert.Contains(t, out, "Migrations completed successfully")
}

func TestMigrateUp_Steps(t *testing.T) {
	m := &fakeMigrator{}
	_, err := runMigrateCmd(t, m, testConfig(), "up", "--steps", "2")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, m.steps)
}

func TestMigrateDown(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCalls []string
		wantSteps []int
	}{
		{"default rolls back one", []string{"down"}, []string{"steps"}, []int{-1}},
		{"explicit steps", []string{"down", "--steps", "3"}, []string{"steps"}, []int{-3}},
		{"all", []string{"down", "--all"}, []string{"down"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMigrator{}
			_, err := runMigrateCmd(t, m, testConfig(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, m.calls)
			assert.Equal(t, tt.wantSteps, m.steps)
		})
	}
}

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	m := &fakeMigrator{}
	_, err := runMigrateCmd(t, m, testConfig(), "down", "--steps", "0")
	errutil.AssertErrorCode(t, err, "INVALID_STEPS")
	assert.Empty(t, m.calls)
}

func TestMigrateStatus(t *testing.T) {
	m := &fakeMigrator{status: &store.Status{
		Version: 1,
		Applied: []store.Migration{{Version: 1, Name: "create_users"}},
		Pending: []store.Migration{{Version: 2, Name: "create_otp_records"}},
	}}
	out, err := runMigrateCmd(t, m, testConfig(), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version: 1 (clean)")
	assert.Contains(t, out, "[x] 000001 create_users")
	assert.Contains(t, out, "[ ] 000002 create_otp_records")
	assert.NotContains(t, out, "No pending migrations")
}

func TestMigrateForce(t *testing.T) {
	m := &fakeMigrator{}
	out, err := runMigrateCmd(t, m, testConfig(), "force", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, m.forced)
	assert.Contains(t, out, "Forced schema version to 3")
}

func TestMigrate_Errors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		cfg := testConfig()
		cfg.Database.URL = ""
		_, err := runMigrateCmd(t, &fakeMigrator{}, cfg, "up")
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})

	t.Run("migration failure", func(t *testing.T) {
		m := &fakeMigrator{err: oops.Code("MIGRATION_UP_FAILED").Errorf("syntax error")}
		_, err := runMigrateCmd(t, m, testConfig(), "up")
		errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
		assert.True(t, m.closed, "migrator closed after a failure")
	})

	t.Run("close failure surfaces", func(t *testing.T) {
		m := &fakeMigrator{closeEr: errors.New("connection reset")}
		_, err := runMigrateCmd(t, m, testConfig(), "up")
		require.Error(t, err)
	})
}

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErr     bool
	}{
		{name: "valid integer", input: "3", wantVersion: 3},
		{name: "zero is valid", input: "0", wantVersion: 0},
		{name: "leading whitespace is handled", input: "  42", wantVersion: 42},
		{name: "non-numeric returns error", input: "abc", wantErr: true},
		{name: "float returns error", input: "1.5", wantErr: true},
		{name: "trailing chars return error", input: "3abc", wantErr: true},
		{name: "negative returns error", input: "-1", wantErr: true},
		{name: "empty string returns error", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseForceVersion(tt.input)
			if tt.wantErr {
				errutil.AssertErrorCode(t, err, "INVALID_VERSION")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, got)
		})
	}
}
