// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package seed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/accounttest"
	"github.com/keyward/keyward/internal/schema"
	"github.com/keyward/keyward/pkg/errutil"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const sample = `
users:
  - name: Root Admin
    userName: root
    email: Root@Example.com
    password: change-me-now
    role: superAdmin
  - name: Ana Lima
    userName: ana
    email: ana@example.com
    password: secret1
    status: pending
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fastHasher(t *testing.T) *account.Argon2idHasher {
	t.Helper()
	h, err := account.NewArgon2idHasher(account.HashParams{Time: 1, MemoryKiB: 1024, Threads: 1})
	require.NoError(t, err)
	return h
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Users, 2)
	assert.Equal(t, "superAdmin", f.Users[0].Role)
	assert.Equal(t, "pending", f.Users[1].Status)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{"empty users", "users: []\n", "The seed file needs at least one user."},
		{"bad email", "users:\n  - {name: Ana, userName: ana, email: nope, password: secret1}\n", "Invalid email format."},
		{"unknown role", "users:\n  - {name: Ana, userName: ana, email: a@example.com, password: secret1, role: god}\n", "Role must be one of user, admin or superAdmin."},
		{"short password", "users:\n  - {name: Ana, userName: ana, email: a@example.com, password: abc}\n", "Password must be at least 6 characters long."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			errutil.AssertErrorCode(t, err, schema.CodeInvalid)
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, oopsErr.Public())
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	assert.Equal(t, "Keyward seed file", doc["title"])
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	users := accounttest.NewUserStore()
	hasher := fastHasher(t)
	ctx := context.Background()

	res, err := Apply(ctx, users, hasher, f, baseTime, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, res)

	root, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.RoleSuperAdmin, root.Role)
	assert.Equal(t, account.StatusActive, root.Status)
	ok, err := hasher.Verify("change-me-now", root.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ana, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.StatusPending, ana.Status)
	assert.Equal(t, baseTime, ana.CreatedAt)

	res, err = Apply(ctx, users, hasher, f, baseTime, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res, "a second run changes nothing")
}

type failingRepo struct {
	account.UserRepository
	existsErr error
	createErr error
}

func (r failingRepo) ExistsByEmailOrUserName(context.Context, string, string) (bool, error) {
	return false, r.existsErr
}

func (r failingRepo) Create(context.Context, *account.User) error { return r.createErr }

func TestApply_Failures(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	hasher := fastHasher(t)

	_, err = Apply(context.Background(), failingRepo{existsErr: errors.New("conn refused")}, hasher, f, baseTime, quietLogger())
	errutil.AssertErrorCode(t, err, "SEED_FAILED")
	errutil.AssertErrorContext(t, err, "operation", "check existing user")

	res, err := Apply(context.Background(), failingRepo{createErr: account.ErrDuplicate}, hasher, f, baseTime, quietLogger())
	require.NoError(t, err, "a concurrent insert counts as skipped")
	assert.Equal(t, 2, res.Skipped)
}
