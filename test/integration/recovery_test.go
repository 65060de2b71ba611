// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/accounttest"
	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/httpapi"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type ticket struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// apiEnv is an in-process API over the suite database.
type apiEnv struct {
	server *httptest.Server
	sender *accounttest.Sender
	events *accounttest.Events
}

func newAPIEnv() *apiEnv {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := postgres.NewUserRepository(pool)
	hasher, err := account.NewArgon2idHasher(account.HashParams{Time: 1, MemoryKiB: 1024, Threads: 1})
	Expect(err).NotTo(HaveOccurred())
	tokens, err := account.NewTokenService(account.TokenConfig{
		Issuer:         "keyward-test",
		Access:         account.TokenSpec{Secret: "access-secret", TTL: 15 * time.Minute},
		Refresh:        account.TokenSpec{Secret: "refresh-secret", TTL: time.Hour},
		RecoveryStage1: account.TokenSpec{Secret: "stage1-secret", TTL: 10 * time.Minute},
		RecoveryStage2: account.TokenSpec{Secret: "stage2-secret", TTL: 10 * time.Minute},
	})
	Expect(err).NotTo(HaveOccurred())
	otps, err := account.NewOTPStore(postgres.NewOTPRepository(pool), tokens, account.DefaultOTPConfig())
	Expect(err).NotTo(HaveOccurred())

	env := &apiEnv{sender: &accounttest.Sender{}, events: &accounttest.Events{}}
	recovery, err := account.NewRecoveryService(users, otps, tokens, hasher, env.sender,
		postgres.NewTransactor(pool),
		account.WithRecoveryLogger(logger),
		account.WithRecoveryEvents(env.events),
	)
	Expect(err).NotTo(HaveOccurred())
	svc, err := account.NewService(users, tokens, hasher, recovery,
		account.WithLogger(logger),
		account.WithEvents(env.events),
	)
	Expect(err).NotTo(HaveOccurred())

	env.server = httptest.NewServer(httpapi.New(svc, httpapi.WithLogger(logger)))
	DeferCleanup(env.server.Close)
	return env
}

func (e *apiEnv) post(path string, body any) (int, envelope) {
	data, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())
	resp, err := http.Post(e.server.URL+httpapi.BasePath+path, "application/json", bytes.NewReader(data))
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	Expect(json.NewDecoder(resp.Body).Decode(&env)).To(Succeed())
	return resp.StatusCode, env
}

func (e *apiEnv) lastCode() string {
	msg, ok := e.sender.Last()
	Expect(ok).To(BeTrue(), "no recovery code was sent")
	return msg.Code
}

func decodeTicket(env envelope) ticket {
	var t ticket
	Expect(json.Unmarshal(env.Data, &t)).To(Succeed())
	Expect(t.Token).NotTo(BeEmpty())
	return t
}

var _ = Describe("Password recovery over HTTP", func() {
	var api *apiEnv

	BeforeEach(func() {
		_, err := pool.Exec(suiteCtx, `TRUNCATE users, otp_records`)
		Expect(err).NotTo(HaveOccurred())
		api = newAPIEnv()

		status, env := api.post("/users", map[string]string{
			"name":     "Ana Lima",
			"userName": "ana",
			"email":    "ana@example.com",
			"password": "old-secret",
		})
		Expect(status).To(Equal(http.StatusOK), env.Message)
	})

	It("resets the password with a valid code", func() {
		status, env := api.post("/auth/forget-password", map[string]string{"email": "ANA@example.com"})
		Expect(status).To(Equal(http.StatusOK), env.Message)
		stage1 := decodeTicket(env)

		status, env = api.post("/auth/verify-otp", map[string]string{"token": stage1.Token, "otp": api.lastCode()})
		Expect(status).To(Equal(http.StatusOK), env.Message)
		stage2 := decodeTicket(env)

		status, env = api.post("/auth/reset-password", map[string]string{"token": stage2.Token, "newPassword": "new-secret"})
		Expect(status).To(Equal(http.StatusOK), env.Message)
		Expect(env.Message).To(Equal("Password changed successfully. Please login."))

		status, _ = api.post("/auth/login", map[string]string{"email": "ana@example.com", "password": "old-secret"})
		Expect(status).NotTo(Equal(http.StatusOK))
		status, env = api.post("/auth/login", map[string]string{"email": "ana@example.com", "password": "new-secret"})
		Expect(status).To(Equal(http.StatusOK), env.Message)

		Expect(api.events.Types()).To(ContainElements(
			account.EventRecoveryRequested,
			account.EventRecoveryVerified,
			account.EventRecoveryCompleted,
		))
	})

	It("honours only the latest code", func() {
		_, env := api.post("/auth/forget-password", map[string]string{"email": "ana@example.com"})
		first := decodeTicket(env)
		firstCode := api.lastCode()

		_, env = api.post("/auth/forget-password", map[string]string{"email": "ana@example.com"})
		second := decodeTicket(env)
		secondCode := api.lastCode()

		status, env := api.post("/auth/verify-otp", map[string]string{"token": first.Token, "otp": firstCode})
		Expect(status).NotTo(Equal(http.StatusOK))
		Expect(env.Success).To(BeFalse())

		status, env = api.post("/auth/verify-otp", map[string]string{"token": second.Token, "otp": secondCode})
		Expect(status).To(Equal(http.StatusOK), env.Message)

		var open, finished int
		Expect(pool.QueryRow(suiteCtx,
			`SELECT count(*) FILTER (WHERE NOT used AND NOT is_finished), count(*) FILTER (WHERE is_finished) FROM otp_records`,
		).Scan(&open, &finished)).To(Succeed())
		Expect(open).To(BeZero())
		Expect(finished).To(Equal(1), "the first record was superseded")
	})

	It("rejects a stage-2 token once it has been used", func() {
		_, env := api.post("/auth/forget-password", map[string]string{"email": "ana@example.com"})
		stage1 := decodeTicket(env)
		_, env = api.post("/auth/verify-otp", map[string]string{"token": stage1.Token, "otp": api.lastCode()})
		stage2 := decodeTicket(env)

		status, env := api.post("/auth/reset-password", map[string]string{"token": stage2.Token, "newPassword": "new-secret"})
		Expect(status).To(Equal(http.StatusOK), env.Message)

		status, env = api.post("/auth/reset-password", map[string]string{"token": stage2.Token, "newPassword": "other-secret"})
		Expect(status).NotTo(Equal(http.StatusOK))
		Expect(env.Success).To(BeFalse())
	})

	It("does not reveal the reason for an unknown email", func() {
		status, env := api.post("/auth/forget-password", map[string]string{"email": "nobody@example.com"})
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("This user is not found!"))
		Expect(api.sender.Count()).To(BeZero())
	})
})
