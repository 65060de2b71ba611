// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

//go:build integration

package postgres_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/accounttest"
	"github.com/keyward/keyward/internal/account/postgres"
)

var _ = Describe("password recovery on PostgreSQL", func() {
	var (
		svc    *account.Service
		sender *accounttest.Sender
	)

	BeforeEach(func() {
		truncate()

		hasher, err := account.NewArgon2idHasher(account.HashParams{Time: 1, MemoryKiB: 1024, Threads: 1})
		Expect(err).NotTo(HaveOccurred())
		tokens, err := account.NewTokenService(account.TokenConfig{
			Issuer:         "keyward-it",
			Access:         account.TokenSpec{Secret: "a", TTL: time.Minute},
			Refresh:        account.TokenSpec{Secret: "r", TTL: time.Hour},
			RecoveryStage1: account.TokenSpec{Secret: "s1", TTL: 10 * time.Minute},
			RecoveryStage2: account.TokenSpec{Secret: "s2", TTL: 10 * time.Minute},
		})
		Expect(err).NotTo(HaveOccurred())

		users := postgres.NewUserRepository(pool)
		otps, err := account.NewOTPStore(postgres.NewOTPRepository(pool), tokens, account.DefaultOTPConfig())
		Expect(err).NotTo(HaveOccurred())

		sender = &accounttest.Sender{}
		recovery, err := account.NewRecoveryService(users, otps, tokens, hasher, sender,
			postgres.NewTransactor(pool))
		Expect(err).NotTo(HaveOccurred())
		svc, err = account.NewService(users, tokens, hasher, recovery)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.CreateUser(suiteCtx, account.NewUserInput{
			Name: "Ada Lovelace", UserName: "ada", Email: "ada@example.com", Password: "OldPass123",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("resets the password and refuses replays", func() {
		ticket, err := svc.RequestRecovery(suiteCtx, "ada@example.com")
		Expect(err).NotTo(HaveOccurred())
		msg, ok := sender.Last()
		Expect(ok).To(BeTrue())

		reset, err := svc.VerifyRecoveryCode(suiteCtx, ticket.Token, msg.Code)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.VerifyRecoveryCode(suiteCtx, ticket.Token, msg.Code)
		Expect(account.KindOf(err)).To(Equal(account.KindNotFound))

		Expect(svc.CommitRecovery(suiteCtx, reset.Token, "NewPass123")).To(Succeed())
		Expect(account.KindOf(svc.CommitRecovery(suiteCtx, reset.Token, "Other123"))).To(Equal(account.KindUnauthorized))

		_, err = svc.Login(suiteCtx, "ada@example.com", "NewPass123")
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.Login(suiteCtx, "ada@example.com", "OldPass123")
		Expect(account.KindOf(err)).To(Equal(account.KindForbidden))
	})

	It("invalidates the first ticket when a second is requested", func() {
		first, err := svc.RequestRecovery(suiteCtx, "ada@example.com")
		Expect(err).NotTo(HaveOccurred())
		firstMsg, _ := sender.Last()

		_, err = svc.RequestRecovery(suiteCtx, "ada@example.com")
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.VerifyRecoveryCode(suiteCtx, first.Token, firstMsg.Code)
		Expect(account.KindOf(err)).To(Equal(account.KindNotFound))
	})
})
