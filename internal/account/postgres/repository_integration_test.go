// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/postgres"
)

func newUser(email, userName string) *account.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &account.User{
		ID:           ulid.Make(),
		Name:         "Ada Lovelace",
		UserName:     userName,
		Email:        email,
		PasswordHash: "$argon2id$placeholder",
		Role:         account.RoleUser,
		Status:       account.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var _ = Describe("UserRepository", func() {
	var users *postgres.UserRepository

	BeforeEach(func() {
		truncate()
		users = postgres.NewUserRepository(pool)
	})

	It("round-trips a user and finds it by email ignoring case", func() {
		u := newUser("ada@example.com", "ada")
		Expect(users.Create(suiteCtx, u)).To(Succeed())

		got, err := users.GetByEmail(suiteCtx, "ADA@Example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(u.ID))
		Expect(got.Role).To(Equal(account.RoleUser))
		Expect(got.CreatedAt).To(BeTemporally("~", u.CreatedAt, time.Millisecond))
		Expect(got.PasswordChangedAt).To(BeNil())
	})

	It("reports duplicates", func() {
		Expect(users.Create(suiteCtx, newUser("ada@example.com", "ada"))).To(Succeed())

		err := users.Create(suiteCtx, newUser("ADA@example.com", "ada2"))
		Expect(errors.Is(err, account.ErrDuplicate)).To(BeTrue())

		err = users.Create(suiteCtx, newUser("other@example.com", "ada"))
		Expect(errors.Is(err, account.ErrDuplicate)).To(BeTrue())

		exists, err := users.ExistsByEmailOrUserName(suiteCtx, "nobody@example.com", "ada")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("updates the password and keeps the logout time when none is given", func() {
		u := newUser("ada@example.com", "ada")
		Expect(users.Create(suiteCtx, u)).To(Succeed())

		first := time.Now().UTC().Truncate(time.Second)
		Expect(users.UpdatePassword(suiteCtx, u.ID, "hash-1", first, &first)).To(Succeed())
		Expect(users.UpdatePassword(suiteCtx, u.ID, "hash-2", first.Add(time.Minute), nil)).To(Succeed())

		got, err := users.GetByID(suiteCtx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.PasswordHash).To(Equal("hash-2"))
		Expect(*got.PasswordChangedAt).To(BeTemporally("==", first.Add(time.Minute)))
		Expect(*got.OtherDevicesLogOutAt).To(BeTemporally("==", first))
	})

	It("rejects values outside the allowed sets", func() {
		u := newUser("ada@example.com", "ada")
		Expect(users.Create(suiteCtx, u)).To(Succeed())
		Expect(users.UpdateStatus(suiteCtx, u.ID, account.Status("frozen"))).NotTo(Succeed())
	})

	It("returns ErrNotFound for unknown users", func() {
		_, err := users.GetByID(suiteCtx, ulid.Make())
		Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		err = users.UpdateRole(suiteCtx, ulid.Make(), account.RoleAdmin)
		Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
	})
})

var _ = Describe("OTPRepository", func() {
	var (
		users *postgres.UserRepository
		otps  *postgres.OTPRepository
		owner *account.User
	)

	BeforeEach(func() {
		truncate()
		users = postgres.NewUserRepository(pool)
		otps = postgres.NewOTPRepository(pool)
		owner = newUser("ada@example.com", "ada")
		Expect(users.Create(suiteCtx, owner)).To(Succeed())
	})

	issue := func(tokenHash string, createdAt time.Time) *account.OTPRecord {
		rec, err := account.NewOTPRecord(owner.ID, account.PurposeResetPassword,
			account.HashSecret("48213"), tokenHash, createdAt, createdAt.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(otps.Create(suiteCtx, rec)).To(Succeed())
		return rec
	}

	It("lets only one concurrent verification win", func() {
		rec := issue("t1", time.Now().UTC())

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				won, err := otps.MarkUsed(suiteCtx, rec.ID, account.HashSecret(string(rune('a'+i))), time.Now().UTC())
				Expect(err).NotTo(HaveOccurred())
				if won {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()
		Expect(wins.Load()).To(Equal(int32(1)))
	})

	It("supersedes earlier records and finds the newest", func() {
		now := time.Now().UTC()
		issue("t1", now.Add(-time.Minute))

		n, err := otps.SupersedeActive(suiteCtx, owner.ID, account.PurposeResetPassword, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))
		issue("t2", now)

		_, err = otps.FindActive(suiteCtx, owner.ID, account.PurposeResetPassword, "t1")
		Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())

		got, err := otps.FindActive(suiteCtx, owner.ID, account.PurposeResetPassword, "t2")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Used).To(BeFalse())
	})

	It("does not mark an expired record used", func() {
		rec := issue("t1", time.Now().UTC().Add(-10*time.Minute))
		won, err := otps.MarkUsed(suiteCtx, rec.ID, "t2", time.Now().UTC())
		Expect(err).NotTo(HaveOccurred())
		Expect(won).To(BeFalse())
	})

	It("finishes a verified record once", func() {
		now := time.Now().UTC()
		rec := issue("t1", now)
		won, err := otps.MarkUsed(suiteCtx, rec.ID, "t2", now)
		Expect(err).NotTo(HaveOccurred())
		Expect(won).To(BeTrue())

		verified, err := otps.FindVerified(suiteCtx, owner.ID, account.PurposeResetPassword, "t2")
		Expect(err).NotTo(HaveOccurred())
		Expect(verified.ID).To(Equal(rec.ID))

		done, err := otps.Finish(suiteCtx, owner.ID, account.PurposeResetPassword, "t2", now)
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())

		done, err = otps.Finish(suiteCtx, owner.ID, account.PurposeResetPassword, "t2", now)
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeFalse())
	})

	It("deletes expired records and cascades with the user", func() {
		now := time.Now().UTC()
		issue("old", now.Add(-time.Hour))
		issue("new", now)

		n, err := otps.DeleteExpired(suiteCtx, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))

		_, err = pool.Exec(suiteCtx, `DELETE FROM users WHERE id = $1`, owner.ID.String())
		Expect(err).NotTo(HaveOccurred())
		var left int
		Expect(pool.QueryRow(suiteCtx, `SELECT count(*) FROM otp_records`).Scan(&left)).To(Succeed())
		Expect(left).To(BeZero())
	})
})

var _ = Describe("Transactor", func() {
	BeforeEach(truncate)

	It("rolls back every write when the function fails", func() {
		tx := postgres.NewTransactor(pool)
		users := postgres.NewUserRepository(pool)
		boom := errors.New("boom")

		err := tx.InTransaction(suiteCtx, func(ctx context.Context) error {
			Expect(users.Create(ctx, newUser("ada@example.com", "ada"))).To(Succeed())
			return boom
		})
		Expect(errors.Is(err, boom)).To(BeTrue())

		exists, err := users.ExistsByEmailOrUserName(suiteCtx, "ada@example.com", "ada")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})
})
