// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

//go:build integration

package cli_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

const seedYAML = `users:
  - name: Root Admin
    userName: root
    email: Root@Example.com
    password: change-me-now
    role: superAdmin
`

var _ = Describe("Maintenance commands", func() {
	var ctx context.Context
	var seedPath string

	BeforeEach(func() {
		ctx = context.Background()
		resetDatabase(ctx, env.pool)

		seedPath = filepath.Join(GinkgoT().TempDir(), "seed.yaml")
		Expect(os.WriteFile(seedPath, []byte(seedYAML), 0o600)).To(Succeed())

		output, err := keyward(ctx, "migrate", "up")
		Expect(err).NotTo(HaveOccurred(), "migrate failed: %s", output)
		Expect(output).To(ContainSubstring("Migrations completed successfully"))
	})

	Describe("migrate", func() {
		It("reports every migration as applied", func() {
			output, err := keyward(ctx, "migrate", "status")
			Expect(err).NotTo(HaveOccurred(), "status failed: %s", output)
			Expect(output).To(ContainSubstring("(clean)"))
			Expect(output).To(ContainSubstring("No pending migrations"))
		})

		It("rolls back and re-applies", func() {
			output, err := keyward(ctx, "migrate", "down", "--all")
			Expect(err).NotTo(HaveOccurred(), "down failed: %s", output)

			var exists bool
			Expect(env.pool.QueryRow(ctx, `SELECT to_regclass('public.users') IS NOT NULL`).Scan(&exists)).To(Succeed())
			Expect(exists).To(BeFalse())

			output, err = keyward(ctx, "migrate", "up")
			Expect(err).NotTo(HaveOccurred(), "up failed: %s", output)
		})
	})

	Describe("seed", func() {
		It("creates the superAdmin with a hashed password", func() {
			output, err := keyward(ctx, "seed", "--file", seedPath)
			Expect(err).NotTo(HaveOccurred(), "seed failed: %s", output)
			Expect(output).To(ContainSubstring("1 created, 0 skipped"))

			var email, role, status, hash string
			err = env.pool.QueryRow(ctx,
				"SELECT email, role, status, password_hash FROM users WHERE user_name = $1", "root",
			).Scan(&email, &role, &status, &hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(email).To(Equal("root@example.com"))
			Expect(role).To(Equal("superAdmin"))
			Expect(status).To(Equal("active"))
			Expect(hash).To(HavePrefix("$argon2id$"))
		})

		It("is idempotent (running twice succeeds without duplicates)", func() {
			output, err := keyward(ctx, "seed", "--file", seedPath)
			Expect(err).NotTo(HaveOccurred(), "first seed failed: %s", output)

			output, err = keyward(ctx, "seed", "--file", seedPath)
			Expect(err).NotTo(HaveOccurred(), "second seed failed: %s", output)
			Expect(output).To(ContainSubstring("0 created, 1 skipped"))

			var count int
			Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
		})

		It("rejects a file that fails the schema", func() {
			bad := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
			Expect(os.WriteFile(bad, []byte("users:\n  - {name: Ana, email: a@example.com, password: secret1}\n"), 0o600)).To(Succeed())

			output, err := keyward(ctx, "seed", "--file", bad)
			Expect(err).To(HaveOccurred())
			Expect(output).To(ContainSubstring("Username must be at least 3 characters long."))
		})
	})

	Describe("reap", func() {
		It("deletes expired records only", func() {
			output, err := keyward(ctx, "seed", "--file", seedPath)
			Expect(err).NotTo(HaveOccurred(), "seed failed: %s", output)

			_, err = env.pool.Exec(ctx, `
				INSERT INTO otp_records (id, user_id, purpose, code_hash, token_hash, expires_at)
				SELECT v.id, u.id, 'reset_password', 'c', 't', now() + v.offset_interval
				FROM users u, (VALUES
					('01JAAAAAAAAAAAAAAAAAAAAAA1', interval '-3 hours'),
					('01JAAAAAAAAAAAAAAAAAAAAAA2', interval '10 minutes')
				) AS v(id, offset_interval)`)
			Expect(err).NotTo(HaveOccurred())

			output, err = keyward(ctx, "reap")
			Expect(err).NotTo(HaveOccurred(), "reap failed: %s", output)
			Expect(output).To(ContainSubstring("Deleted 1 expired OTP record(s)"))

			var remaining int
			Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM otp_records").Scan(&remaining)).To(Succeed())
			Expect(remaining).To(Equal(1))
		})
	})
})
