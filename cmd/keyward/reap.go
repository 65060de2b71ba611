// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/reaper"
)

// newReapCmd creates the reap subcommand.
func newReapCmd(flags *globalFlags, deps *MaintenanceDeps) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Delete expired OTP records once",
		Long: `Runs a single reaper cycle: deletes OTP records that expired more than
otp.reap_grace ago. serve runs the same cycle every otp.reap_interval.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReap(cmd, flags, timeout, deps)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")

	return cmd
}

func runReap(cmd *cobra.Command, flags *globalFlags, timeout time.Duration, deps *MaintenanceDeps) error {
	deps = deps.withDefaults()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, db, err := deps.openDatabase(ctx, cmd, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	otps := postgres.NewOTPRepository(db)
	r, err := reaper.New(reaper.PurgerFunc(otps.DeleteExpired),
		reaper.Config{Interval: cfg.OTP.ReapInterval, Grace: cfg.OTP.ReapGrace},
		reaper.WithClock(deps.Now),
	)
	if err != nil {
		return err
	}

	n, err := r.RunOnce(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Deleted %d expired OTP record(s)\n", n)
	return nil
}
