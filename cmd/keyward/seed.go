// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/account/postgres"
	"github.com/keyward/keyward/internal/logging"
	"github.com/keyward/keyward/internal/seed"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// newSeedCmd creates the seed subcommand.
func newSeedCmd(flags *globalFlags, deps *MaintenanceDeps) *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create initial user accounts from a YAML file",
		Long: `Creates the users listed in a seed file, typically the first superAdmin.
The file is validated against schemas/seed.schema.json before anything is
written. This command is idempotent - users whose email or user name
already exists are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, flags, cfg, deps)
		},
	}

	cmd.Flags().StringVarP(&cfg.file, "file", "f", "seed.yaml", "seed file path")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")

	return cmd
}

func runSeed(cmd *cobra.Command, flags *globalFlags, cfg *seedConfig, deps *MaintenanceDeps) error {
	deps = deps.withDefaults()

	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return oops.Code("SEED_FILE_UNREADABLE").With("path", cfg.file).Wrap(err)
	}
	doc, err := seed.Parse(data)
	if err != nil {
		reason := "invalid document"
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Public() != "" {
			reason = oopsErr.Public()
		}
		return oops.With("path", cfg.file).Wrapf(err, "%s: %s", cfg.file, reason)
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	conf, db, err := deps.openDatabase(ctx, cmd, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	hasher, err := account.NewArgon2idHasher(conf.HashParams())
	if err != nil {
		return oops.With("section", "hash").Wrap(err)
	}
	logger := logging.Setup(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  "text",
		Writer:  cmd.ErrOrStderr(),
	})

	res, err := seed.Apply(ctx, postgres.NewUserRepository(db), hasher, doc, deps.Now().UTC(), logger)
	if err != nil {
		return err
	}

	cmd.Printf("Seeding complete: %d created, %d skipped\n", res.Created, res.Skipped)
	return nil
}
