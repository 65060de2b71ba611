// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/config"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
}

// rootDeps carries the injectable dependencies of every subcommand. Nil
// members use the defaults.
type rootDeps struct {
	serve       *ServeDeps
	migrate     *MigrateDeps
	maintenance *MaintenanceDeps
	status      *StatusDeps
}

// NewRootCmd creates the root command for the Keyward CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(rootDeps{})
}

func newRootCmd(deps rootDeps) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "keyward",
		Short: "Keyward - account and credential recovery service",
		Long: `Keyward issues access and refresh tokens, manages user accounts and
runs two-stage password recovery with one-time codes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/keyward/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file merged into the environment when present")

	cmd.AddCommand(newServeCmd(flags, deps.serve))
	cmd.AddCommand(newMigrateCmd(flags, deps.migrate))
	cmd.AddCommand(newSeedCmd(flags, deps.maintenance))
	cmd.AddCommand(newReapCmd(flags, deps.maintenance))
	cmd.AddCommand(newStatusCmd(flags, deps.status))

	return cmd
}

// loadOptions builds the config sources for cmd. Maintenance commands skip
// validation since they never issue tokens.
func (g *globalFlags) loadOptions(cmd *cobra.Command, skipValidation bool) config.LoadOptions {
	return config.LoadOptions{
		File:           g.configFile,
		EnvFile:        g.envFile,
		Flags:          cmd.Flags(),
		SkipValidation: skipValidation,
	}
}
