// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZewK3/hrportal/internal/platform/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, commandLogger(cmd)); err != nil {
			return err
		}
		cmd.Println("Migrations applied.")
		return nil
	},
}

var migrateSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps <= 0 {
			return fmt.Errorf("--steps must be positive")
		}
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, migrateSteps, commandLogger(cmd)); err != nil {
			return err
		}
		cmd.Printf("Rolled back %d migration(s).\n", migrateSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		version, dirty, err := migration.Version(cfg.DatabaseURL, cfg.MigrationPath, commandLogger(cmd))
		if err != nil {
			return err
		}
		cmd.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
