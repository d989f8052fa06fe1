// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZewK3/hrportal/internal/users/admin"
)

var adminInput admin.AdminInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active administrator account",
	Long:  "Create an administrator that can sign in immediately, bypassing email verification and approval.",
	Args:  cobra.NoArgs,
	RunE:  runCreateAdmin,
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminInput.Email, "email", "", "administrator email (required)")
	flags.StringVar(&adminInput.Password, "password", "", "initial password (required)")
	flags.StringVar(&adminInput.FirstName, "first-name", "", "first name (required)")
	flags.StringVar(&adminInput.LastName, "last-name", "", "last name (required)")
	for _, name := range []string{"email", "password", "first-name", "last-name"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := commandLogger(cmd)
	users, closeStore, err := openUserStore(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}
	defer closeStore()

	user, err := admin.CreateAdmin(cmd.Context(), users, adminInput, time.Now())
	if err != nil {
		return fmt.Errorf("create admin failed: %w", err)
	}

	cmd.Printf("Administrator %s created (id %s).\n", user.Email, user.ID)
	return nil
}
