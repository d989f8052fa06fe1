// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/ZewK3/hrportal/internal/security/loginguard"
)

var unlockIPCmd = &cobra.Command{
	Use:   "unlock-ip <ip>",
	Short: "Release a client IP locked by failed logins",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlockIP,
}

func init() {
	rootCmd.AddCommand(unlockIPCmd)
}

func runUnlockIP(cmd *cobra.Command, args []string) error {
	ip := args[0]
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("%q is not an IP address", ip)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := commandLogger(cmd)
	store, closeStore, err := openCounterStore(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}
	defer closeStore()

	guard := loginguard.New(store, loginguard.PolicyFromConfig(cfg.LoginGuard, log))
	if err := guard.Clear(cmd.Context(), ip); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}

	cmd.Printf("Login attempts for %s cleared.\n", ip)
	return nil
}
