// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"ibridge/cli/internal/keychain"
	"ibridge/cli/internal/logging"
)

// hostinfoCmd shows the configured host connection with the credential
// masked.
var hostinfoCmd = &cobra.Command{
	Use:   "hostinfo",
	Short: "Show the current host connection string",
	Long: `The hostinfo command displays the configured IBM i connection string with
the password masked. This helps verify which host you are connected to
without exposing credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if env := strings.TrimSpace(os.Getenv("IBRIDGE_DSN")); env != "" {
			raw = env
			pterm.Println("Using connection from IBRIDGE_DSN environment variable")
			pterm.Println()
		}

		if raw == "" {
			km, err := keychain.GetManager()
			if err != nil {
				pterm.Println("❌ Secure storage is not available on this system")
				return err
			}
			raw, err = km.LoadHostDSN()
			if err != nil || strings.TrimSpace(raw) == "" {
				pterm.Println("⚠️  No host connection configured")
				pterm.Println("   Please run: ibridge connect")
				return nil
			}
			pterm.Println("Using connection from OS keychain")
			pterm.Println()
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Host Connection")).
			WithPadding(1).
			Println(logging.Mask(raw))
		pterm.Println()
		pterm.Println("To update this connection, run: ibridge connect")
		pterm.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostinfoCmd)
}
