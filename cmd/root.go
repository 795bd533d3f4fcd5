// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Ibridge CLI.
// It implements subcommands for connecting to an IBM i host, browsing
// its catalog metadata, reading source members and table data, and
// deploying source with remote compilation, using the Cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ibridge/cli/internal/logging"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "ibridge",
	Short:         "Ibridge CLI for IBM i metadata introspection and source deployment",
	Long: `Ibridge is a command-line tool for working with IBM i (AS/400) hosts:
browsing libraries, tables and source members through the QSYS2 catalog,
running read-only queries, and deploying source members with remote
compilation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("ibridge %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Connection strings can leak into driver errors; mask before printing.
		fmt.Fprintln(os.Stderr, logging.Mask(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
