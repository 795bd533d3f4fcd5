// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var sqlMaxRows int

// sqlCmd runs one read-only statement. Anything that is not a single
// SELECT is rejected before it reaches the host.
var sqlCmd = &cobra.Command{
	Use:   "sql STATEMENT",
	Short: "Run a read-only SQL statement",
	Long: `The sql command runs a single SELECT statement against the host and prints
the result. Statements that could modify data or objects, and scripts with
more than one statement, are rejected locally before any connection is made.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		set, err := svc.RunQuery(cmd.Context(), args[0], sqlMaxRows)
		if err != nil {
			return err
		}
		return renderRowSet(set)
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)
	sqlCmd.Flags().IntVar(&sqlMaxRows, "max-rows", 0, "Row limit (0 uses the configured default)")
}
