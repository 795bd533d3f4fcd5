// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	tablesPattern string
	tablesKind    string
)

// tablesCmd lists the tables (physical and logical files) of a library.
var tablesCmd = &cobra.Command{
	Use:   "tables LIBRARY",
	Short: "List tables and files in a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		tables, err := svc.ListTables(cmd.Context(), args[0], tablesPattern, tablesKind)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			emptyHint("tables")
			return nil
		}
		rows := make([][]string, 0, len(tables))
		for _, t := range tables {
			rows = append(rows, []string{t.Name, t.Type, t.Text})
		}
		return renderTable([]string{"Table", "Type", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().StringVarP(&tablesPattern, "pattern", "p", "%", "Table name pattern (% wildcard)")
	tablesCmd.Flags().StringVarP(&tablesKind, "kind", "k", "ALL", "Table kind: ALL, P (physical), L (logical), V (view)")
}
