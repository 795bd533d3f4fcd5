// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// columnsCmd lists the columns of a table with their labels and key
// positions.
var columnsCmd = &cobra.Command{
	Use:   "columns LIBRARY TABLE",
	Short: "List the columns of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		cols, err := svc.GetColumns(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			emptyHint("columns")
			return nil
		}
		rows := make([][]string, 0, len(cols))
		for _, c := range cols {
			typ := c.DataType
			if c.DecimalPlaces > 0 {
				typ = fmt.Sprintf("%s(%d,%d)", c.DataType, c.Length, c.DecimalPlaces)
			} else if c.Length > 0 {
				typ = fmt.Sprintf("%s(%d)", c.DataType, c.Length)
			}
			null := ""
			if c.Nullable {
				null = "Y"
			}
			key := ""
			if c.KeySequence != nil {
				key = fmt.Sprintf("%d", *c.KeySequence)
			}
			rows = append(rows, []string{c.Name, typ, null, key, c.Text})
		}
		return renderTable([]string{"Column", "Type", "Null", "Key", "Label"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
