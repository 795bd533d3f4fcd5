// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tableinfoCmd shows the combined detail view of a table: catalog row,
// columns, primary key and indexes.
var tableinfoCmd = &cobra.Command{
	Use:   "tableinfo LIBRARY TABLE",
	Short: "Show table details: columns, primary key and indexes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		info, err := svc.GetTableInfo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		title := info.Table.Name
		if info.Table.Text != "" {
			title = fmt.Sprintf("%s - %s", info.Table.Name, info.Table.Text)
		}
		pterm.DefaultSection.Println(title)
		pterm.Printfln("Type: %s", info.Table.Type)
		if len(info.PrimaryKey) > 0 {
			pterm.Printfln("Primary key: %s", strings.Join(info.PrimaryKey, ", "))
		} else {
			pterm.Printfln("Primary key: none")
		}
		pterm.Println()

		rows := make([][]string, 0, len(info.Columns))
		for _, c := range info.Columns {
			key := ""
			if c.KeySequence != nil {
				key = fmt.Sprintf("%d", *c.KeySequence)
			}
			rows = append(rows, []string{c.Name, c.DataType, fmt.Sprintf("%d", c.Length), key, c.Text})
		}
		if err := renderTable([]string{"Column", "Type", "Length", "Key", "Label"}, rows); err != nil {
			return err
		}

		if len(info.Indexes) > 0 {
			pterm.Println()
			idxRows := make([][]string, 0, len(info.Indexes))
			for _, idx := range info.Indexes {
				unique := ""
				if idx.Unique {
					unique = "Y"
				}
				idxRows = append(idxRows, []string{idx.Name, unique, idx.Text})
			}
			return renderTable([]string{"Index", "Unique", "Description"}, idxRows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableinfoCmd)
}
