// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"ibridge/cli/internal/catalog"
)

var dataMaxRows int

// dataCmd reads table rows with catalog labels in the header.
var dataCmd = &cobra.Command{
	Use:   "data LIBRARY TABLE",
	Short: "Read rows from a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		set, err := svc.GetData(cmd.Context(), args[0], args[1], dataMaxRows)
		if err != nil {
			return err
		}
		return renderRowSet(set)
	},
}

// renderRowSet prints a bounded result set, using labels where the
// catalog has them.
func renderRowSet(set *catalog.RowSet) error {
	if len(set.Rows) == 0 {
		emptyHint("rows")
		return nil
	}
	header := make([]string, len(set.Columns))
	for i, c := range set.Columns {
		header[i] = c.Name
		if c.Label != "" {
			header[i] = c.Name + " (" + c.Label + ")"
		}
	}
	if err := renderTable(header, set.Rows); err != nil {
		return err
	}
	if set.Truncated {
		pterm.Println()
		pterm.Info.Println("Result truncated; raise --max-rows to see more")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.Flags().IntVar(&dataMaxRows, "max-rows", 0, "Row limit (0 uses the configured default)")
}
