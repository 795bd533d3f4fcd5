// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dataAreasPattern string

// dataAreasCmd lists the data areas of a library with their current
// values.
var dataAreasCmd = &cobra.Command{
	Use:   "dataareas LIBRARY",
	Short: "List data areas in a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		areas, err := svc.ListDataAreas(cmd.Context(), args[0], dataAreasPattern)
		if err != nil {
			return err
		}
		if len(areas) == 0 {
			emptyHint("data areas")
			return nil
		}
		rows := make([][]string, 0, len(areas))
		for _, a := range areas {
			length := fmt.Sprintf("%d", a.Length)
			if a.DecimalPositions > 0 {
				length = fmt.Sprintf("%d,%d", a.Length, a.DecimalPositions)
			}
			rows = append(rows, []string{a.Name, a.Type, length, a.Value, a.Description})
		}
		return renderTable([]string{"Data Area", "Type", "Length", "Value", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(dataAreasCmd)
	dataAreasCmd.Flags().StringVarP(&dataAreasPattern, "pattern", "p", "%", "Data area name pattern (% wildcard)")
}
