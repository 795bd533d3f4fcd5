// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	librariesPattern       string
	librariesIncludeSystem bool
)

// librariesCmd lists the libraries on the host.
var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List libraries on the host",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		libs, err := svc.ListLibraries(cmd.Context(), librariesPattern, librariesIncludeSystem)
		if err != nil {
			return err
		}
		if len(libs) == 0 {
			emptyHint("libraries")
			return nil
		}
		rows := make([][]string, 0, len(libs))
		for _, l := range libs {
			rows = append(rows, []string{l.Name, l.Text})
		}
		return renderTable([]string{"Library", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(librariesCmd)
	librariesCmd.Flags().StringVarP(&librariesPattern, "pattern", "p", "%", "Library name pattern (% wildcard)")
	librariesCmd.Flags().BoolVar(&librariesIncludeSystem, "system", false, "Include system (Q*) libraries")
}
