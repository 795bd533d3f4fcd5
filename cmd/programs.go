// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	programsPattern string
	programsAttr    string
)

// programsCmd lists the programs of a library with their source
// locations.
var programsCmd = &cobra.Command{
	Use:   "programs LIBRARY",
	Short: "List programs in a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		pgms, err := svc.ListPrograms(cmd.Context(), args[0], programsPattern, programsAttr)
		if err != nil {
			return err
		}
		if len(pgms) == 0 {
			emptyHint("programs")
			return nil
		}
		rows := make([][]string, 0, len(pgms))
		for _, p := range pgms {
			source := ""
			if p.SourceFile != "" {
				source = fmt.Sprintf("%s/%s(%s)", p.SourceLibrary, p.SourceFile, p.SourceMember)
			}
			rows = append(rows, []string{p.Name, p.Attribute, source, p.Text})
		}
		return renderTable([]string{"Program", "Attribute", "Source", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
	programsCmd.Flags().StringVarP(&programsPattern, "pattern", "p", "%", "Program name pattern (% wildcard)")
	programsCmd.Flags().StringVarP(&programsAttr, "attribute", "a", "ALL", "Language attribute filter (RPGLE, CLP, ...)")
}
