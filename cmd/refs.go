// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// refsCmd shows which files a program references and which modules are
// bound into it.
var refsCmd = &cobra.Command{
	Use:   "refs LIBRARY PROGRAM",
	Short: "Show file references and bound modules of a program",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		refs, err := svc.GetProgramReferences(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println(refs.Program)

		if len(refs.Files) == 0 {
			emptyHint("file references")
		} else {
			rows := make([][]string, 0, len(refs.Files))
			for _, f := range refs.Files {
				rows = append(rows, []string{f.Library, f.File, f.Usage, f.Text})
			}
			if err := renderTable([]string{"Library", "File", "Usage", "Description"}, rows); err != nil {
				return err
			}
		}

		if len(refs.BoundModules) > 0 {
			pterm.Println()
			rows := make([][]string, 0, len(refs.BoundModules))
			for _, m := range refs.BoundModules {
				rows = append(rows, []string{m.Library, m.Module})
			}
			return renderTable([]string{"Module Library", "Module"}, rows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refsCmd)
}
