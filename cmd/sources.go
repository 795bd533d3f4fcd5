// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sourceFilesPattern string
	membersPattern     string
)

// sourceFilesCmd lists the source physical files of a library.
var sourceFilesCmd = &cobra.Command{
	Use:   "sourcefiles LIBRARY",
	Short: "List source files in a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		files, err := svc.ListSourceFiles(cmd.Context(), args[0], sourceFilesPattern)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			emptyHint("source files")
			return nil
		}
		rows := make([][]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, []string{
				f.Name,
				fmt.Sprintf("%d", f.MemberCount),
				fmt.Sprintf("%d", f.CCSID),
				f.Description,
			})
		}
		return renderTable([]string{"Source File", "Members", "CCSID", "Description"}, rows)
	},
}

// membersCmd lists the members of a source file.
var membersCmd = &cobra.Command{
	Use:   "members LIBRARY SOURCEFILE",
	Short: "List members of a source file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		members, err := svc.ListSourceMembers(cmd.Context(), args[0], args[1], membersPattern)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			emptyHint("members")
			return nil
		}
		rows := make([][]string, 0, len(members))
		for _, m := range members {
			rows = append(rows, []string{m.Name, m.SourceType, m.Text})
		}
		return renderTable([]string{"Member", "Type", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(sourceFilesCmd)
	rootCmd.AddCommand(membersCmd)
	sourceFilesCmd.Flags().StringVarP(&sourceFilesPattern, "pattern", "p", "%", "Source file name pattern (% wildcard)")
	membersCmd.Flags().StringVarP(&membersPattern, "pattern", "p", "%", "Member name pattern (% wildcard)")
}
