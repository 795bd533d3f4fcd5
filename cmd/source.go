// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sourceNumbered bool

// sourceCmd prints the contents of a source member.
var sourceCmd = &cobra.Command{
	Use:   "source LIBRARY SOURCEFILE MEMBER",
	Short: "Print a source member",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		src, err := svc.GetSource(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}

		header := fmt.Sprintf("%s (%s)", src.Member.Name, src.Member.SourceType)
		if src.Member.Text != "" {
			header += " " + src.Member.Text
		}
		pterm.DefaultSection.Println(header)

		if sourceNumbered {
			for _, ln := range src.Lines {
				fmt.Printf("%8.2f  %s\n", ln.Seq, ln.Text)
			}
			return nil
		}
		fmt.Println(src.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.Flags().BoolVarP(&sourceNumbered, "numbers", "n", false, "Show sequence numbers")
}
