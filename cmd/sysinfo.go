// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// sysinfoCmd shows host details: OS release, system values, code pages,
// the connected user and installed compilers. Sections the release
// cannot answer are listed as warnings instead of failing the command.
var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Show host system information",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newCatalog()
		if err != nil {
			return err
		}
		info, err := svc.GetSystemInfo(cmd.Context())
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println("System")
		if info.OSName != "" {
			pterm.Printfln("OS: %s %s.%s", info.OSName, info.OSVersion, info.OSRelease)
		}
		if serial := info.Values["QSRLNBR"]; serial != "" {
			pterm.Printfln("Serial: %s  Model: %s", serial, info.Values["QMODEL"])
		}
		if info.CCSID != 0 {
			pterm.Printfln("System CCSID: %d", info.CCSID)
		}
		if info.JobCCSID != 0 {
			pterm.Printfln("Job CCSID: %d", info.JobCCSID)
		}
		if info.User != "" {
			pterm.Printfln("User: %s  Schema: %s", info.User, info.Schema)
		}
		if libl := info.Values["QUSRLIBL"]; libl != "" {
			pterm.Printfln("User library list: %s", strings.Join(strings.Fields(libl), " "))
		}

		if len(info.Products) > 0 {
			pterm.Println()
			rows := make([][]string, 0, len(info.Products))
			for _, p := range info.Products {
				rows = append(rows, []string{p.ID, p.Option, p.Description})
			}
			if err := renderTable([]string{"Product", "Option", "Description"}, rows); err != nil {
				return err
			}
		}

		for _, w := range info.Warnings {
			fmt.Println()
			pterm.Warning.Println(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)
}
