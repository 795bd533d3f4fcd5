// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"atomicgo.dev/cursor"
	"github.com/spf13/cobra"

	"ibridge/cli/internal/catalog"
	"ibridge/cli/internal/config"
	"ibridge/cli/internal/deploy"
	"ibridge/cli/internal/dsn"
	"ibridge/cli/internal/errors"
	"ibridge/cli/internal/hostdb"
)

var (
	deployFile        string
	deploySourceType  string
	deployDescription string
	deployOverwrite   bool
	deployTargetLib   string
	deployOptions     string
)

// deployCmd uploads a local source file into a source member and
// compiles it on the host.
var deployCmd = &cobra.Command{
	Use:   "deploy LIBRARY SOURCEFILE MEMBER",
	Short: "Upload a source file and compile it on the host",
	Long: `The deploy command encodes a local source file for the member's code page,
transfers it into LIBRARY/SOURCEFILE(MEMBER), and runs the matching CL
compile command. Compiler diagnostics from the job log are shown either way;
a compile failure is reported as a failed result, not a CLI error.

System libraries (Q*, SYS*) are refused before anything is sent.

The source type defaults to the file extension (.rpgle, .clp, .clle, ...).`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployFile == "" {
			return errors.New(errors.TransferFailed, "a source file is required, use --file")
		}
		payload, err := os.ReadFile(deployFile)
		if err != nil {
			return err
		}

		sourceType := deploySourceType
		if sourceType == "" {
			sourceType = strings.ToUpper(strings.TrimPrefix(filepath.Ext(deployFile), "."))
		}

		cfg, info, svc, runner, err := deployDeps()
		if err != nil {
			return err
		}
		dialer, err := newTransferDialer(cfg, info)
		if err != nil {
			return err
		}

		renderer := deploy.NewRenderer()
		pipeline := deploy.NewPipeline(svc, runner, dialer, cfg, renderer.Render)

		cursor.Hide()
		defer cursor.Show()

		result, err := pipeline.Run(cmd.Context(), deploy.Request{
			Library:       args[0],
			SourceFile:    args[1],
			Member:        args[2],
			SourceType:    sourceType,
			Source:        string(payload),
			Description:   deployDescription,
			Overwrite:     deployOverwrite,
			TargetLibrary: deployTargetLib,
			Options:       deployOptions,
		})
		if err != nil {
			return err
		}
		if !result.Success {
			// The renderer already printed the diagnostics; a non-zero
			// exit keeps scripted deployments honest.
			cursor.Show()
			os.Exit(1)
		}
		return nil
	},
}

// deployDeps resolves everything the pipeline needs from config, the
// keychain and the environment.
func deployDeps() (cfg config.Config, info *dsn.DSNInfo, svc *catalog.Service, runner hostdb.Runner, err error) {
	cfg, err = config.Load()
	if err != nil {
		return
	}
	info, err = resolveDSN()
	if err != nil {
		return
	}
	broker := hostdb.New(dsn.ODBCString(info))
	svc = catalog.NewService(broker, cfg.MaxRows)
	runner = broker
	return
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().StringVarP(&deployFile, "file", "f", "", "Local source file to deploy (required)")
	deployCmd.Flags().StringVarP(&deploySourceType, "type", "t", "", "Source type (RPGLE, CLP, ...; defaults to the file extension)")
	deployCmd.Flags().StringVarP(&deployDescription, "description", "d", "", "Member description text")
	deployCmd.Flags().BoolVar(&deployOverwrite, "overwrite", false, "Replace the member if it already exists")
	deployCmd.Flags().StringVar(&deployTargetLib, "target-library", "", "Library for the compiled object (defaults to LIBRARY)")
	deployCmd.Flags().StringVar(&deployOptions, "options", "", "Extra compile command options, e.g. DBGVIEW(*SOURCE)")
	_ = deployCmd.MarkFlagRequired("file")
}
