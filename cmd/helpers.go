// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strings"

	"github.com/pterm/pterm"

	"ibridge/cli/internal/catalog"
	"ibridge/cli/internal/config"
	"ibridge/cli/internal/dsn"
	"ibridge/cli/internal/errors"
	"ibridge/cli/internal/hostdb"
	"ibridge/cli/internal/keychain"
	"ibridge/cli/internal/transfer"
)

// resolveDSN returns the configured host connection. The IBRIDGE_DSN
// environment variable wins over the keychain so scripted runs never
// touch secure storage.
func resolveDSN() (*dsn.DSNInfo, error) {
	if env := strings.TrimSpace(os.Getenv("IBRIDGE_DSN")); env != "" {
		return dsn.Parse(env)
	}

	km, err := keychain.GetManager()
	if err != nil {
		return nil, err
	}
	raw, err := km.LoadHostDSN()
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil, errors.New(errors.ConnectionFailed,
			"no host connection configured, run: ibridge connect")
	}
	return dsn.Parse(raw)
}

// newCatalog builds a catalog service over a fresh connection broker.
func newCatalog() (*catalog.Service, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	info, err := resolveDSN()
	if err != nil {
		return nil, cfg, err
	}
	broker := hostdb.New(dsn.ODBCString(info))
	return catalog.NewService(broker, cfg.MaxRows), cfg, nil
}

// newTransferDialer builds the bulk-transfer dialer. Host and user
// default to the relational connection's; the password comes from the
// environment or the keychain.
func newTransferDialer(cfg config.Config, info *dsn.DSNInfo) (transfer.Dialer, error) {
	host := cfg.Transfer.Host
	if host == "" {
		host = info.Host
	}
	user := cfg.Transfer.User
	if user == "" {
		user = info.User
	}

	password := strings.TrimSpace(os.Getenv("IBRIDGE_FTP_PASSWORD"))
	if password == "" {
		km, err := keychain.GetManager()
		if err == nil {
			password, _ = km.LoadTransferPassword()
		}
	}
	if password == "" {
		password = info.Password
	}
	if password == "" {
		return nil, errors.New(errors.TransferFailed,
			"no transfer password configured, set IBRIDGE_FTP_PASSWORD or re-run: ibridge connect")
	}
	return &transfer.FTPDialer{Host: host, User: user, Password: password}, nil
}

// renderTable prints rows as a pterm table with a header row.
func renderTable(header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// emptyHint prints a consistent notice for empty result sets.
func emptyHint(what string) {
	pterm.Info.Printfln("No %s found", what)
}
