// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; credentials go to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"ibridge/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings. It is loaded once per process
// and treated as immutable afterwards.
type Config struct {
	LogLevel string `json:"log_level"`
	// MaxRows bounds ad hoc query and data reads.
	MaxRows int `json:"max_rows"`
	// ProtectedPrefixes lists reserved library-name prefixes that the
	// deployment pipeline refuses to write into.
	ProtectedPrefixes []string `json:"protected_prefixes"`
	// DefaultCCSID is the code page used for source types without an
	// explicit entry in SourceCCSIDs.
	DefaultCCSID int `json:"default_ccsid"`
	// SourceCCSIDs maps source types (RPGLE, CLP, ...) to the code page
	// their source members are stored in.
	SourceCCSIDs map[string]int `json:"source_ccsids"`
	// Transfer configures the bulk-transfer channel used for uploads.
	Transfer TransferConfig `json:"transfer"`
}

// TransferConfig holds bulk-transfer connection settings. Empty host or
// user fall back to the relational connection's host and user; the
// password always comes from the keychain or environment.
type TransferConfig struct {
	Host string `json:"host"`
	User string `json:"user"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		MaxRows:  1000,
		// Q* covers the operating system libraries, SYS* the SQL catalogs.
		ProtectedPrefixes: []string{"Q", "SYS"},
		DefaultCCSID:      37,
		SourceCCSIDs:      map[string]int{},
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.MaxRows <= 0 {
		c.MaxRows = Default().MaxRows
	}
	if len(c.ProtectedPrefixes) == 0 {
		c.ProtectedPrefixes = Default().ProtectedPrefixes
	}
	if c.DefaultCCSID == 0 {
		c.DefaultCCSID = Default().DefaultCCSID
	}
	if c.SourceCCSIDs == nil {
		c.SourceCCSIDs = map[string]int{}
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// CCSIDFor returns the code page for a source type.
func (c Config) CCSIDFor(sourceType string) int {
	if ccsid, ok := c.SourceCCSIDs[sourceType]; ok {
		return ccsid
	}
	return c.DefaultCCSID
}
