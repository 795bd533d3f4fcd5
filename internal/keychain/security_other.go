// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

// newSecurityBackend is unavailable off macOS; the keyring library is used instead.
func newSecurityBackend() (keychainBackend, error) {
	return nil, errors.New("security command backend is only available on macOS")
}
