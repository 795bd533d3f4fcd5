// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ident validates and normalizes IBM i object names.
// Libraries, files, members and programs share the same traditional
// system-name rules: at most 10 characters, letters, digits and the
// national characters # $ @ plus underscore, not starting with a digit.
// Names are stored uppercase on the system, so normalization uppercases.
package ident

import (
	"strings"

	"ibridge/cli/internal/errors"
)

// MaxLength is the longest traditional system object name.
const MaxLength = 10

// Normalize trims and uppercases name after validating its character set
// and length. It is pure and idempotent for any name it accepts.
func Normalize(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return "", errors.New(errors.InvalidIdentifier, "empty object name")
	}
	if len(n) > MaxLength {
		return "", errors.Newf(errors.InvalidIdentifier, "object name %q exceeds %d characters", n, MaxLength)
	}
	for i, r := range n {
		if !allowed(r, i == 0) {
			return "", errors.Newf(errors.InvalidIdentifier, "object name %q contains invalid character %q", n, r)
		}
	}
	return n, nil
}

// NormalizePattern validates a SQL LIKE pattern over object names.
// Patterns allow the same characters as names plus the wildcards % and _,
// and are not length-limited the way names are.
func NormalizePattern(pattern string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if p == "" {
		return "%", nil
	}
	for _, r := range p {
		if r == '%' || r == '_' {
			continue
		}
		if !allowed(r, false) {
			return "", errors.Newf(errors.InvalidIdentifier, "name pattern %q contains invalid character %q", p, r)
		}
	}
	return p, nil
}

func allowed(r rune, first bool) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	case r == '#' || r == '$' || r == '@':
		return true
	case r == '_':
		return !first
	}
	return false
}
