// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transfer provides the session-oriented bulk byte channel used by
// the deployment pipeline. Sessions are scoped: dial, write, close. The
// channel moves raw bytes without transcoding; encoding is the caller's job.
package transfer

import (
	"context"
	"fmt"
	"io"

	"ibridge/cli/internal/ident"
)

// Session is one open bulk-transfer connection.
type Session interface {
	// Store writes the full content of r to the remote path.
	Store(path string, r io.Reader) error
	// Close releases the session. Safe to call after a failed Store.
	Close() error
}

// Dialer opens bulk-transfer sessions.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// MemberPath returns the file-system view path of a source member.
// The identifiers must already be normalized.
func MemberPath(library, sourceFile, member string) string {
	return fmt.Sprintf("/QSYS.LIB/%s.LIB/%s.FILE/%s.MBR", library, sourceFile, member)
}

// NormalizedMemberPath normalizes the three identifiers and returns the
// member path, failing on any invalid name.
func NormalizedMemberPath(library, sourceFile, member string) (string, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return "", err
	}
	srcpf, err := ident.Normalize(sourceFile)
	if err != nil {
		return "", err
	}
	mbr, err := ident.Normalize(member)
	if err != nil {
		return "", err
	}
	return MemberPath(lib, srcpf, mbr), nil
}
