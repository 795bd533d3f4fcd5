// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ident

import (
	"testing"

	"ibridge/cli/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "lowercase", in: "mylib", want: "MYLIB"},
		{name: "already upper", in: "QRPGSRC", want: "QRPGSRC"},
		{name: "surrounding blanks", in: "  ordmnt ", want: "ORDMNT"},
		{name: "national characters", in: "a#$@b", want: "A#$@B"},
		{name: "digits after first", in: "PGM001", want: "PGM001"},
		{name: "max length", in: "ABCDEFGHIJ", want: "ABCDEFGHIJ"},
		{name: "too long", in: "ABCDEFGHIJK", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "blank only", in: "   ", wantErr: true},
		{name: "leading digit", in: "1LIB", wantErr: true},
		{name: "leading underscore", in: "_LIB", wantErr: true},
		{name: "embedded space", in: "MY LIB", wantErr: true},
		{name: "hyphen", in: "MY-LIB", wantErr: true},
		{name: "sql injection attempt", in: "X;DROP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q, want error", tt.in, got)
				}
				if !errors.IsKind(err, errors.InvalidIdentifier) {
					t.Errorf("Normalize(%q) error kind = %q, want %q", tt.in, errors.KindOf(err), errors.InvalidIdentifier)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Normalizing an already-normalized name must return it unchanged.
func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"mylib", "QSYS2", "pgm#1", "a$b@c"} {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)): %v", in, err)
		}
		if first != second {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, first, second)
		}
	}
}

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "%"},
		{in: "ord%", want: "ORD%"},
		{in: "A_B", want: "A_B"},
		{in: "%", want: "%"},
		{in: "bad'pattern", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizePattern(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizePattern(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePattern(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
