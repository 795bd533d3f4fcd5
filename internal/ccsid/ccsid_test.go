// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ccsid

import (
	"bytes"
	"strings"
	"testing"

	"ibridge/cli/internal/errors"
)

func TestEncodeFixtures(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ccsid int
		want  []byte
	}{
		{
			// EBCDIC: A=0xC1 B=0xC2 C=0xC3, blank=0x40
			name:  "cp037 letters",
			text:  "AB C",
			ccsid: 37,
			want:  []byte{0xC1, 0xC2, 0x40, 0xC3},
		},
		{
			// EBCDIC digits F0..F9
			name:  "cp037 digits",
			text:  "09",
			ccsid: 37,
			want:  []byte{0xF0, 0xF9},
		},
		{
			// Shift JIS double-byte katakana KA (U+30AB)
			name:  "shift jis double byte",
			text:  "カ",
			ccsid: 943,
			want:  []byte{0x83, 0x4A},
		},
		{
			name:  "utf-8 passthrough",
			text:  "DCL-F ORDERS;",
			ccsid: 1208,
			want:  []byte("DCL-F ORDERS;"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.text, tt.ccsid)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(%q, %d) = % X, want % X", tt.text, tt.ccsid, got, tt.want)
			}
		})
	}
}

func TestDecodeFixture(t *testing.T) {
	got, err := Decode([]byte{0xC8, 0xC5, 0xD3, 0xD3, 0xD6}, 37)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "HELLO" {
		t.Errorf("Decode = %q, want HELLO", got)
	}
}

// Round-trip property: any text representable in a code page survives
// Encode followed by Decode unchanged.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ccsid int
	}{
		{name: "cp037 source line", text: "C     MOVE 'X'   FLAG01", ccsid: 37},
		{name: "cp1140 with euro", text: "PRICE € 10", ccsid: 1140},
		{name: "shift jis mixed", text: "ORDNO 注文番号", ccsid: 943},
		{name: "euc-jp", text: "テスト", ccsid: 5050},
		{name: "gbk", text: "订单", ccsid: 1386},
		{name: "utf-8", text: "anything at all ☃", ccsid: 1208},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.text, tt.ccsid)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(b, tt.ccsid)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if back != tt.text {
				t.Errorf("round trip = %q, want %q", back, tt.text)
			}
		})
	}
}

func TestEncodeUnmappable(t *testing.T) {
	// Kanji cannot be represented in single-byte EBCDIC.
	_, err := Encode("AB注CD", 37)
	if err == nil {
		t.Fatal("Encode succeeded, want encoding_error")
	}
	if !errors.IsKind(err, errors.EncodingFailed) {
		t.Fatalf("error kind = %q, want %q", errors.KindOf(err), errors.EncodingFailed)
	}
	// Offending character and 1-based position must be named.
	msg := err.Error()
	if !strings.Contains(msg, "position 3") {
		t.Errorf("error %q does not name position 3", msg)
	}
	if !strings.Contains(msg, "'注'") {
		t.Errorf("error %q does not name the offending character", msg)
	}
}

func TestEncodeUnknownCCSID(t *testing.T) {
	_, err := Encode("X", 65535)
	if !errors.IsKind(err, errors.EncodingFailed) {
		t.Errorf("error kind = %q, want %q", errors.KindOf(err), errors.EncodingFailed)
	}
}

func TestEncodeInvalidUTF8(t *testing.T) {
	_, err := Encode(string([]byte{0xff, 0xfe}), 1208)
	if !errors.IsKind(err, errors.EncodingFailed) {
		t.Errorf("error kind = %q, want %q", errors.KindOf(err), errors.EncodingFailed)
	}
}

func TestSupported(t *testing.T) {
	for _, ccsid := range []int{37, 943, 1208, 1140} {
		if !Supported(ccsid) {
			t.Errorf("Supported(%d) = false", ccsid)
		}
	}
	if Supported(12345) {
		t.Error("Supported(12345) = true")
	}
}
