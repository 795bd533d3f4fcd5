// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ccsid converts between UTF-8 and the legacy code pages used by
// IBM i source storage. The bulk-transfer channel moves raw bytes without
// transcoding, so payloads must be converted before upload and after
// download. Conversion never substitutes or drops characters: anything the
// target code page cannot represent fails with a positioned error.
//
// The package is independent of any connection and is driven entirely by
// CCSID numbers from configuration or the member catalog.
package ccsid

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"ibridge/cli/internal/errors"
)

// UTF8 is the CCSID of UTF-8 itself; conversions to and from it are
// validating pass-throughs.
const UTF8 = 1208

// registry maps CCSID numbers to their character encodings.
// EBCDIC pages come from the charmap tables; the double-byte ASCII-family
// pages (Shift JIS, EUC, GBK, Big5) cover members stored in PC code pages.
var registry = map[int]encoding.Encoding{
	37:   charmap.CodePage037,
	1047: charmap.CodePage1047,
	1140: charmap.CodePage1140,
	819:  charmap.ISO8859_1,
	850:  charmap.CodePage850,
	932:  japanese.ShiftJIS,
	943:  japanese.ShiftJIS,
	954:  japanese.EUCJP,
	5050: japanese.EUCJP,
	1381: simplifiedchinese.GBK,
	1386: simplifiedchinese.GBK,
	950:  traditionalchinese.Big5,
	949:  korean.EUCKR,
	970:  korean.EUCKR,
}

// Supported reports whether a CCSID has a registered encoding.
func Supported(ccsid int) bool {
	if ccsid == UTF8 {
		return true
	}
	_, ok := registry[ccsid]
	return ok
}

// Encode converts UTF-8 text to the byte representation of the given CCSID.
// A character the code page cannot represent fails with an encoding_error
// naming the rune and its 1-based character position.
func Encode(text string, ccsid int) ([]byte, error) {
	if ccsid == UTF8 {
		if !utf8.ValidString(text) {
			return nil, errors.New(errors.EncodingFailed, "payload is not valid UTF-8")
		}
		return []byte(text), nil
	}
	enc, ok := registry[ccsid]
	if !ok {
		return nil, errors.Newf(errors.EncodingFailed, "unsupported code page CCSID %d", ccsid)
	}
	out, n, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		// n counts the source bytes consumed before the offending rune.
		pos := utf8.RuneCountInString(text[:n]) + 1
		r, _ := utf8.DecodeRuneInString(text[n:])
		if r == utf8.RuneError {
			return nil, errors.Wrapf(errors.EncodingFailed, err,
				"invalid UTF-8 at character position %d", pos)
		}
		return nil, errors.Wrapf(errors.EncodingFailed, err,
			"character %q at position %d cannot be represented in CCSID %d", r, pos, ccsid)
	}
	return out, nil
}

// Decode converts bytes in the given CCSID back to UTF-8 text.
func Decode(b []byte, ccsid int) (string, error) {
	if ccsid == UTF8 {
		if !utf8.Valid(b) {
			return "", errors.New(errors.EncodingFailed, "payload is not valid UTF-8")
		}
		return string(b), nil
	}
	enc, ok := registry[ccsid]
	if !ok {
		return "", errors.Newf(errors.EncodingFailed, "unsupported code page CCSID %d", ccsid)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", errors.Wrapf(errors.EncodingFailed, err, "decode CCSID %d bytes", ccsid)
	}
	return string(out), nil
}
