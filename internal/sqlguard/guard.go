// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlguard classifies ad hoc SQL as read-only before execution.
// It is a lexical classifier, not a parser: statements are scanned token by
// token with comments, string literals and quoted identifiers skipped, so a
// mutating keyword only counts when it stands alone as a whole token.
// MYUPDATELOG never trips it; UPDATE does.
package sqlguard

import (
	"strings"

	"ibridge/cli/internal/errors"
)

// mutatingKeywords are the verbs that disqualify a statement. Matching is
// whole-token only.
var mutatingKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"CREATE":   true,
	"DROP":     true,
	"ALTER":    true,
	"CALL":     true,
	"MERGE":    true,
	"TRUNCATE": true,
	"GRANT":    true,
	"REVOKE":   true,
	"RENAME":   true,
	"SET":      true,
}

// ValidateSelectOnly accepts SELECT statements (including WITH ... SELECT)
// and rejects everything else with unsafe_query_rejected. It never touches
// the network; acceptance only means the statement may be handed to the
// bounded query executor.
func ValidateSelectOnly(raw string) error {
	toks := tokenize(raw)
	if len(toks) == 0 {
		return errors.New(errors.UnsafeQueryRejected, "empty statement")
	}

	first := toks[0]
	if first.text != "SELECT" && first.text != "WITH" {
		return errors.Newf(errors.UnsafeQueryRejected,
			"only SELECT statements are allowed, got %q", first.text)
	}

	sawSelect := false
	terminated := false
	for _, tok := range toks {
		if terminated {
			return errors.New(errors.UnsafeQueryRejected,
				"multiple statements are not allowed")
		}
		if tok.separator {
			terminated = true
			continue
		}
		if tok.text == "SELECT" {
			sawSelect = true
		}
		if mutatingKeywords[tok.text] {
			return errors.Newf(errors.UnsafeQueryRejected,
				"statement contains mutating keyword %q", tok.text)
		}
	}
	if !sawSelect {
		// A WITH clause that never reaches a SELECT body.
		return errors.New(errors.UnsafeQueryRejected,
			"WITH statement has no SELECT body")
	}
	return nil
}

type token struct {
	text      string
	separator bool
}

// tokenize uppercases bare words and keeps statement separators, skipping
// line comments, block comments, string literals and quoted identifiers.
func tokenize(raw string) []token {
	var toks []token
	s := raw
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			// line comment
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			// block comment
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return toks
			}
			i += 2 + end + 2
		case c == '\'':
			i = skipQuoted(s, i, '\'')
		case c == '"':
			i = skipQuoted(s, i, '"')
		case c == ';':
			toks = append(toks, token{separator: true})
			i++
		case isWordByte(c):
			start := i
			for i < len(s) && isWordByte(s[i]) {
				i++
			}
			toks = append(toks, token{text: strings.ToUpper(s[start:i])})
		default:
			i++
		}
	}
	return toks
}

// skipQuoted advances past a quoted region starting at i, honoring doubled
// quote escapes ('it''s').
func skipQuoted(s string, i int, quote byte) int {
	i++ // opening quote
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '#' || c == '$' || c == '@'
}
