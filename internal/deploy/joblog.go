// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package deploy

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"ibridge/cli/internal/errors"
)

// Diagnostic is one compiler message lifted from the job log, in the
// order the log recorded it. Line is zero when the message names no
// source line.
type Diagnostic struct {
	MsgID    string `json:"msg_id"`
	Severity int    `json:"severity"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// failureSeverity is the job-log severity at which a compile counts as
// failed. 30 is the conventional IBM i error threshold; 0-20 are
// informational and warnings.
const failureSeverity = 30

// lineRef matches the source line reference some compilers embed in
// the message text.
var lineRef = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// jobLogMark returns the highest ordinal already in the current job's
// log, so messages produced by a following command can be read alone.
func jobLogMark(ctx context.Context, db *sql.DB) (int64, error) {
	row := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ORDINAL_POSITION), 0) FROM TABLE(QSYS2.JOBLOG_INFO('*'))`)
	var mark sql.NullInt64
	if err := row.Scan(&mark); err != nil {
		return 0, errors.Wrap(errors.QueryFailed, "read job log position", err)
	}
	return mark.Int64, nil
}

// readJobLog collects the messages logged after mark, oldest first.
func readJobLog(ctx context.Context, db *sql.DB, mark int64) ([]Diagnostic, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT COALESCE(MESSAGE_ID, ''), COALESCE(SEVERITY, 0), COALESCE(MESSAGE_TEXT, '')
		FROM TABLE(QSYS2.JOBLOG_INFO('*'))
		WHERE ORDINAL_POSITION > ?
		ORDER BY ORDINAL_POSITION`, mark)
	if err != nil {
		return nil, errors.Wrap(errors.QueryFailed, "read job log", err)
	}
	defer rows.Close()

	var out []Diagnostic
	for rows.Next() {
		var id, text sql.NullString
		var severity sql.NullInt64
		if err := rows.Scan(&id, &severity, &text); err != nil {
			return nil, errors.Wrap(errors.QueryFailed, "scan job log row", err)
		}
		d := Diagnostic{
			MsgID:    strings.TrimSpace(id.String),
			Severity: int(severity.Int64),
			Message:  strings.TrimSpace(text.String),
		}
		if m := lineRef.FindStringSubmatch(d.Message); m != nil {
			d.Line, _ = strconv.Atoi(m[1])
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// hasFailure reports whether any diagnostic reaches the failure
// severity threshold.
func hasFailure(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= failureSeverity {
			return true
		}
	}
	return false
}
