// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"database/sql"
	"strings"
)

// strip removes the right padding Db2 for i adds to fixed CHAR values.
// NULLs collapse to the empty string, same as empty labels.
func strip(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return strings.TrimRight(v.String, " ")
}

// scanRowSet drains rows into a bounded RowSet. Reading stops after
// maxRows; the Truncated flag records whether more rows were pending.
func scanRowSet(rows *sql.Rows, labels map[string]string, maxRows int) (*RowSet, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &RowSet{Columns: make([]ResultColumn, len(names))}
	for i, name := range names {
		out.Columns[i] = ResultColumn{Name: name, Label: labels[name]}
	}

	for rows.Next() {
		if maxRows > 0 && len(out.Rows) >= maxRows {
			out.Truncated = true
			break
		}
		values := make([]sql.NullString, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(names))
		for i, v := range values {
			row[i] = strip(v)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
