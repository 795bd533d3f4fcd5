// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ibridge/cli/internal/errors"
	"ibridge/cli/internal/hostdb"
	"ibridge/cli/internal/ident"
	"ibridge/cli/internal/sqlguard"
)

// Service answers metadata and data questions about one host. It holds
// no connection state of its own; each call borrows a connection from
// the Runner for its full duration.
type Service struct {
	runner  hostdb.Runner
	maxRows int
}

// NewService wraps runner. maxRows bounds every row-returning call;
// zero or negative means unbounded.
func NewService(runner hostdb.Runner, maxRows int) *Service {
	return &Service{runner: runner, maxRows: maxRows}
}

// ListLibraries returns libraries matching pattern. System libraries
// (Q*) are excluded unless includeSystem is set.
func (s *Service) ListLibraries(ctx context.Context, pattern string, includeSystem bool) ([]Library, error) {
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	q := `SELECT SYSTEM_SCHEMA_NAME, COALESCE(SCHEMA_TEXT, '')
		FROM QSYS2.SYSSCHEMAS
		WHERE SYSTEM_SCHEMA_NAME LIKE ?`
	if !includeSystem {
		q += ` AND SYSTEM_SCHEMA_NAME NOT LIKE 'Q%'`
	}
	q += ` ORDER BY SYSTEM_SCHEMA_NAME`

	var out []Library
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, p)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "list libraries", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, text sql.NullString
			if err := rows.Scan(&name, &text); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan library row", err)
			}
			out = append(out, Library{Name: strip(name), Text: strip(text)})
		}
		return rows.Err()
	})
	return out, err
}

// ListTables returns files in library matching pattern. tableType
// filters on the catalog TABLE_TYPE column (P, L or V); empty or "ALL"
// keeps everything.
func (s *Service) ListTables(ctx context.Context, library, pattern, tableType string) ([]Table, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	q := `SELECT SYSTEM_TABLE_NAME, COALESCE(TABLE_TEXT, ''), TABLE_TYPE
		FROM QSYS2.SYSTABLES
		WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME LIKE ?`
	args := []any{lib, p}
	if t := strings.ToUpper(strings.TrimSpace(tableType)); t != "" && t != "ALL" {
		q += ` AND TABLE_TYPE = ?`
		args = append(args, t)
	}
	q += ` ORDER BY SYSTEM_TABLE_NAME`

	var out []Table
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, args...)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "list tables", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, text, typ sql.NullString
			if err := rows.Scan(&name, &text, &typ); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan table row", err)
			}
			out = append(out, Table{Name: strip(name), Text: strip(text), Type: strip(typ)})
		}
		return rows.Err()
	})
	return out, err
}

const columnsQuery = `SELECT
		c.SYSTEM_COLUMN_NAME,
		COALESCE(c.COLUMN_TEXT, ''),
		c.DATA_TYPE,
		c.LENGTH,
		COALESCE(c.NUMERIC_SCALE, 0),
		c.IS_NULLABLE,
		c.ORDINAL_POSITION,
		COALESCE(c.COLUMN_DEFAULT, ''),
		COALESCE(c.CCSID, 0),
		k.ORDINAL_POSITION
	FROM QSYS2.SYSCOLUMNS c
	LEFT JOIN QSYS2.SYSKEYCST k
		ON k.SYSTEM_TABLE_SCHEMA = c.SYSTEM_TABLE_SCHEMA
		AND k.SYSTEM_TABLE_NAME = c.SYSTEM_TABLE_NAME
		AND k.COLUMN_NAME = c.COLUMN_NAME
	WHERE c.SYSTEM_TABLE_SCHEMA = ? AND c.SYSTEM_TABLE_NAME = ?
	ORDER BY c.ORDINAL_POSITION`

// GetColumns returns the columns of library/table in ordinal order,
// with primary-key positions joined in from the key constraints.
func (s *Service) GetColumns(ctx context.Context, library, table string) ([]Column, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	tbl, err := ident.Normalize(table)
	if err != nil {
		return nil, err
	}

	var out []Column
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		cols, err := queryColumns(ctx, db, lib, tbl)
		if err != nil {
			return err
		}
		out = cols
		return nil
	})
	return out, err
}

func queryColumns(ctx context.Context, db *sql.DB, lib, tbl string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, columnsQuery, lib, tbl)
	if err != nil {
		return nil, errors.Wrap(errors.QueryFailed, "get columns", err)
	}
	defer rows.Close()

	var out []Column
	for rows.Next() {
		var (
			name, text, dtype, nullable, def sql.NullString
			length, scale, pos, ccsid        sql.NullInt64
			keySeq                           sql.NullInt64
		)
		if err := rows.Scan(&name, &text, &dtype, &length, &scale, &nullable, &pos, &def, &ccsid, &keySeq); err != nil {
			return nil, errors.Wrap(errors.QueryFailed, "scan column row", err)
		}
		c := Column{
			Name:          strip(name),
			Text:          strip(text),
			DataType:      strip(dtype),
			Length:        int(length.Int64),
			DecimalPlaces: int(scale.Int64),
			Nullable:      strip(nullable) == "Y",
			Position:      int(pos.Int64),
			DefaultValue:  strip(def),
			CCSID:         int(ccsid.Int64),
		}
		if keySeq.Valid {
			seq := int(keySeq.Int64)
			c.KeySequence = &seq
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetTableInfo returns the combined detail view of one table: the
// catalog row, its columns, the primary key and its indexes. A table
// the catalog does not know yields not_found.
func (s *Service) GetTableInfo(ctx context.Context, library, table string) (*TableInfo, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	tbl, err := ident.Normalize(table)
	if err != nil {
		return nil, err
	}

	info := &TableInfo{}
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT SYSTEM_TABLE_NAME, COALESCE(TABLE_TEXT, ''), TABLE_TYPE
			FROM QSYS2.SYSTABLES
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ?`, lib, tbl)
		var name, text, typ sql.NullString
		if err := row.Scan(&name, &text, &typ); err != nil {
			if err == sql.ErrNoRows {
				return errors.Newf(errors.NotFound, "table not found: %s/%s", lib, tbl)
			}
			return errors.Wrap(errors.QueryFailed, "get table", err)
		}
		info.Table = Table{Name: strip(name), Text: strip(text), Type: strip(typ)}

		cols, err := queryColumns(ctx, db, lib, tbl)
		if err != nil {
			return err
		}
		info.Columns = cols

		keys, err := queryKeys(ctx, db, lib, tbl)
		if err != nil {
			return err
		}
		info.PrimaryKey = keys

		idxRows, err := db.QueryContext(ctx,
			`SELECT SYSTEM_INDEX_NAME, COALESCE(INDEX_TEXT, ''), IS_UNIQUE
			FROM QSYS2.SYSINDEXES
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ?`, lib, tbl)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "get indexes", err)
		}
		defer idxRows.Close()
		for idxRows.Next() {
			var iname, itext, unique sql.NullString
			if err := idxRows.Scan(&iname, &itext, &unique); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan index row", err)
			}
			info.Indexes = append(info.Indexes, Index{
				Name:   strip(iname),
				Text:   strip(itext),
				Unique: strip(unique) != "N" && strip(unique) != "",
			})
		}
		return idxRows.Err()
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// queryKeys reads the primary key from the SQL constraints, falling
// back to the DDS key fields in QSYS.QADBKFLD for files created from
// DDS without a SQL constraint. The fallback is best effort: not all
// profiles may read QADBKFLD.
func queryKeys(ctx context.Context, db *sql.DB, lib, tbl string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT COLUMN_NAME
		FROM QSYS2.SYSKEYCST
		WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`, lib, tbl)
	if err != nil {
		return nil, errors.Wrap(errors.QueryFailed, "get key constraints", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.QueryFailed, "scan key row", err)
		}
		keys = append(keys, strip(name))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		return keys, nil
	}

	ddsRows, err := db.QueryContext(ctx,
		`SELECT DBKFLD FROM QSYS.QADBKFLD
		WHERE DBKLIB = ? AND DBKFIL = ?
		ORDER BY DBKORD`, lib, tbl)
	if err != nil {
		return nil, nil
	}
	defer ddsRows.Close()
	for ddsRows.Next() {
		var name sql.NullString
		if err := ddsRows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.QueryFailed, "scan DDS key row", err)
		}
		keys = append(keys, strip(name))
	}
	return keys, ddsRows.Err()
}

// ListSourceFiles returns the source physical files in library, with
// member counts and the CCSID of the source data column.
func (s *Service) ListSourceFiles(ctx context.Context, library, pattern string) ([]SourceFile, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	q := `SELECT
			t.SYSTEM_TABLE_NAME,
			COALESCE(t.TABLE_TEXT, ''),
			(SELECT COUNT(*) FROM QSYS2.SYSPARTITIONSTAT p
				WHERE p.SYSTEM_TABLE_SCHEMA = t.SYSTEM_TABLE_SCHEMA
				AND p.SYSTEM_TABLE_NAME = t.SYSTEM_TABLE_NAME),
			(SELECT MAX(c.CCSID) FROM QSYS2.SYSCOLUMNS c
				WHERE c.SYSTEM_TABLE_SCHEMA = t.SYSTEM_TABLE_SCHEMA
				AND c.SYSTEM_TABLE_NAME = t.SYSTEM_TABLE_NAME
				AND c.COLUMN_NAME = 'SRCDTA')
		FROM QSYS2.SYSTABLES t
		WHERE t.SYSTEM_TABLE_SCHEMA = ?
			AND t.SYSTEM_TABLE_NAME LIKE ?
			AND t.FILE_TYPE = 'S'
		ORDER BY t.SYSTEM_TABLE_NAME`

	var out []SourceFile
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, lib, p)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "list source files", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, text sql.NullString
			var count, ccsid sql.NullInt64
			if err := rows.Scan(&name, &text, &count, &ccsid); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan source file row", err)
			}
			out = append(out, SourceFile{
				Name:        strip(name),
				Description: strip(text),
				MemberCount: int(count.Int64),
				CCSID:       int(ccsid.Int64),
			})
		}
		return rows.Err()
	})
	return out, err
}

// ListSourceMembers returns the members of a source file matching pattern.
func (s *Service) ListSourceMembers(ctx context.Context, library, sourceFile, pattern string) ([]SourceMember, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	srcpf, err := ident.Normalize(sourceFile)
	if err != nil {
		return nil, err
	}
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	var out []SourceMember
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT SYSTEM_TABLE_MEMBER, COALESCE(SOURCE_TYPE, ''), COALESCE(PARTITION_TEXT, '')
			FROM QSYS2.SYSPARTITIONSTAT
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ? AND SYSTEM_TABLE_MEMBER LIKE ?
			ORDER BY SYSTEM_TABLE_MEMBER`, lib, srcpf, p)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "list members", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, typ, text sql.NullString
			if err := rows.Scan(&name, &typ, &text); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan member row", err)
			}
			out = append(out, SourceMember{Name: strip(name), SourceType: strip(typ), Text: strip(text)})
		}
		return rows.Err()
	})
	return out, err
}

// GetSource reads one source member: its catalog metadata and every
// line in sequence order. A member can only be addressed through an
// alias, so the call creates one in QTEMP; the session owns QTEMP and
// the alias disappears when the connection closes.
func (s *Service) GetSource(ctx context.Context, library, sourceFile, member string) (*Source, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	srcpf, err := ident.Normalize(sourceFile)
	if err != nil {
		return nil, err
	}
	mbr, err := ident.Normalize(member)
	if err != nil {
		return nil, err
	}

	src := &Source{}
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT SYSTEM_TABLE_MEMBER, COALESCE(SOURCE_TYPE, ''), COALESCE(PARTITION_TEXT, '')
			FROM QSYS2.SYSPARTITIONSTAT
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ? AND SYSTEM_TABLE_MEMBER = ?`,
			lib, srcpf, mbr)
		var name, typ, text sql.NullString
		if err := row.Scan(&name, &typ, &text); err != nil {
			if err == sql.ErrNoRows {
				return errors.Newf(errors.NotFound, "source member not found: %s/%s/%s", lib, srcpf, mbr)
			}
			return errors.Wrap(errors.QueryFailed, "get member metadata", err)
		}
		src.Member = SourceMember{Name: strip(name), SourceType: strip(typ), Text: strip(text)}

		alias := fmt.Sprintf("QTEMP.SRC_%s", mbr)
		if _, err := db.ExecContext(ctx,
			fmt.Sprintf("CREATE OR REPLACE ALIAS %s FOR %s.%s (%s)", alias, lib, srcpf, mbr)); err != nil {
			return errors.Wrap(errors.QueryFailed, "create member alias", err)
		}

		rows, err := db.QueryContext(ctx,
			fmt.Sprintf("SELECT SRCSEQ, SRCDAT, SRCDTA FROM %s ORDER BY SRCSEQ", alias))
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "read source lines", err)
		}
		defer rows.Close()
		for rows.Next() {
			var seq sql.NullFloat64
			var date sql.NullInt64
			var data sql.NullString
			if err := rows.Scan(&seq, &date, &data); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan source line", err)
			}
			ln := SourceLine{Seq: seq.Float64, Text: strings.TrimRight(data.String, " ")}
			if date.Valid && date.Int64 != 0 {
				ln.Date = fmt.Sprintf("%06d", date.Int64)
			}
			src.Lines = append(src.Lines, ln)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

// GetData reads up to maxRows rows of library/table with the catalog
// column labels attached. maxRows of zero falls back to the service
// bound.
func (s *Service) GetData(ctx context.Context, library, table string, maxRows int) (*RowSet, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	tbl, err := ident.Normalize(table)
	if err != nil {
		return nil, err
	}
	if maxRows <= 0 {
		maxRows = s.maxRows
	}

	var out *RowSet
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		cols, err := queryColumns(ctx, db, lib, tbl)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return errors.Newf(errors.NotFound, "table not found: %s/%s", lib, tbl)
		}

		labels := make(map[string]string, len(cols))
		names := make([]string, len(cols))
		for i, c := range cols {
			labels[c.Name] = c.Text
			names[i] = c.Name
		}

		// One row past the bound so truncation is detectable.
		q := fmt.Sprintf("SELECT %s FROM %s.%s FETCH FIRST %d ROWS ONLY",
			strings.Join(names, ", "), lib, tbl, maxRows+1)
		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "read table data", err)
		}
		defer rows.Close()

		out, err = scanRowSet(rows, labels, maxRows)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "scan data row", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunQuery executes one ad hoc statement after the SELECT-only check
// and returns up to maxRows rows. Rejected statements never reach the
// host.
func (s *Service) RunQuery(ctx context.Context, query string, maxRows int) (*RowSet, error) {
	if err := sqlguard.ValidateSelectOnly(query); err != nil {
		return nil, err
	}
	if maxRows <= 0 {
		maxRows = s.maxRows
	}

	var out *RowSet
	err := s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "run query", err)
		}
		defer rows.Close()
		out, err = scanRowSet(rows, nil, maxRows)
		if err != nil {
			return errors.Wrap(errors.QueryFailed, "scan query row", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPrograms returns the *PGM objects in library. programType
// filters on the object attribute (RPGLE, CLP, ...); empty or "ALL"
// keeps everything.
func (s *Service) ListPrograms(ctx context.Context, library, pattern, programType string) ([]Program, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	q := `SELECT
			OBJNAME,
			COALESCE(OBJATTRIBUTE, ''),
			COALESCE(OBJTEXT, ''),
			OBJCREATED,
			CHANGE_TIMESTAMP,
			OBJSIZE,
			COALESCE(SOURCE_FILE, ''),
			COALESCE(SOURCE_LIBRARY, ''),
			COALESCE(SOURCE_MEMBER, '')
		FROM TABLE(QSYS2.OBJECT_STATISTICS(?, '*PGM'))
		WHERE OBJNAME LIKE ?`
	args := []any{lib, p}
	if t := strings.ToUpper(strings.TrimSpace(programType)); t != "" && t != "ALL" {
		q += ` AND OBJATTRIBUTE = ?`
		args = append(args, t)
	}
	q += ` ORDER BY OBJNAME`

	var out []Program
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, args...)
		if err != nil {
			return classifyVersionError("list programs", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, attr, text, created, changed, sfile, slib, smbr sql.NullString
			var size sql.NullInt64
			if err := rows.Scan(&name, &attr, &text, &created, &changed, &size, &sfile, &slib, &smbr); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan program row", err)
			}
			out = append(out, Program{
				Name:          strip(name),
				Attribute:     strip(attr),
				Text:          strip(text),
				Created:       strip(created),
				Changed:       strip(changed),
				Size:          size.Int64,
				SourceFile:    strip(sfile),
				SourceLibrary: strip(slib),
				SourceMember:  strip(smbr),
			})
		}
		return rows.Err()
	})
	return out, err
}

// GetProgramReferences reads the files a program references and the
// modules bound into it. The backing catalog views exist from IBM i
// 7.4; older releases surface unsupported_on_version.
func (s *Service) GetProgramReferences(ctx context.Context, library, program string) (*ProgramReferences, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	pgm, err := ident.Normalize(program)
	if err != nil {
		return nil, err
	}

	refs := &ProgramReferences{Program: lib + "/" + pgm}
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT
				r.SYSTEM_TABLE_SCHEMA,
				r.SYSTEM_TABLE_NAME,
				COALESCE(r.USAGE, ''),
				COALESCE(t.TABLE_TEXT, '')
			FROM QSYS2.PROGRAM_FILE_REFERENCES r
			LEFT JOIN QSYS2.SYSTABLES t
				ON r.SYSTEM_TABLE_SCHEMA = t.SYSTEM_TABLE_SCHEMA
				AND r.SYSTEM_TABLE_NAME = t.SYSTEM_TABLE_NAME
			WHERE r.PROGRAM_LIBRARY = ? AND r.PROGRAM_NAME = ?
			ORDER BY r.SYSTEM_TABLE_NAME`, lib, pgm)
		if err != nil {
			return classifyVersionError("get program references", err)
		}
		defer rows.Close()
		for rows.Next() {
			var flib, fname, usage, text sql.NullString
			if err := rows.Scan(&flib, &fname, &usage, &text); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan file reference", err)
			}
			refs.Files = append(refs.Files, FileReference{
				Library: strip(flib),
				File:    strip(fname),
				Usage:   strip(usage),
				Text:    strip(text),
			})
		}
		if err := rows.Err(); err != nil {
			return err
		}

		modRows, err := db.QueryContext(ctx,
			`SELECT BOUND_MODULE_LIBRARY, BOUND_MODULE
			FROM QSYS2.PROGRAM_BOUND_MODULE_INFO
			WHERE PROGRAM_LIBRARY = ? AND PROGRAM_NAME = ?`, lib, pgm)
		if err != nil {
			// OPM programs have no bound modules and older releases lack
			// the view; the file references above still stand.
			return nil
		}
		defer modRows.Close()
		for modRows.Next() {
			var mlib, mod sql.NullString
			if err := modRows.Scan(&mlib, &mod); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan bound module", err)
			}
			refs.BoundModules = append(refs.BoundModules, BoundModule{Library: strip(mlib), Module: strip(mod)})
		}
		return modRows.Err()
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ListDataAreas returns the data areas in library matching pattern.
func (s *Service) ListDataAreas(ctx context.Context, library, pattern string) ([]DataArea, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return nil, err
	}
	p, err := ident.NormalizePattern(pattern)
	if err != nil {
		return nil, err
	}

	var out []DataArea
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT
				DATA_AREA_NAME,
				DATA_AREA_TYPE,
				COALESCE(LENGTH, 0),
				COALESCE(DECIMAL_POSITIONS, 0),
				COALESCE(DATA_AREA_VALUE, ''),
				COALESCE(TEXT_DESCRIPTION, '')
			FROM QSYS2.DATA_AREA_INFO
			WHERE DATA_AREA_LIBRARY = ? AND DATA_AREA_NAME LIKE ?
			ORDER BY DATA_AREA_NAME`, lib, p)
		if err != nil {
			return classifyVersionError("list data areas", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, typ, value, text sql.NullString
			var length, decimals sql.NullInt64
			if err := rows.Scan(&name, &typ, &length, &decimals, &value, &text); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan data area row", err)
			}
			out = append(out, DataArea{
				Name:             strip(name),
				Type:             strip(typ),
				Length:           int(length.Int64),
				DecimalPositions: int(decimals.Int64),
				Value:            strip(value),
				Description:      strip(text),
			})
		}
		return rows.Err()
	})
	return out, err
}

// developmentValues are the system values relevant to development work:
// serial and model, language, date/time/decimal formats and the library
// lists.
var developmentValues = []string{
	"QSRLNBR", "QMODEL", "QLANGID", "QDATFMT", "QDATSEP",
	"QTIMFMT", "QTIMSEP", "QDECFMT", "QCURSYM", "QSYSLIBL", "QUSRLIBL",
}

// GetSystemInfo assembles a best-effort host snapshot. Sections backed
// by views the release lacks are skipped and noted in Warnings rather
// than failing the call.
func (s *Service) GetSystemInfo(ctx context.Context) (*SystemInfo, error) {
	info := &SystemInfo{Values: map[string]string{}}

	err := s.runner.WithConnection(ctx, func(db *sql.DB) error {
		placeholders := strings.Repeat("?, ", len(developmentValues)-1) + "?"
		args := make([]any, len(developmentValues))
		for i, v := range developmentValues {
			args[i] = v
		}
		rows, err := db.QueryContext(ctx,
			`SELECT SYSTEM_VALUE_NAME,
				COALESCE(CURRENT_CHARACTER_VALUE, CAST(CURRENT_NUMERIC_VALUE AS VARCHAR(50)))
			FROM QSYS2.SYSTEM_VALUE_INFO
			WHERE SYSTEM_VALUE_NAME IN (`+placeholders+`)`, args...)
		if err != nil {
			info.Warnings = append(info.Warnings, "system values unavailable: "+err.Error())
		} else {
			defer rows.Close()
			for rows.Next() {
				var name, value sql.NullString
				if err := rows.Scan(&name, &value); err != nil {
					return errors.Wrap(errors.QueryFailed, "scan system value", err)
				}
				info.Values[strip(name)] = strip(value)
			}
			if err := rows.Err(); err != nil {
				return err
			}
		}

		row := db.QueryRowContext(ctx,
			`SELECT OS_NAME, OS_VERSION, OS_RELEASE
			FROM SYSIBMADM.ENV_SYS_INFO
			FETCH FIRST 1 ROW ONLY`)
		var osName, osVersion, osRelease sql.NullString
		if err := row.Scan(&osName, &osVersion, &osRelease); err != nil {
			info.Warnings = append(info.Warnings, "version info unavailable: "+err.Error())
		} else {
			info.OSName = strip(osName)
			info.OSVersion = strip(osVersion)
			info.OSRelease = strip(osRelease)
		}

		row = db.QueryRowContext(ctx,
			`SELECT CURRENT_NUMERIC_VALUE FROM QSYS2.SYSTEM_VALUE_INFO
			WHERE SYSTEM_VALUE_NAME = 'QCCSID'`)
		var ccsid sql.NullInt64
		if err := row.Scan(&ccsid); err == nil {
			info.CCSID = int(ccsid.Int64)
		}

		row = db.QueryRowContext(ctx,
			`SELECT JOB_CCSID FROM QSYS2.JOB_INFO WHERE JOB_NAME = '*'`)
		var jobCCSID sql.NullInt64
		if err := row.Scan(&jobCCSID); err == nil {
			info.JobCCSID = int(jobCCSID.Int64)
		}

		row = db.QueryRowContext(ctx,
			`SELECT CURRENT_USER, CURRENT_SCHEMA FROM SYSIBM.SYSDUMMY1`)
		var user, schema sql.NullString
		if err := row.Scan(&user, &schema); err != nil {
			info.Warnings = append(info.Warnings, "connection info unavailable: "+err.Error())
		} else {
			info.User = strip(user)
			info.Schema = strip(schema)
		}

		prodRows, err := db.QueryContext(ctx,
			`SELECT PRODUCT_ID, PRODUCT_OPTION, COALESCE(PRODUCT_DESCRIPTION_TEXT, '')
			FROM QSYS2.SOFTWARE_PRODUCT_INFO
			WHERE PRODUCT_ID IN ('5770WDS', '5770SS1')
				AND SYMBOLIC_LOAD_STATE = '*INSTALLED'
			ORDER BY PRODUCT_ID, PRODUCT_OPTION`)
		if err != nil {
			info.Warnings = append(info.Warnings, "installed products unavailable: "+err.Error())
			return nil
		}
		defer prodRows.Close()
		for prodRows.Next() {
			var id, option, text sql.NullString
			if err := prodRows.Scan(&id, &option, &text); err != nil {
				return errors.Wrap(errors.QueryFailed, "scan product row", err)
			}
			info.Products = append(info.Products, Product{
				ID:          strip(id),
				Option:      strip(option),
				Description: strip(text),
			})
		}
		return prodRows.Err()
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SourceFileExists reports whether library holds a source physical
// file with the given name.
func (s *Service) SourceFileExists(ctx context.Context, library, sourceFile string) (bool, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return false, err
	}
	srcpf, err := ident.Normalize(sourceFile)
	if err != nil {
		return false, err
	}

	var found bool
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT 1 FROM QSYS2.SYSTABLES
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ? AND FILE_TYPE = 'S'`,
			lib, srcpf)
		var one int
		switch err := row.Scan(&one); err {
		case nil:
			found = true
			return nil
		case sql.ErrNoRows:
			return nil
		default:
			return errors.Wrap(errors.QueryFailed, "probe source file", err)
		}
	})
	return found, err
}

// MemberExists reports whether the member exists in library/sourceFile.
func (s *Service) MemberExists(ctx context.Context, library, sourceFile, member string) (bool, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return false, err
	}
	srcpf, err := ident.Normalize(sourceFile)
	if err != nil {
		return false, err
	}
	mbr, err := ident.Normalize(member)
	if err != nil {
		return false, err
	}

	var found bool
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT 1 FROM QSYS2.SYSPARTITIONSTAT
			WHERE SYSTEM_TABLE_SCHEMA = ? AND SYSTEM_TABLE_NAME = ? AND SYSTEM_TABLE_MEMBER = ?`,
			lib, srcpf, mbr)
		var one int
		switch err := row.Scan(&one); err {
		case nil:
			found = true
			return nil
		case sql.ErrNoRows:
			return nil
		default:
			return errors.Wrap(errors.QueryFailed, "probe member", err)
		}
	})
	return found, err
}

// ObjectExists reports whether an object of objType (for example
// "*PGM" or "*FILE") exists in library.
func (s *Service) ObjectExists(ctx context.Context, library, object, objType string) (bool, error) {
	lib, err := ident.Normalize(library)
	if err != nil {
		return false, err
	}
	obj, err := ident.Normalize(object)
	if err != nil {
		return false, err
	}

	var found bool
	err = s.runner.WithConnection(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT 1 FROM TABLE(QSYS2.OBJECT_STATISTICS(?, ?)) WHERE OBJNAME = ?`,
			lib, objType, obj)
		var one int
		switch err := row.Scan(&one); err {
		case nil:
			found = true
			return nil
		case sql.ErrNoRows:
			return nil
		default:
			return errors.Wrap(errors.QueryFailed, "probe object", err)
		}
	})
	return found, err
}

// classifyVersionError maps SQL0204 (object not found, raised when a
// catalog view is absent on the release) to unsupported_on_version.
func classifyVersionError(op string, err error) error {
	if strings.Contains(err.Error(), "SQL0204") {
		return errors.Wrapf(errors.UnsupportedOnVersion, err, "%s: catalog view not available on this release", op)
	}
	return errors.Wrap(errors.QueryFailed, op, err)
}
