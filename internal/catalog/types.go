// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog reads Db2 for i metadata through the QSYS2 catalog
// views. Every call borrows a connection from a hostdb.Runner for the
// duration of the call and releases it before returning.
package catalog

// Library is one schema row from QSYS2.SYSSCHEMAS.
type Library struct {
	Name string
	Text string
}

// Table is one file row from QSYS2.SYSTABLES. Type is P (physical),
// L (logical) or V (view).
type Table struct {
	Name string
	Text string
	Type string
}

// Column is one row from QSYS2.SYSCOLUMNS, joined with key-constraint
// data. KeySequence is nil for columns that are not part of the
// primary key.
type Column struct {
	Name          string
	Text          string
	DataType      string
	Length        int
	DecimalPlaces int
	Nullable      bool
	Position      int
	DefaultValue  string
	CCSID         int
	KeySequence   *int
}

// Index is one row from QSYS2.SYSINDEXES.
type Index struct {
	Name   string
	Text   string
	Unique bool
}

// TableInfo is the combined detail view of a single table.
type TableInfo struct {
	Table      Table
	Columns    []Column
	PrimaryKey []string
	Indexes    []Index
}

// SourceFile is a source physical file (FILE_TYPE = 'S') with its
// member count and the CCSID of the SRCDTA column.
type SourceFile struct {
	Name        string
	Description string
	MemberCount int
	CCSID       int
}

// SourceMember is one member row from QSYS2.SYSPARTITIONSTAT.
type SourceMember struct {
	Name       string
	SourceType string
	Text       string
}

// SourceLine is one record of a source member. Seq carries the
// fractional sequence number and Date the YYMMDD change date.
type SourceLine struct {
	Seq  float64
	Date string
	Text string
}

// Source is a member's metadata plus its full line set.
type Source struct {
	Member SourceMember
	Lines  []SourceLine
}

// Text joins the member's lines into a single newline-separated string.
func (s *Source) Text() string {
	if len(s.Lines) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(s.Lines)*40)
	for i, ln := range s.Lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, ln.Text...)
	}
	return string(buf)
}

// Program is one *PGM object from QSYS2.OBJECT_STATISTICS.
type Program struct {
	Name          string
	Attribute     string
	Text          string
	Created       string
	Changed       string
	Size          int64
	SourceFile    string
	SourceLibrary string
	SourceMember  string
}

// FileReference is one row from QSYS2.PROGRAM_FILE_REFERENCES.
type FileReference struct {
	Library string
	File    string
	Usage   string
	Text    string
}

// BoundModule is one row from QSYS2.PROGRAM_BOUND_MODULE_INFO.
type BoundModule struct {
	Library string
	Module  string
}

// ProgramReferences is the dependency view of a single program.
type ProgramReferences struct {
	Program      string
	Files        []FileReference
	BoundModules []BoundModule
}

// DataArea is one row from QSYS2.DATA_AREA_INFO.
type DataArea struct {
	Name             string
	Type             string
	Length           int
	DecimalPositions int
	Value            string
	Description      string
}

// ResultColumn names one column of a row set, with its catalog label
// when one is known.
type ResultColumn struct {
	Name  string
	Label string
}

// RowSet is a bounded query result. Truncated is set when the row
// limit cut the result short.
type RowSet struct {
	Columns   []ResultColumn
	Rows      [][]string
	Truncated bool
}

// SystemInfo is the best-effort snapshot assembled by GetSystemInfo.
// Sections the host cannot answer stay at their zero value and the
// failure is recorded in Warnings.
type SystemInfo struct {
	Values    map[string]string
	OSName    string
	OSVersion string
	OSRelease string
	CCSID     int
	JobCCSID  int
	User      string
	Schema    string
	Products  []Product
	Warnings  []string
}

// Product is one installed software product row.
type Product struct {
	ID          string
	Option      string
	Description string
}
