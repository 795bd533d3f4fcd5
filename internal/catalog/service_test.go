// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibridge/cli/internal/errors"
)

// runnerFunc adapts a function to hostdb.Runner so tests can hand the
// service a sqlmock-backed database.
type runnerFunc func(ctx context.Context, op func(db *sql.DB) error) error

func (f runnerFunc) WithConnection(ctx context.Context, op func(db *sql.DB) error) error {
	return f(ctx, op)
}

func newMockService(t *testing.T, maxRows int) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(runnerFunc(func(ctx context.Context, op func(db *sql.DB) error) error {
		return op(db)
	}), maxRows)
	return svc, mock
}

func TestListLibraries(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSSCHEMAS`).
		WithArgs("%").
		WillReturnRows(sqlmock.NewRows([]string{"SYSTEM_SCHEMA_NAME", "TEXT"}).
			AddRow("ACCTLIB   ", "Accounting data      ").
			AddRow("MYLIB     ", nil))

	libs, err := svc.ListLibraries(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.Equal(t, Library{Name: "ACCTLIB", Text: "Accounting data"}, libs[0])
	assert.Equal(t, Library{Name: "MYLIB", Text: ""}, libs[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTablesTypeFilter(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSTABLES`).
		WithArgs("MYLIB", "ORD%", "P").
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "TEXT", "TYPE"}).
			AddRow("ORDERS    ", "Order master", "P"))

	tables, err := svc.ListTables(context.Background(), "mylib", "ord%", "p")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, Table{Name: "ORDERS", Text: "Order master", Type: "P"}, tables[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTablesInvalidLibrary(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	_, err := svc.ListTables(context.Background(), "my lib", "%", "ALL")
	assert.True(t, errors.IsKind(err, errors.InvalidIdentifier))
	// Validation failures never reach the host.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"NAME", "TEXT", "TYPE", "LENGTH", "SCALE", "NULLABLE", "POS", "DEFAULT", "CCSID", "KEYSEQ",
	})
}

func TestGetColumnsKeySequence(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSCOLUMNS c LEFT JOIN QSYS2.SYSKEYCST k`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(columnRows().
			AddRow("ORDERNO   ", "Order number", "DECIMAL", 7, 0, "N", 1, "", 0, 1).
			AddRow("STATUS    ", "", "CHAR", 1, 0, "Y", 2, "'N'", 37, nil))

	cols, err := svc.GetColumns(context.Background(), "mylib", "orders")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	require.NotNil(t, cols[0].KeySequence)
	assert.Equal(t, 1, *cols[0].KeySequence)
	assert.Equal(t, "ORDERNO", cols[0].Name)
	assert.False(t, cols[0].Nullable)

	assert.Nil(t, cols[1].KeySequence)
	assert.True(t, cols[1].Nullable)
	assert.Equal(t, 37, cols[1].CCSID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableInfoNotFound(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSTABLES`).
		WithArgs("MYLIB", "NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "TEXT", "TYPE"}))

	_, err := svc.GetTableInfo(context.Background(), "MYLIB", "NOPE")
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestGetTableInfoDDSKeyFallback(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSTABLES`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "TEXT", "TYPE"}).
			AddRow("ORDERS", "Order master", "P"))
	mock.ExpectQuery(`FROM QSYS2.SYSCOLUMNS c LEFT JOIN QSYS2.SYSKEYCST k`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(columnRows().
			AddRow("ORDERNO   ", "", "DECIMAL", 7, 0, "N", 1, "", 0, nil))
	// No SQL constraint, so the DDS key fields decide.
	mock.ExpectQuery(`FROM QSYS2.SYSKEYCST`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}))
	mock.ExpectQuery(`FROM QSYS.QADBKFLD`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"DBKFLD"}).AddRow("ORDERNO   "))
	mock.ExpectQuery(`FROM QSYS2.SYSINDEXES`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "TEXT", "UNIQUE"}).
			AddRow("ORDERSL1", "By status", "Y"))

	info, err := svc.GetTableInfo(context.Background(), "MYLIB", "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, []string{"ORDERNO"}, info.PrimaryKey)
	require.Len(t, info.Indexes, 1)
	assert.True(t, info.Indexes[0].Unique)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSource(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSPARTITIONSTAT`).
		WithArgs("MYLIB", "QRPGSRC", "ORDMNT").
		WillReturnRows(sqlmock.NewRows([]string{"MEMBER", "TYPE", "TEXT"}).
			AddRow("ORDMNT    ", "RPGLE", "Order maintenance   "))
	mock.ExpectExec(`CREATE OR REPLACE ALIAS QTEMP.SRC_ORDMNT FOR MYLIB.QRPGSRC \(ORDMNT\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM QTEMP.SRC_ORDMNT ORDER BY SRCSEQ`).
		WillReturnRows(sqlmock.NewRows([]string{"SRCSEQ", "SRCDAT", "SRCDTA"}).
			AddRow(10.0, 230101, "FOO   ").
			AddRow(30.0, nil, "BAR "))

	src, err := svc.GetSource(context.Background(), "mylib", "qrpgsrc", "ordmnt")
	require.NoError(t, err)
	assert.Equal(t, "ORDMNT", src.Member.Name)
	assert.Equal(t, "RPGLE", src.Member.SourceType)
	require.Len(t, src.Lines, 2)
	assert.Equal(t, SourceLine{Seq: 10, Date: "230101", Text: "FOO"}, src.Lines[0])
	assert.Equal(t, SourceLine{Seq: 30, Text: "BAR"}, src.Lines[1])
	assert.Equal(t, "FOO\nBAR", src.Text())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSourceNotFound(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSPARTITIONSTAT`).
		WithArgs("MYLIB", "QRPGSRC", "NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"MEMBER", "TYPE", "TEXT"}))

	_, err := svc.GetSource(context.Background(), "MYLIB", "QRPGSRC", "NOPE")
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestGetData(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.SYSCOLUMNS c LEFT JOIN QSYS2.SYSKEYCST k`).
		WithArgs("MYLIB", "ORDERS").
		WillReturnRows(columnRows().
			AddRow("ORDERNO   ", "Order number", "DECIMAL", 7, 0, "N", 1, "", 0, 1).
			AddRow("CUSTNAME  ", "Customer", "CHAR", 30, 0, "Y", 2, "", 37, nil))
	mock.ExpectQuery(`SELECT ORDERNO, CUSTNAME FROM MYLIB.ORDERS`).
		WillReturnRows(sqlmock.NewRows([]string{"ORDERNO", "CUSTNAME"}).
			AddRow("1001", "SMITH AND CO        ").
			AddRow("1002", nil))

	set, err := svc.GetData(context.Background(), "MYLIB", "ORDERS", 10)
	require.NoError(t, err)
	require.Len(t, set.Columns, 2)
	assert.Equal(t, ResultColumn{Name: "ORDERNO", Label: "Order number"}, set.Columns[0])
	require.Len(t, set.Rows, 2)
	assert.Equal(t, []string{"1001", "SMITH AND CO"}, set.Rows[0])
	assert.Equal(t, []string{"1002", ""}, set.Rows[1])
	assert.False(t, set.Truncated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQueryRejectsMutation(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	_, err := svc.RunQuery(context.Background(), "DELETE FROM MYLIB.ORDERS", 10)
	assert.True(t, errors.IsKind(err, errors.UnsafeQueryRejected))
	// The statement never reaches the host.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQueryTruncates(t *testing.T) {
	svc, mock := newMockService(t, 2)

	rows := sqlmock.NewRows([]string{"N"})
	for i := 1; i <= 3; i++ {
		rows.AddRow(fmt.Sprintf("%d", i))
	}
	mock.ExpectQuery(`SELECT N FROM MYLIB.T1`).WillReturnRows(rows)

	set, err := svc.RunQuery(context.Background(), "SELECT N FROM MYLIB.T1", 0)
	require.NoError(t, err)
	assert.Len(t, set.Rows, 2)
	assert.True(t, set.Truncated)
}

func TestGetProgramReferencesUnsupported(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`FROM QSYS2.PROGRAM_FILE_REFERENCES r`).
		WithArgs("MYLIB", "ORDMNT").
		WillReturnError(fmt.Errorf("SQL0204: PROGRAM_FILE_REFERENCES in QSYS2 type *FILE not found"))

	_, err := svc.GetProgramReferences(context.Background(), "MYLIB", "ORDMNT")
	assert.True(t, errors.IsKind(err, errors.UnsupportedOnVersion))
}

func TestMemberExists(t *testing.T) {
	svc, mock := newMockService(t, 1000)

	mock.ExpectQuery(`SELECT 1 FROM QSYS2.SYSPARTITIONSTAT`).
		WithArgs("MYLIB", "QRPGSRC", "ORDMNT").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM QSYS2.SYSPARTITIONSTAT`).
		WithArgs("MYLIB", "QRPGSRC", "NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := svc.MemberExists(context.Background(), "MYLIB", "QRPGSRC", "ORDMNT")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.MemberExists(context.Background(), "MYLIB", "QRPGSRC", "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
