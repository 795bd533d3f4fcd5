// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package deploy

import (
	"context"
	"database/sql"
	"io"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibridge/cli/internal/config"
	"ibridge/cli/internal/errors"
	"ibridge/cli/internal/transfer"
)

type runnerFunc func(ctx context.Context, op func(db *sql.DB) error) error

func (f runnerFunc) WithConnection(ctx context.Context, op func(db *sql.DB) error) error {
	return f(ctx, op)
}

// fakeProber answers existence probes from fixed values.
type fakeProber struct {
	sourceFile bool
	member     bool
	object     bool
}

func (f *fakeProber) SourceFileExists(ctx context.Context, lib, srcpf string) (bool, error) {
	return f.sourceFile, nil
}

func (f *fakeProber) MemberExists(ctx context.Context, lib, srcpf, mbr string) (bool, error) {
	return f.member, nil
}

func (f *fakeProber) ObjectExists(ctx context.Context, lib, obj, objType string) (bool, error) {
	return f.object, nil
}

// countingDialer counts sessions and records what the last one stored.
type countingDialer struct {
	dials  int
	path   string
	stored []byte
}

func (d *countingDialer) Dial(ctx context.Context) (transfer.Session, error) {
	d.dials++
	return &countingSession{dialer: d}, nil
}

type countingSession struct {
	dialer *countingDialer
}

func (s *countingSession) Store(path string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.dialer.path = path
	s.dialer.stored = b
	return nil
}

func (s *countingSession) Close() error { return nil }

func newTestPipeline(t *testing.T, probes Prober, dialer transfer.Dialer) (*Pipeline, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := runnerFunc(func(ctx context.Context, op func(db *sql.DB) error) error {
		return op(db)
	})
	return NewPipeline(probes, runner, dialer, config.Default(), nil), mock
}

func TestRunRejectsProtectedLibrary(t *testing.T) {
	dialer := &countingDialer{}
	p, mock := newTestPipeline(t, &fakeProber{}, dialer)

	_, err := p.Run(context.Background(), Request{
		Library:    "QGPL",
		SourceFile: "QRPGSRC",
		Member:     "ORDMNT",
		SourceType: "RPGLE",
		Source:     "C                   SETON                                        LR",
	})
	assert.True(t, errors.IsKind(err, errors.ProtectedNamespace))
	// Rejection happens before any transfer-channel interaction.
	assert.Equal(t, 0, dialer.dials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRejectsProtectedTargetLibrary(t *testing.T) {
	dialer := &countingDialer{}
	p, _ := newTestPipeline(t, &fakeProber{}, dialer)

	_, err := p.Run(context.Background(), Request{
		Library:       "MYLIB",
		SourceFile:    "QRPGSRC",
		Member:        "ORDMNT",
		SourceType:    "RPGLE",
		TargetLibrary: "SYSTOOLS",
		Source:        "X",
	})
	assert.True(t, errors.IsKind(err, errors.ProtectedNamespace))
	assert.Equal(t, 0, dialer.dials)
}

func TestRunUnknownSourceType(t *testing.T) {
	dialer := &countingDialer{}
	p, _ := newTestPipeline(t, &fakeProber{}, dialer)

	_, err := p.Run(context.Background(), Request{
		Library:    "MYLIB",
		SourceFile: "QRPGSRC",
		Member:     "ORDMNT",
		SourceType: "TXT",
		Source:     "X",
	})
	assert.True(t, errors.IsKind(err, errors.UnknownSourceType))
	assert.Equal(t, 0, dialer.dials)
}

func TestRunMemberExistsWithoutOverwrite(t *testing.T) {
	dialer := &countingDialer{}
	p, _ := newTestPipeline(t, &fakeProber{sourceFile: true, member: true}, dialer)

	_, err := p.Run(context.Background(), Request{
		Library:    "MYLIB",
		SourceFile: "QRPGSRC",
		Member:     "ORDMNT",
		SourceType: "RPGLE",
		Source:     "X",
	})
	assert.True(t, errors.IsKind(err, errors.MemberExists))
	assert.Equal(t, 0, dialer.dials)
}

func TestRunSourceFileMissing(t *testing.T) {
	dialer := &countingDialer{}
	p, _ := newTestPipeline(t, &fakeProber{sourceFile: false}, dialer)

	_, err := p.Run(context.Background(), Request{
		Library:    "MYLIB",
		SourceFile: "NOSRC",
		Member:     "ORDMNT",
		SourceType: "RPGLE",
		Source:     "X",
	})
	assert.True(t, errors.IsKind(err, errors.NotFound))
	assert.Equal(t, 0, dialer.dials)
}

func expectCompile(mock sqlmock.Sqlmock, diagRows *sqlmock.Rows) {
	mock.ExpectQuery(`MAX\(ORDINAL_POSITION\)`).
		WillReturnRows(sqlmock.NewRows([]string{"MARK"}).AddRow(5))
	mock.ExpectExec(`CALL QSYS2.QCMDEXC`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM TABLE\(QSYS2.JOBLOG_INFO`).
		WithArgs(int64(5)).
		WillReturnRows(diagRows)
}

func TestRunWarningsOnlySucceeds(t *testing.T) {
	dialer := &countingDialer{}
	p, mock := newTestPipeline(t, &fakeProber{sourceFile: true, member: true, object: true}, dialer)

	expectCompile(mock, sqlmock.NewRows([]string{"ID", "SEV", "TEXT"}).
		AddRow("CPC2206", 0, "Ownership of object ORDMNT changed.").
		AddRow("RNS9308", 20, "Warning at line 12: unreferenced field X."))

	res, err := p.Run(context.Background(), Request{
		Library:    "MYLIB",
		SourceFile: "QRPGSRC",
		Member:     "ORDMNT",
		SourceType: "RPGLE",
		Source:     "TEST",
		Overwrite:  true,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "MYLIB/ORDMNT", res.Object)
	assert.Equal(t, "CRTBNDRPG PGM(MYLIB/ORDMNT) SRCFILE(MYLIB/QRPGSRC) SRCMBR(ORDMNT)", res.Command)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 12, res.Diagnostics[1].Line)

	assert.Equal(t, 1, dialer.dials)
	assert.Equal(t, "/QSYS.LIB/MYLIB.LIB/QRPGSRC.FILE/ORDMNT.MBR", dialer.path)
	// "TEST" in the default code page 37.
	assert.Equal(t, []byte{0xE3, 0xC5, 0xE2, 0xE3}, dialer.stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCompileErrorIsResultNotError(t *testing.T) {
	dialer := &countingDialer{}
	p, mock := newTestPipeline(t, &fakeProber{sourceFile: true, member: true, object: false}, dialer)

	expectCompile(mock, sqlmock.NewRows([]string{"ID", "SEV", "TEXT"}).
		AddRow("RNS9309", 30, "Error at line 4: ORDFILE not defined.").
		AddRow("CPF7302", 40, "Program ORDMNT not created in library MYLIB."))

	res, err := p.Run(context.Background(), Request{
		Library:    "MYLIB",
		SourceFile: "QRPGSRC",
		Member:     "ORDMNT",
		SourceType: "RPGLE",
		Source:     "TEST",
		Overwrite:  true,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 4, res.Diagnostics[0].Line)
}

func TestRunCreatesMissingMember(t *testing.T) {
	dialer := &countingDialer{}
	p, mock := newTestPipeline(t, &fakeProber{sourceFile: true, member: false, object: true}, dialer)

	mock.ExpectExec(`CALL QSYS2.QCMDEXC`).
		WithArgs("ADDPFM FILE(MYLIB/QCLSRC) MBR(NIGHTLY) SRCTYPE(CLP) TEXT('Nightly batch')").
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectCompile(mock, sqlmock.NewRows([]string{"ID", "SEV", "TEXT"}))

	res, err := p.Run(context.Background(), Request{
		Library:     "MYLIB",
		SourceFile:  "QCLSRC",
		Member:      "NIGHTLY",
		SourceType:  "CLP",
		Source:      "PGM\nENDPGM",
		Description: "Nightly batch",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.LineCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompileCommandShapes(t *testing.T) {
	tests := []struct {
		sourceType string
		want       string
	}{
		{"RPGLE", "CRTBNDRPG PGM(TGT/MBR) SRCFILE(LIB/SRC) SRCMBR(MBR)"},
		{"PF", "CRTPF FILE(TGT/MBR) SRCFILE(LIB/SRC) SRCMBR(MBR)"},
		{"CMD", "CRTCMD CMD(TGT/MBR) PGM(*LIBL/MBR) SRCFILE(LIB/SRC) SRCMBR(MBR)"},
		{"SQLRPGLE", "CRTSQLRPGI PGM(TGT/MBR) SRCFILE(LIB/SRC) SRCMBR(MBR)"},
	}
	for _, tt := range tests {
		cmd, err := CompileCommand(tt.sourceType)
		require.NoError(t, err)
		got := buildCompileCommand(cmd, "TGT", "LIB", "SRC", "MBR", "")
		assert.Equal(t, tt.want, got)
	}
}

func TestCompileCommandOptions(t *testing.T) {
	cmd, err := CompileCommand("clle")
	require.NoError(t, err)
	got := buildCompileCommand(cmd, "TGT", "LIB", "SRC", "MBR", "DBGVIEW(*SOURCE)")
	assert.Equal(t, "CRTBNDCL PGM(TGT/MBR) SRCFILE(LIB/SRC) SRCMBR(MBR) DBGVIEW(*SOURCE)", got)
}

func TestIsProtected(t *testing.T) {
	prefixes := config.Default().ProtectedPrefixes
	assert.True(t, IsProtected("QGPL", prefixes))
	assert.True(t, IsProtected("SYSTOOLS", prefixes))
	assert.False(t, IsProtected("MYLIB", prefixes))
	assert.False(t, IsProtected("ACCTQ", prefixes))
}
