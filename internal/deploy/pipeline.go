// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package deploy

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ibridge/cli/internal/ccsid"
	"ibridge/cli/internal/config"
	"ibridge/cli/internal/errors"
	"ibridge/cli/internal/hostdb"
	"ibridge/cli/internal/ident"
	"ibridge/cli/internal/transfer"
)

// Request describes one source deployment. Source is the UTF-8 payload;
// TargetLibrary defaults to Library; Options is appended verbatim to
// the compile command.
type Request struct {
	Library       string
	SourceFile    string
	Member        string
	SourceType    string
	Source        string
	Description   string
	Overwrite     bool
	TargetLibrary string
	Options       string
}

// Result is the outcome of a deployment that ran to completion.
// Success is false when the compile produced an error-severity
// diagnostic or no object; that is a normal result, not an error.
type Result struct {
	Success     bool
	Object      string
	Command     string
	Diagnostics []Diagnostic
	LineCount   int
}

// Prober answers the existence questions the pipeline asks before it
// touches the transfer channel. Satisfied by catalog.Service.
type Prober interface {
	SourceFileExists(ctx context.Context, library, sourceFile string) (bool, error)
	MemberExists(ctx context.Context, library, sourceFile, member string) (bool, error)
	ObjectExists(ctx context.Context, library, object, objType string) (bool, error)
}

// Pipeline deploys source members. It is stateless across runs; every
// run borrows connections and transfer sessions for its own duration.
type Pipeline struct {
	probes Prober
	runner hostdb.Runner
	dialer transfer.Dialer
	cfg    config.Config
	emit   func(Event)
}

// NewPipeline assembles a pipeline. emit may be nil when no UI is
// attached.
func NewPipeline(probes Prober, runner hostdb.Runner, dialer transfer.Dialer, cfg config.Config, emit func(Event)) *Pipeline {
	return &Pipeline{probes: probes, runner: runner, dialer: dialer, cfg: cfg, emit: emit}
}

func (p *Pipeline) notify(ev Event) {
	if p.emit != nil {
		p.emit(ev)
	}
}

// IsProtected reports whether library matches any reserved prefix.
func IsProtected(library string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(library, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// Run executes the pipeline once. Validation and the protected-library
// check happen before any connection or transfer-channel interaction.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	p.notify(Event{Stage: StageValidating})

	lib, err := ident.Normalize(req.Library)
	if err != nil {
		return nil, p.fail(err)
	}
	srcpf, err := ident.Normalize(req.SourceFile)
	if err != nil {
		return nil, p.fail(err)
	}
	mbr, err := ident.Normalize(req.Member)
	if err != nil {
		return nil, p.fail(err)
	}
	tgtLib := lib
	if req.TargetLibrary != "" {
		tgtLib, err = ident.Normalize(req.TargetLibrary)
		if err != nil {
			return nil, p.fail(err)
		}
	}
	sourceType := strings.ToUpper(strings.TrimSpace(req.SourceType))
	cmd, err := CompileCommand(sourceType)
	if err != nil {
		return nil, p.fail(err)
	}

	target := fmt.Sprintf("%s/%s(%s)", lib, srcpf, mbr)
	p.notify(Event{Stage: StageProtectedCheck, Target: target})
	for _, l := range []string{lib, tgtLib} {
		if IsProtected(l, p.cfg.ProtectedPrefixes) {
			return nil, p.fail(errors.Newf(errors.ProtectedNamespace,
				"library %s is protected and cannot be written to", l))
		}
	}

	p.notify(Event{Stage: StageEncoding, Target: target})
	page := p.cfg.CCSIDFor(sourceType)
	payload, err := ccsid.Encode(req.Source, page)
	if err != nil {
		return nil, p.fail(err)
	}
	lineCount := 0
	if req.Source != "" {
		lineCount = strings.Count(req.Source, "\n") + 1
	}

	p.notify(Event{Stage: StageTransferring, Target: target})
	if err := p.prepareMember(ctx, lib, srcpf, mbr, sourceType, req); err != nil {
		return nil, p.fail(err)
	}
	if err := p.store(ctx, transfer.MemberPath(lib, srcpf, mbr), payload); err != nil {
		return nil, p.fail(err)
	}

	command := buildCompileCommand(cmd, tgtLib, lib, srcpf, mbr, req.Options)
	p.notify(Event{Stage: StageCompiling, Target: target, Command: command})
	diags, err := p.compile(ctx, command)
	if err != nil {
		return nil, p.fail(err)
	}

	objExists, err := p.probes.ObjectExists(ctx, tgtLib, mbr, objectType(cmd))
	if err != nil {
		return nil, p.fail(err)
	}

	result := &Result{
		Success:     objExists && !hasFailure(diags),
		Object:      tgtLib + "/" + mbr,
		Command:     command,
		Diagnostics: diags,
		LineCount:   lineCount,
	}
	if result.Success {
		p.notify(Event{Stage: StageDone, Target: result.Object, Diagnostics: diags})
	} else {
		p.notify(Event{Stage: StageFailed, Target: result.Object, Diagnostics: diags})
	}
	return result, nil
}

// prepareMember checks the source file and member against the request.
// A missing member is created through ADDPFM; an existing one is only
// reused when the request allows overwriting.
func (p *Pipeline) prepareMember(ctx context.Context, lib, srcpf, mbr, sourceType string, req Request) error {
	exists, err := p.probes.SourceFileExists(ctx, lib, srcpf)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.NotFound,
			"source file not found: %s/%s (create it first with CRTSRCPF)", lib, srcpf)
	}

	memberExists, err := p.probes.MemberExists(ctx, lib, srcpf, mbr)
	if err != nil {
		return err
	}
	if memberExists {
		if !req.Overwrite {
			return errors.Newf(errors.MemberExists,
				"member already exists: %s/%s(%s)", lib, srcpf, mbr)
		}
		return nil
	}

	add := buildAddMemberCommand(lib, srcpf, mbr, sourceType, req.Description)
	return p.runner.WithConnection(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "CALL QSYS2.QCMDEXC(?)", add); err != nil {
			return errors.Wrapf(errors.TransferFailed, err, "create member %s/%s(%s)", lib, srcpf, mbr)
		}
		return nil
	})
}

// store sends the encoded payload through one transfer session.
func (p *Pipeline) store(ctx context.Context, path string, payload []byte) error {
	sess, err := p.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.Store(path, bytes.NewReader(payload))
}

// compile runs the CL command and reads the diagnostics it logged.
// Both happen on one connection: the job log belongs to the job, and
// the job ends with the connection. A command failure is captured as a
// diagnostic, not returned as an error.
func (p *Pipeline) compile(ctx context.Context, command string) ([]Diagnostic, error) {
	var diags []Diagnostic
	err := p.runner.WithConnection(ctx, func(db *sql.DB) error {
		mark, err := jobLogMark(ctx, db)
		if err != nil {
			return err
		}
		_, cmdErr := db.ExecContext(ctx, "CALL QSYS2.QCMDEXC(?)", command)
		diags, err = readJobLog(ctx, db, mark)
		if err != nil {
			return err
		}
		if cmdErr != nil && !hasFailure(diags) {
			// The escape message did not reach the log; keep the failure visible.
			diags = append(diags, Diagnostic{Severity: failureSeverity, Message: cmdErr.Error()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diags, nil
}

func (p *Pipeline) fail(err error) error {
	p.notify(Event{Stage: StageFailed, Message: err.Error()})
	return err
}
