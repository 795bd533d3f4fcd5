// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package deploy runs the source deployment pipeline: validate the
// target, encode the payload for the host code page, transfer it into
// the source member, compile, and collect the job log diagnostics.
// Each stage runs once; there are no retries.
package deploy

// Stage enumerates the pipeline stages in execution order.
type Stage string

const (
	// StageValidating normalizes identifiers and resolves the compile command.
	StageValidating Stage = "validating"
	// StageProtectedCheck matches target libraries against reserved prefixes.
	StageProtectedCheck Stage = "protected_check"
	// StageEncoding converts the payload to the member's code page.
	StageEncoding Stage = "encoding"
	// StageTransferring creates the member if needed and stores the payload.
	StageTransferring Stage = "transferring"
	// StageCompiling runs the CL compile command and reads the job log.
	StageCompiling Stage = "compiling"
	// StageDone ends a deployment whose object compiled.
	StageDone Stage = "done"
	// StageFailed ends a deployment that stopped short of a compiled object.
	StageFailed Stage = "failed"
)

// Event is a pipeline progress notification for the terminal UI.
// Only a subset of fields is set depending on Stage.
type Event struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message,omitempty"`

	// Target is the member or object the stage acted on, as LIB/FILE(MBR).
	Target string `json:"target,omitempty"`

	// Command is the CL command issued during the compiling stage.
	Command string `json:"command,omitempty"`

	// Diagnostics accompany done/failed events.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}
