// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InvalidIdentifier indicates an IBM i object name that fails validation.
	InvalidIdentifier Kind = "invalid_identifier"
	// ConnectionFailed indicates the relational connection could not be
	// established or was lost mid-call.
	ConnectionFailed Kind = "connection_error"
	// NotFound indicates a single requested object does not exist.
	NotFound Kind = "not_found"
	// UnsafeQueryRejected indicates an ad hoc statement that is not SELECT-only.
	UnsafeQueryRejected Kind = "unsafe_query_rejected"
	// QueryFailed indicates a catalog or data query the host rejected.
	QueryFailed Kind = "query_error"
	// UnsupportedOnVersion indicates a catalog view absent on the target release.
	UnsupportedOnVersion Kind = "unsupported_on_version"
	// ProtectedNamespace indicates a write aimed at a reserved library prefix.
	ProtectedNamespace Kind = "protected_namespace"
	// EncodingFailed indicates text that cannot be represented in the target code page.
	EncodingFailed Kind = "encoding_error"
	// TransferFailed indicates a bulk-transfer session failure.
	TransferFailed Kind = "transfer_error"
	// MemberExists indicates a deployment target member that already exists
	// while the request did not allow overwriting.
	MemberExists Kind = "member_exists"
	// UnknownSourceType indicates a source type with no known compile command.
	UnknownSourceType Kind = "unknown_source_type"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrapf(kind Kind, err error, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
