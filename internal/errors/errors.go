// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can tell a rejected credential from a
// permission failure, a business rule violation or a dead network.
//
// The package supports wrapping underlying errors while maintaining error kind information;
// errors.Is and errors.As still reach the wrapped cause.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// CredentialRejected indicates the server refused the bearer credential (HTTP 401).
	CredentialRejected Kind = "credential_rejected"
	// PermissionDenied indicates a valid identity attempted a disallowed action (HTTP 403).
	PermissionDenied Kind = "permission_denied"
	// Validation indicates a business or input failure reported by the server (other 4xx).
	Validation Kind = "validation"
	// Server indicates the server failed to process the request (5xx).
	Server Kind = "server"
	// Transport indicates the request never produced a response.
	Transport Kind = "transport"
	// Decode indicates the response body could not be understood.
	Decode Kind = "decode"
	// Storage indicates the credential store could not persist a value.
	Storage Kind = "storage"
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

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the human-friendly message of the first *E in err's chain.
// It returns "" when err carries no message.
func MessageOf(err error) string {
	var e *E
	if stderrors.As(err, &e) {
		return e.Message
	}
	return ""
}
