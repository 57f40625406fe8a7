// Package ledgererr defines the small, closed taxonomy of error kinds
// every package in this module reports through, so callers can branch on
// what went wrong with errors.As instead of matching error strings.
package ledgererr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// WrongKind means a schema map received a value shaped for a
	// different transaction kind than the one dispatched to it.
	WrongKind Kind = iota + 1
	// MalformedInput means a caller-supplied value failed a
	// precondition before any write was staged.
	MalformedInput
	// NotFound means a lookup found no entry under the given key.
	NotFound
	// Corrupt means stored state is inconsistent: a value read back from
	// a backend failed to decode, an entry that a successful earlier
	// lookup implies is missing, or a reassembled transaction's ID does
	// not match the key it is stored under.
	Corrupt
	// BackendIO means the underlying storage engine returned an error
	// unrelated to the logical operation (disk, permissions, codec).
	BackendIO
	// UsageViolation means the caller violated the batch protocol,
	// e.g. calling mapstore.Finalize while a batch is already open.
	UsageViolation
	// PartialCommit means a multi-map batch failed after some of its
	// participants had already committed their share of the write.
	PartialCommit
)

func (k Kind) String() string {
	switch k {
	case WrongKind:
		return "wrong_kind"
	case MalformedInput:
		return "malformed_input"
	case NotFound:
		return "not_found"
	case Corrupt:
		return "corrupt"
	case BackendIO:
		return "backend_io"
	case UsageViolation:
		return "usage_violation"
	case PartialCommit:
		return "partial_commit"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Error wraps an underlying cause with a Kind and the component that
// raised it, so log lines and CLI output can report both without a type
// switch over the wrapped error.
type Error struct {
	Kind      Kind
	Component string
	Cause     error
}

func New(kind Kind, component, message string) *Error {
	return &Error{Kind: kind, Component: component, Cause: fmt.Errorf("%s", message)}
}

func Wrap(kind Kind, component string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Cause: cause}
}

func (e *Error) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ledgererr.ErrNotFound) work by comparing kinds
// when the target is itself an *Error with no cause set.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Cause != nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values usable with errors.Is for the common "did this fail
// for reason X" checks, e.g. errors.Is(err, ledgererr.ErrNotFound).
var (
	ErrNotFound       = &Error{Kind: NotFound}
	ErrWrongKind      = &Error{Kind: WrongKind}
	ErrUsageViolation = &Error{Kind: UsageViolation}
	ErrPartialCommit  = &Error{Kind: PartialCommit}
)

// Of reports the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
