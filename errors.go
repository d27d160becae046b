package rowtable

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRow is returned by Insert when some index reports an
	// existing match for the row being inserted (spec §7 "Duplicate row").
	// The table is left unchanged; the rollback path has already run.
	ErrDuplicateRow = errors.New("rowtable: duplicate row")

	// ErrNotFound is returned by EraseMatch when the requested index lookup
	// has no match.
	ErrNotFound = errors.New("rowtable: not found")

	// ErrNotMember is returned by EraseSlot when the given slot is at or
	// beyond the table's size (spec §7 "Precondition violation").
	ErrNotMember = errors.New("rowtable: row is not a member of this table")

	// ErrIndexNotFound is returned by Use/UseAt when no configured index
	// matches the requested type or position.
	ErrIndexNotFound = errors.New("rowtable: no index of the requested type")

	// ErrAmbiguousIndex is returned by Use when more than one configured
	// index matches the requested type (spec §4.2: "addressable either by
	// type (unique match among index types) or by positional number").
	ErrAmbiguousIndex = errors.New("rowtable: more than one index matches this type; address it by position")
)

// CallbackError wraps a failure from a user-supplied callback: an error
// returned by an index's Insert (for the hash index, its HashCode or Equal
// callback) or by an upsert updater. The B-tree index's ordering callbacks
// return no error, so they never produce one. Per spec §5 the container
// provides the strong guarantee on Insert/Upsert: the rollback has already
// restored the table to its pre-call state by the time this error reaches
// the caller.
type CallbackError struct {
	Op    string // the operation that was running ("insert" or "upsert")
	Index string // which index's callback failed, if known
	cause error
}

func (e *CallbackError) Error() string {
	if e.Index != "" {
		return fmt.Sprintf("rowtable: %s: callback failed in index %q: %v", e.Op, e.Index, e.cause)
	}
	return fmt.Sprintf("rowtable: %s: callback failed: %v", e.Op, e.cause)
}

// Unwrap exposes the original callback error for errors.Is/errors.As.
func (e *CallbackError) Unwrap() error { return e.cause }

func wrapCallback(op, index string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CallbackError{Op: op, Index: index, cause: cause}
}
