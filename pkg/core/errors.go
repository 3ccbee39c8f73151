package core

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

// Common errors.
var (
	// ErrUnsupported is returned by every gateway for container renames.
	ErrUnsupported = errdefs.ErrNotImplemented.WithMessage("renaming a list is not supported")

	ErrEmptyBoardID = errdefs.ErrInvalidArgument.WithMessage("board ID cannot be empty")
)

// UnknownIdentifierError reports a spec whose identifier is not part of the
// snapshot fetched at the start of the pass.
type UnknownIdentifierError struct {
	Kind  string // "container" or "item"
	ID    string
	Label string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown %s id %q in label %q", e.Kind, e.ID, e.Label)
}

func (e *UnknownIdentifierError) Unwrap() error { return errdefs.ErrNotFound }

// RemoteCallError wraps a failed gateway call.
type RemoteCallError struct {
	Op  string
	ID  string
	Err error
}

func (e *RemoteCallError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// IsUnknownIdentifier reports whether err carries an UnknownIdentifierError.
func IsUnknownIdentifier(err error) bool {
	var target *UnknownIdentifierError
	return errors.As(err, &target)
}

func remoteErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteCallError{Op: op, ID: id, Err: err}
}
