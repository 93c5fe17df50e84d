package store

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned by FindUser when no row matches.
var ErrUserNotFound = errors.New("user not found")

// ErrSkipped marks reorder writes that were never issued because an
// earlier write in the sequence failed.
var ErrSkipped = errors.New("skipped: earlier reorder write failed")

// NetworkError is a transport-level failure: the request never got a
// response from the remote store.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StoreError is a non-success response from the remote store. Body is
// the response body verbatim; it usually carries the store's own
// diagnostic (e.g. a unique-constraint violation on registration).
type StoreError struct {
	Op     string
	Status int
	Body   string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.Status, e.Body)
}

// ValidationError reports malformed local input before it reaches the
// remote store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
