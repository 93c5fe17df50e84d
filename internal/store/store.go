// Package store defines the backend-agnostic interface to the remote
// task store. Commands and the sync coordinator never talk to the REST
// backend directly.
package store

import (
	"context"

	"todoai/internal/core"
)

// Store is the interface to the authoritative remote datastore.
// Every call re-supplies the owning user ID where one is needed; there
// is no session state in the store itself.
type Store interface {
	// CreateTask inserts a task owned by ownerID.
	CreateTask(ctx context.Context, task core.Task, ownerID string) error

	// ListTasks returns all tasks for ownerID ordered by position
	// ascending. Manual ordering, not creation time, drives display.
	ListTasks(ctx context.Context, ownerID string) ([]core.Task, error)

	// UpdateTask writes the full record matched by task.ID, stamping
	// UpdatedAt with the client's current time.
	UpdateTask(ctx context.Context, task core.Task) error

	// Reorder writes the new position of each task, one write per
	// record in the order given. It is not transactional: a failure
	// leaves earlier writes applied and later ones skipped. The
	// returned results, one per input task in order, make partial
	// success observable instead of masking it.
	Reorder(ctx context.Context, tasks []core.Task) []ReorderResult

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error

	// ToggleDone writes the negation of currentDone. The flip is
	// computed client-side with no read lock; concurrent toggles are
	// last-write-wins.
	ToggleDone(ctx context.Context, id string, currentDone bool) error

	// CreateUser inserts a user row and returns the created row as
	// echoed back by the store. Username uniqueness is enforced
	// remotely; a conflict comes back as a *StoreError.
	CreateUser(ctx context.Context, user core.User) (core.User, error)

	// FindUser fetches the user row matching username, or
	// ErrUserNotFound if no row matches.
	FindUser(ctx context.Context, username string) (core.User, error)
}

// ReorderResult is the outcome of one position write within Reorder.
type ReorderResult struct {
	TaskID string
	Err    error // nil on success, ErrSkipped if an earlier write failed
}
