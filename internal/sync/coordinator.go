// Package sync orchestrates every user-visible mutation: write to the
// remote store, refetch the full list, replace the local cache. A
// write is not visible until the refetch lands; read-your-writes comes
// from the refetch alone, never from an optimistic local patch.
package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"todoai/internal/core"
	"todoai/internal/store"
)

// State is the coordinator's position in the per-action cycle
// Idle -> Mutating -> Refreshing -> Idle.
type State int

const (
	Idle State = iota
	Mutating
	Refreshing
)

func (s State) String() string {
	switch s {
	case Mutating:
		return "mutating"
	case Refreshing:
		return "refreshing"
	default:
		return "idle"
	}
}

// PartialReorderError reports a reorder that only partly landed. The
// remote store holds the partially-updated order; there is no
// rollback. Callers surface this as a status message, not a failure.
type PartialReorderError struct {
	Applied int
	Failed  int
	Skipped int
	First   error // the error that stopped the sequence
}

func (e *PartialReorderError) Error() string {
	return fmt.Sprintf("reorder partially applied: %d written, %d failed, %d skipped: %v",
		e.Applied, e.Failed, e.Skipped, e.First)
}

func (e *PartialReorderError) Unwrap() error { return e.First }

// Coordinator drives the mutate-refetch-replace cycle for one user.
// It runs on the single event-loop goroutine; calls are fully
// serialized, so no locking guards the cache.
type Coordinator struct {
	store  store.Store
	cache  *core.Cache
	userID string
	state  State
	log    *logrus.Entry
}

// New creates a coordinator for the given user.
func New(st store.Store, cache *core.Cache, userID string) *Coordinator {
	return &Coordinator{
		store:  st,
		cache:  cache,
		userID: userID,
		log:    logrus.WithField("user_id", userID),
	}
}

// Cache exposes the local mirror for display.
func (c *Coordinator) Cache() *core.Cache { return c.cache }

// UserID returns the owning user ID.
func (c *Coordinator) UserID() string { return c.userID }

// State reports where the coordinator is in the action cycle.
func (c *Coordinator) State() State { return c.state }

// Add validates and creates a task from a draft, then refreshes. The
// new task takes the next display slot.
func (c *Coordinator) Add(ctx context.Context, draft core.Draft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	// The cache starts empty in every process; the next slot comes
	// from the store's current order, not from whatever happens to be
	// cached.
	if err := c.refresh(ctx); err != nil {
		return err
	}

	task := draft.Materialize()
	task.Position = c.cache.Len()

	c.enter(Mutating, "add", task.ID)
	if err := c.store.CreateTask(ctx, task, c.userID); err != nil {
		c.settle()
		return err
	}
	return c.refresh(ctx)
}

// Update writes the full record and refreshes.
func (c *Coordinator) Update(ctx context.Context, task core.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	c.enter(Mutating, "update", task.ID)
	if err := c.store.UpdateTask(ctx, task); err != nil {
		c.settle()
		return err
	}
	return c.refresh(ctx)
}

// Toggle flips done on the task at display index i and refreshes.
func (c *Coordinator) Toggle(ctx context.Context, i int) error {
	task, ok := c.cache.Get(i)
	if !ok {
		return &store.ValidationError{Field: "index", Reason: fmt.Sprintf("no task at %d", i+1)}
	}

	c.enter(Mutating, "toggle", task.ID)
	if err := c.store.ToggleDone(ctx, task.ID, task.Done); err != nil {
		c.settle()
		return err
	}
	return c.refresh(ctx)
}

// Delete removes the task at display index i and refreshes.
func (c *Coordinator) Delete(ctx context.Context, i int) error {
	task, ok := c.cache.Get(i)
	if !ok {
		return &store.ValidationError{Field: "index", Reason: fmt.Sprintf("no task at %d", i+1)}
	}

	c.enter(Mutating, "delete", task.ID)
	if err := c.store.DeleteTask(ctx, task.ID); err != nil {
		c.settle()
		return err
	}
	return c.refresh(ctx)
}

// Move shifts the task at index from to index to. Every record in the
// contiguous range between the two indices gets a recomputed position
// (shifted by one toward the vacated slot); writes go out in ascending
// target-position order. A mid-sequence failure leaves the store
// partially reordered: Move still refreshes so the cache reflects what
// actually landed, and returns a *PartialReorderError for the caller
// to report.
func (c *Coordinator) Move(ctx context.Context, from, to int) error {
	n := c.cache.Len()
	if from < 0 || from >= n {
		return &store.ValidationError{Field: "index", Reason: fmt.Sprintf("no task at %d", from+1)}
	}
	if to < 0 || to >= n {
		return &store.ValidationError{Field: "index", Reason: fmt.Sprintf("no task at %d", to+1)}
	}
	if from == to {
		return nil
	}

	tasks := c.cache.Tasks()

	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}

	// Positions currently occupied by the affected range, in display
	// order. They get reassigned to the rearranged tasks so everything
	// outside the range keeps its position.
	positions := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		positions = append(positions, tasks[i].Position)
	}

	moved := tasks[from]
	without := make([]core.Task, 0, n-1)
	without = append(without, tasks[:from]...)
	without = append(without, tasks[from+1:]...)

	rest := make([]core.Task, 0, n)
	rest = append(rest, without[:to]...)
	rest = append(rest, moved)
	rest = append(rest, without[to:]...)

	changed := make([]core.Task, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		rest[i].Position = positions[i-lo]
		changed = append(changed, rest[i])
	}

	c.enter(Mutating, "reorder", moved.ID)
	results := c.store.Reorder(ctx, changed)

	var applied, failed, skipped int
	var first error
	for _, r := range results {
		switch {
		case r.Err == nil:
			applied++
		case r.Err == store.ErrSkipped:
			skipped++
		default:
			failed++
			if first == nil {
				first = r.Err
			}
		}
	}

	refreshErr := c.refresh(ctx)

	if failed > 0 {
		c.log.WithFields(logrus.Fields{
			"applied": applied,
			"failed":  failed,
			"skipped": skipped,
		}).Warn("reorder partially applied")
		return &PartialReorderError{Applied: applied, Failed: failed, Skipped: skipped, First: first}
	}
	return refreshErr
}

// Refresh refetches the full list and replaces the cache wholesale.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.state = Idle
	return c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) error {
	c.enter(Refreshing, "refresh", "")
	defer c.settle()

	tasks, err := c.store.ListTasks(ctx, c.userID)
	if err != nil {
		return err
	}
	c.cache.ReplaceAll(tasks)
	return nil
}

func (c *Coordinator) enter(s State, op, taskID string) {
	c.state = s
	entry := c.log.WithField("state", s.String())
	if taskID != "" {
		entry = entry.WithField("task_id", taskID)
	}
	entry.Debug(op)
}

func (c *Coordinator) settle() {
	c.state = Idle
}
