// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"todoai/internal/core"
	"todoai/internal/store"
)

// FakeStore is an in-memory implementation of store.Store for testing.
// It mimics the remote store's observable behavior: position-ordered
// lists, echoed created user rows, unique-username conflicts reported
// as a StoreError.
type FakeStore struct {
	tasks map[string][]core.Task // ownerID -> tasks
	users map[string]core.User   // username -> user
	seq   int

	// Error injection for testing
	CreateTaskErr error
	ListTasksErr  error
	UpdateTaskErr error
	DeleteTaskErr error
	ToggleDoneErr error
	CreateUserErr error
	FindUserErr   error

	// FailReorderAt makes the write at this 0-based index fail with
	// ReorderErr. Negative means all writes succeed.
	FailReorderAt int
	ReorderErr    error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks:         make(map[string][]core.Task),
		users:         make(map[string]core.User),
		FailReorderAt: -1,
		ReorderErr:    &store.StoreError{Op: "reorder", Status: http.StatusInternalServerError, Body: "injected failure"},
	}
}

// SeedTask inserts a task for ownerID directly, bypassing error injection.
func (f *FakeStore) SeedTask(ownerID string, task core.Task) {
	f.tasks[ownerID] = append(f.tasks[ownerID], task)
}

// SeedUser inserts a user row directly.
func (f *FakeStore) SeedUser(user core.User) {
	f.users[user.Username] = user
}

// TaskByID returns a stored task regardless of owner.
func (f *FakeStore) TaskByID(id string) (core.Task, bool) {
	for _, tasks := range f.tasks {
		for _, t := range tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return core.Task{}, false
}

// CreateTask implements store.Store.
func (f *FakeStore) CreateTask(ctx context.Context, task core.Task, ownerID string) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.tasks[ownerID] = append(f.tasks[ownerID], task)
	return nil
}

// ListTasks implements store.Store, ordered by position ascending.
func (f *FakeStore) ListTasks(ctx context.Context, ownerID string) ([]core.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	tasks := make([]core.Task, len(f.tasks[ownerID]))
	copy(tasks, f.tasks[ownerID])
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Position < tasks[j].Position
	})
	return tasks, nil
}

// UpdateTask implements store.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, task core.Task) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	task.UpdatedAt = time.Now().UTC()
	for owner, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == task.ID {
				f.tasks[owner][i] = task
				return nil
			}
		}
	}
	return &store.StoreError{Op: "update task", Status: http.StatusNotFound, Body: "no rows"}
}

// Reorder implements store.Store with the same sequential,
// non-transactional semantics as the real backend.
func (f *FakeStore) Reorder(ctx context.Context, tasks []core.Task) []store.ReorderResult {
	results := make([]store.ReorderResult, 0, len(tasks))
	failed := false

	for i, task := range tasks {
		if failed {
			results = append(results, store.ReorderResult{TaskID: task.ID, Err: store.ErrSkipped})
			continue
		}
		if i == f.FailReorderAt {
			failed = true
			results = append(results, store.ReorderResult{TaskID: task.ID, Err: f.ReorderErr})
			continue
		}
		f.writePosition(task.ID, task.Position)
		results = append(results, store.ReorderResult{TaskID: task.ID})
	}
	return results
}

func (f *FakeStore) writePosition(id string, position int) {
	for owner, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[owner][i].Position = position
				f.tasks[owner][i].UpdatedAt = time.Now().UTC()
				return
			}
		}
	}
}

// DeleteTask implements store.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for owner, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[owner] = append(tasks[:i:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// ToggleDone implements store.Store.
func (f *FakeStore) ToggleDone(ctx context.Context, id string, currentDone bool) error {
	if f.ToggleDoneErr != nil {
		return f.ToggleDoneErr
	}
	for owner, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[owner][i].Done = !currentDone
				f.tasks[owner][i].UpdatedAt = time.Now().UTC()
				return nil
			}
		}
	}
	return &store.StoreError{Op: "toggle done", Status: http.StatusNotFound, Body: "no rows"}
}

// CreateUser implements store.Store. Duplicate usernames produce the
// same kind of StoreError the remote store's unique constraint would.
func (f *FakeStore) CreateUser(ctx context.Context, user core.User) (core.User, error) {
	if f.CreateUserErr != nil {
		return core.User{}, f.CreateUserErr
	}
	if _, exists := f.users[user.Username]; exists {
		return core.User{}, &store.StoreError{
			Op:     "create user",
			Status: http.StatusConflict,
			Body:   `duplicate key value violates unique constraint "users_username_key"`,
		}
	}
	f.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	if user.CreatedAt == "" {
		user.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	f.users[user.Username] = user
	return user, nil
}

// FindUser implements store.Store.
func (f *FakeStore) FindUser(ctx context.Context, username string) (core.User, error) {
	if f.FindUserErr != nil {
		return core.User{}, f.FindUserErr
	}
	user, ok := f.users[username]
	if !ok {
		return core.User{}, store.ErrUserNotFound
	}
	return user, nil
}
