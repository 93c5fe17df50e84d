// Package core holds the task domain model shared by every other package.
package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the ordinal task priority.
type Priority int

const (
	Low    Priority = 1
	Medium Priority = 2
	High   Priority = 3
)

// PriorityFromWire decodes the wire ordinal into a Priority.
// Total over all ints: anything outside {1,3} decodes to Medium.
func PriorityFromWire(v int) Priority {
	switch v {
	case 1:
		return Low
	case 3:
		return High
	default:
		return Medium
	}
}

// Wire returns the ordinal wire encoding.
func (p Priority) Wire() int { return int(p) }

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "medium"
	}
}

// Task is a single task record. The remote store is the system of
// record; instances here are snapshots, never patched in place.
type Task struct {
	ID          string
	Title       string
	Description string
	Done        bool
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Position defines the user's manual display order. Uniqueness is
	// intent, not enforced: concurrent writers can collide.
	Position int
}

// NewTask creates an unscheduled medium-priority task with a fresh ID.
func NewTask(title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  Medium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Draft is an unsaved task produced by ingestion, pending a create call.
type Draft struct {
	Title    string
	Priority Priority
	DueDate  *time.Time
}

// Materialize turns a draft into a Task ready to be created.
func (d Draft) Materialize() Task {
	t := NewTask(strings.TrimSpace(d.Title))
	t.Priority = d.Priority
	t.DueDate = d.DueDate
	return t
}

// User is a row in the remote user table.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    string
}
