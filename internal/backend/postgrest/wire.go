package postgrest

import (
	"time"

	"todoai/internal/core"
)

// wireTask is the task row as the remote store sees it: priority as
// its ordinal, timestamps as RFC 3339 strings, due_date nullable.
type wireTask struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Done        bool     `json:"done"`
	Priority    int      `json:"priority"`
	DueDate     *string  `json:"due_date"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at"`
	Position    int      `json:"position"`
}

type wireUser struct {
	ID           string `json:"id,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func encodeTask(t core.Task, ownerID string) wireTask {
	w := wireTask{
		ID:          t.ID,
		UserID:      ownerID,
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
		Priority:    t.Priority.Wire(),
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
		Position:    t.Position,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(time.RFC3339)
		w.DueDate = &due
	}
	return w
}

func (w wireTask) decode() core.Task {
	t := core.Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Done:        w.Done,
		Priority:    core.PriorityFromWire(w.Priority),
		Tags:        w.Tags,
		Position:    w.Position,
	}
	if w.DueDate != nil {
		if due, err := time.Parse(time.RFC3339, *w.DueDate); err == nil {
			utc := due.UTC()
			t.DueDate = &utc
		}
	}
	if created, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		t.CreatedAt = created.UTC()
	}
	if updated, err := time.Parse(time.RFC3339, w.UpdatedAt); err == nil {
		t.UpdatedAt = updated.UTC()
	}
	return t
}

func (w wireUser) decode() core.User {
	return core.User{
		ID:           w.ID,
		Username:     w.Username,
		Email:        w.Email,
		PasswordHash: w.PasswordHash,
		CreatedAt:    w.CreatedAt,
	}
}
