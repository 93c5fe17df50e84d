// Package postgrest implements store.Store against a PostgREST-style
// remote datastore (Supabase and compatibles).
package postgrest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"todoai/internal/core"
	"todoai/internal/store"
)

const (
	// APITimeout is the timeout for any single store call.
	APITimeout = 10 * time.Second

	tasksPath = "/rest/v1/tasks"
	usersPath = "/rest/v1/users"
)

// Client implements store.Store over HTTP. Every request carries the
// static service credential in the apikey header; there is no per-user
// token.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// New creates a client for the store at baseURL.
func New(baseURL, apiKey string) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: baseURL,
		apiKey:  apiKey,
		now:     time.Now,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	c := New(baseURL, apiKey)
	c.http = httpClient
	return c
}

// CreateTask inserts a task row owned by ownerID.
func (c *Client) CreateTask(ctx context.Context, task core.Task, ownerID string) error {
	_, err := c.do(ctx, http.MethodPost, tasksPath, nil, encodeTask(task, ownerID), "return=representation")
	return err
}

// ListTasks returns all tasks for ownerID ordered by position ascending.
func (c *Client) ListTasks(ctx context.Context, ownerID string) ([]core.Task, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+ownerID)
	q.Set("order", "position.asc")

	body, err := c.do(ctx, http.MethodGet, tasksPath, q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []wireTask
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return nil, &store.StoreError{Op: "list tasks", Status: http.StatusOK, Body: fmt.Sprintf("undecodable response: %v", err)}
	}

	tasks := make([]core.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.decode())
	}
	return tasks, nil
}

// UpdateTask writes the full record matched by task.ID. UpdatedAt is
// stamped with the client's current time, so a skewed client clock
// skews the record; that is documented behavior, not corrected here.
func (c *Client) UpdateTask(ctx context.Context, task core.Task) error {
	task.UpdatedAt = c.now().UTC()

	q := url.Values{}
	q.Set("id", "eq."+task.ID)

	patch := encodeTask(task, "")
	patch.ID = ""        // id is the match key, not part of the patch
	patch.UserID = ""    // ownership never changes on update
	patch.CreatedAt = "" // immutable

	_, err := c.do(ctx, http.MethodPatch, tasksPath, q, patch, "")
	return err
}

// Reorder writes the new position of each task, one PATCH per record in
// the order given. Not transactional: the first failure stops the
// sequence, leaving earlier writes applied. The per-item results let
// the caller observe exactly which writes landed.
func (c *Client) Reorder(ctx context.Context, tasks []core.Task) []store.ReorderResult {
	results := make([]store.ReorderResult, 0, len(tasks))
	failed := false

	for _, task := range tasks {
		if failed {
			results = append(results, store.ReorderResult{TaskID: task.ID, Err: store.ErrSkipped})
			continue
		}

		q := url.Values{}
		q.Set("id", "eq."+task.ID)

		patch := map[string]any{
			"position":   task.Position,
			"updated_at": c.now().UTC().Format(time.RFC3339),
		}

		_, err := c.do(ctx, http.MethodPatch, tasksPath, q, patch, "")
		if err != nil {
			failed = true
		}
		results = append(results, store.ReorderResult{TaskID: task.ID, Err: err})
	}
	return results
}

// DeleteTask removes the task row with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	_, err := c.do(ctx, http.MethodDelete, tasksPath, q, nil, "")
	return err
}

// ToggleDone writes the negation of currentDone. Last-write-wins: two
// concurrent toggles both compute the same flip and neither is
// detected as a conflict.
func (c *Client) ToggleDone(ctx context.Context, id string, currentDone bool) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	patch := map[string]any{
		"done":       !currentDone,
		"updated_at": c.now().UTC().Format(time.RFC3339),
	}

	_, err := c.do(ctx, http.MethodPatch, tasksPath, q, patch, "")
	return err
}

// CreateUser inserts a user row. The return=representation preference
// makes the store echo the created row back, including its assigned ID.
// A duplicate username comes back as a *StoreError carrying the
// store's constraint diagnostic.
func (c *Client) CreateUser(ctx context.Context, user core.User) (core.User, error) {
	row := wireUser{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if user.ID != "" {
		row.ID = user.ID
	}
	if user.CreatedAt != "" {
		row.CreatedAt = user.CreatedAt
	}

	body, err := c.do(ctx, http.MethodPost, usersPath, nil, row, "return=representation")
	if err != nil {
		return core.User{}, err
	}

	var rows []wireUser
	if err := sonic.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return core.User{}, &store.StoreError{Op: "create user", Status: http.StatusOK, Body: "no user returned"}
	}
	return rows[0].decode(), nil
}

// FindUser fetches the user row matching username.
func (c *Client) FindUser(ctx context.Context, username string) (core.User, error) {
	q := url.Values{}
	q.Set("username", "eq."+username)

	body, err := c.do(ctx, http.MethodGet, usersPath, q, nil, "")
	if err != nil {
		return core.User{}, err
	}

	var rows []wireUser
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return core.User{}, &store.StoreError{Op: "find user", Status: http.StatusOK, Body: fmt.Sprintf("undecodable response: %v", err)}
	}
	if len(rows) == 0 {
		return core.User{}, store.ErrUserNotFound
	}
	return rows[0].decode(), nil
}

// do performs one request against the store. Non-2xx responses become
// a *StoreError with the body verbatim; transport failures become a
// *NetworkError. No retries anywhere.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, prefer string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	op := fmt.Sprintf("%s %s", method, path)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, &store.NetworkError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &store.NetworkError{Op: op, Err: err}
	}

	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &store.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &store.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &store.StoreError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
