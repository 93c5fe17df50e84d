package core

// Cache is the in-memory mirror of the signed-in user's task list.
// It is disposable: every mutation path replaces it wholesale from a
// fresh list fetch, trading a refetch per write for never having to
// reconcile a stale local patch against the server. All access happens
// from the single event-loop goroutine, so there is no lock.
type Cache struct {
	tasks []Task
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// ReplaceAll discards the current snapshot and installs tasks as the
// new one. The slice is copied so later mutation by the caller cannot
// alias into the cache.
func (c *Cache) ReplaceAll(tasks []Task) {
	c.tasks = make([]Task, len(tasks))
	copy(c.tasks, tasks)
}

// Tasks returns the current snapshot in display order.
func (c *Cache) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Get returns the task at display index i.
func (c *Cache) Get(i int) (Task, bool) {
	if i < 0 || i >= len(c.tasks) {
		return Task{}, false
	}
	return c.tasks[i], true
}

// Len reports the number of cached tasks.
func (c *Cache) Len() int { return len(c.tasks) }

// Clear empties the cache.
func (c *Cache) Clear() { c.tasks = nil }
