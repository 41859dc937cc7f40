// Package tasks holds the authoritative task list for the current session
// and reconciles it against the backend after every mutation. Local state
// is only ever replaced with what the server returned; the engine never
// merges client-side guesses.
package tasks

import (
	"context"
	"errors"
	"sync"

	"flowlist/internal/service"
)

// Engine owns the authoritative in-memory task list.
//
// Caller contract: at most one load or mutation should be in flight at a
// time (the UI disables its triggering control while Loading reports true),
// and no two mutations may target the same identifier concurrently. The
// engine does not serialize overlapping calls; when completions interleave,
// the last response to arrive wins.
type Engine struct {
	svc service.TaskService

	mu      sync.Mutex
	list    []service.Task
	loading bool
	loadErr string
}

// NewEngine creates an engine backed by the given task service.
func NewEngine(svc service.TaskService) *Engine {
	return &Engine{svc: svc}
}

// Tasks returns a snapshot of the authoritative list in server order.
func (e *Engine) Tasks() []service.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]service.Task, len(e.list))
	copy(out, e.list)
	return out
}

// Count returns the number of tasks in the authoritative list.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.list)
}

// Loading reports whether a Load is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// LoadError returns the message from the last failed Load, or "".
// Auth failures never land here; they are routed to forced logout instead.
func (e *Engine) LoadError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Load replaces the authoritative list with the backend's, verbatim.
// A domain failure is recorded in LoadError for display; an auth failure
// is returned untouched for the caller to route.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.loading = true
	e.loadErr = ""
	e.mu.Unlock()

	list, err := e.svc.ListAll(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if err != nil {
		if !service.IsUnauthenticated(err) {
			e.loadErr = service.UserMessage(err, "Failed to load tasks")
		}
		return err
	}
	e.list = list
	return nil
}

// Create asks the backend for a new task and then reloads the full list,
// so server-assigned identifiers and defaults are reflected. There is no
// optimistic insert.
func (e *Engine) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	created, err := e.svc.Create(ctx, draft)
	if err != nil {
		return service.Task{}, err
	}
	if err := e.Load(ctx); err != nil {
		// The task exists server-side; surface the reload failure.
		return created, err
	}
	return created, nil
}

// Update patches a task and replaces the local record with the exact
// object the server returned.
func (e *Engine) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	updated, err := e.svc.Update(ctx, id, patch)
	if err != nil {
		return service.Task{}, err
	}
	e.reconcile(updated)
	return updated, nil
}

// ToggleComplete flips a task's completion state via the backend and
// reconciles the returned record.
func (e *Engine) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	updated, err := e.svc.ToggleComplete(ctx, id)
	if err != nil {
		return service.Task{}, err
	}
	e.reconcile(updated)
	return updated, nil
}

// Delete removes a task after the backend confirms. Confirmation prompts
// are the caller's job; the engine assumes the decision was already made.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.svc.Delete(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, t := range e.list {
		if t.ID == id {
			e.list = append(e.list[:i], e.list[i+1:]...)
			break
		}
	}
	return nil
}

// reconcile swaps in the server's record by identifier. A record the
// engine has never seen (list not loaded yet) is appended.
func (e *Engine) reconcile(t service.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.list {
		if e.list[i].ID == t.ID {
			e.list[i] = t
			return
		}
	}
	e.list = append(e.list, t)
}

// IsNotFound reports whether err is the derived-lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, service.ErrNotFound)
}
