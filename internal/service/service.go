// Package service defines the backend-agnostic interface for task and auth operations.
package service

import "context"

// TokenFunc supplies the current bearer token, or "" when logged out.
// The session owns the token; gateways only read it per call.
type TokenFunc func() string

// Authenticator defines the auth operations of the remote backend.
// Login and Register require no token; Verify sends the bearer token only.
type Authenticator interface {
	// Login exchanges email and password for a user profile and token.
	Login(ctx context.Context, email, password string) (Credentials, error)

	// Register creates an account. The backend does not return a token
	// here; callers chain a Login with the same credentials.
	Register(ctx context.Context, name, email, password string) error

	// Verify checks the stored token with the backend and returns the
	// profile it belongs to.
	Verify(ctx context.Context) (User, error)
}

// TaskService defines the task operations of the remote backend.
// Every call attaches the bearer token; a missing token fails with
// ErrUnauthenticated before any network activity.
type TaskService interface {
	// ListAll returns the user's tasks in server order.
	ListAll(ctx context.Context) ([]Task, error)

	// GetByID finds a single task by scanning ListAll. The backend has
	// no single-item fetch; task sets are small enough that O(n) is fine.
	GetByID(ctx context.Context, id string) (Task, error)

	// Create makes a new task and returns the server's canonical record.
	Create(ctx context.Context, draft TaskDraft) (Task, error)

	// Update applies a patch and returns the full updated record.
	Update(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// Delete removes a task. A second delete of the same id is a domain
	// error, not a silent success.
	Delete(ctx context.Context, id string) error

	// ToggleComplete flips completion and returns the updated record.
	ToggleComplete(ctx context.Context, id string) (Task, error)
}

// Service is the full remote boundary: auth plus tasks.
// Commands and the TUI never speak HTTP directly.
type Service interface {
	Authenticator
	TaskService
}
