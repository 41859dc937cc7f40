// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"flowlist/internal/service"
)

// FakeService is an in-memory implementation of service.Service for
// testing. It behaves like the backend: assigns identifiers, rejects
// mutations on missing tasks, and issues deterministic tokens.
type FakeService struct {
	mu     sync.RWMutex
	users  map[string]fakeUser // email -> account
	tasks  []service.Task
	nextID int

	// Verified is the profile returned by Verify when no error is
	// injected. Nil means the token is rejected.
	Verified *service.User

	// Error injection for testing
	LoginErr    error
	RegisterErr error
	VerifyErr   error
	ListAllErr  error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	ToggleErr   error
}

type fakeUser struct {
	user     service.User
	password string
}

// NewFakeService creates an empty fake backend.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]fakeUser),
		nextID: 1,
	}
}

// AddUser seeds an account. Returns the deterministic token Login will
// issue for it.
func (f *FakeService) AddUser(name, email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{
		user:     service.User{ID: "u-" + email, Name: name, Email: email},
		password: password,
	}
	return tokenFor(email)
}

// SeedTask adds a task directly, bypassing Create.
func (f *FakeService) SeedTask(title, description, priority string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:          strconv.Itoa(f.nextID),
		Title:       title,
		Description: description,
		Priority:    priority,
		Completed:   completed,
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

func tokenFor(email string) string {
	return "token-" + email
}

// Login implements service.Authenticator.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	if f.LoginErr != nil {
		return service.Credentials{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	acct, ok := f.users[email]
	if !ok || acct.password != password {
		return service.Credentials{}, &service.DomainError{Message: "Invalid email or password"}
	}
	return service.Credentials{User: acct.user, Token: tokenFor(email)}, nil
}

// Register implements service.Authenticator.
func (f *FakeService) Register(ctx context.Context, name, email, password string) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		return &service.DomainError{Message: "Email already registered"}
	}
	f.users[email] = fakeUser{
		user:     service.User{ID: "u-" + email, Name: name, Email: email},
		password: password,
	}
	return nil
}

// Verify implements service.Authenticator.
func (f *FakeService) Verify(ctx context.Context) (service.User, error) {
	if f.VerifyErr != nil {
		return service.User{}, f.VerifyErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Verified == nil {
		return service.User{}, service.ErrUnauthenticated
	}
	return *f.Verified, nil
}

// ListAll implements service.TaskService.
func (f *FakeService) ListAll(ctx context.Context) ([]service.Task, error) {
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// GetByID implements service.TaskService.
func (f *FakeService) GetByID(ctx context.Context, id string) (service.Task, error) {
	tasks, err := f.ListAll(ctx)
	if err != nil {
		return service.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// Create implements service.TaskService.
func (f *FakeService) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	priority := draft.Priority
	if priority == "" {
		priority = service.PriorityMedium
	}
	t := service.Task{
		ID:          strconv.Itoa(f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    priority,
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// Update implements service.TaskService.
func (f *FakeService) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.Priority != nil {
			f.tasks[i].Priority = *patch.Priority
		}
		return f.tasks[i], nil
	}
	return service.Task{}, &service.DomainError{Message: fmt.Sprintf("Task not found: %s", id)}
}

// Delete implements service.TaskService. Deleting a missing task is a
// domain error, matching the backend.
func (f *FakeService) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.DomainError{Message: fmt.Sprintf("Task not found: %s", id)}
}

// ToggleComplete implements service.TaskService.
func (f *FakeService) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	if f.ToggleErr != nil {
		return service.Task{}, f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return f.tasks[i], nil
		}
	}
	return service.Task{}, &service.DomainError{Message: fmt.Sprintf("Task not found: %s", id)}
}
