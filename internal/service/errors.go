package service

import "errors"

// ErrUnauthenticated means no token is present or the backend rejected it.
// Only the gateway raises it; every caller must route it to forced logout
// rather than showing it inline.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrNotFound is returned by GetByID when no task matches the identifier.
// Callers surface it as a domain error.
var ErrNotFound = errors.New("task not found")

// DomainError is a well-formed request the backend rejected by business
// rule (validation, missing task, and so on). The message is safe to show
// to the user verbatim. Local state is left unchanged by the caller.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError from a server-provided message,
// falling back to a per-operation default when the server sent none.
func NewDomainError(msg, fallback string) *DomainError {
	if msg == "" {
		msg = fallback
	}
	return &DomainError{Message: msg}
}

// IsUnauthenticated reports whether err should force a session teardown.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// UserMessage extracts the text to surface for a non-auth failure.
// Domain errors carry the server's message; anything else (transport,
// malformed response) collapses to the caller's fallback.
func UserMessage(err error, fallback string) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	if errors.Is(err, ErrNotFound) {
		return "Task not found"
	}
	return fallback
}
