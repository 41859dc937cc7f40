// Package notify routes every remote failure to its corrective action:
// authentication expiry forces a session teardown and navigation back to
// the sign-in surface, everything else becomes a transient user message.
// Every mutating call site uses the same policy.
package notify

import (
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// Sink receives user-visible notifications. Presentation (toast styling,
// timing) is entirely the implementor's concern.
type Sink interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the UI to the unauthenticated entry view.
type Navigator interface {
	ToLogin()
}

// Router applies the single failure policy.
type Router struct {
	Session   *session.Session
	Navigator Navigator
	Sink      Sink
}

// Handle classifies err and dispatches it. Returns true when the error was
// an auth expiry and the session was torn down. Calling it twice for two
// concurrently failing requests is harmless: logout is idempotent and the
// navigator is only asked for a view that is already the target.
//
// fallback is shown when the error carries no user-safe message.
func (r *Router) Handle(err error, fallback string) bool {
	if err == nil {
		return false
	}
	if service.IsUnauthenticated(err) {
		r.Session.Logout()
		if r.Navigator != nil {
			r.Navigator.ToLogin()
		}
		if r.Sink != nil {
			r.Sink.Error("Session expired. Please sign in again.")
		}
		return true
	}
	if r.Sink != nil {
		r.Sink.Error(service.UserMessage(err, fallback))
	}
	return false
}
