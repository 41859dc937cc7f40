// Package session owns the authenticated-session lifecycle: status, user
// profile, and the bearer token, mirrored into the credential store so a
// session survives process restarts until explicit logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"

	"flowlist/internal/service"
)

// Status is the session lifecycle state.
type Status int

const (
	// Unauthenticated means no usable token is held.
	Unauthenticated Status = iota

	// Verifying means a stored token was found but the backend has not
	// confirmed it yet.
	Verifying

	// Authenticated means the backend accepted the token and the user
	// profile is known.
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrRegisteredLoginFailed means the account was created but the chained
// automatic login failed. The session stays unauthenticated; callers should
// tell the user to sign in manually rather than treating this as a hard
// registration failure.
var ErrRegisteredLoginFailed = errors.New("registered but automatic sign-in failed")

// CredentialStore is the persistent token slot. *config.Config satisfies it.
type CredentialStore interface {
	Token() string
	SaveToken(token string) error
	RemoveToken() error
}

// Session is the single owned state container for authentication.
// All transitions go through its methods; invariants: token is non-empty
// iff status is Verifying or Authenticated, user is set only when
// Authenticated.
type Session struct {
	mu     sync.Mutex
	status Status
	token  string
	user   *service.User

	store CredentialStore
	auth  service.Authenticator
}

// New creates a session, seeding the token from the credential store.
// A seeded session starts in Verifying; Bootstrap settles it.
func New(store CredentialStore, auth service.Authenticator) *Session {
	s := &Session{store: store, auth: auth}
	if tok := store.Token(); tok != "" {
		s.token = tok
		s.status = Verifying
	}
	return s
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the profile when authenticated, nil otherwise.
func (s *Session) User() *service.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Authenticated || s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Bootstrap settles a seeded session: a token provably expired locally is
// discarded without a network call, otherwise the backend verifies it.
// Any failure means "not authenticated" here; there is no domain-error
// outcome for bootstrap.
func (s *Session) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.status != Verifying {
		s.mu.Unlock()
		return nil
	}
	tok := s.token
	s.mu.Unlock()

	if expiredLocally(tok) {
		log.Debug("stored token expired locally, skipping verify")
		s.teardown()
		return service.ErrUnauthenticated
	}

	user, err := s.auth.Verify(ctx)
	if err != nil {
		log.Debugf("token verify failed: %v", err)
		s.teardown()
		return service.ErrUnauthenticated
	}

	s.mu.Lock()
	s.status = Authenticated
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Login authenticates with email and password. On success the token is
// persisted and the session becomes Authenticated. Failure leaves the
// session state untouched and does not force logout.
func (s *Session) Login(ctx context.Context, email, password string) error {
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.install(creds)
}

// Register creates an account and chains an automatic login with the same
// credentials. A failed chained login after successful registration yields
// ErrRegisteredLoginFailed with the session left unauthenticated.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	if err := s.auth.Register(ctx, name, email, password); err != nil {
		return err
	}
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		log.Debugf("post-registration login failed: %v", err)
		return fmt.Errorf("%w: %v", ErrRegisteredLoginFailed, err)
	}
	return s.install(creds)
}

// Logout unconditionally clears the token, user, and credential store.
// Safe to call repeatedly.
func (s *Session) Logout() {
	s.teardown()
}

func (s *Session) install(creds service.Credentials) error {
	if err := s.store.SaveToken(creds.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.mu.Lock()
	s.status = Authenticated
	s.token = creds.Token
	user := creds.User
	s.user = &user
	s.mu.Unlock()
	return nil
}

func (s *Session) teardown() {
	s.mu.Lock()
	s.status = Unauthenticated
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if err := s.store.RemoveToken(); err != nil {
		log.Debugf("failed to clear stored token: %v", err)
	}
}

// TokenInfo is what can be read out of the bearer token locally.
// The token stays opaque for authorization; this is display-only.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// InspectToken parses the current token without verifying its signature.
// Returns false when no token is held or it is not a JWT.
func (s *Session) InspectToken() (TokenInfo, bool) {
	tok := s.Token()
	if tok == "" {
		return TokenInfo{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return TokenInfo{}, false
	}
	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}

// expiredLocally reports whether the token carries an exp claim that has
// already passed. Non-JWT tokens are never considered locally expired;
// the backend decides.
func expiredLocally(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
