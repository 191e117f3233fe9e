package client

import (
	"context"
	"sync"
)

// Destinations the server redirects to around sign-in and sign-out. Session
// returns them so UI callers can navigate without hardcoding paths.
const (
	DestinationHome  = "/cronograma"
	DestinationLogin = "/login"
)

// Session is a stateful wrapper over the client that caches the current
// account. Until Init or Login has completed the identity is unknown, which
// is distinct from known-absent; IsLoading tells the two apart so callers
// can hold rendering instead of flashing a signed-out state.
type Session struct {
	client *Client

	mu      sync.RWMutex
	account *Account
	loaded  bool
}

// NewSession creates a session over the given client
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Init resolves the identity behind any existing cookie. An unauthorized
// response is not an error; it resolves the session to signed-out.
func (s *Session) Init(ctx context.Context) error {
	account, err := s.client.Me(ctx)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.IsUnauthorized() {
			s.set(nil)
			return nil
		}
		return err
	}

	s.set(account)
	return nil
}

// IsLoading reports whether the identity has been resolved yet
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded
}

// Current returns the cached account, or nil when signed out
func (s *Session) Current() *Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Login authenticates and caches the account. On success it returns the
// path the caller should navigate to.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	s.set(resp.User)
	return DestinationHome, nil
}

// UpdateAccount applies a partial update and refreshes the cache from the
// server's response rather than patching locally.
func (s *Session) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*Account, error) {
	account, err := s.client.UpdateAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	s.set(account)
	return account, nil
}

// AccessStatus evaluates the current entitlement
func (s *Session) AccessStatus(ctx context.Context) (*AccessStatus, error) {
	return s.client.AccessStatus(ctx)
}

// Logout clears the session server-side and locally. Safe to call when
// already signed out; it returns the login path either way.
func (s *Session) Logout(ctx context.Context) (string, error) {
	if err := s.client.Logout(ctx); err != nil {
		return "", err
	}

	s.set(nil)
	return DestinationLogin, nil
}

func (s *Session) set(account *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
	s.loaded = true
}
