package identitysdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionStatus is the lifecycle state of a client session.
type SessionStatus string

const (
	StatusLoggedOut SessionStatus = "logged_out"
	StatusLoggedIn  SessionStatus = "logged_in"
)

// Session owns the client-side auth state: the current user, the access
// token and the session status move together through Login, Logout, Refresh
// and Verify. All methods are safe for concurrent use.
type Session struct {
	client  *Client
	storage *AuthStorage

	mu     sync.RWMutex
	user   *PublicUser
	token  string
	status SessionStatus
}

func NewSession(client *Client, storage *AuthStorage) *Session {
	return &Session{
		client:  client,
		storage: storage,
		status:  StatusLoggedOut,
	}
}

// Bootstrap restores a persisted session. If a token is stored it is verified
// against the service exactly once; any failure clears the stored state and
// leaves the session logged out. Bootstrap itself only errors on storage
// failures, never on a rejected token.
func (s *Session) Bootstrap(ctx context.Context) error {
	token, ok := s.storage.AccessToken()
	if !ok {
		return nil
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		return s.clearLocked()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.status = StatusLoggedIn
	return nil
}

// Login authenticates and transitions to logged in, persisting both slots.
func (s *Session) Login(ctx context.Context, req LoginRequest) (*PublicUser, error) {
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.adopt(resp.User, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SocialLogin runs the full social pipeline from an authorization code:
// server-side code exchange, profile resolution, then login by provider
// identity. An unknown identity surfaces as RegistrationRequired carrying
// the normalized profile so the caller can confirm sign-up.
func (s *Session) SocialLogin(ctx context.Context, provider, code, state string) (*PublicUser, error) {
	payload, err := s.client.SocialAuth(ctx, provider, code, state)
	if err != nil {
		return nil, fmt.Errorf("social code exchange: %w", err)
	}

	profile, err := s.client.SocialUser(ctx, provider, payload.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("social profile fetch: %w", err)
	}

	user, err := s.Login(ctx, LoginRequest{
		LoginType:    "social",
		ProviderType: profile.ProviderType,
		ProviderID:   profile.ProviderID,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "USER_NOT_FOUND" {
			return nil, &RegistrationRequired{Profile: *profile}
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the refresh session and clears local state. Local state is
// cleared even when the server call fails; the session never stays half
// logged in.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if clearErr := s.clearLocked(); clearErr != nil {
		return clearErr
	}
	return err
}

// Refresh redeems the refresh cookie for a new access token. Failure clears
// the session; a dead refresh session cannot recover client-side.
func (s *Session) Refresh(ctx context.Context) error {
	token, err := s.client.Refresh(ctx)
	if err != nil {
		if clearErr := s.clearLocked(); clearErr != nil {
			return clearErr
		}
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.storage.SetAccessToken(token)
}

// Verify re-checks the current token against the service and refreshes the
// cached user. Any failure clears the session.
func (s *Session) Verify(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return s.clearLocked()
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		if clearErr := s.clearLocked(); clearErr != nil {
			return clearErr
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return s.storage.SetUser(*user)
}

func (s *Session) adopt(user PublicUser, token string) error {
	if err := s.storage.SetAccessToken(token); err != nil {
		return err
	}
	if err := s.storage.SetUser(user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.token = token
	s.status = StatusLoggedIn
	return nil
}

func (s *Session) clearLocked() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.status = StatusLoggedOut
	s.mu.Unlock()
	return s.storage.Clear()
}

// User returns the cached user, nil when logged out.
func (s *Session) User() *PublicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token, empty when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the session lifecycle state.
func (s *Session) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// IsLoggedIn reports whether the session holds a verified identity.
func (s *Session) IsLoggedIn() bool {
	return s.Status() == StatusLoggedIn
}
