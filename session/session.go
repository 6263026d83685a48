// Package session derives and maintains the authenticated identity for the
// client. The bearer credential is the single source of truth: identity is
// always re-derived by decoding it, never persisted on its own.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
	"github.com/valeriapadilla/ChatBot-Ecommerce/config"
	"github.com/valeriapadilla/ChatBot-Ecommerce/storage"
)

// State is the identity session state.
type State int

const (
	// StateUnknown means the credential store has not been consulted yet.
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

// Identity is the decoded view of the signed-in user.
type Identity struct {
	ID            string
	Name          string
	Email         string
	Role          string
	Authenticated bool
}

// Session owns the identity state machine. All methods are safe for
// concurrent use; auth operations are serialized by normal UI flow, the lock
// only guards against overlapping reads.
type Session struct {
	mu       sync.Mutex
	state    State
	identity Identity
	creds    *storage.CredentialStore
	client   *api.Client
}

func NewSession(client *api.Client, creds *storage.CredentialStore) *Session {
	return &Session{
		state:  StateUnknown,
		creds:  creds,
		client: client,
	}
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Check resolves the initial Unknown state from the credential store.
//
// A stored credential that decodes becomes Authenticated; absence or any
// decode failure becomes Unauthenticated, and a corrupt credential is
// cleared so it is not retried on the next start.
func (s *Session) Check() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.creds.Token()
	if !ok {
		s.state = StateUnauthenticated
		s.identity = Identity{}
		return s.state
	}

	claims, ok := DecodeClaims(token)
	if !ok {
		// Corrupt credential is equivalent to none
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] stored credential failed to decode, clearing")
		}
		s.creds.Clear()
		s.state = StateUnauthenticated
		s.identity = Identity{}
		return s.state
	}

	s.becomeAuthenticated(token, claims, "")
	return s.state
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, api.RouteLogin, body)
}

// Signup registers a new user and signs them in.
func (s *Session) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	return s.authenticate(ctx, api.RouteSignup, body)
}

func (s *Session) authenticate(ctx context.Context, route string, body map[string]string) error {
	var resp authResponse
	if err := s.client.Post(ctx, route, "", body, &resp); err != nil {
		return err
	}

	claims, ok := DecodeClaims(resp.AccessToken)
	if !ok {
		// The server handed back a credential the client cannot read
		return fmt.Errorf("received an unreadable credential")
	}

	s.mu.Lock()
	s.becomeAuthenticated(resp.AccessToken, claims, resp.User.Name)
	s.mu.Unlock()
	return nil
}

// becomeAuthenticated derives the identity from claims, falling back to the
// seed name from the auth response and then to the previously cached display
// name, and re-persists the credential with its display fields.
// Caller holds s.mu.
func (s *Session) becomeAuthenticated(token string, claims Claims, seedName string) {
	cached := s.creds.Fields()

	name := claims.Name
	if name == "" {
		name = seedName
	}
	if name == "" {
		name = cached.Name
	}

	s.identity = Identity{
		ID:            claims.Subject,
		Name:          name,
		Email:         claims.Email,
		Role:          claims.Role,
		Authenticated: true,
	}
	s.state = StateAuthenticated

	s.creds.Save(token, storage.IdentityFields{
		UserID: s.identity.ID,
		Name:   s.identity.Name,
		Role:   s.identity.Role,
	})
}

// Logout notifies the server best-effort and always clears local state.
// Local logout is never blocked by network reachability.
func (s *Session) Logout(ctx context.Context) {
	token, hasToken := s.creds.Token()
	if hasToken {
		if err := s.client.Post(ctx, api.RouteLogout, token, map[string]string{}, nil); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Session] logout notify failed: %v", err)
			}
		}
	}

	s.mu.Lock()
	s.creds.Clear()
	s.state = StateUnauthenticated
	s.identity = Identity{}
	s.mu.Unlock()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the current identity and whether it is authenticated.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.state == StateAuthenticated
}

// Token returns the stored bearer token when authenticated. It satisfies the
// token source contract consumed by the chat and catalog stores.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return "", false
	}
	s.mu.Unlock()
	return s.creds.Token()
}
