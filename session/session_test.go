package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
	"github.com/valeriapadilla/ChatBot-Ecommerce/storage"
)

func newTestStore(t *testing.T) *storage.CredentialStore {
	t.Helper()

	local, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	return storage.NewCredentialStore(local)
}

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestCheckStates(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	t.Run("absent credential", func(t *testing.T) {
		creds := newTestStore(t)
		s := NewSession(client, creds)

		if s.State() != StateUnknown {
			t.Fatal("expected initial state Unknown")
		}
		if got := s.Check(); got != StateUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", got)
		}
	})

	t.Run("corrupt credential clears store", func(t *testing.T) {
		creds := newTestStore(t)
		creds.Save("not-a-valid-token", storage.IdentityFields{UserID: "u1", Name: "Ana", Role: "user"})

		s := NewSession(client, creds)
		if got := s.Check(); got != StateUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", got)
		}
		if _, ok := creds.Token(); ok {
			t.Error("expected credential store to be cleared")
		}
		if fields := creds.Fields(); fields.UserID != "" || fields.Name != "" {
			t.Errorf("expected cached fields cleared, got %+v", fields)
		}
	})

	t.Run("valid credential restores identity", func(t *testing.T) {
		creds := newTestStore(t)
		token := mintToken(t, map[string]any{"sub": "u1", "email": "a@b.com", "role": "admin", "name": "Ana"})
		creds.Save(token, storage.IdentityFields{})

		s := NewSession(client, creds)
		if got := s.Check(); got != StateAuthenticated {
			t.Fatalf("expected Authenticated, got %v", got)
		}

		identity, ok := s.Identity()
		if !ok {
			t.Fatal("expected authenticated identity")
		}
		want := Identity{ID: "u1", Name: "Ana", Email: "a@b.com", Role: "admin", Authenticated: true}
		if identity != want {
			t.Errorf("expected %+v, got %+v", want, identity)
		}

		// Display fields are re-persisted on the transition
		if fields := creds.Fields(); fields.Name != "Ana" || fields.UserID != "u1" {
			t.Errorf("expected re-persisted fields, got %+v", fields)
		}
	})
}

func TestLogin(t *testing.T) {
	token := ""
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "a@b.com" || req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"user":         map[string]string{"name": "Seed Name"},
		})
	})

	client := newTestClient(t, mux)

	t.Run("successful login derives identity from claims", func(t *testing.T) {
		creds := newTestStore(t)
		s := NewSession(client, creds)
		token = mintToken(t, map[string]any{"sub": "u1", "email": "a@b.com", "role": "user"})

		if err := s.Login(context.Background(), "a@b.com", "secret1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		identity, ok := s.Identity()
		if !ok {
			t.Fatal("expected authenticated identity")
		}
		if identity.ID != "u1" || identity.Email != "a@b.com" || identity.Role != "user" || !identity.Authenticated {
			t.Errorf("unexpected identity: %+v", identity)
		}
		// Blank name claim falls back to the seed from the response
		if identity.Name != "Seed Name" {
			t.Errorf("expected seed name fallback, got %q", identity.Name)
		}

		stored, ok := creds.Token()
		if !ok || stored != token {
			t.Error("expected credential persisted")
		}
		if got, ok := s.Token(); !ok || got != token {
			t.Error("expected Token() to expose the stored credential")
		}
	})

	t.Run("rejected login leaves session unauthenticated", func(t *testing.T) {
		creds := newTestStore(t)
		s := NewSession(client, creds)

		err := s.Login(context.Background(), "a@b.com", "wrong")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if api.KindOf(err) != api.ErrUnauthorized {
			t.Errorf("expected unauthorized kind, got %q", api.KindOf(err))
		}
		if _, ok := s.Identity(); ok {
			t.Error("expected no identity after failed login")
		}
		if _, ok := creds.Token(); ok {
			t.Error("expected no credential persisted")
		}
	})
}

func TestSignup(t *testing.T) {
	mux := http.NewServeMux()
	var token string
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"user":         map[string]string{"name": "Bea"},
		})
	})

	client := newTestClient(t, mux)
	creds := newTestStore(t)
	s := NewSession(client, creds)
	token = mintToken(t, map[string]any{"sub": "u9", "email": "b@c.com"})

	if err := s.Signup(context.Background(), "Bea", "b@c.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identity, ok := s.Identity()
	if !ok {
		t.Fatal("expected authenticated identity")
	}
	if identity.Name != "Bea" || identity.Role != "user" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestLogoutAlwaysClearsLocally(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server acknowledges",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "server fails",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			creds := newTestStore(t)
			token := mintToken(t, map[string]any{"sub": "u1", "email": "a@b.com"})
			creds.Save(token, storage.IdentityFields{UserID: "u1"})

			s := NewSession(client, creds)
			s.Check()

			s.Logout(context.Background())

			if s.State() != StateUnauthenticated {
				t.Error("expected Unauthenticated after logout")
			}
			if _, ok := creds.Token(); ok {
				t.Error("expected credential cleared")
			}
			if _, ok := s.Token(); ok {
				t.Error("expected no token after logout")
			}
		})
	}
}
