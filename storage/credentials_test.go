package storage

import (
	"testing"
)

func newCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()

	local, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	return NewCredentialStore(local)
}

func TestCredentialLifecycle(t *testing.T) {
	creds := newCredentialStore(t)

	if _, ok := creds.Token(); ok {
		t.Error("expected no token initially")
	}

	creds.Save("tok", IdentityFields{UserID: "u1", Name: "Ana", Role: "admin"})

	token, ok := creds.Token()
	if !ok || token != "tok" {
		t.Errorf("expected stored token, got %q (ok=%v)", token, ok)
	}
	fields := creds.Fields()
	if fields.UserID != "u1" || fields.Name != "Ana" || fields.Role != "admin" {
		t.Errorf("unexpected fields: %+v", fields)
	}

	// All keys invalidate together
	creds.Clear()
	if _, ok := creds.Token(); ok {
		t.Error("expected token cleared")
	}
	if fields := creds.Fields(); fields != (IdentityFields{}) {
		t.Errorf("expected fields cleared, got %+v", fields)
	}
}

func TestEmptyTokenReadsAsAbsent(t *testing.T) {
	creds := newCredentialStore(t)
	creds.Save("", IdentityFields{UserID: "u1"})

	if _, ok := creds.Token(); ok {
		t.Error("expected empty token to read as absent")
	}
}

func TestStorageFailureDegradesToAbsent(t *testing.T) {
	local, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	creds := NewCredentialStore(local)
	creds.Save("tok", IdentityFields{UserID: "u1"})

	// A closed database must not surface errors through the store
	local.Close()

	if _, ok := creds.Token(); ok {
		t.Error("expected absent token after storage failure")
	}
	if fields := creds.Fields(); fields != (IdentityFields{}) {
		t.Errorf("expected empty fields, got %+v", fields)
	}
	creds.Clear()
	creds.Save("tok2", IdentityFields{})
}
