package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

// mintToken builds an unsigned three-segment token for decode tests.
func mintToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	if err != nil {
		t.Fatalf("failed to marshal header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed to marshal claims: %v", err)
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestDecodeClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		wantOK bool
		want   Claims
	}{
		{
			name:   "full claim set",
			claims: map[string]any{"sub": "u1", "email": "a@b.com", "name": "Ana", "role": "admin"},
			wantOK: true,
			want:   Claims{Subject: "u1", Email: "a@b.com", Name: "Ana", Role: "admin"},
		},
		{
			name:   "role defaults to user",
			claims: map[string]any{"sub": "u2", "email": "c@d.com"},
			wantOK: true,
			want:   Claims{Subject: "u2", Email: "c@d.com", Role: "user"},
		},
		{
			name:   "missing subject rejected",
			claims: map[string]any{"email": "e@f.com"},
			wantOK: false,
		},
		{
			name:   "non-string subject rejected",
			claims: map[string]any{"sub": 42},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeClaims(mintToken(t, tt.claims))
			if ok != tt.wantOK {
				t.Fatalf("ok: expected %v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDecodeClaimsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"payload not base64", "eyJhbGciOiJub25lIn0.!!!.sig"},
		{"payload not json", "eyJhbGciOiJub25lIn0.bm90LWpzb24.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeClaims(tt.token); ok {
				t.Error("expected decode to fail")
			}
		})
	}
}
