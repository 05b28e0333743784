package security

import (
	"strings"
	"testing"
	"time"
)

func TestNewAccountToken_Shape(t *testing.T) {
	token, err := NewAccountToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(token) != 64 {
		t.Fatalf("expected 64 characters, got %d", len(token))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token is not url-safe: %s", token)
	}
}

func TestNewAccountToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		token, err := NewAccountToken()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated")
		}
		seen[token] = struct{}{}
	}
}

func TestSessionToken_Roundtrip(t *testing.T) {
	signed, err := GenerateSessionToken("test-secret", 42, "alice", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseSessionToken(signed, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("uid = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("username = %q, want alice", claims.Username)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	signed, err := GenerateSessionToken("secret-a", 1, "bob", "client", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseSessionToken(signed, "secret-b"); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	signed, err := GenerateSessionToken("test-secret", 1, "bob", "client", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseSessionToken(signed, "test-secret"); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestSessionToken_Tampered(t *testing.T) {
	signed, err := GenerateSessionToken("test-secret", 1, "bob", "client", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected jwt shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := ParseSessionToken(tampered, "test-secret"); err == nil {
		t.Fatalf("tampered token accepted")
	}
}
