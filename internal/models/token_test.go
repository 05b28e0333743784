package models

import (
	"testing"
	"time"
)

func TestTokenTypeTTL(t *testing.T) {
	cases := []struct {
		typ  TokenType
		want time.Duration
	}{
		{TokenTypeInvite, 7 * 24 * time.Hour},
		{TokenTypeEmailVerification, 24 * time.Hour},
		{TokenTypePasswordReset, time.Hour},
	}
	for _, c := range cases {
		got, err := c.typ.TTL()
		if err != nil {
			t.Fatalf("%s: %v", c.typ, err)
		}
		if got != c.want {
			t.Fatalf("%s: ttl = %v, want %v", c.typ, got, c.want)
		}
	}

	if _, err := TokenType("session").TTL(); err == nil {
		t.Fatalf("unknown type must not get a lifetime")
	}
}

func TestAccountTokenValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	cases := []struct {
		name  string
		token AccountToken
		typ   TokenType
		want  bool
	}{
		{"live", AccountToken{Type: TokenTypeInvite, ExpiresAt: now.Add(time.Hour)}, TokenTypeInvite, true},
		{"wrong type", AccountToken{Type: TokenTypeInvite, ExpiresAt: now.Add(time.Hour)}, TokenTypePasswordReset, false},
		{"consumed", AccountToken{Type: TokenTypeInvite, ExpiresAt: now.Add(time.Hour), UsedAt: &used}, TokenTypeInvite, false},
		{"expired", AccountToken{Type: TokenTypeInvite, ExpiresAt: now.Add(-time.Second)}, TokenTypeInvite, false},
		{"at expiry instant", AccountToken{Type: TokenTypeInvite, ExpiresAt: now}, TokenTypeInvite, false},
	}
	for _, c := range cases {
		if got := c.token.Valid(c.typ, now); got != c.want {
			t.Fatalf("%s: valid = %v, want %v", c.name, got, c.want)
		}
	}
}
