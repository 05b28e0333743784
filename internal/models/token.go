package models

import (
	"fmt"
	"time"
)

type TokenType string

const (
	TokenTypeInvite            TokenType = "invite"
	TokenTypeEmailVerification TokenType = "email_verification"
	TokenTypePasswordReset     TokenType = "password_reset"
)

// TTL returns the fixed lifetime for a token type. There is no default:
// an unknown type is a configuration error, not a token to issue.
func (t TokenType) TTL() (time.Duration, error) {
	switch t {
	case TokenTypeInvite:
		return 7 * 24 * time.Hour, nil
	case TokenTypeEmailVerification:
		return 24 * time.Hour, nil
	case TokenTypePasswordReset:
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown token type: %q", string(t))
	}
}

// AccountToken is a single-use secret gating one lifecycle transition.
// Consumed tokens are kept as an audit trail, never deleted.
type AccountToken struct {
	ID        int64
	Token     string
	Type      TokenType
	UserID    *int64
	ClientID  *int64
	Email     *string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Valid reports whether the token can still gate its action: right type,
// never consumed, not yet expired. One answer for every failure mode.
func (t AccountToken) Valid(expected TokenType, now time.Time) bool {
	return t.Type == expected && t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// TokenContext is an AccountToken joined with the client row an invite
// token points at, so setup screens can greet the person before any user
// account exists.
type TokenContext struct {
	AccountToken
	ClientName  *string
	DogName     *string
	ClientEmail *string
}
