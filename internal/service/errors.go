package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailInUse         = errors.New("an account with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrClientEmailExists  = errors.New("a client with this email already exists")
	ErrClientNotFound     = errors.New("client not found or no linked user account")

	// ErrInvalidToken covers every token failure: nonexistent, expired,
	// consumed, wrong type. Deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid or expired token")
)
