package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

// ErrTokenNotFound is the single outcome for every failed lookup:
// nonexistent, expired, consumed, or wrong type. Callers cannot tell
// which, and neither can an attacker.
var ErrTokenNotFound = errors.New("token not found")

type TokenRepository struct {
	db DB
}

func (r *TokenRepository) Insert(ctx context.Context, token models.AccountToken) error {
	const query = `
		INSERT INTO account_tokens (token, type, user_id, client_id, email, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		token.Token,
		token.Type,
		token.UserID,
		token.ClientID,
		token.Email,
		token.CreatedAt,
		token.ExpiresAt,
	)
	return err
}

func (r *TokenRepository) FindValid(ctx context.Context, token string, typ models.TokenType, now time.Time) (models.TokenContext, error) {
	const query = `
		SELECT t.id, t.token, t.type, t.user_id, t.client_id, t.email,
		       t.created_at, t.expires_at, t.used_at,
		       c.client_name, c.dog_name, c.email
		FROM account_tokens t
		LEFT JOIN clients c ON t.client_id = c.id
		WHERE t.token = $1 AND t.type = $2 AND t.used_at IS NULL AND t.expires_at > $3
	`

	var tc models.TokenContext
	err := r.db.QueryRow(ctx, query, token, typ, now).Scan(
		&tc.ID,
		&tc.Token,
		&tc.Type,
		&tc.UserID,
		&tc.ClientID,
		&tc.Email,
		&tc.CreatedAt,
		&tc.ExpiresAt,
		&tc.UsedAt,
		&tc.ClientName,
		&tc.DogName,
		&tc.ClientEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TokenContext{}, ErrTokenNotFound
		}
		return models.TokenContext{}, err
	}
	return tc, nil
}

// Consume marks the token used. The used_at IS NULL guard makes the
// single-use guarantee strict under concurrent requests: exactly one
// caller sees true, everyone else zero rows.
func (r *TokenRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	const query = `UPDATE account_tokens SET used_at = $2 WHERE token = $1 AND used_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, token, now)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Invalidate retires outstanding tokens of one type for a user and/or
// email, so a freshly issued token supersedes its predecessors.
func (r *TokenRepository) Invalidate(ctx context.Context, typ models.TokenType, userID int64, email string, now time.Time) error {
	if userID != 0 {
		const query = `UPDATE account_tokens SET used_at = $3 WHERE type = $1 AND user_id = $2 AND used_at IS NULL`
		if _, err := r.db.Exec(ctx, query, typ, userID, now); err != nil {
			return err
		}
	}
	if email != "" {
		const query = `UPDATE account_tokens SET used_at = $3 WHERE type = $1 AND email = $2 AND used_at IS NULL`
		if _, err := r.db.Exec(ctx, query, typ, email, now); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired drops tokens that expired before the cutoff and were
// never redeemed. Consumed tokens are retained as the audit trail.
func (r *TokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM account_tokens WHERE used_at IS NULL AND expires_at < $1`
	cmd, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
