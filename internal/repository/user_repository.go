package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, username, email, password_hash, role, status, created_at, updated_at`

type UserRepository struct {
	db DB
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (int64, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
	).Scan(&id)
	return id, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ActiveEmailInUse reports whether the email belongs to an active user
// or to a client profile linked to an active user. Pending registrations
// do not count; they may be overwritten by a retry.
func (r *UserRepository) ActiveEmailInUse(ctx context.Context, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE email = $1 AND status = 'active'
			UNION
			SELECT 1 FROM clients c
			JOIN users u ON c.user_id = u.id
			WHERE c.email = $1 AND u.status = 'active'
		)
	`

	var inUse bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&inUse); err != nil {
		return false, err
	}
	return inUse, nil
}

// OverwritePending replaces the credentials on a pending_verification
// registration so a client who never got the verification email can
// simply register again.
func (r *UserRepository) OverwritePending(ctx context.Context, id int64, username string, passwordHash []byte) error {
	const query = `
		UPDATE users SET username = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_verification'
	`
	cmd, err := r.db.Exec(ctx, query, id, username, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash []byte) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	const query = `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
