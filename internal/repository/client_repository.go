package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrClientNotFound = errors.New("client not found")

const clientColumns = `id, user_id, client_name, email, dog_name, dog_breed, dog_age, notes, created_at, updated_at`

type ClientRepository struct {
	db DB
}

func scanClient(row pgx.Row) (models.Client, error) {
	var client models.Client
	if err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.ClientName,
		&client.Email,
		&client.DogName,
		&client.DogBreed,
		&client.DogAge,
		&client.Notes,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Client{}, ErrClientNotFound
		}
		return models.Client{}, err
	}
	return client, nil
}

func (r *ClientRepository) Create(ctx context.Context, client models.Client) (int64, error) {
	const query = `
		INSERT INTO clients (user_id, client_name, email, dog_name, dog_breed, dog_age, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		client.UserID,
		client.ClientName,
		client.Email,
		client.DogName,
		client.DogBreed,
		client.DogAge,
		client.Notes,
	).Scan(&id)
	return id, err
}

func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	const query = `
		SELECT c.id, c.user_id, c.client_name, c.email, c.dog_name, c.dog_breed, c.dog_age, c.notes,
		       c.created_at, c.updated_at, u.username
		FROM clients c
		LEFT JOIN users u ON c.user_id = u.id
		ORDER BY c.client_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(
			&client.ID,
			&client.UserID,
			&client.ClientName,
			&client.Email,
			&client.DogName,
			&client.DogBreed,
			&client.DogAge,
			&client.Notes,
			&client.CreatedAt,
			&client.UpdatedAt,
			&client.Username,
		); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (models.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(r.db.QueryRow(ctx, query, id))
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (models.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return scanClient(r.db.QueryRow(ctx, query, email))
}

func (r *ClientRepository) FindByUserID(ctx context.Context, userID int64) (models.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1`
	return scanClient(r.db.QueryRow(ctx, query, userID))
}

// LinkUser attaches an invited client profile to the user account
// created during setup.
func (r *ClientRepository) LinkUser(ctx context.Context, clientID int64, userID int64) error {
	const query = `UPDATE clients SET user_id = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, clientID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, client models.Client) error {
	const query = `
		UPDATE clients
		SET client_name = $2, email = $3, dog_name = $4, dog_breed = $5, dog_age = $6, notes = $7,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query,
		client.ID,
		client.ClientName,
		client.Email,
		client.DogName,
		client.DogBreed,
		client.DogAge,
		client.Notes,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) UpdateProfileByUserID(ctx context.Context, userID int64, clientName string, dogName string, dogBreed *string, dogAge *int) error {
	const query = `
		UPDATE clients
		SET client_name = $2, dog_name = $3, dog_breed = $4, dog_age = $5, updated_at = NOW()
		WHERE user_id = $1
	`
	cmd, err := r.db.Exec(ctx, query, userID, clientName, dogName, dogBreed, dogAge)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM clients WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}
