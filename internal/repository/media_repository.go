package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrMediaNotFound = errors.New("media not found")

const mediaColumns = `id, client_id, type, filename, original_name, caption, created_at`

type MediaRepository struct {
	db DB
}

func scanMedia(row pgx.Row) (models.Media, error) {
	var media models.Media
	if err := row.Scan(
		&media.ID,
		&media.ClientID,
		&media.Type,
		&media.Filename,
		&media.OriginalName,
		&media.Caption,
		&media.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Media{}, ErrMediaNotFound
		}
		return models.Media{}, err
	}
	return media, nil
}

func (r *MediaRepository) Create(ctx context.Context, media models.Media) (int64, error) {
	const query = `
		INSERT INTO media (client_id, type, filename, original_name, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		media.ClientID,
		media.Type,
		media.Filename,
		media.OriginalName,
		media.Caption,
	).Scan(&id)
	return id, err
}

func (r *MediaRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Media, error) {
	const query = `SELECT ` + mediaColumns + ` FROM media WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var media models.Media
		if err := rows.Scan(
			&media.ID,
			&media.ClientID,
			&media.Type,
			&media.Filename,
			&media.OriginalName,
			&media.Caption,
			&media.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, media)
	}
	return items, rows.Err()
}

func (r *MediaRepository) GetByID(ctx context.Context, id int64) (models.Media, error) {
	const query = `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`
	return scanMedia(r.db.QueryRow(ctx, query, id))
}

func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM media WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}
