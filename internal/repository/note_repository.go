package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository struct {
	db DB
}

func (r *NoteRepository) Create(ctx context.Context, note models.Note) (int64, error) {
	const query = `
		INSERT INTO notes (client_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, note.ClientID, note.Title, note.Content).Scan(&id)
	return id, err
}

func (r *NoteRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Note, error) {
	const query = `
		SELECT id, client_id, title, content, created_at, updated_at
		FROM notes WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.ClientID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (models.Note, error) {
	const query = `
		SELECT id, client_id, title, content, created_at, updated_at
		FROM notes WHERE id = $1
	`

	var note models.Note
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&note.ID, &note.ClientID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	return note, nil
}

func (r *NoteRepository) Update(ctx context.Context, id int64, title string, content string) error {
	const query = `UPDATE notes SET title = $2, content = $3, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, title, content)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM notes WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
