package repository

import (
	"context"
	"errors"

	"k9vision/api/internal/models"
)

var ErrFunFactNotFound = errors.New("fun fact not found")

type FunFactRepository struct {
	db DB
}

func (r *FunFactRepository) Create(ctx context.Context, fact models.FunFact) (int64, error) {
	const query = `
		INSERT INTO fun_facts (client_id, fact, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, fact.ClientID, fact.Fact).Scan(&id)
	return id, err
}

func (r *FunFactRepository) ListByClient(ctx context.Context, clientID int64) ([]models.FunFact, error) {
	const query = `
		SELECT id, client_id, fact, created_at
		FROM fun_facts WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []models.FunFact
	for rows.Next() {
		var fact models.FunFact
		if err := rows.Scan(&fact.ID, &fact.ClientID, &fact.Fact, &fact.CreatedAt); err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

func (r *FunFactRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM fun_facts WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrFunFactNotFound
	}
	return nil
}
