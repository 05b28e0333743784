package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrServiceNotFound = errors.New("service not found")

type ServiceRepository struct {
	db DB
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := `SELECT id, name, description, price, active, created_at FROM services ORDER BY name ASC`
	if activeOnly {
		query = `SELECT id, name, description, price, active, created_at FROM services WHERE active ORDER BY name ASC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Price, &svc.Active, &svc.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (models.Service, error) {
	const query = `SELECT id, name, description, price, active, created_at FROM services WHERE id = $1`

	var svc models.Service
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.Price, &svc.Active, &svc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Service{}, ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return svc, nil
}

func (r *ServiceRepository) Create(ctx context.Context, svc models.Service) (int64, error) {
	const query = `
		INSERT INTO services (name, description, price, active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, svc.Name, svc.Description, svc.Price, svc.Active).Scan(&id)
	return id, err
}

func (r *ServiceRepository) Update(ctx context.Context, svc models.Service) error {
	const query = `UPDATE services SET name = $2, description = $3, price = $4, active = $5 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, svc.ID, svc.Name, svc.Description, svc.Price, svc.Active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM services WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
