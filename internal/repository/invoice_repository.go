package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"k9vision/api/internal/models"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

const invoiceColumns = `id, client_id, status, total, due_date, created_at`

type InvoiceRepository struct {
	db DB
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var inv models.Invoice
	if err := row.Scan(
		&inv.ID,
		&inv.ClientID,
		&inv.Status,
		&inv.Total,
		&inv.DueDate,
		&inv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceRepository) Insert(ctx context.Context, invoice models.Invoice) (int64, error) {
	const query = `
		INSERT INTO invoices (client_id, status, total, due_date, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		invoice.ClientID,
		invoice.Status,
		invoice.Total,
		invoice.DueDate,
	).Scan(&id)
	return id, err
}

func (r *InvoiceRepository) InsertItem(ctx context.Context, item models.InvoiceItem) error {
	const query = `
		INSERT INTO invoice_items (invoice_id, description, quantity, amount)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, item.InvoiceID, item.Description, item.Quantity, item.Amount)
	return err
}

func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, clientID)
}

func (r *InvoiceRepository) list(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.ClientID, &inv.Status, &inv.Total, &inv.DueDate, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (models.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRow(ctx, query, id))
}

func (r *InvoiceRepository) ListItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, description, quantity, amount
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) error {
	const query = `UPDATE invoices SET status = $2 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
