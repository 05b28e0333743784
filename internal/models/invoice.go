package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

type Invoice struct {
	ID        int64
	ClientID  int64
	Status    InvoiceStatus
	Total     float64
	DueDate   *time.Time
	CreatedAt time.Time
}

type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	Description string
	Quantity    int
	Amount      float64
}
