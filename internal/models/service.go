package models

import "time"

// Service is a training package offered to clients.
type Service struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Active      bool
	CreatedAt   time.Time
}
