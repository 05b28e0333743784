package models

import "time"

// Client is the business profile for a dog owner. UserID stays NULL for
// admin-invited clients until the invite token is redeemed.
type Client struct {
	ID         int64
	UserID     *int64
	ClientName string
	Email      string
	DogName    string
	DogBreed   *string
	DogAge     *int
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Username is populated by list queries that join users.
	Username *string
}
