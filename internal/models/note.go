package models

import "time"

type Note struct {
	ID        int64
	ClientID  int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FunFact struct {
	ID        int64
	ClientID  int64
	Fact      string
	CreatedAt time.Time
}
