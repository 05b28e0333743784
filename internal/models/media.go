package models

import "time"

type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
)

type Media struct {
	ID           int64
	ClientID     int64
	Type         MediaType
	Filename     string
	OriginalName string
	Caption      string
	CreatedAt    time.Time
}
