package model

import "time"

// Report is an append-only incident submission, independent of items.
type Report struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zip_code"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submitted_at"`
}
