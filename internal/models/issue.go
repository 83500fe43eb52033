package models

import "time"

// Issue is a problem report submitted by a user.
type Issue struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	UserID        string    `json:"user"`
	DateSubmitted time.Time `json:"date_submitted"`
}
