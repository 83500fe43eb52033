package models

import "time"

// Project groups related website pages together. It is the root of the
// ownership chain: every page, section and task resolves to a project owner.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Link        *string   `json:"link"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Field limits shared by validation and the schema.
const (
	ProjectNameMaxLen = 100
	PageNameMaxLen    = 100
	TaskTitleMaxLen   = 200
	UsernameMaxLen    = 150
)
