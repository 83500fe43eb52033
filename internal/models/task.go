package models

import "time"

// Task is an individual checklist item within a section.
type Task struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
