package models

// Page belongs to a project and has its own checklist sections.
type Page struct {
	ID        string `json:"id"`
	ProjectID string `json:"project"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
}
