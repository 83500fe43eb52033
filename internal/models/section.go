package models

// SectionTitle is the development stage a section tracks. A page holds at
// most one section per title.
type SectionTitle string

const (
	SectionMVP    SectionTitle = "MVP"
	SectionDev    SectionTitle = "DEV"
	SectionDeploy SectionTitle = "DEPLOY"
)

// SectionTitles lists the allowed titles in display order.
var SectionTitles = []SectionTitle{SectionMVP, SectionDev, SectionDeploy}

// Valid reports whether t is one of the fixed section titles.
func (t SectionTitle) Valid() bool {
	switch t {
	case SectionMVP, SectionDev, SectionDeploy:
		return true
	}
	return false
}

// Label returns the human readable name of the stage.
func (t SectionTitle) Label() string {
	switch t {
	case SectionDev:
		return "In Development"
	case SectionDeploy:
		return "In Deployment"
	}
	return string(t)
}

// Section organizes tasks by development stage.
type Section struct {
	ID     string       `json:"id"`
	PageID string       `json:"page"`
	Title  SectionTitle `json:"title"`
	Order  int          `json:"order"`
}
