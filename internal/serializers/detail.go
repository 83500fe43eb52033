package serializers

import (
	"time"

	"github.com/devcheck/devcheck-be/internal/models"
)

// ProjectDetail is the nested dashboard view of a project: its pages, each
// with its sections, each with its tasks.
type ProjectDetail struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Link        *string    `json:"link"`
	Image       *string    `json:"image"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Pages       []PageNode `json:"pages"`
}

type PageNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Order    int           `json:"order"`
	Sections []SectionNode `json:"sections"`
}

type SectionNode struct {
	ID    string              `json:"id"`
	Title models.SectionTitle `json:"title"`
	Label string              `json:"label"`
	Tasks []TaskNode          `json:"tasks"`
}

type TaskNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewProjectDetail assembles the tree from flat rows. Children keep the order
// in which they are given; rows whose parent is not present are dropped.
func NewProjectDetail(p models.Project, pages []models.Page, sections []models.Section, tasks []models.Task) ProjectDetail {
	tasksBySection := make(map[string][]TaskNode)
	for _, t := range tasks {
		tasksBySection[t.SectionID] = append(tasksBySection[t.SectionID], TaskNode{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
		})
	}

	sectionsByPage := make(map[string][]SectionNode)
	for _, s := range sections {
		nodes := tasksBySection[s.ID]
		if nodes == nil {
			nodes = []TaskNode{}
		}
		sectionsByPage[s.PageID] = append(sectionsByPage[s.PageID], SectionNode{
			ID:    s.ID,
			Title: s.Title,
			Label: s.Title.Label(),
			Tasks: nodes,
		})
	}

	detail := ProjectDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Link:        p.Link,
		Image:       p.Image,
		UpdatedAt:   p.UpdatedAt,
		Pages:       make([]PageNode, 0, len(pages)),
	}
	for _, pg := range pages {
		if pg.ProjectID != p.ID {
			continue
		}
		nodes := sectionsByPage[pg.ID]
		if nodes == nil {
			nodes = []SectionNode{}
		}
		detail.Pages = append(detail.Pages, PageNode{
			ID:       pg.ID,
			Name:     pg.Name,
			Order:    pg.Order,
			Sections: nodes,
		})
	}
	return detail
}
