package serializers

import (
	"strings"

	"github.com/devcheck/devcheck-be/internal/models"
)

// ProjectInput is the writable subset of a project. The owner always comes
// from the authenticated user.
type ProjectInput struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
	Link        Field[string] `json:"link"`
	Image       Field[string] `json:"image"`
}

// Validate checks the payload. With partial set, absent fields are allowed.
func (in ProjectInput) Validate(partial bool) error {
	verr := &ValidationError{}
	checkText(verr, "name", in.Name, partial, textRule{required: true, maxLen: models.ProjectNameMaxLen})
	checkText(verr, "description", in.Description, partial, textRule{allowBlank: true})
	checkURL(verr, "link", in.Link)
	if in.Image.Set && !in.Image.Null && len(in.Image.Value) > 255 {
		verr.Add("image", "ensure this field has no more than 255 characters")
	}
	return verr.Err()
}

// Apply copies the provided fields onto p.
func (in ProjectInput) Apply(p *models.Project) {
	if in.Name.Set {
		p.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Description.Set {
		p.Description = in.Description.Value
	}
	if in.Link.Set {
		p.Link = nullableText(in.Link)
	}
	if in.Image.Set {
		p.Image = nullableText(in.Image)
	}
}

// PageInput is the writable subset of a page.
type PageInput struct {
	Name  Field[string] `json:"name"`
	Order Field[int]    `json:"order"`
}

func (in PageInput) Validate(partial bool) error {
	verr := &ValidationError{}
	checkText(verr, "name", in.Name, partial, textRule{required: true, maxLen: models.PageNameMaxLen})
	checkOrder(verr, "order", in.Order)
	return verr.Err()
}

func (in PageInput) Apply(p *models.Page) {
	if in.Name.Set {
		p.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Order.Set {
		p.Order = in.Order.Value
	}
}

// SectionInput is the writable subset of a checklist section.
type SectionInput struct {
	Title Field[models.SectionTitle] `json:"title"`
	Order Field[int]                 `json:"order"`
}

func (in SectionInput) Validate(partial bool) error {
	verr := &ValidationError{}
	switch {
	case !in.Title.Set:
		if !partial {
			verr.Add("title", reasonRequired)
		}
	case in.Title.Null:
		verr.Add("title", reasonNull)
	case !in.Title.Value.Valid():
		verr.Add("title", `"`+string(in.Title.Value)+`" is not a valid choice`)
	}
	checkOrder(verr, "order", in.Order)
	return verr.Err()
}

func (in SectionInput) Apply(s *models.Section) {
	if in.Title.Set {
		s.Title = in.Title.Value
	}
	if in.Order.Set {
		s.Order = in.Order.Value
	}
}

// TaskInput is the writable subset of a task.
type TaskInput struct {
	Title     Field[string] `json:"title"`
	Completed Field[bool]   `json:"completed"`
	Order     Field[int]    `json:"order"`
}

func (in TaskInput) Validate(partial bool) error {
	verr := &ValidationError{}
	checkText(verr, "title", in.Title, partial, textRule{required: true, maxLen: models.TaskTitleMaxLen})
	checkBool(verr, "completed", in.Completed)
	checkOrder(verr, "order", in.Order)
	return verr.Err()
}

func (in TaskInput) Apply(t *models.Task) {
	if in.Title.Set {
		t.Title = strings.TrimSpace(in.Title.Value)
	}
	if in.Completed.Set {
		t.Completed = in.Completed.Value
	}
	if in.Order.Set {
		t.Order = in.Order.Value
	}
}

// IssueInput is a problem report. The submitter is the authenticated user.
type IssueInput struct {
	Description Field[string] `json:"description"`
}

func (in IssueInput) Validate() error {
	verr := &ValidationError{}
	checkText(verr, "description", in.Description, false, textRule{required: true})
	return verr.Err()
}
