package serializers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestDecode_TriStateFields(t *testing.T) {
	var in ProjectInput
	require.NoError(t, Decode(strings.NewReader(`{"name": "Portfolio", "link": null}`), &in))

	assert.True(t, in.Name.Set)
	assert.Equal(t, "Portfolio", in.Name.Value)
	assert.True(t, in.Link.Set)
	assert.True(t, in.Link.Null)
	assert.False(t, in.Description.Set)
}

func TestDecode_RejectsReadOnlyAndUnknownFields(t *testing.T) {
	var in TaskInput
	err := Decode(strings.NewReader(`{"title": "Write tests", "section": "other", "owner": "u2", "colour": "red"}`), &in)

	fields := fieldErrors(t, err)
	assert.Equal(t, "field is read-only", fields["section"])
	assert.Equal(t, "field is read-only", fields["owner"])
	assert.Equal(t, "unknown field", fields["colour"])
	assert.NotContains(t, fields, "title")
}

func TestDecode_InvalidTypesAndBodies(t *testing.T) {
	var in TaskInput
	fields := fieldErrors(t, Decode(strings.NewReader(`{"title": 12, "completed": "yes"}`), &in))
	assert.Equal(t, "invalid value", fields["title"])
	assert.Equal(t, "invalid value", fields["completed"])

	for _, body := range []string{``, `[]`, `null`, `{"title":`} {
		fields := fieldErrors(t, Decode(strings.NewReader(body), &TaskInput{}))
		assert.Contains(t, fields, "body", "body %q", body)
	}

	big := `{"description": "` + strings.Repeat("x", MaxBodyBytes) + `"}`
	fields = fieldErrors(t, Decode(strings.NewReader(big), &IssueInput{}))
	assert.Equal(t, "payload too large", fields["body"])
}

func TestProjectInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      ProjectInput
		partial bool
		fields  []string
	}{
		{name: "full payload", in: ProjectInput{Name: Of("Site"), Link: Of("https://example.com")}},
		{name: "missing name on create", in: ProjectInput{Description: Of("x")}, fields: []string{"name"}},
		{name: "missing name on patch", in: ProjectInput{Description: Of("x")}, partial: true},
		{name: "blank name", in: ProjectInput{Name: Of("   ")}, fields: []string{"name"}},
		{name: "long name", in: ProjectInput{Name: Of(strings.Repeat("n", 101))}, fields: []string{"name"}},
		{name: "bad link", in: ProjectInput{Name: Of("Site"), Link: Of("not a url")}, fields: []string{"link"}},
		{name: "ftp link", in: ProjectInput{Name: Of("Site"), Link: Of("ftp://example.com")}, fields: []string{"link"}},
		{name: "empty link clears", in: ProjectInput{Name: Of("Site"), Link: Of("")}},
		{name: "null name", in: ProjectInput{Name: Field[string]{Set: true, Null: true}}, partial: true, fields: []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(tt.partial)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			fields := fieldErrors(t, err)
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestProjectInput_Apply(t *testing.T) {
	link := "https://old.example"
	p := models.Project{Name: "Old", Description: "keep", Link: &link}

	ProjectInput{Name: Of("  New  "), Link: Field[string]{Set: true, Null: true}}.Apply(&p)

	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "keep", p.Description)
	assert.Nil(t, p.Link)
}

func TestSectionInput_Validate(t *testing.T) {
	assert.NoError(t, SectionInput{Title: Of(models.SectionDeploy)}.Validate(false))
	assert.NoError(t, SectionInput{Order: Of(2)}.Validate(true))

	fields := fieldErrors(t, SectionInput{Title: Of(models.SectionTitle("QA")), Order: Of(-1)}.Validate(false))
	assert.Contains(t, fields["title"], "not a valid choice")
	assert.Contains(t, fields, "order")

	fields = fieldErrors(t, SectionInput{}.Validate(false))
	assert.Equal(t, reasonRequired, fields["title"])
}

func TestTaskInput_ValidateAndApply(t *testing.T) {
	fields := fieldErrors(t, TaskInput{Completed: Field[bool]{Set: true, Null: true}}.Validate(false))
	assert.Equal(t, reasonRequired, fields["title"])
	assert.Equal(t, reasonNull, fields["completed"])

	task := models.Task{Title: "Old", Order: 3}
	TaskInput{Completed: Of(true)}.Apply(&task)
	assert.Equal(t, "Old", task.Title)
	assert.True(t, task.Completed)
	assert.Equal(t, 3, task.Order)
}

func TestRegisterInput_Validate(t *testing.T) {
	assert.NoError(t, RegisterInput{Username: Of("ada.l"), Password: Of("pw"), Email: Of("ada@example.com")}.Validate())
	assert.NoError(t, RegisterInput{Username: Of("ada"), Password: Of("pw")}.Validate())
	assert.NoError(t, RegisterInput{Username: Of("José"), Password: Of("pw")}.Validate())
	assert.NoError(t, RegisterInput{Username: Of("ünïcode_42+x@y-z"), Password: Of("pw")}.Validate())

	fields := fieldErrors(t, RegisterInput{Username: Of("ada lovelace"), Email: Of("nope")}.Validate())
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Equal(t, reasonRequired, fields["password"])
}

func TestProfileInput_Validate(t *testing.T) {
	assert.NoError(t, ProfileInput{Email: Of("new@example.com")}.Validate(true))
	fields := fieldErrors(t, ProfileInput{Email: Of("new@example.com")}.Validate(false))
	assert.Equal(t, reasonRequired, fields["username"])
}

func TestNewProjectDetail_Tree(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := models.Project{ID: "p1", Name: "Site", UpdatedAt: now}
	pages := []models.Page{{ID: "pg1", ProjectID: "p1", Name: "Home"}, {ID: "pg2", ProjectID: "p1", Name: "About", Order: 1}}
	sections := []models.Section{{ID: "s1", PageID: "pg1", Title: models.SectionMVP}, {ID: "s2", PageID: "pg1", Title: models.SectionDev}}
	tasks := []models.Task{{ID: "t1", SectionID: "s1", Title: "Hero", Completed: true}}

	detail := NewProjectDetail(p, pages, sections, tasks)

	require.Len(t, detail.Pages, 2)
	require.Len(t, detail.Pages[0].Sections, 2)
	assert.Equal(t, "In Development", detail.Pages[0].Sections[1].Label)
	require.Len(t, detail.Pages[0].Sections[0].Tasks, 1)
	assert.Equal(t, TaskNode{ID: "t1", Title: "Hero", Completed: true}, detail.Pages[0].Sections[0].Tasks[0])

	// Empty children serialize as [] so clients can iterate without nil checks.
	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sections":[]`)
	assert.Contains(t, string(raw), `"tasks":[]`)
	assert.NotContains(t, string(raw), `"created_at"`)
}

func TestUserJSON_OmitsPassword(t *testing.T) {
	raw, err := json.Marshal(models.User{ID: "u1", Username: "ada", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "secret")
}
