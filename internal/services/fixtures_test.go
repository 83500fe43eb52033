package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db       *sql.DB
	users    *UserService
	projects *ProjectService
	pages    *PageService
	sections *SectionService
	tasks    *TaskService
	issues   *IssueService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &testEnv{
		db:       db,
		users:    NewUserService(db).WithHashCost(bcrypt.MinCost),
		projects: NewProjectService(db),
		pages:    NewPageService(db),
		sections: NewSectionService(db),
		tasks:    NewTaskService(db),
		issues:   NewIssueService(db),
	}
}

// freezeClock pins the service clock and returns a setter to move it.
func freezeClock(t *testing.T, start time.Time) func(time.Time) {
	t.Helper()
	current := start
	prev := now
	now = func() time.Time { return current }
	t.Cleanup(func() { now = prev })
	return func(ts time.Time) { current = ts }
}

func (e *testEnv) user(t *testing.T, username string) models.User {
	t.Helper()
	u, err := e.users.RegisterUser(context.Background(), serializers.RegisterInput{
		Username: serializers.Of(username),
		Password: serializers.Of("pass-" + username),
	})
	require.NoError(t, err)
	return u
}

// checklist is one fully populated ownership chain.
type checklist struct {
	owner   models.User
	project models.Project
	page    models.Page
	section models.Section
	task    models.Task
}

func (e *testEnv) checklist(t *testing.T, username string) checklist {
	t.Helper()
	ctx := context.Background()
	c := checklist{owner: e.user(t, username)}

	var err error
	c.project, err = e.projects.CreateProject(ctx, c.owner.ID, serializers.ProjectInput{Name: serializers.Of(username + " site")})
	require.NoError(t, err)

	c.page, err = e.pages.CreatePage(ctx, c.owner.ID, c.project.ID, serializers.PageInput{Name: serializers.Of("Home")})
	require.NoError(t, err)

	c.section, err = e.sections.CreateSection(ctx, c.owner.ID, c.page.ID, serializers.SectionInput{Title: serializers.Of(models.SectionMVP)})
	require.NoError(t, err)

	c.task, err = e.tasks.CreateTask(ctx, c.owner.ID, c.section.ID, serializers.TaskInput{Title: serializers.Of("Hero banner")})
	require.NoError(t, err)
	return c
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
