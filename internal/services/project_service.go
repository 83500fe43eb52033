package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/google/uuid"
)

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	CreateProject(ctx context.Context, userID string, in serializers.ProjectInput) (models.Project, error)
	GetProject(ctx context.Context, userID, id string) (models.Project, error)
	GetProjectDetail(ctx context.Context, userID, id string, touch bool) (serializers.ProjectDetail, error)
	UpdateProject(ctx context.Context, userID, id string, in serializers.ProjectInput, partial bool) (models.Project, error)
	DeleteProject(ctx context.Context, userID, id string) error
}

// ProjectService provides ownership-scoped persistence for projects.
type ProjectService struct {
	db *sql.DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *sql.DB) *ProjectService {
	return &ProjectService{db: db}
}

const projectColumns = `projects.id, projects.owner_id, projects.name, projects.description,
	projects.link, projects.image, projects.created_at, projects.updated_at`

func scanProject(row scanner) (models.Project, error) {
	var (
		p                models.Project
		link, image      sql.NullString
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &link, &image, &created, &updated); err != nil {
		return models.Project{}, err
	}
	p.Link = stringPtr(link)
	p.Image = stringPtr(image)

	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return models.Project{}, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func getProject(ctx context.Context, db DBTX, s Scope) (models.Project, error) {
	query, args := s.Select(projectColumns, "")
	p, err := scanProject(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, fmt.Errorf("loading project: %w", err)
	}
	return p, nil
}

// ListProjects returns every project owned by userID, oldest first.
func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	query, args := OwnedProjects(userID).Select(projectColumns, "projects.created_at, projects.rowid")
	projects, err := queryAll(ctx, s.db, query, args, scanProject)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a project owned by userID.
func (s *ProjectService) CreateProject(ctx context.Context, userID string, in serializers.ProjectInput) (models.Project, error) {
	if err := in.Validate(false); err != nil {
		return models.Project{}, err
	}

	ts := now()
	p := models.Project{
		ID:        uuid.New().String(),
		OwnerID:   userID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	in.Apply(&p)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, name, description, link, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Description, nullableString(p.Link), nullableString(p.Image),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return p, nil
}

// GetProject returns a single project in its flat representation.
func (s *ProjectService) GetProject(ctx context.Context, userID, id string) (models.Project, error) {
	return getProject(ctx, s.db, OwnedProjects(userID).ByID(id))
}

// GetProjectDetail returns the project with its pages, sections and tasks.
// With touch set, updated_at is bumped to the current time first; dashboard
// polls pass touch=false so that merely looking does not count as activity.
func (s *ProjectService) GetProjectDetail(ctx context.Context, userID, id string, touch bool) (serializers.ProjectDetail, error) {
	scope := OwnedProjects(userID).ByID(id)
	pages := OwnedPages(userID).Where("pages.project_id = ?", id)
	sections := pages.Child("sections", "page_id")
	tasks := sections.Child("tasks", "section_id")

	var detail serializers.ProjectDetail
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if touch {
			if err := updateScoped(ctx, tx, scope, []string{"updated_at = ?"}, []any{formatTime(now())}); err != nil {
				if errors.Is(err, ErrNotFound) {
					return err
				}
				return fmt.Errorf("touching project: %w", err)
			}
		}

		project, err := getProject(ctx, tx, scope)
		if err != nil {
			return err
		}

		query, args := pages.Select(pageColumns, "pages.sort_order, pages.rowid")
		pageRows, err := queryAll(ctx, tx, query, args, scanPage)
		if err != nil {
			return fmt.Errorf("loading pages: %w", err)
		}

		query, args = sections.Select(sectionColumns, "sections.sort_order, sections.rowid")
		sectionRows, err := queryAll(ctx, tx, query, args, scanSection)
		if err != nil {
			return fmt.Errorf("loading sections: %w", err)
		}

		query, args = tasks.Select(taskColumns, "tasks.sort_order, tasks.rowid")
		taskRows, err := queryAll(ctx, tx, query, args, scanTask)
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		detail = serializers.NewProjectDetail(project, pageRows, sectionRows, taskRows)
		return nil
	})
	if err != nil {
		return serializers.ProjectDetail{}, err
	}
	return detail, nil
}

// UpdateProject applies a full or partial update. The owner never changes,
// and neither does updated_at: only a non-dashboard detail read bumps it.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, id string, in serializers.ProjectInput, partial bool) (models.Project, error) {
	if err := in.Validate(partial); err != nil {
		return models.Project{}, err
	}

	scope := OwnedProjects(userID).ByID(id)
	var p models.Project
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if p, err = getProject(ctx, tx, scope); err != nil {
			return err
		}
		in.Apply(&p)

		err = updateScoped(ctx, tx, scope,
			[]string{"name = ?", "description = ?", "link = ?", "image = ?"},
			[]any{p.Name, p.Description, nullableString(p.Link), nullableString(p.Image)},
		)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("updating project: %w", err)
		}
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// DeleteProject removes a project together with its pages, sections and tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, id string) error {
	return deleteScoped(ctx, s.db, OwnedProjects(userID).ByID(id))
}
