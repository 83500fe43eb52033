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

// PageServiceProvider defines the interface for page services.
type PageServiceProvider interface {
	ListPages(ctx context.Context, userID, projectID string) ([]models.Page, error)
	CreatePage(ctx context.Context, userID, projectID string, in serializers.PageInput) (models.Page, error)
	GetPage(ctx context.Context, userID, id string) (models.Page, error)
	UpdatePage(ctx context.Context, userID, id string, in serializers.PageInput, partial bool) (models.Page, error)
	DeletePage(ctx context.Context, userID, id string) error
}

// PageService provides ownership-scoped persistence for pages.
type PageService struct {
	db *sql.DB
}

// NewPageService creates a new PageService.
func NewPageService(db *sql.DB) *PageService {
	return &PageService{db: db}
}

const pageColumns = `pages.id, pages.project_id, pages.name, pages.sort_order`

// OwnedPages scopes pages to those whose project is owned by userID.
func OwnedPages(userID string) Scope {
	return OwnedProjects(userID).Child("pages", "project_id")
}

func scanPage(row scanner) (models.Page, error) {
	var p models.Page
	err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Order)
	return p, err
}

func getPage(ctx context.Context, db DBTX, s Scope) (models.Page, error) {
	query, args := s.Select(pageColumns, "")
	p, err := scanPage(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Page{}, ErrNotFound
		}
		return models.Page{}, fmt.Errorf("loading page: %w", err)
	}
	return p, nil
}

// ListPages returns the pages of a project. A project the user cannot see
// yields ErrNotFound.
func (s *PageService) ListPages(ctx context.Context, userID, projectID string) ([]models.Page, error) {
	found, err := exists(ctx, s.db, OwnedProjects(userID).ByID(projectID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	query, args := OwnedPages(userID).Where("pages.project_id = ?", projectID).
		Select(pageColumns, "pages.sort_order, pages.rowid")
	pages, err := queryAll(ctx, s.db, query, args, scanPage)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return pages, nil
}

// CreatePage adds a page to a project owned by userID.
func (s *PageService) CreatePage(ctx context.Context, userID, projectID string, in serializers.PageInput) (models.Page, error) {
	if err := in.Validate(false); err != nil {
		return models.Page{}, err
	}

	p := models.Page{ID: uuid.New().String(), ProjectID: projectID}
	in.Apply(&p)

	err := insertUnder(ctx, s.db, OwnedProjects(userID).ByID(projectID), "pages",
		[]string{"id", "project_id", "name", "sort_order"},
		[]any{p.ID, p.ProjectID, p.Name, p.Order},
	)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Page{}, err
		}
		return models.Page{}, fmt.Errorf("inserting page: %w", err)
	}
	return p, nil
}

// GetPage returns a single page.
func (s *PageService) GetPage(ctx context.Context, userID, id string) (models.Page, error) {
	return getPage(ctx, s.db, OwnedPages(userID).ByID(id))
}

// UpdatePage applies a full or partial update.
func (s *PageService) UpdatePage(ctx context.Context, userID, id string, in serializers.PageInput, partial bool) (models.Page, error) {
	if err := in.Validate(partial); err != nil {
		return models.Page{}, err
	}

	scope := OwnedPages(userID).ByID(id)
	var p models.Page
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if p, err = getPage(ctx, tx, scope); err != nil {
			return err
		}
		in.Apply(&p)

		err = updateScoped(ctx, tx, scope, []string{"name = ?", "sort_order = ?"}, []any{p.Name, p.Order})
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("updating page: %w", err)
		}
		return err
	})
	if err != nil {
		return models.Page{}, err
	}
	return p, nil
}

// DeletePage removes a page together with its sections and tasks.
func (s *PageService) DeletePage(ctx context.Context, userID, id string) error {
	return deleteScoped(ctx, s.db, OwnedPages(userID).ByID(id))
}
