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

// SectionServiceProvider defines the interface for checklist section services.
type SectionServiceProvider interface {
	ListSections(ctx context.Context, userID, pageID string) ([]models.Section, error)
	CreateSection(ctx context.Context, userID, pageID string, in serializers.SectionInput) (models.Section, error)
	GetSection(ctx context.Context, userID, id string) (models.Section, error)
	UpdateSection(ctx context.Context, userID, id string, in serializers.SectionInput, partial bool) (models.Section, error)
	DeleteSection(ctx context.Context, userID, id string) error
}

// SectionService provides ownership-scoped persistence for sections.
type SectionService struct {
	db *sql.DB
}

// NewSectionService creates a new SectionService.
func NewSectionService(db *sql.DB) *SectionService {
	return &SectionService{db: db}
}

const sectionColumns = `sections.id, sections.page_id, sections.title, sections.sort_order`

// OwnedSections scopes sections to those reachable from userID's projects.
func OwnedSections(userID string) Scope {
	return OwnedPages(userID).Child("sections", "page_id")
}

var errDuplicateSection = &ConflictError{
	Field:  "title",
	Reason: "this page already has a section with that title",
}

func scanSection(row scanner) (models.Section, error) {
	var (
		s     models.Section
		title string
	)
	if err := row.Scan(&s.ID, &s.PageID, &title, &s.Order); err != nil {
		return models.Section{}, err
	}
	s.Title = models.SectionTitle(title)
	return s, nil
}

func getSection(ctx context.Context, db DBTX, s Scope) (models.Section, error) {
	query, args := s.Select(sectionColumns, "")
	sec, err := scanSection(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Section{}, ErrNotFound
		}
		return models.Section{}, fmt.Errorf("loading section: %w", err)
	}
	return sec, nil
}

// ListSections returns the sections of a page.
func (s *SectionService) ListSections(ctx context.Context, userID, pageID string) ([]models.Section, error) {
	found, err := exists(ctx, s.db, OwnedPages(userID).ByID(pageID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	query, args := OwnedSections(userID).Where("sections.page_id = ?", pageID).
		Select(sectionColumns, "sections.sort_order, sections.rowid")
	sections, err := queryAll(ctx, s.db, query, args, scanSection)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	return sections, nil
}

// CreateSection adds a section to a page. A second section with the same
// title on one page is a conflict.
func (s *SectionService) CreateSection(ctx context.Context, userID, pageID string, in serializers.SectionInput) (models.Section, error) {
	if err := in.Validate(false); err != nil {
		return models.Section{}, err
	}

	sec := models.Section{ID: uuid.New().String(), PageID: pageID}
	in.Apply(&sec)

	err := insertUnder(ctx, s.db, OwnedPages(userID).ByID(pageID), "sections",
		[]string{"id", "page_id", "title", "sort_order"},
		[]any{sec.ID, sec.PageID, string(sec.Title), sec.Order},
	)
	switch {
	case err == nil:
		return sec, nil
	case errors.Is(err, ErrNotFound):
		return models.Section{}, err
	case isUniqueViolation(err):
		return models.Section{}, errDuplicateSection
	default:
		return models.Section{}, fmt.Errorf("inserting section: %w", err)
	}
}

// GetSection returns a single section.
func (s *SectionService) GetSection(ctx context.Context, userID, id string) (models.Section, error) {
	return getSection(ctx, s.db, OwnedSections(userID).ByID(id))
}

// UpdateSection applies a full or partial update. Renaming onto a title the
// page already uses is a conflict.
func (s *SectionService) UpdateSection(ctx context.Context, userID, id string, in serializers.SectionInput, partial bool) (models.Section, error) {
	if err := in.Validate(partial); err != nil {
		return models.Section{}, err
	}

	scope := OwnedSections(userID).ByID(id)
	var sec models.Section
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if sec, err = getSection(ctx, tx, scope); err != nil {
			return err
		}
		in.Apply(&sec)

		err = updateScoped(ctx, tx, scope, []string{"title = ?", "sort_order = ?"}, []any{string(sec.Title), sec.Order})
		switch {
		case err == nil, errors.Is(err, ErrNotFound):
			return err
		case isUniqueViolation(err):
			return errDuplicateSection
		default:
			return fmt.Errorf("updating section: %w", err)
		}
	})
	if err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

// DeleteSection removes a section together with its tasks.
func (s *SectionService) DeleteSection(ctx context.Context, userID, id string) error {
	return deleteScoped(ctx, s.db, OwnedSections(userID).ByID(id))
}
