package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/google/uuid"
)

// IssueServiceProvider defines the interface for issue reports.
type IssueServiceProvider interface {
	CreateIssue(ctx context.Context, userID string, in serializers.IssueInput) (models.Issue, error)
}

// IssueService stores issues submitted by users.
type IssueService struct {
	db *sql.DB
}

// NewIssueService creates a new IssueService.
func NewIssueService(db *sql.DB) *IssueService {
	return &IssueService{db: db}
}

// CreateIssue records an issue. The submitter is always userID.
func (s *IssueService) CreateIssue(ctx context.Context, userID string, in serializers.IssueInput) (models.Issue, error) {
	if err := in.Validate(); err != nil {
		return models.Issue{}, err
	}

	issue := models.Issue{
		ID:            uuid.New().String(),
		Description:   strings.TrimSpace(in.Description.Value),
		UserID:        userID,
		DateSubmitted: now(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO issues (id, description, user_id, date_submitted) VALUES (?, ?, ?, ?)",
		issue.ID, issue.Description, issue.UserID, formatTime(issue.DateSubmitted),
	)
	if err != nil {
		return models.Issue{}, fmt.Errorf("inserting issue: %w", err)
	}
	return issue, nil
}
