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

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID, sectionID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID, sectionID string, in serializers.TaskInput) (models.Task, error)
	GetTask(ctx context.Context, userID, id string) (models.Task, error)
	UpdateTask(ctx context.Context, userID, id string, in serializers.TaskInput, partial bool) (models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

// TaskService provides ownership-scoped persistence for tasks.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

const taskColumns = `tasks.id, tasks.section_id, tasks.title, tasks.completed, tasks.sort_order,
	tasks.created_at, tasks.updated_at`

// OwnedTasks scopes tasks to those reachable from userID's projects.
func OwnedTasks(userID string) Scope {
	return OwnedSections(userID).Child("tasks", "section_id")
}

func scanTask(row scanner) (models.Task, error) {
	var (
		t                models.Task
		completed        int
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.SectionID, &t.Title, &completed, &t.Order, &created, &updated); err != nil {
		return models.Task{}, err
	}
	t.Completed = completed != 0

	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func getTask(ctx context.Context, db DBTX, s Scope) (models.Task, error) {
	query, args := s.Select(taskColumns, "")
	t, err := scanTask(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("loading task: %w", err)
	}
	return t, nil
}

// ListTasks returns the tasks of a section.
func (s *TaskService) ListTasks(ctx context.Context, userID, sectionID string) ([]models.Task, error) {
	found, err := exists(ctx, s.db, OwnedSections(userID).ByID(sectionID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	query, args := OwnedTasks(userID).Where("tasks.section_id = ?", sectionID).
		Select(taskColumns, "tasks.sort_order, tasks.rowid")
	tasks, err := queryAll(ctx, s.db, query, args, scanTask)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask adds a task to the section identified by sectionID.
func (s *TaskService) CreateTask(ctx context.Context, userID, sectionID string, in serializers.TaskInput) (models.Task, error) {
	if err := in.Validate(false); err != nil {
		return models.Task{}, err
	}

	ts := now()
	t := models.Task{
		ID:        uuid.New().String(),
		SectionID: sectionID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	in.Apply(&t)

	err := insertUnder(ctx, s.db, OwnedSections(userID).ByID(sectionID), "tasks",
		[]string{"id", "section_id", "title", "completed", "sort_order", "created_at", "updated_at"},
		[]any{t.ID, t.SectionID, t.Title, boolToInt(t.Completed), t.Order, formatTime(t.CreatedAt), formatTime(t.UpdatedAt)},
	)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Task{}, err
		}
		return models.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return t, nil
}

// GetTask returns a single task.
func (s *TaskService) GetTask(ctx context.Context, userID, id string) (models.Task, error) {
	return getTask(ctx, s.db, OwnedTasks(userID).ByID(id))
}

// UpdateTask applies a full or partial update and bumps updated_at.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, in serializers.TaskInput, partial bool) (models.Task, error) {
	if err := in.Validate(partial); err != nil {
		return models.Task{}, err
	}

	scope := OwnedTasks(userID).ByID(id)
	var t models.Task
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if t, err = getTask(ctx, tx, scope); err != nil {
			return err
		}
		in.Apply(&t)
		t.UpdatedAt = now()

		err = updateScoped(ctx, tx, scope,
			[]string{"title = ?", "completed = ?", "sort_order = ?", "updated_at = ?"},
			[]any{t.Title, boolToInt(t.Completed), t.Order, formatTime(t.UpdatedAt)},
		)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("updating task: %w", err)
		}
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	return deleteScoped(ctx, s.db, OwnedTasks(userID).ByID(id))
}
