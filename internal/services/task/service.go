package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/events"
	"github.com/tablero-app/tablero/internal/models"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, ownerID string, taskID int) (*models.Task, error)
	GetTasksByBoard(ctx context.Context, ownerID string, boardID int) (map[int][]*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) error
	DeleteTask(ctx context.Context, ownerID string, taskID int) error

	// Task movement: the one operation that reorders siblings
	MoveTask(ctx context.Context, req MoveTaskRequest) (*models.Task, error)
}

// CreateTaskRequest encapsulates all data needed to create a task.
// New tasks always append at the end of the column's order.
type CreateTaskRequest struct {
	OwnerID     string
	ColumnID    int
	Title       string
	Description string
	Priority    models.Priority
	BoardID     int // for the change notification only
}

// UpdateTaskRequest encapsulates all data needed to update a task.
// Fields with pointers are optional - nil means don't update.
type UpdateTaskRequest struct {
	OwnerID     string
	TaskID      int
	Title       *string
	Description *string
	Priority    *models.Priority
	BoardID     int
}

// MoveTaskRequest describes one intended task placement: put TaskID at
// TargetIndex in ColumnID. BaseVersion, when non-zero, is the destination
// column version the client last observed; the move is rejected with a
// conflict if the column has been reordered since.
type MoveTaskRequest struct {
	OwnerID     string
	TaskID      int
	ColumnID    int
	TargetIndex int
	BaseVersion int64
	BoardID     int
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher
}

// NewService creates a new task service
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetTask retrieves a single task
func (s *service) GetTask(ctx context.Context, ownerID string, taskID int) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if taskID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidTaskID)
	}

	task, err := s.repo.GetTaskByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.classify(err, "get task")
	}
	return task, nil
}

// GetTasksByBoard retrieves all tasks on a board grouped by column
func (s *service) GetTasksByBoard(ctx context.Context, ownerID string, boardID int) (map[int][]*models.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if boardID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}

	tasks, err := s.repo.GetTasksByBoard(ctx, ownerID, boardID)
	if err != nil {
		return nil, s.classify(err, "get board tasks")
	}
	return tasks, nil
}

// CreateTask handles task creation with validation and business rules
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if err := s.validateCreateTask(req); err != nil {
		return nil, err
	}

	task, err := s.repo.CreateTask(ctx, req.OwnerID, req.ColumnID, req.Title, req.Description, req.Priority)
	if err != nil {
		return nil, s.classify(err, "create task")
	}

	s.publishBoardEvent(req.BoardID)

	return task, nil
}

// UpdateTask handles task updates with validation
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) error {
	if req.OwnerID == "" {
		return ErrMissingOwner
	}
	if req.TaskID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidTaskID)
	}
	if req.Title != nil && *req.Title == "" {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyTitle)
	}
	if req.Title != nil && len(*req.Title) > 255 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrTitleTooLong)
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidPriority)
	}

	// Fill unchanged fields from current state
	current, err := s.repo.GetTaskByID(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return s.classify(err, "get task for update")
	}

	title := current.Title
	description := current.Description
	priority := current.Priority
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Priority != nil {
		priority = *req.Priority
	}

	if err := s.repo.UpdateTask(ctx, req.OwnerID, req.TaskID, title, description, priority); err != nil {
		return s.classify(err, "update task")
	}

	s.publishBoardEvent(req.BoardID)

	return nil
}

// DeleteTask handles task deletion. The remaining tasks of the column are
// renumbered inside the same transaction so the order stays dense.
func (s *service) DeleteTask(ctx context.Context, ownerID string, taskID int) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if taskID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidTaskID)
	}

	if err := s.repo.DeleteTask(ctx, ownerID, taskID); err != nil {
		return s.classify(err, "delete task")
	}

	s.publishBoardEvent(0)

	return nil
}

// MoveTask places a task at an index in a column, within or across columns.
// The sibling reindex, the relocation, and the lifecycle timestamps derived
// from the destination column all commit as one atomic unit; on any error
// nothing is applied. Returns the updated task only, never the whole board.
func (s *service) MoveTask(ctx context.Context, req MoveTaskRequest) (*models.Task, error) {
	if req.OwnerID == "" {
		return nil, ErrMissingOwner
	}
	if req.TaskID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidTaskID)
	}
	if req.ColumnID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}
	if req.TargetIndex < 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidIndex)
	}

	task, err := s.repo.ReorderTask(ctx, req.OwnerID, req.TaskID, req.ColumnID, req.TargetIndex, req.BaseVersion)
	if err != nil {
		return nil, s.classify(err, "move task")
	}

	s.publishBoardEvent(req.BoardID)

	return task, nil
}

// validateCreateTask checks business rules for task creation
func (s *service) validateCreateTask(req CreateTaskRequest) error {
	if req.OwnerID == "" {
		return ErrMissingOwner
	}
	if req.ColumnID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}
	if req.Title == "" {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyTitle)
	}
	if len(req.Title) > 255 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrTitleTooLong)
	}
	if !req.Priority.Valid() {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidPriority)
	}
	return nil
}

// classify maps repository errors onto the shared taxonomy. Expected
// classes pass through; anything else is a storage failure, logged here and
// reported to the caller as an internal error without detail.
func (s *service) classify(err error, op string) error {
	if errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidArgument) ||
		errors.Is(err, models.ErrConflict) {
		return err
	}
	slog.Error("task operation failed", "op", op, "error", err)
	return models.ErrInternal
}

// publishBoardEvent sends a change notification if an event client exists
// (fire-and-forget pattern).
func (s *service) publishBoardEvent(boardID int) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:    events.EventBoardChanged,
		BoardID: boardID,
	}, 3)
}
