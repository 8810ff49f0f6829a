package column

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/events"
	"github.com/tablero-app/tablero/internal/models"
)

// Service defines all column-related business operations
type Service interface {
	// Read operations
	GetColumn(ctx context.Context, ownerID string, columnID int) (*models.Column, error)
	GetColumnsByBoard(ctx context.Context, ownerID string, boardID int) ([]*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	RenameColumn(ctx context.Context, ownerID string, columnID int, title string, boardID int) error
	DeleteColumn(ctx context.Context, ownerID string, columnID int, boardID int) error

	// Column movement: reorders the board's column strip
	MoveColumn(ctx context.Context, req MoveColumnRequest) (*models.Column, error)
}

// CreateColumnRequest encapsulates all data needed to create a column.
// New columns always append at the right edge of the board.
type CreateColumnRequest struct {
	OwnerID        string
	BoardID        int
	Title          string
	MarksStarted   bool
	MarksCompleted bool
}

// MoveColumnRequest describes one intended column placement: put ColumnID
// at TargetIndex on its board. BaseVersion, when non-zero, is the board
// version the client last observed; the move is rejected with a conflict
// if the board layout has changed since.
type MoveColumnRequest struct {
	OwnerID     string
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

// NewService creates a new column service
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetColumn retrieves a single column
func (s *service) GetColumn(ctx context.Context, ownerID string, columnID int) (*models.Column, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if columnID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}

	col, err := s.repo.GetColumnByID(ctx, ownerID, columnID)
	if err != nil {
		return nil, s.classify(err, "get column")
	}
	return col, nil
}

// GetColumnsByBoard retrieves all columns of a board in position order
func (s *service) GetColumnsByBoard(ctx context.Context, ownerID string, boardID int) ([]*models.Column, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if boardID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}

	cols, err := s.repo.GetColumnsByBoard(ctx, ownerID, boardID)
	if err != nil {
		return nil, s.classify(err, "get board columns")
	}
	return cols, nil
}

// CreateColumn handles column creation with validation
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	if req.OwnerID == "" {
		return nil, ErrMissingOwner
	}
	if req.BoardID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyTitle)
	}
	if len(req.Title) > 50 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrTitleTooLong)
	}

	col, err := s.repo.CreateColumn(ctx, req.OwnerID, req.BoardID, req.Title, req.MarksStarted, req.MarksCompleted)
	if err != nil {
		return nil, s.classify(err, "create column")
	}

	s.publishBoardEvent(req.BoardID)

	return col, nil
}

// RenameColumn handles column renames with validation
func (s *service) RenameColumn(ctx context.Context, ownerID string, columnID int, title string, boardID int) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if columnID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}
	if title == "" {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyTitle)
	}
	if len(title) > 50 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrTitleTooLong)
	}

	if err := s.repo.RenameColumn(ctx, ownerID, columnID, title); err != nil {
		return s.classify(err, "rename column")
	}

	s.publishBoardEvent(boardID)

	return nil
}

// DeleteColumn handles column deletion. The column's tasks go with it and
// the remaining columns are renumbered inside the same transaction.
func (s *service) DeleteColumn(ctx context.Context, ownerID string, columnID int, boardID int) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if columnID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}

	if err := s.repo.DeleteColumn(ctx, ownerID, columnID); err != nil {
		return s.classify(err, "delete column")
	}

	s.publishBoardEvent(boardID)

	return nil
}

// MoveColumn places a column at an index on its board. The sibling
// renumbering and the relocation commit as one atomic unit.
func (s *service) MoveColumn(ctx context.Context, req MoveColumnRequest) (*models.Column, error) {
	if req.OwnerID == "" {
		return nil, ErrMissingOwner
	}
	if req.ColumnID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidColumnID)
	}
	if req.TargetIndex < 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidIndex)
	}

	col, err := s.repo.ReorderColumn(ctx, req.OwnerID, req.ColumnID, req.TargetIndex, req.BaseVersion)
	if err != nil {
		return nil, s.classify(err, "move column")
	}

	s.publishBoardEvent(req.BoardID)

	return col, nil
}

// classify maps repository errors onto the shared taxonomy. Expected
// classes pass through; anything else is logged and reported as internal.
func (s *service) classify(err error, op string) error {
	if errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidArgument) ||
		errors.Is(err, models.ErrConflict) {
		return err
	}
	slog.Error("column operation failed", "op", op, "error", err)
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
