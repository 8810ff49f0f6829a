package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/events"
	"github.com/tablero-app/tablero/internal/models"
)

// Service defines all board-related business operations
type Service interface {
	GetBoards(ctx context.Context, ownerID string) ([]*models.Board, error)
	GetBoard(ctx context.Context, ownerID string, boardID int) (*models.Board, error)
	CreateBoard(ctx context.Context, ownerID, name string) (*models.Board, error)
	RenameBoard(ctx context.Context, ownerID string, boardID int, name string) error
	DeleteBoard(ctx context.Context, ownerID string, boardID int) error
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher
}

// NewService creates a new board service
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetBoards retrieves all boards owned by the caller
func (s *service) GetBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	boards, err := s.repo.GetBoards(ctx, ownerID)
	if err != nil {
		return nil, s.classify(err, "get boards")
	}
	return boards, nil
}

// GetBoard retrieves a single board
func (s *service) GetBoard(ctx context.Context, ownerID string, boardID int) (*models.Board, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if boardID <= 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}

	b, err := s.repo.GetBoardByID(ctx, ownerID, boardID)
	if err != nil {
		return nil, s.classify(err, "get board")
	}
	return b, nil
}

// CreateBoard handles board creation with validation
func (s *service) CreateBoard(ctx context.Context, ownerID, name string) (*models.Board, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if name == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyName)
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrNameTooLong)
	}

	b, err := s.repo.CreateBoard(ctx, ownerID, name)
	if err != nil {
		return nil, s.classify(err, "create board")
	}

	s.publishBoardEvent(b.ID)

	return b, nil
}

// RenameBoard handles board renames with validation
func (s *service) RenameBoard(ctx context.Context, ownerID string, boardID int, name string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if boardID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}
	if name == "" {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrEmptyName)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrNameTooLong)
	}

	if err := s.repo.RenameBoard(ctx, ownerID, boardID, name); err != nil {
		return s.classify(err, "rename board")
	}

	s.publishBoardEvent(boardID)

	return nil
}

// DeleteBoard handles board deletion. Columns and tasks cascade with it.
func (s *service) DeleteBoard(ctx context.Context, ownerID string, boardID int) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if boardID <= 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidArgument, ErrInvalidBoardID)
	}

	if err := s.repo.DeleteBoard(ctx, ownerID, boardID); err != nil {
		return s.classify(err, "delete board")
	}

	s.publishBoardEvent(boardID)

	return nil
}

// classify maps repository errors onto the shared taxonomy. Expected
// classes pass through; anything else is logged and reported as internal.
func (s *service) classify(err error, op string) error {
	if errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidArgument) ||
		errors.Is(err, models.ErrConflict) {
		return err
	}
	slog.Error("board operation failed", "op", op, "error", err)
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
