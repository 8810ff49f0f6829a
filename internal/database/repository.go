package database

import (
	"context"
	"database/sql"

	"github.com/tablero-app/tablero/internal/models"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*BoardRepo
	*ColumnRepo
	*TaskRepo
}

// NewRepository creates a new Repository instance wrapping the given
// database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		BoardRepo:  &BoardRepo{db: db},
		ColumnRepo: &ColumnRepo{db: db},
		TaskRepo:   &TaskRepo{db: db},
	}
}

// Wrapper methods for BoardRepo to satisfy the DataStore naming

func (r *Repository) CreateBoard(ctx context.Context, ownerID, name string) (*models.Board, error) {
	return r.BoardRepo.Create(ctx, ownerID, name)
}

func (r *Repository) GetBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	return r.BoardRepo.GetAll(ctx, ownerID)
}

func (r *Repository) GetBoardByID(ctx context.Context, ownerID string, id int) (*models.Board, error) {
	return r.BoardRepo.GetByID(ctx, ownerID, id)
}

func (r *Repository) RenameBoard(ctx context.Context, ownerID string, id int, name string) error {
	return r.BoardRepo.Rename(ctx, ownerID, id, name)
}

func (r *Repository) DeleteBoard(ctx context.Context, ownerID string, id int) error {
	return r.BoardRepo.Delete(ctx, ownerID, id)
}

// Wrapper methods for ColumnRepo

func (r *Repository) CreateColumn(ctx context.Context, ownerID string, boardID int, title string, marksStarted, marksCompleted bool) (*models.Column, error) {
	return r.ColumnRepo.Create(ctx, ownerID, boardID, title, marksStarted, marksCompleted)
}

func (r *Repository) GetColumnsByBoard(ctx context.Context, ownerID string, boardID int) ([]*models.Column, error) {
	return r.ColumnRepo.GetByBoard(ctx, ownerID, boardID)
}

func (r *Repository) GetColumnByID(ctx context.Context, ownerID string, id int) (*models.Column, error) {
	return r.ColumnRepo.GetByID(ctx, ownerID, id)
}

func (r *Repository) RenameColumn(ctx context.Context, ownerID string, id int, title string) error {
	return r.ColumnRepo.Rename(ctx, ownerID, id, title)
}

func (r *Repository) ReorderColumn(ctx context.Context, ownerID string, columnID, targetIndex int, baseVersion int64) (*models.Column, error) {
	return r.ColumnRepo.Reorder(ctx, ownerID, columnID, targetIndex, baseVersion)
}

func (r *Repository) DeleteColumn(ctx context.Context, ownerID string, id int) error {
	return r.ColumnRepo.Delete(ctx, ownerID, id)
}

// Wrapper methods for TaskRepo

func (r *Repository) CreateTask(ctx context.Context, ownerID string, columnID int, title, description string, priority models.Priority) (*models.Task, error) {
	return r.TaskRepo.Create(ctx, ownerID, columnID, title, description, priority)
}

func (r *Repository) GetTasksByColumn(ctx context.Context, ownerID string, columnID int) ([]*models.Task, error) {
	return r.TaskRepo.GetByColumn(ctx, ownerID, columnID)
}

func (r *Repository) GetTasksByBoard(ctx context.Context, ownerID string, boardID int) (map[int][]*models.Task, error) {
	return r.TaskRepo.GetByBoard(ctx, ownerID, boardID)
}

func (r *Repository) GetTaskByID(ctx context.Context, ownerID string, id int) (*models.Task, error) {
	return r.TaskRepo.GetByID(ctx, ownerID, id)
}

func (r *Repository) UpdateTask(ctx context.Context, ownerID string, id int, title, description string, priority models.Priority) error {
	return r.TaskRepo.Update(ctx, ownerID, id, title, description, priority)
}

func (r *Repository) DeleteTask(ctx context.Context, ownerID string, id int) error {
	return r.TaskRepo.Delete(ctx, ownerID, id)
}

func (r *Repository) ReorderTask(ctx context.Context, ownerID string, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error) {
	return r.TaskRepo.Reorder(ctx, ownerID, taskID, destColumnID, targetIndex, baseVersion)
}
