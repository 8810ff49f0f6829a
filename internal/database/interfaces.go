package database

import (
	"context"

	"github.com/tablero-app/tablero/internal/models"
)

// BoardRepository defines data operations for boards.
type BoardRepository interface {
	CreateBoard(ctx context.Context, ownerID, name string) (*models.Board, error)
	GetBoards(ctx context.Context, ownerID string) ([]*models.Board, error)
	GetBoardByID(ctx context.Context, ownerID string, id int) (*models.Board, error)
	RenameBoard(ctx context.Context, ownerID string, id int, name string) error
	DeleteBoard(ctx context.Context, ownerID string, id int) error
}

// ColumnReader defines read operations for columns.
type ColumnReader interface {
	GetColumnsByBoard(ctx context.Context, ownerID string, boardID int) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, ownerID string, id int) (*models.Column, error)
}

// ColumnWriter defines write operations for columns, including reordering.
type ColumnWriter interface {
	CreateColumn(ctx context.Context, ownerID string, boardID int, title string, marksStarted, marksCompleted bool) (*models.Column, error)
	RenameColumn(ctx context.Context, ownerID string, id int, title string) error
	ReorderColumn(ctx context.Context, ownerID string, columnID, targetIndex int, baseVersion int64) (*models.Column, error)
	DeleteColumn(ctx context.Context, ownerID string, id int) error
}

// ColumnRepository combines all column operations.
type ColumnRepository interface {
	ColumnReader
	ColumnWriter
}

// TaskReader defines read operations for tasks.
type TaskReader interface {
	GetTasksByColumn(ctx context.Context, ownerID string, columnID int) ([]*models.Task, error)
	GetTasksByBoard(ctx context.Context, ownerID string, boardID int) (map[int][]*models.Task, error)
	GetTaskByID(ctx context.Context, ownerID string, id int) (*models.Task, error)
}

// TaskWriter defines write operations for tasks.
type TaskWriter interface {
	CreateTask(ctx context.Context, ownerID string, columnID int, title, description string, priority models.Priority) (*models.Task, error)
	UpdateTask(ctx context.Context, ownerID string, id int, title, description string, priority models.Priority) error
	DeleteTask(ctx context.Context, ownerID string, id int) error
}

// TaskMover defines the reorder operation: one transactional move of a task
// within or across columns.
type TaskMover interface {
	ReorderTask(ctx context.Context, ownerID string, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error)
}

// TaskRepository combines all task operations.
type TaskRepository interface {
	TaskReader
	TaskWriter
	TaskMover
}

// DataStore defines the unified interface for all data operations needed by
// the services and the TUI. It is composed of smaller, domain-specific
// interfaces so consumers can depend on just the slice they need.
type DataStore interface {
	BoardRepository
	ColumnRepository
	TaskRepository
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)
