package models

import "time"

// Task represents a single unit of work on the board.
// A task belongs to exactly one column at a time; Position is its index
// within that column and follows the same dense 0..n-1 ordering as columns.
type Task struct {
	ID          int
	Title       string
	Description string
	Priority    Priority
	ColumnID    int
	Position    int
	StartedAt   *time.Time // set once on first entry into a marks-started column
	CompletedAt *time.Time // set/cleared as the task enters/leaves a marks-completed column
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
