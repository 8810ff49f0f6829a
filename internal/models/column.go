package models

import "time"

// Column represents an ordered bucket of tasks on a board (e.g., "Todo",
// "In Progress", "Done"). Columns are kept in a dense zero-based order:
// the Position values of a board's columns are always exactly 0..n-1.
type Column struct {
	ID             int
	BoardID        int
	Title          string
	Position       int
	MarksStarted   bool  // entering this column stamps Task.StartedAt once
	MarksCompleted bool  // entering sets Task.CompletedAt, leaving clears it
	Version        int64 // bumped on every reorder touching this column
	CreatedAt      time.Time
}
