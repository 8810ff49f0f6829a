package models

import "time"

// Board is the top-level container for a kanban board.
// A board is owned by exactly one identity; every read and write against its
// columns and tasks is scoped to that owner.
type Board struct {
	ID        int
	Name      string
	OwnerID   string // opaque identity token, issued outside the core
	Version   int64  // bumped on every column reorder under this board
	CreatedAt time.Time
}
