// Package workflow derives task lifecycle timestamps from column semantics:
// a column can mark the start of the workflow (entering it stamps a task as
// started) or its end (entering it stamps the task as completed, leaving it
// clears the stamp).
package workflow

import "time"

// ColumnFlags is the subset of column state the deriver looks at. Only the
// destination column's flags matter; the rules never inspect where the task
// came from, only how the stored timestamps relate to where it lands.
type ColumnFlags struct {
	MarksStarted   bool
	MarksCompleted bool
}

// Derive evaluates the timestamp rules for a task entering a column:
//
//  1. Destination marks completion: CompletedAt is stamped with now, even if
//     already set. Re-entering a done column refreshes the completion time.
//  2. Otherwise a set CompletedAt is cleared; the task has left the done
//     column for one that is not.
//  3. Destination marks started and StartedAt is unset: StartedAt is stamped.
//     Once set it is never cleared, by this or any later move.
//
// The inputs are not mutated; fresh pointers are returned.
func Derive(dest ColumnFlags, startedAt, completedAt *time.Time, now time.Time) (*time.Time, *time.Time) {
	newStarted := startedAt
	newCompleted := completedAt

	if dest.MarksCompleted {
		stamp := now
		newCompleted = &stamp
	} else if completedAt != nil {
		newCompleted = nil
	}

	if dest.MarksStarted && startedAt == nil {
		stamp := now
		newStarted = &stamp
	}

	return newStarted, newCompleted
}
