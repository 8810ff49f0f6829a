// Package position computes the minimal sets of position rewrites needed to
// keep a sibling list densely ordered (positions exactly 0..n-1) while an
// entry moves within it or across lists. It is pure data-structure logic:
// the same planner runs inside the server-side reorder transaction and in
// the client-side drag session mirror.
package position

import (
	"errors"
	"fmt"
	"sort"
)

// Entry is one sibling as currently stored: its identifier and position.
type Entry struct {
	ID       int
	Position int
}

// Update is one position rewrite the caller must apply. Updates are
// independent writes; their order does not matter.
type Update struct {
	ID       int
	Position int
}

var (
	// ErrUnknownID indicates the moving entry is not (or, for inserts,
	// already is) among the given siblings.
	ErrUnknownID = errors.New("position: unknown entry id")

	// ErrIndexOutOfRange indicates a target index outside the valid range.
	ErrIndexOutOfRange = errors.New("position: target index out of range")

	// ErrNotDense indicates the sibling list violates the dense-order
	// invariant (duplicate or gapped positions).
	ErrNotDense = errors.New("position: sibling positions are not dense")
)

// Validate checks the dense-order invariant: the positions of siblings must
// be exactly {0, 1, ..., n-1}.
func Validate(siblings []Entry) error {
	seen := make([]bool, len(siblings))
	for _, e := range siblings {
		if e.Position < 0 || e.Position >= len(siblings) || seen[e.Position] {
			return fmt.Errorf("%w: id %d at position %d", ErrNotDense, e.ID, e.Position)
		}
		seen[e.Position] = true
	}
	return nil
}

// PlanMove plans a same-list move of movingID to targetIndex.
//
// It returns the minimal updates: entries between the old and new index
// shift by one, the mover takes targetIndex. When targetIndex equals the
// mover's current index the plan is empty, so callers can detect a no-op
// and skip the write entirely. targetIndex may be len(siblings), which is
// treated as "move to end".
func PlanMove(siblings []Entry, movingID, targetIndex int) ([]Update, error) {
	if err := Validate(siblings); err != nil {
		return nil, err
	}
	if targetIndex < 0 || targetIndex > len(siblings) {
		return nil, fmt.Errorf("%w: %d with %d siblings", ErrIndexOutOfRange, targetIndex, len(siblings))
	}
	if targetIndex == len(siblings) {
		targetIndex = len(siblings) - 1
	}

	oldIndex := -1
	for _, e := range siblings {
		if e.ID == movingID {
			oldIndex = e.Position
			break
		}
	}
	if oldIndex == -1 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, movingID)
	}
	if targetIndex == oldIndex {
		return nil, nil
	}

	var updates []Update
	for _, e := range siblings {
		switch {
		case e.ID == movingID:
			updates = append(updates, Update{ID: e.ID, Position: targetIndex})
		case targetIndex > oldIndex && e.Position > oldIndex && e.Position <= targetIndex:
			updates = append(updates, Update{ID: e.ID, Position: e.Position - 1})
		case targetIndex < oldIndex && e.Position >= targetIndex && e.Position < oldIndex:
			updates = append(updates, Update{ID: e.ID, Position: e.Position + 1})
		}
	}
	return updates, nil
}

// PlanRemoval plans taking movingID out of its list: every sibling after it
// shifts down by one. The mover itself is not in the returned updates; the
// caller relocates it separately.
func PlanRemoval(siblings []Entry, movingID int) ([]Update, error) {
	if err := Validate(siblings); err != nil {
		return nil, err
	}

	oldIndex := -1
	for _, e := range siblings {
		if e.ID == movingID {
			oldIndex = e.Position
			break
		}
	}
	if oldIndex == -1 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, movingID)
	}

	var updates []Update
	for _, e := range siblings {
		if e.Position > oldIndex {
			updates = append(updates, Update{ID: e.ID, Position: e.Position - 1})
		}
	}
	return updates, nil
}

// PlanInsert plans inserting movingID into a list it is not yet part of:
// every sibling at or after targetIndex shifts up by one and the mover takes
// targetIndex. targetIndex == len(siblings) appends at the end.
func PlanInsert(siblings []Entry, movingID, targetIndex int) ([]Update, error) {
	if err := Validate(siblings); err != nil {
		return nil, err
	}
	if targetIndex < 0 || targetIndex > len(siblings) {
		return nil, fmt.Errorf("%w: %d with %d siblings", ErrIndexOutOfRange, targetIndex, len(siblings))
	}
	for _, e := range siblings {
		if e.ID == movingID {
			return nil, fmt.Errorf("%w: %d already present", ErrUnknownID, movingID)
		}
	}

	updates := []Update{{ID: movingID, Position: targetIndex}}
	for _, e := range siblings {
		if e.Position >= targetIndex {
			updates = append(updates, Update{ID: e.ID, Position: e.Position + 1})
		}
	}
	return updates, nil
}

// PlanCompaction renumbers siblings to close any gaps while preserving their
// relative order. Used after deletes, which would otherwise leave a hole.
// Returns only the entries whose position actually changes.
func PlanCompaction(siblings []Entry) []Update {
	sorted := make([]Entry, len(siblings))
	copy(sorted, siblings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var updates []Update
	for i, e := range sorted {
		if e.Position != i {
			updates = append(updates, Update{ID: e.ID, Position: i})
		}
	}
	return updates
}
