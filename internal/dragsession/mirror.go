package dragsession

import (
	"fmt"
	"sort"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/position"
)

// Mirror is the client-side copy of one board: the column strip plus each
// column's ordered task list. A drag session mutates it optimistically as
// the gesture moves and restores it from a snapshot when a persist fails.
type Mirror struct {
	BoardID      int
	BoardVersion int64
	Columns      []*models.Column
	Tasks        map[int][]*models.Task
}

// NewMirror builds a mirror from a loaded board. Tasks are keyed by column
// ID in position order, the shape GetTasksByBoard returns.
func NewMirror(board *models.Board, columns []*models.Column, tasks map[int][]*models.Task) *Mirror {
	m := &Mirror{
		BoardID:      board.ID,
		BoardVersion: board.Version,
		Columns:      columns,
		Tasks:        tasks,
	}
	if m.Tasks == nil {
		m.Tasks = make(map[int][]*models.Task)
	}
	return m
}

// Clone deep-copies the mirror. Column and task structs are copied by
// value, so the clone is a safe rollback baseline.
func (m *Mirror) Clone() *Mirror {
	c := &Mirror{
		BoardID:      m.BoardID,
		BoardVersion: m.BoardVersion,
		Columns:      make([]*models.Column, len(m.Columns)),
		Tasks:        make(map[int][]*models.Task, len(m.Tasks)),
	}
	for i, col := range m.Columns {
		copied := *col
		c.Columns[i] = &copied
	}
	for colID, list := range m.Tasks {
		tasks := make([]*models.Task, len(list))
		for i, task := range list {
			copied := *task
			tasks[i] = &copied
		}
		c.Tasks[colID] = tasks
	}
	return c
}

// Restore replaces the mirror's contents with a snapshot's.
func (m *Mirror) Restore(snap *Mirror) {
	restored := snap.Clone()
	m.BoardID = restored.BoardID
	m.BoardVersion = restored.BoardVersion
	m.Columns = restored.Columns
	m.Tasks = restored.Tasks
}

// ColumnByID finds a column in the strip.
func (m *Mirror) ColumnByID(id int) (*models.Column, bool) {
	for _, col := range m.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return nil, false
}

// TaskByID finds a task in any column.
func (m *Mirror) TaskByID(id int) (*models.Task, bool) {
	for _, list := range m.Tasks {
		for _, task := range list {
			if task.ID == id {
				return task, true
			}
		}
	}
	return nil, false
}

// TaskLocation reports which column a task sits in and at which index.
func (m *Mirror) TaskLocation(id int) (columnID, index int, ok bool) {
	for colID, list := range m.Tasks {
		for i, task := range list {
			if task.ID == id {
				return colID, i, true
			}
		}
	}
	return 0, 0, false
}

// ColumnIndex reports a column's index in the strip.
func (m *Mirror) ColumnIndex(id int) (int, bool) {
	for i, col := range m.Columns {
		if col.ID == id {
			return i, true
		}
	}
	return 0, false
}

// MoveTask applies one task placement locally, keeping every touched
// column's positions dense. It is the same planning logic the server runs
// inside its transaction, applied to the in-memory lists instead.
func (m *Mirror) MoveTask(taskID, destColumnID, targetIndex int) error {
	srcColumnID, _, ok := m.TaskLocation(taskID)
	if !ok {
		return fmt.Errorf("task %d: %w", taskID, position.ErrUnknownID)
	}
	if _, ok := m.ColumnByID(destColumnID); !ok {
		return fmt.Errorf("column %d: %w", destColumnID, position.ErrUnknownID)
	}

	if srcColumnID == destColumnID {
		updates, err := position.PlanMove(taskEntries(m.Tasks[srcColumnID]), taskID, targetIndex)
		if err != nil {
			return err
		}
		applyTaskUpdates(m.Tasks, srcColumnID, updates)
		return nil
	}

	removal, err := position.PlanRemoval(taskEntries(m.Tasks[srcColumnID]), taskID)
	if err != nil {
		return err
	}
	insert, err := position.PlanInsert(taskEntries(m.Tasks[destColumnID]), taskID, targetIndex)
	if err != nil {
		return err
	}

	// Physically relocate the mover, then renumber both columns.
	var mover *models.Task
	src := m.Tasks[srcColumnID][:0]
	for _, task := range m.Tasks[srcColumnID] {
		if task.ID == taskID {
			mover = task
			continue
		}
		src = append(src, task)
	}
	m.Tasks[srcColumnID] = src
	mover.ColumnID = destColumnID
	m.Tasks[destColumnID] = append(m.Tasks[destColumnID], mover)

	applyTaskUpdates(m.Tasks, srcColumnID, removal)
	applyTaskUpdates(m.Tasks, destColumnID, insert)
	return nil
}

// MoveColumn applies one column placement locally, keeping the strip dense.
func (m *Mirror) MoveColumn(columnID, targetIndex int) error {
	updates, err := position.PlanMove(columnEntries(m.Columns), columnID, targetIndex)
	if err != nil {
		return err
	}
	byID := make(map[int]int, len(updates))
	for _, u := range updates {
		byID[u.ID] = u.Position
	}
	for _, col := range m.Columns {
		if pos, ok := byID[col.ID]; ok {
			col.Position = pos
		}
	}
	sort.Slice(m.Columns, func(i, j int) bool {
		return m.Columns[i].Position < m.Columns[j].Position
	})
	return nil
}

// mergeTaskResult folds the authoritative fields of a committed move into
// the optimistic order: the lifecycle timestamps the server derived, never
// the ordering itself.
func (m *Mirror) mergeTaskResult(authoritative *models.Task) {
	task, ok := m.TaskByID(authoritative.ID)
	if !ok {
		return
	}
	task.StartedAt = authoritative.StartedAt
	task.CompletedAt = authoritative.CompletedAt
	task.UpdatedAt = authoritative.UpdatedAt
}

// bumpColumnVersion advances a column's local version after a committed
// move. The server increments by exactly one per commit; tracking it keeps
// the next gesture's base version fresh without a reload.
func (m *Mirror) bumpColumnVersion(columnID int) {
	if col, ok := m.ColumnByID(columnID); ok {
		col.Version++
	}
}

func taskEntries(tasks []*models.Task) []position.Entry {
	entries := make([]position.Entry, len(tasks))
	for i, task := range tasks {
		entries[i] = position.Entry{ID: task.ID, Position: task.Position}
	}
	return entries
}

func columnEntries(columns []*models.Column) []position.Entry {
	entries := make([]position.Entry, len(columns))
	for i, col := range columns {
		entries[i] = position.Entry{ID: col.ID, Position: col.Position}
	}
	return entries
}

// applyTaskUpdates rewrites positions in one column's list and re-sorts it.
func applyTaskUpdates(tasks map[int][]*models.Task, columnID int, updates []position.Update) {
	byID := make(map[int]int, len(updates))
	for _, u := range updates {
		byID[u.ID] = u.Position
	}
	list := tasks[columnID]
	for _, task := range list {
		if pos, ok := byID[task.ID]; ok {
			task.Position = pos
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
}
