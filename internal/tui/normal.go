package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/dragsession"
)

// handleNormalMode dispatches key presses on the board view.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	km := m.cfg.KeyMappings

	// A live drag owns the movement keys.
	if state := m.session.State(); state == dragsession.StateArmed || state == dragsession.StateHovering {
		return m.handleDragKeys(key)
	}

	switch key {
	case km.Quit, "ctrl+c":
		return m, tea.Quit
	case km.ShowHelp:
		m.mode = ModeHelp
		return m, nil

	case km.PrevColumn, "left":
		return m.navigateLeft()
	case km.NextColumn, "right":
		return m.navigateRight()
	case km.NextTask, "down":
		return m.navigateDown()
	case km.PrevTask, "up":
		return m.navigateUp()

	case km.GrabTask:
		return m.grabTask()
	case km.GrabColumn:
		return m.grabColumn()

	case km.AddTask:
		return m.openTaskForm(nil)
	case km.EditTask:
		return m.openTaskForm(m.currentTask())
	case km.ViewTask:
		return m.openDetail()
	case km.DeleteTask:
		if m.currentTask() != nil {
			m.mode = ModeConfirmDelete
		}
		return m, nil

	case km.CreateColumn:
		return m.openColumnInput(0)
	case km.RenameColumn:
		if col := m.currentColumn(); col != nil {
			return m.openColumnInput(col.ID)
		}
		return m, nil
	case km.DeleteColumn:
		return m.deleteColumn()

	case km.NextBoard:
		return m.switchBoard(1)
	case km.PrevBoard:
		return m.switchBoard(-1)
	}

	return m, nil
}

// handleDragKeys moves the grabbed item through the session's mirror and
// commits or cancels the gesture.
func (m Model) handleDragKeys(key string) (tea.Model, tea.Cmd) {
	km := m.cfg.KeyMappings
	kind, picked, ok := m.session.Picked()
	if !ok {
		return m, nil
	}

	switch key {
	case km.CancelDrag:
		if err := m.session.Cancel(); err == nil {
			m.status = ""
		}
		m.clampSelection()
		return m, nil

	case km.Drop, "enter":
		settle, err := m.session.Drop()
		if err != nil {
			return m, nil
		}
		m.followPicked(kind, picked)
		if !settle {
			return m, nil
		}
		return m, m.settleCmd()
	}

	if kind == dragsession.KindColumn {
		index, found := m.session.Mirror().ColumnIndex(picked)
		if !found {
			return m, nil
		}
		switch key {
		case km.MoveLeft, "left":
			if index > 0 {
				_ = m.session.HoverColumn(index - 1)
			}
		case km.MoveRight, "right":
			if index < len(m.session.Mirror().Columns)-1 {
				_ = m.session.HoverColumn(index + 1)
			}
		}
		m.followPicked(kind, picked)
		return m, nil
	}

	columnID, index, found := m.session.Mirror().TaskLocation(picked)
	if !found {
		return m, nil
	}
	colIndex, _ := m.session.Mirror().ColumnIndex(columnID)
	cols := m.session.Mirror().Columns

	switch key {
	case km.MoveUp, "up":
		if index > 0 {
			_ = m.session.HoverTask(columnID, index-1)
		}
	case km.MoveDown, "down":
		if index < len(m.session.Mirror().Tasks[columnID])-1 {
			_ = m.session.HoverTask(columnID, index+1)
		}
	case km.MoveLeft, "left":
		if colIndex > 0 {
			dest := cols[colIndex-1]
			_ = m.session.HoverTask(dest.ID, min(index, len(m.session.Mirror().Tasks[dest.ID])))
		}
	case km.MoveRight, "right":
		if colIndex < len(cols)-1 {
			dest := cols[colIndex+1]
			_ = m.session.HoverTask(dest.ID, min(index, len(m.session.Mirror().Tasks[dest.ID])))
		}
	}

	m.followPicked(kind, picked)
	return m, nil
}

// followPicked keeps the cursor on the item being dragged.
func (m *Model) followPicked(kind dragsession.Kind, picked int) {
	if kind == dragsession.KindColumn {
		if index, ok := m.session.Mirror().ColumnIndex(picked); ok {
			m.selectedColumn = index
		}
		m.clampSelection()
		return
	}
	if columnID, index, ok := m.session.Mirror().TaskLocation(picked); ok {
		if colIndex, ok := m.session.Mirror().ColumnIndex(columnID); ok {
			m.selectedColumn = colIndex
			m.selectedTask = index
		}
	}
}

func (m Model) grabTask() (tea.Model, tea.Cmd) {
	t := m.currentTask()
	if t == nil {
		return m, nil
	}
	switch err := m.session.ArmTask(t.ID); err {
	case nil:
		m.status = "moving task: arrows place it, enter drops, esc cancels"
	case dragsession.ErrMoveInFlight:
		m.status = "previous move still saving"
	}
	return m, nil
}

func (m Model) grabColumn() (tea.Model, tea.Cmd) {
	col := m.currentColumn()
	if col == nil {
		return m, nil
	}
	switch err := m.session.ArmColumn(col.ID); err {
	case nil:
		m.status = "moving column: arrows place it, enter drops, esc cancels"
	case dragsession.ErrMoveInFlight:
		m.status = "previous move still saving"
	}
	return m, nil
}

func (m Model) navigateLeft() (tea.Model, tea.Cmd) {
	if m.selectedColumn > 0 {
		m.selectedColumn--
		m.selectedTask = 0
	}
	return m, nil
}

func (m Model) navigateRight() (tea.Model, tea.Cmd) {
	if m.selectedColumn < len(m.session.Mirror().Columns)-1 {
		m.selectedColumn++
		m.selectedTask = 0
	}
	return m, nil
}

func (m Model) navigateUp() (tea.Model, tea.Cmd) {
	if m.selectedTask > 0 {
		m.selectedTask--
	}
	return m, nil
}

func (m Model) navigateDown() (tea.Model, tea.Cmd) {
	if m.selectedTask < len(m.currentTasks())-1 {
		m.selectedTask++
	}
	return m, nil
}

func (m Model) switchBoard(delta int) (tea.Model, tea.Cmd) {
	if len(m.boards) < 2 {
		return m, nil
	}
	m.boardIndex = (m.boardIndex + delta + len(m.boards)) % len(m.boards)
	m.selectedColumn, m.selectedTask = 0, 0
	return m, m.reloadCmd()
}
