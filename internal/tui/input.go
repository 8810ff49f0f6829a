package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/services/column"
)

// newColumnInput builds the single-line input used for column names.
func newColumnInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Column name"
	ti.CharLimit = 50
	ti.Width = 40
	ti.SetValue(value)
	ti.Focus()
	return ti
}

// openColumnInput enters the input for creating or renaming a column.
// columnID 0 means creating.
func (m Model) openColumnInput(columnID int) (tea.Model, tea.Cmd) {
	m.inputColumnID = columnID
	m.inputPrompt = "New column name:"
	value := ""
	if columnID != 0 {
		m.inputPrompt = "Rename column to:"
		if col, ok := m.session.Mirror().ColumnByID(columnID); ok {
			value = col.Title
		}
	}
	m.input = newColumnInput(value)
	m.mode = ModeColumnInput
	return m, textinput.Blink
}

// updateColumnInput forwards keys to the text input.
func (m Model) updateColumnInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil
	case "enter":
		return m.submitColumnInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitColumnInput() (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	board := m.currentBoard()
	title := m.input.Value()
	if board == nil || title == "" {
		return m, nil
	}
	ctx := context.Background()

	if m.inputColumnID != 0 {
		err := m.columnSvc.RenameColumn(ctx, m.ownerID, m.inputColumnID, title, board.ID)
		if err != nil {
			slog.Error("renaming column failed", "column", m.inputColumnID, "error", err)
			m.status = "renaming column failed"
		}
		return m, m.reloadCmd()
	}

	_, err := m.columnSvc.CreateColumn(ctx, column.CreateColumnRequest{
		OwnerID: m.ownerID,
		BoardID: board.ID,
		Title:   title,
	})
	if err != nil {
		slog.Error("creating column failed", "error", err)
		m.status = "creating column failed"
	}
	return m, m.reloadCmd()
}

// deleteColumn removes the selected column and everything in it.
func (m Model) deleteColumn() (tea.Model, tea.Cmd) {
	board := m.currentBoard()
	col := m.currentColumn()
	if board == nil || col == nil {
		return m, nil
	}
	if err := m.columnSvc.DeleteColumn(context.Background(), m.ownerID, col.ID, board.ID); err != nil {
		slog.Error("deleting column failed", "column", col.ID, "error", err)
		m.status = "deleting column failed"
		return m, nil
	}
	return m, m.reloadCmd()
}

// updateConfirmDelete handles the y/n prompt for task deletion.
func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		t := m.currentTask()
		if t == nil {
			return m, nil
		}
		if err := m.taskSvc.DeleteTask(context.Background(), m.ownerID, t.ID); err != nil {
			slog.Error("deleting task failed", "task", t.ID, "error", err)
			m.status = "deleting task failed"
			return m, nil
		}
		return m, m.reloadCmd()
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}
