package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/dragsession"
	"github.com/tablero-app/tablero/internal/models"
)

// Messages produced by commands.
type (
	boardReloadedMsg struct {
		boards []*models.Board
		mirror *dragsession.Mirror
	}
	settleResultMsg struct{ err error }
	boardChangedMsg struct{}
	loadFailedMsg   struct{ err error }
)

// Update routes messages to the mode that owns the keyboard.
// This implements the "Update" part of the Model-View-Update pattern.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardReloadedMsg:
		m.boards = msg.boards
		if m.boardIndex >= len(m.boards) {
			m.boardIndex = 0
		}
		if err := m.session.Reload(msg.mirror); err == nil {
			m.session.AckRefresh()
		}
		m.clampSelection()
		return m, nil

	case settleResultMsg:
		return m.handleSettled(msg.err)

	case boardChangedMsg:
		// Another process changed the board; reload unless a drag is live.
		if m.session.State() == dragsession.StateIdle {
			return m, tea.Batch(m.reloadCmd(), m.waitForEvent())
		}
		return m, m.waitForEvent()

	case loadFailedMsg:
		m.status = fmt.Sprintf("load failed: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeTaskForm:
			return m.updateTaskForm(msg)
		case ModeColumnInput:
			return m.updateColumnInput(msg)
		case ModeDetail:
			return m.updateDetail(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		default:
			return m.handleNormalMode(msg)
		}
	}

	switch m.mode {
	case ModeTaskForm:
		return m.updateTaskForm(msg)
	case ModeColumnInput:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSettled resolves the end of a drag's persist call.
func (m Model) handleSettled(err error) (tea.Model, tea.Cmd) {
	m.clampSelection()
	if err == nil {
		m.status = ""
		return m, nil
	}

	switch {
	case errors.Is(err, models.ErrConflict):
		m.status = "board changed elsewhere, reloading"
		return m, m.reloadCmd()
	case errors.Is(err, context.DeadlineExceeded):
		m.status = "move timed out, restored previous order"
	default:
		m.status = "move failed, restored previous order"
	}
	return m, nil
}

// reloadCmd re-reads boards and the current board's contents.
func (m Model) reloadCmd() tea.Cmd {
	ownerID := m.ownerID
	boardSvc := m.boardSvc
	model := m
	return func() tea.Msg {
		ctx := context.Background()
		boards, err := boardSvc.GetBoards(ctx, ownerID)
		if err != nil {
			return loadFailedMsg{err}
		}
		mirror, err := model.loadMirror(ctx)
		if err != nil {
			return loadFailedMsg{err}
		}
		return boardReloadedMsg{boards: boards, mirror: mirror}
	}
}

// settleCmd runs the persist call of a dropped drag off the update loop.
func (m Model) settleCmd() tea.Cmd {
	session := m.session
	persister := servicePersister{
		taskSvc:   m.taskSvc,
		columnSvc: m.columnSvc,
		ownerID:   m.ownerID,
		boardID:   m.session.Mirror().BoardID,
	}
	return func() tea.Msg {
		return settleResultMsg{err: session.Settle(context.Background(), persister)}
	}
}

// waitForEvent blocks on the daemon notification channel.
func (m Model) waitForEvent() tea.Cmd {
	if m.eventCh == nil {
		return nil
	}
	ch := m.eventCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}
