// Package tui renders the kanban board and turns key presses into drag
// sessions and service calls. It follows the Model-View-Update pattern.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tablero-app/tablero/internal/config"
	"github.com/tablero-app/tablero/internal/dragsession"
	"github.com/tablero-app/tablero/internal/events"
	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/services/board"
	"github.com/tablero-app/tablero/internal/services/column"
	"github.com/tablero-app/tablero/internal/services/task"
)

// Mode identifies which input surface owns the keyboard.
type Mode int

const (
	ModeNormal Mode = iota
	ModeTaskForm
	ModeColumnInput
	ModeDetail
	ModeConfirmDelete
	ModeHelp
)

// Model represents the application state for the TUI
type Model struct {
	cfg     *config.Config
	ownerID string

	boardSvc  board.Service
	columnSvc column.Service
	taskSvc   task.Service

	// Optimistic board state: all rendering reads the session's mirror.
	session *dragsession.Session

	boards     []*models.Board
	boardIndex int

	selectedColumn int
	selectedTask   int

	mode   Mode
	width  int
	height int
	status string

	// task form
	form            *huh.Form
	formTitle       string
	formDescription string
	formPriority    models.Priority
	formTaskID      int // 0 means creating

	// column input
	input         textinput.Model
	inputPrompt   string
	inputColumnID int // 0 means creating

	// detail view
	detailBody string

	// change notifications from the daemon
	eventCh chan events.Event
}

// NewModel loads the caller's boards and builds the initial model.
func NewModel(cfg *config.Config, ownerID string, boardSvc board.Service, columnSvc column.Service, taskSvc task.Service, eventCh chan events.Event) Model {
	m := Model{
		cfg:       cfg,
		ownerID:   ownerID,
		boardSvc:  boardSvc,
		columnSvc: columnSvc,
		taskSvc:   taskSvc,
		eventCh:   eventCh,
	}

	ctx := context.Background()
	boards, err := boardSvc.GetBoards(ctx, ownerID)
	if err != nil {
		slog.Error("loading boards failed", "error", err)
	}
	if len(boards) == 0 {
		boards = m.seedFirstBoard(ctx)
	}
	m.boards = boards

	mirror, err := m.loadMirror(ctx)
	if err != nil {
		slog.Error("loading board failed", "error", err)
		mirror = dragsession.NewMirror(&models.Board{}, nil, nil)
	}
	m.session = dragsession.New(mirror)
	m.session.SetPersistTimeout(cfg.MoveTimeout())

	return m
}

// seedFirstBoard creates the starter board on a fresh installation.
func (m *Model) seedFirstBoard(ctx context.Context) []*models.Board {
	b, err := m.boardSvc.CreateBoard(ctx, m.ownerID, "Main")
	if err != nil {
		slog.Error("creating starter board failed", "error", err)
		return nil
	}
	titles := []string{"Todo", "In Progress", "Done"}
	for i, title := range titles {
		_, err := m.columnSvc.CreateColumn(ctx, column.CreateColumnRequest{
			OwnerID:        m.ownerID,
			BoardID:        b.ID,
			Title:          title,
			MarksStarted:   i == 1,
			MarksCompleted: i == 2,
		})
		if err != nil {
			slog.Error("creating starter column failed", "title", title, "error", err)
		}
	}
	return []*models.Board{b}
}

// loadMirror reads the current board's columns and tasks into a fresh mirror.
func (m *Model) loadMirror(ctx context.Context) (*dragsession.Mirror, error) {
	b := m.currentBoard()
	if b == nil {
		return dragsession.NewMirror(&models.Board{}, nil, nil), nil
	}
	// Re-read the board so the mirror bases on a fresh version.
	b, err := m.boardSvc.GetBoard(ctx, m.ownerID, b.ID)
	if err != nil {
		return nil, err
	}
	columns, err := m.columnSvc.GetColumnsByBoard(ctx, m.ownerID, b.ID)
	if err != nil {
		return nil, err
	}
	tasks, err := m.taskSvc.GetTasksByBoard(ctx, m.ownerID, b.ID)
	if err != nil {
		return nil, err
	}
	return dragsession.NewMirror(b, columns, tasks), nil
}

func (m Model) currentBoard() *models.Board {
	if len(m.boards) == 0 {
		return nil
	}
	if m.boardIndex >= len(m.boards) {
		return m.boards[0]
	}
	return m.boards[m.boardIndex]
}

func (m Model) currentColumn() *models.Column {
	cols := m.session.Mirror().Columns
	if len(cols) == 0 {
		return nil
	}
	if m.selectedColumn >= len(cols) {
		return cols[len(cols)-1]
	}
	return cols[m.selectedColumn]
}

func (m Model) currentTasks() []*models.Task {
	col := m.currentColumn()
	if col == nil {
		return nil
	}
	return m.session.Mirror().Tasks[col.ID]
}

func (m Model) currentTask() *models.Task {
	tasks := m.currentTasks()
	if len(tasks) == 0 || m.selectedTask >= len(tasks) {
		return nil
	}
	return tasks[m.selectedTask]
}

// clampSelection keeps the cursor on a real column and task after the
// mirror changes underneath it.
func (m *Model) clampSelection() {
	cols := m.session.Mirror().Columns
	if len(cols) == 0 {
		m.selectedColumn, m.selectedTask = 0, 0
		return
	}
	if m.selectedColumn >= len(cols) {
		m.selectedColumn = len(cols) - 1
	}
	tasks := m.session.Mirror().Tasks[cols[m.selectedColumn].ID]
	if len(tasks) == 0 {
		m.selectedTask = 0
	} else if m.selectedTask >= len(tasks) {
		m.selectedTask = len(tasks) - 1
	}
}

// Init starts listening for board-changed notifications.
// Required by tea.Model interface.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}
