package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/services/task"
)

// newTaskForm builds the huh form for creating or editing a task.
func newTaskForm(title, description *string, priority *models.Priority) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Placeholder("What needs doing?").
				CharLimit(255).
				Value(title),
			huh.NewText().
				Key("description").
				Title("Description").
				Placeholder("Details (optional)").
				CharLimit(2000).
				Value(description),
			huh.NewSelect[models.Priority]().
				Key("priority").
				Title("Priority").
				Options(
					huh.NewOption("None", models.PriorityNone),
					huh.NewOption("Low", models.PriorityLow),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("High", models.PriorityHigh),
					huh.NewOption("Critical", models.PriorityCritical),
				).
				Value(priority),
		),
	)
}

// openTaskForm enters form mode, pre-filled when editing.
func (m Model) openTaskForm(existing *models.Task) (tea.Model, tea.Cmd) {
	if m.currentColumn() == nil {
		m.status = "create a column first"
		return m, nil
	}

	m.formTaskID = 0
	m.formTitle = ""
	m.formDescription = ""
	m.formPriority = models.PriorityNone
	if existing != nil {
		m.formTaskID = existing.ID
		m.formTitle = existing.Title
		m.formDescription = existing.Description
		m.formPriority = existing.Priority
	}

	m.form = newTaskForm(&m.formTitle, &m.formDescription, &m.formPriority)
	m.mode = ModeTaskForm
	return m, m.form.Init()
}

// updateTaskForm forwards messages to the form and saves on completion.
func (m Model) updateTaskForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeNormal
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		m.mode = ModeNormal
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.form = form
	}

	if m.form.State == huh.StateCompleted {
		m.saveTaskForm()
		m.form = nil
		m.mode = ModeNormal
		return m, tea.Batch(tea.ClearScreen, m.reloadCmd())
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		m.mode = ModeNormal
		return m, tea.ClearScreen
	}

	return m, cmd
}

func (m *Model) saveTaskForm() {
	ctx := context.Background()
	board := m.currentBoard()
	col := m.currentColumn()
	if board == nil || col == nil {
		return
	}

	if m.formTaskID != 0 {
		err := m.taskSvc.UpdateTask(ctx, task.UpdateTaskRequest{
			OwnerID:     m.ownerID,
			TaskID:      m.formTaskID,
			Title:       &m.formTitle,
			Description: &m.formDescription,
			Priority:    &m.formPriority,
			BoardID:     board.ID,
		})
		if err != nil {
			slog.Error("updating task failed", "task", m.formTaskID, "error", err)
			m.status = "saving task failed"
		}
		return
	}

	_, err := m.taskSvc.CreateTask(ctx, task.CreateTaskRequest{
		OwnerID:     m.ownerID,
		ColumnID:    col.ID,
		Title:       m.formTitle,
		Description: m.formDescription,
		Priority:    m.formPriority,
		BoardID:     board.ID,
	})
	if err != nil {
		slog.Error("creating task failed", "error", err)
		m.status = "creating task failed"
	}
}
