package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tablero-app/tablero/internal/dragsession"
	"github.com/tablero-app/tablero/internal/models"
)

// View renders the current state of the application
// This implements the "View" part of the Model-View-Update pattern
func (m Model) View() string {
	// Wait for terminal size to be initialized
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeTaskForm:
		if m.form != nil {
			formBox := FormBoxStyle.Width(m.width / 2).Render(m.form.View())
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, formBox)
		}
	case ModeColumnInput:
		inputBox := InputBoxStyle.Width(50).
			Render(fmt.Sprintf("%s\n%s", m.inputPrompt, m.input.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, inputBox)
	case ModeConfirmDelete:
		if t := m.currentTask(); t != nil {
			confirmBox := ConfirmBoxStyle.Width(50).
				Render(fmt.Sprintf("Delete '%s'?\n\n[y]es  [n]o", t.Title))
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBox)
		}
	case ModeDetail:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.detailBody)
	case ModeHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	return m.boardView()
}

// boardView renders the board tabs, the column strip and the status bar.
func (m Model) boardView() string {
	var sections []string
	sections = append(sections, m.tabsView())

	mirror := m.session.Mirror()
	if len(mirror.Columns) == 0 {
		empty := HelpStyle.Render("No columns yet. Press C to create one.")
		sections = append(sections, empty)
	} else {
		columns := make([]string, 0, len(mirror.Columns))
		for i, col := range mirror.Columns {
			columns = append(columns, m.columnView(i, col))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	}

	sections = append(sections, m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) tabsView() string {
	if len(m.boards) == 0 {
		return TitleStyle.Render("tablero")
	}
	tabs := make([]string, 0, len(m.boards))
	for i, b := range m.boards {
		style := BoardTabStyle
		if i == m.boardIndex {
			style = ActiveBoardTabStyle
		}
		tabs = append(tabs, style.Render(b.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) columnView(index int, col *models.Column) string {
	mirror := m.session.Mirror()
	tasks := mirror.Tasks[col.ID]

	pickedKind, pickedID, dragging := m.session.Picked()

	title := fmt.Sprintf("%s (%d)", col.Title, len(tasks))
	if col.MarksStarted {
		title += " ▶"
	}
	if col.MarksCompleted {
		title += " ✓"
	}

	parts := []string{TitleStyle.Render(title)}
	for i, t := range tasks {
		style := TaskStyle
		switch {
		case dragging && pickedKind == dragsession.KindTask && t.ID == pickedID:
			style = GrabbedTaskStyle
		case index == m.selectedColumn && i == m.selectedTask:
			style = SelectedTaskStyle
		}
		parts = append(parts, style.Render(m.taskCard(t)))
	}

	colStyle := ColumnStyle
	if index == m.selectedColumn {
		colStyle = SelectedColumnStyle
	}
	if dragging && pickedKind == dragsession.KindColumn && col.ID == pickedID {
		colStyle = colStyle.BorderForeground(lipgloss.Color("212"))
	}
	return colStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) taskCard(t *models.Task) string {
	var sb strings.Builder
	sb.WriteString(t.Title)

	var markers []string
	if t.Priority != models.PriorityNone {
		markers = append(markers, lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Priority.Color())).
			Render(t.Priority.String()))
	}
	if t.CompletedAt != nil {
		markers = append(markers, "✓")
	} else if t.StartedAt != nil {
		markers = append(markers, "▶")
	}
	if len(markers) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(markers, " "))
	}
	return sb.String()
}

func (m Model) statusView() string {
	status := m.status
	if status == "" {
		switch m.session.State() {
		case dragsession.StateSettling:
			status = "saving move..."
		default:
			status = "? help  g grab  a add  q quit"
		}
	}
	return StatusBarStyle.Render(status)
}

func (m Model) helpView() string {
	km := m.cfg.KeyMappings
	lines := []string{
		TitleStyle.Render("tablero keys"),
		"",
		fmt.Sprintf("  %s/%s/%s/%s  navigate", km.PrevColumn, km.NextTask, km.PrevTask, km.NextColumn),
		fmt.Sprintf("  %s            grab task    %s  grab column", km.GrabTask, km.GrabColumn),
		fmt.Sprintf("  %s/%s/%s/%s  place grabbed item", km.MoveLeft, km.MoveDown, km.MoveUp, km.MoveRight),
		fmt.Sprintf("  %s        drop         %s  cancel drag", km.Drop, km.CancelDrag),
		"",
		fmt.Sprintf("  %s  add task    %s  edit    %s  delete    %s  details", km.AddTask, km.EditTask, km.DeleteTask, "space"),
		fmt.Sprintf("  %s  new column  %s  rename  %s  delete column", km.CreateColumn, km.RenameColumn, km.DeleteColumn),
		fmt.Sprintf("  %s/%s  switch board", km.PrevBoard, km.NextBoard),
		"",
		fmt.Sprintf("  %s  quit", km.Quit),
		"",
		"press any key to close",
	}
	return HelpStyle.Render(strings.Join(lines, "\n"))
}
