package tui

import "github.com/charmbracelet/lipgloss"

// Style definitions for the kanban board UI
// These styles follow Lipgloss conventions for composable terminal styling

var (
	highlight = lipgloss.Color("#874BFD")
	subtle    = lipgloss.Color("240")

	// TitleStyle defines the appearance of board and column titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// BoardTabStyle defines inactive board tabs
	BoardTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(subtle)

	// ActiveBoardTabStyle defines the selected board tab
	ActiveBoardTabStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(highlight)

	// ColumnStyle defines the appearance of kanban board columns
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(32)

	// SelectedColumnStyle highlights the column the cursor is in
	SelectedColumnStyle = ColumnStyle.
				BorderForeground(highlight)

	// TaskStyle defines the appearance of individual tasks as cards
	TaskStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1).
			Width(28)

	// SelectedTaskStyle highlights the task under the cursor
	SelectedTaskStyle = TaskStyle.
				BorderForeground(highlight)

	// GrabbedTaskStyle marks the card being dragged
	GrabbedTaskStyle = TaskStyle.
				BorderForeground(lipgloss.Color("212")).
				Bold(true)

	// StatusBarStyle renders transient notices at the bottom of the frame
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// ConfirmBoxStyle frames destructive confirmations
	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)

	// InputBoxStyle frames the single-line column name input
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("40")).
			Padding(1, 2)

	// FormBoxStyle frames the task form
	FormBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("170")).
			Padding(1, 2)

	// HelpStyle renders the help overlay text
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(1, 2)
)
