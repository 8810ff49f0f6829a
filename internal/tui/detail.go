package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// openDetail renders the selected task as markdown and shows it full-frame.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	t := m.currentTask()
	if t == nil {
		return m, nil
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", t.Title)
	if t.Priority.String() != "none" {
		fmt.Fprintf(&md, "**Priority:** %s\n\n", t.Priority.String())
	}
	if t.StartedAt != nil {
		fmt.Fprintf(&md, "**Started:** %s\n\n", t.StartedAt.Format("2006-01-02 15:04"))
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(&md, "**Completed:** %s\n\n", t.CompletedAt.Format("2006-01-02 15:04"))
	}
	if t.Description != "" {
		fmt.Fprintf(&md, "---\n\n%s\n", t.Description)
	}

	width := m.width - 4
	if width < 20 || width > 100 {
		width = 80
	}
	rendered := md.String()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := renderer.Render(md.String()); err == nil {
			rendered = out
		}
	}

	m.detailBody = rendered
	m.mode = ModeDetail
	return m, nil
}

// updateDetail closes the detail view on any key.
func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", " ", "enter":
		m.mode = ModeNormal
		m.detailBody = ""
	}
	return m, nil
}
