// Package changes shows the unsaved edits of a buffer as a line diff.
package changes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/shelldesk/internal/files"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// ClosedMsg is sent when the view is dismissed.
type ClosedMsg struct{}

// Model is the changes overlay.
type Model struct {
	viewport viewport.Model
	title    string
	lines    []files.DiffLine
}

// New diffs saved against current.
func New(title, saved, current string) Model {
	return Model{
		viewport: viewport.New(0, 0),
		title:    title,
		lines:    files.Diff(saved, current),
	}
}

// Empty reports whether there is nothing to show.
func (m Model) Empty() bool {
	return !files.Changed(m.lines)
}

// SetSize lays the overlay out for a screen of width x height.
func (m Model) SetSize(width, height int) Model {
	m.viewport.Width = max(10, width*3/4)
	m.viewport.Height = max(3, height*3/4)
	m.viewport.SetContent(m.render())
	return m
}

func (m Model) render() string {
	out := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		switch l.Op {
		case files.DiffInsert:
			out = append(out, styles.DiffInsertStyle.Render("+ "+l.Text))
		case files.DiffDelete:
			out = append(out, styles.DiffDeleteStyle.Render("- "+l.Text))
		default:
			out = append(out, "  "+l.Text)
		}
	}
	return strings.Join(out, "\n")
}

// Update scrolls and closes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Overlay.Close), key.Matches(msg, keys.Workbench.ShowChanges):
			return m, func() tea.Msg { return ClosedMsg{} }
		case key.Matches(msg, keys.Overlay.ScrollUp):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, keys.Overlay.ScrollDown):
			m.viewport.ScrollDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the bordered diff.
func (m Model) View() string {
	return styles.RenderPanel(m.viewport.View(), m.title, m.viewport.Width+2, m.viewport.Height+2, true)
}
