// Package prompt is a one-line input shown in place of the status bar, used
// for the open, open-folder and save-as paths.
package prompt

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/paths"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// Purpose says what the entered path is for.
type Purpose int

const (
	OpenFile Purpose = iota
	OpenFolder
	SaveAs
)

func (p Purpose) label() string {
	switch p {
	case OpenFolder:
		return "Open folder: "
	case SaveAs:
		return "Save as: "
	default:
		return "Open file: "
	}
}

// SubmitMsg carries the entered path, with ~ expanded.
type SubmitMsg struct {
	Purpose Purpose
	Path    string
}

// CancelMsg is sent when the prompt is dismissed.
type CancelMsg struct{}

// Model is the path prompt.
type Model struct {
	input   textinput.Model
	purpose Purpose
	active  bool
}

// New creates an inactive prompt.
func New() Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4096
	return Model{input: ti}
}

// Open activates the prompt with an initial value.
func (m Model) Open(purpose Purpose, initial string) (Model, tea.Cmd) {
	m.purpose = purpose
	m.active = true
	m.input.SetValue(initial)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

// Active reports whether the prompt is shown.
func (m Model) Active() bool { return m.active }

// Purpose returns what the prompt was opened for.
func (m Model) Purpose() Purpose { return m.purpose }

// SetWidth sets the input width.
func (m Model) SetWidth(width int) Model {
	m.input.Width = max(1, width-lipgloss.Width(m.purpose.label())-2)
	return m
}

// Update edits the input and submits on enter.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Prompt.Confirm):
			value := m.input.Value()
			purpose := m.purpose
			m = m.close()
			if value == "" {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			path := paths.ExpandHome(value)
			return m, func() tea.Msg { return SubmitMsg{Purpose: purpose, Path: path} }
		case key.Matches(keyMsg, keys.Prompt.Cancel):
			m = m.close()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) close() Model {
	m.active = false
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// View renders the label and input.
func (m Model) View() string {
	return styles.StatusBarStyle.Render(m.purpose.label()) + " " + m.input.View()
}
