// Package statusbar renders the bottom line: the last status message on
// the left, buffer details on the right.
package statusbar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// Level colors the message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// Info is the right-hand buffer summary.
type Info struct {
	Language string
	Line     int // 1-based
	Col      int // 1-based
	Dirty    bool
	Running  bool
}

// ExpireMsg clears a transient message if it is still the current one.
type ExpireMsg struct {
	Gen int
}

// Model holds the status message.
type Model struct {
	message string
	level   Level
	gen     int
	width   int
}

// New starts with "Ready".
func New() Model {
	return Model{message: "Ready"}
}

// Set replaces the message. It stays until the next Set.
func (m Model) Set(message string, level Level) Model {
	m.message = message
	m.level = level
	m.gen++
	return m
}

// Flash sets a message that reverts to "Ready" after d.
func (m Model) Flash(message string, level Level, d time.Duration) (Model, tea.Cmd) {
	m = m.Set(message, level)
	gen := m.gen
	return m, tea.Tick(d, func(time.Time) tea.Msg { return ExpireMsg{Gen: gen} })
}

// Update handles ExpireMsg.
func (m Model) Update(msg tea.Msg) Model {
	if e, ok := msg.(ExpireMsg); ok && e.Gen == m.gen {
		m.message = "Ready"
		m.level = LevelInfo
	}
	return m
}

// Message returns the current message.
func (m Model) Message() string { return m.message }

// Level returns the level of the current message.
func (m Model) Level() Level { return m.level }

// SetWidth sets the bar width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// View renders the bar with info on the right.
func (m Model) View(info Info) string {
	var right []string
	if info.Running {
		right = append(right, "▶ running")
	}
	if info.Dirty {
		right = append(right, "●")
	}
	if info.Language != "" {
		right = append(right, info.Language)
	}
	if info.Line > 0 {
		right = append(right, fmt.Sprintf("Ln %d, Col %d", info.Line, info.Col))
	}
	rightText := strings.Join(right, "  ")

	msgStyle := lipgloss.NewStyle()
	switch m.level {
	case LevelSuccess:
		msgStyle = msgStyle.Foreground(styles.StatusSuccessColor)
	case LevelWarn:
		msgStyle = msgStyle.Foreground(styles.StatusWarningColor)
	case LevelError:
		msgStyle = msgStyle.Foreground(styles.StatusErrorColor).Bold(true)
	}

	inner := max(0, m.width-2)
	leftWidth := max(0, inner-lipgloss.Width(rightText)-1)
	left := msgStyle.Render(styles.TruncateString(m.message, leftWidth))
	gap := max(1, inner-lipgloss.Width(left)-lipgloss.Width(rightText))
	return styles.StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + rightText)
}
