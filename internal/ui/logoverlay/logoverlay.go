// Package logoverlay provides an in-app log viewer overlay that shows
// recent log entries without leaving the TUI. It is only reachable in debug
// mode.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/ui/overlay"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

const (
	// MaxEntries bounds the retained log tail.
	MaxEntries = 1000

	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records one log entry, dropping the oldest past MaxEntries.
func (m *Model) Append(entry string) {
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - MaxEntries; over > 0 {
		m.entries = append(m.entries[:0], m.entries[over:]...)
	}
	if m.visible {
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
}

// Len returns the number of retained entries.
func (m Model) Len() int {
	return len(m.entries)
}

// Update handles keys while the overlay is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case is(msg, "c"):
			m.entries = nil
			m.refreshViewport()
		case is(msg, "d"):
			m.setLevel(log.LevelDebug)
		case is(msg, "i"):
			m.setLevel(log.LevelInfo)
		case is(msg, "w"):
			m.setLevel(log.LevelWarn)
		case is(msg, "e"):
			m.setLevel(log.LevelError)
		case is(msg, "g"):
			m.viewport.GotoTop()
		case is(msg, "G"):
			m.viewport.GotoBottom()
		case key.Matches(msg, keys.Overlay.ScrollUp):
			m.viewport.ScrollUp(1)
		case key.Matches(msg, keys.Overlay.ScrollDown):
			m.viewport.ScrollDown(1)
		case key.Matches(msg, keys.Overlay.Close), key.Matches(msg, keys.Workbench.ToggleLog):
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func is(msg tea.KeyMsg, s string) bool {
	return msg.String() == s
}

func (m *Model) setLevel(level log.Level) {
	m.minLevel = level
	m.refreshViewport()
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.AccentPrimaryColor).PaddingLeft(1)
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", boxWidth))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.filterHint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(boxWidth).
		Render(b.String())
}

// Overlay renders the log overlay centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle toggles the overlay visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize updates the screen size the overlay is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

// Filtered returns the retained entries at or above the current level.
func (m Model) Filtered() []string {
	var out []string
	for _, e := range m.entries {
		if entryLevel(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header, footer and border take six rows
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(m.contentWidth(), h)
	m.viewport.SetContent(m.content())
}

func (m Model) content() string {
	filtered := m.Filtered()
	if len(filtered) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	width := m.contentWidth()
	lines := make([]string, len(filtered))
	for i, e := range filtered {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = levelStyle(entryLevel(e)).Render(e)
	}
	return strings.Join(lines, "\n")
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

// entryLevel reads the level tag written by the log package. Untagged
// entries count as errors so they are never filtered out.
func entryLevel(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func levelStyle(level log.Level) lipgloss.Style {
	switch level {
	case log.LevelDebug:
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	case log.LevelInfo:
		return lipgloss.NewStyle().Foreground(styles.AccentPrimaryColor)
	case log.LevelWarn:
		return lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	default:
		return lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	}
}
