// Package console shows interpreter output below the editor.
package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/shelldesk/internal/runner"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// MaxLines bounds the scrollback.
const MaxLines = 5000

// Kind selects how a console line is styled.
type Kind int

const (
	Plain Kind = iota
	Stderr
	Info
)

type entry struct {
	kind Kind
	text string
}

// Model is the output pane.
type Model struct {
	viewport   viewport.Model
	entries    []entry
	transcript runner.Transcript
	width      int
	height     int
	focused    bool
}

// New creates an empty console.
func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// SetSize sets the inner size of the pane.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh(true)
	return m
}

// Focus gives the console scroll keys.
func (m Model) Focus() Model { m.focused = true; return m }

// Blur removes keyboard input.
func (m Model) Blur() Model { m.focused = false; return m }

// Clear empties the console.
func (m Model) Clear() Model {
	m.entries = nil
	m.transcript = runner.Transcript{}
	m.refresh(true)
	return m
}

// Append adds lines of one kind.
func (m Model) Append(kind Kind, lines ...string) Model {
	follow := m.viewport.AtBottom()
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			m.entries = append(m.entries, entry{kind: kind, text: part})
		}
	}
	if over := len(m.entries) - MaxLines; over > 0 {
		m.entries = m.entries[over:]
	}
	m.refresh(follow)
	return m
}

// StartRun clears the console and prints the run banner.
func (m Model) StartRun() Model {
	m = m.Clear()
	return m.Append(Info, runner.StartBanner)
}

// AppendEvent prints one runner event.
func (m Model) AppendEvent(ev runner.Event) Model {
	lines := m.transcript.Lines(ev)
	switch ev := ev.(type) {
	case runner.Line:
		if ev.Stream == runner.Stderr {
			return m.Append(Stderr, lines...)
		}
		return m.Append(Plain, lines...)
	case runner.Exited:
		return m.Append(Info, lines...)
	}
	return m
}

// Text returns the scrollback without styling.
func (m Model) Text() string {
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = e.text
	}
	return strings.Join(lines, "\n")
}

// Update scrolls with the mouse wheel, or keys when focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
	case tea.MouseMsg:
	default:
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the visible part of the scrollback.
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) refresh(follow bool) {
	if m.width <= 0 {
		return
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := wrap.String(expandTabs(e.text), m.width)
		switch e.kind {
		case Stderr:
			text = renderLines(styles.ConsoleStderrStyle.Render, text)
		case Info:
			text = renderLines(styles.ConsoleInfoStyle.Render, text)
		}
		b.WriteString(text)
	}
	m.viewport.SetContent(b.String())
	if follow {
		m.viewport.GotoBottom()
	}
}

func renderLines(render func(...string) string, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = render(l)
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
