// Package help contains the help overlay: key bindings and a ShellLite
// quick reference rendered as markdown.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/shelldesk/internal/completion"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/ui/markdown"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

var groupTitles = []string{"Files", "Script", "Editing", "General"}

// ClosedMsg is sent when the overlay is dismissed.
type ClosedMsg struct{}

// Model is the help overlay.
type Model struct {
	viewport viewport.Model
	seed     completion.Seed
	style    string
	width    int
	height   int
}

// New creates the overlay. style is the glamour style name.
func New(seed completion.Seed, style string) Model {
	return Model{seed: seed, style: style, viewport: viewport.New(0, 0)}
}

// Document returns the markdown shown in the overlay.
func Document(seed completion.Seed) string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	for i, group := range (keys.HelpMap{}).FullHelp() {
		if i < len(groupTitles) {
			fmt.Fprintf(&b, "## %s\n\n", groupTitles[i])
		}
		writeBindings(&b, group)
		b.WriteString("\n")
	}

	b.WriteString("# ShellLite\n\n")
	b.WriteString("Scripts are run with the configured interpreter from the workspace directory.\n\n")
	b.WriteString("## Keywords\n\n")
	b.WriteString(codeList(seed.Keywords))
	b.WriteString("\n\n## Built-ins\n\n")
	b.WriteString(codeList(seed.Stdlib))
	b.WriteString("\n")
	return b.String()
}

func writeBindings(b *strings.Builder, group []key.Binding) {
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, binding := range group {
		h := binding.Help()
		fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
}

func codeList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}

// SetSize lays the overlay out for a screen of width x height.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	inner := max(10, width*3/4)
	m.viewport.Width = inner
	m.viewport.Height = max(3, height*3/4)

	content := Document(m.seed)
	r, err := markdown.New(inner, m.style)
	if err == nil {
		if rendered, rerr := r.Render(content); rerr == nil {
			content = rendered
		} else {
			err = rerr
		}
	}
	if err != nil {
		log.Warn(log.CatUI, "help markdown render failed", "error", err)
	}
	m.viewport.SetContent(content)
	return m
}

// Update scrolls the overlay and closes it on esc or q.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Overlay.Close), key.Matches(msg, keys.Workbench.Help):
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

// View renders the overlay box.
func (m Model) View() string {
	return styles.RenderPanel(m.viewport.View(), "Help", m.viewport.Width+2, m.viewport.Height+2, true)
}
