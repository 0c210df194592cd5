package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/paths"
	"github.com/zjrosen/shelldesk/internal/ui/overlay"
	"github.com/zjrosen/shelldesk/internal/ui/statusbar"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

const (
	zoneEditor  = "app-editor"
	zoneConsole = "app-console"

	// statusFlash is how long run results stay in the status bar.
	statusFlash = 5 * time.Second

	minSidebarWidth = 12
)

func tabZone(i int) string {
	return fmt.Sprintf("app-tab-%d", i)
}

func (m Model) sidebarWidth() int {
	w := m.cfg.UI.SidebarWidth
	if w <= 0 {
		return 0
	}
	return max(minSidebarWidth, min(w, m.width/3))
}

func (m Model) consoleHeight() int {
	return max(1, m.cfg.UI.ConsoleHeight) + 2
}

// bodyHeight leaves one row for the tab bar and one for the status line.
func (m Model) bodyHeight() int {
	return max(3, m.height-1-m.consoleHeight()-1)
}

// editorSize is the inner size of the editor panel.
func (m Model) editorSize() (int, int) {
	return max(1, m.width-m.sidebarWidth()-2), max(1, m.bodyHeight()-2)
}

// layout pushes the window size down to every pane.
func (m Model) layout() Model {
	ew, eh := m.editorSize()
	for i := range m.tabs {
		m.tabs[i].SetSize(ew, eh)
	}
	m.tree = m.tree.SetSize(max(1, m.sidebarWidth()-2), max(1, m.bodyHeight()-2))
	m.console = m.console.SetSize(max(1, m.width-2), m.consoleHeight()-2)
	m.status = m.status.SetWidth(m.width)
	m.prompt = m.prompt.SetWidth(m.width)
	m.logOverlay.SetSize(m.width, m.height)
	switch m.overlay {
	case overlayHelp:
		m.help = m.help.SetSize(m.width, m.height)
	case overlayChanges:
		m.changes = m.changes.SetSize(m.width, m.height)
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	body := m.renderEditor()
	if sw := m.sidebarWidth(); sw > 0 {
		tree := styles.RenderPanel(m.tree.View(), "Explorer", sw, m.bodyHeight(), m.focus == focusTree)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, body)
	}

	output := zone.Mark(zoneConsole,
		styles.RenderPanel(m.console.View(), "Output", m.width, m.consoleHeight(), false))

	bottom := m.status.View(m.statusInfo())
	if m.prompt.Active() {
		bottom = m.prompt.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), body, output, bottom)

	switch m.overlay {
	case overlayHelp:
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.help.View(), view)
	case overlayChanges:
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.changes.View(), view)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

func (m Model) renderTabs() string {
	if len(m.tabs) == 0 {
		return styles.TabStyle.Render("shelldesk")
	}
	parts := make([]string, len(m.tabs))
	for i := range m.tabs {
		title := tabTitle(m.tabs[i])
		if m.tabs[i].Dirty() {
			title += " ●"
		}
		style := styles.TabStyle
		if i == m.active {
			style = styles.ActiveTabStyle
		}
		parts[i] = zone.Mark(tabZone(i), style.Render(title))
	}
	return styles.TruncateString(strings.Join(parts, ""), m.width)
}

func (m Model) renderEditor() string {
	width := m.width - m.sidebarWidth()
	if m.active < 0 {
		hint := styles.GutterStyle.Render(fmt.Sprintf("No file open. %s new file, %s open, %s help",
			keys.Workbench.New.Help().Key, keys.Workbench.Open.Help().Key, keys.Workbench.Help.Help().Key))
		return styles.RenderPanel(hint, "Editor", width, m.bodyHeight(), false)
	}
	tab := m.tabs[m.active]
	title := untitledName
	if tab.Path() != "" {
		title = paths.Rel(m.tree.Root(), tab.Path())
	}
	return zone.Mark(zoneEditor,
		styles.RenderPanel(tab.View(), title, width, m.bodyHeight(), m.focus == focusEditor))
}

func (m Model) statusInfo() statusbar.Info {
	info := statusbar.Info{Running: m.run != nil}
	if m.active >= 0 {
		tab := m.tabs[m.active]
		info.Language = tab.Language()
		info.Dirty = tab.Dirty()
		info.Line, info.Col = tab.DisplayCursor()
	}
	return info
}
