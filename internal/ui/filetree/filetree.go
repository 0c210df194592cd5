// Package filetree renders the workspace tree in the sidebar.
package filetree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/shelldesk/internal/files"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// OpenFileMsg asks the app to open a file chosen in the tree.
type OpenFileMsg struct {
	Path string
}

// ExpandedMsg reports that the set of expanded directories changed, so the
// watcher can follow it.
type ExpandedMsg struct {
	Dirs []string
}

// Model is the sidebar tree.
type Model struct {
	tree    *files.Tree
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	err     error
}

// New lists root.
func New(root string) Model {
	m := Model{tree: files.NewTree(root)}
	m.err = m.tree.Refresh()
	return m
}

// Root is the workspace directory.
func (m Model) Root() string { return m.tree.Root() }

// Dirs returns the directories currently listed.
func (m Model) Dirs() []string { return m.tree.Dirs() }

// Rows returns the visible rows.
func (m Model) Rows() []files.Node { return m.tree.Rows() }

// Selected returns the row under the cursor.
func (m Model) Selected() (files.Node, bool) {
	rows := m.tree.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return files.Node{}, false
	}
	return rows[m.cursor], true
}

// Err is the last listing error, if any.
func (m Model) Err() error { return m.err }

// SetRoot switches workspace.
func (m Model) SetRoot(root string) Model {
	m.err = m.tree.SetRoot(root)
	m.cursor, m.offset = 0, 0
	return m
}

// Refresh re-reads the disk, keeping the selected path when it still exists.
func (m Model) Refresh() Model {
	selected, ok := m.Selected()
	m.err = m.tree.Refresh()
	if m.err != nil {
		log.Warn(log.CatFiles, "tree refresh failed", "error", m.err)
	}
	if ok {
		if i := m.tree.Index(selected.Path); i >= 0 {
			m.cursor = i
		}
	}
	m.cursor = min(m.cursor, max(0, len(m.tree.Rows())-1))
	m.scroll()
	return m
}

// Reveal expands the directories leading to path and selects it.
func (m Model) Reveal(path string) Model {
	if err := m.tree.Expand(path); err != nil {
		m.err = err
		return m
	}
	if i := m.tree.Index(path); i >= 0 {
		m.cursor = i
		m.scroll()
	}
	return m
}

// SetSize sets the inner size of the pane.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.scroll()
	return m
}

// Focus gives the tree keyboard input.
func (m Model) Focus() Model { m.focused = true; return m }

// Blur removes keyboard input.
func (m Model) Blur() Model { m.focused = false; return m }

// Focused reports whether the tree has keyboard input.
func (m Model) Focused() bool { return m.focused }

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Tree.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(keyMsg, keys.Tree.Down):
		m.cursor = max(0, min(len(m.tree.Rows())-1, m.cursor+1))
	case key.Matches(keyMsg, keys.Tree.Open):
		return m.activate(m.cursor)
	case key.Matches(keyMsg, keys.Tree.Collapse):
		return m.collapse()
	case key.Matches(keyMsg, keys.Tree.Refresh):
		return m.Refresh(), nil
	}
	m.scroll()
	return m, nil
}

// Click activates the row under a mouse press, if any.
func (m Model) Click(msg tea.MouseMsg) (Model, tea.Cmd, bool) {
	for i := m.offset; i < min(len(m.tree.Rows()), m.offset+m.height); i++ {
		if z := zone.Get(rowZone(i)); z != nil && z.InBounds(msg) {
			m.cursor = i
			var cmd tea.Cmd
			m, cmd = m.activate(i)
			return m, cmd, true
		}
	}
	return m, nil, false
}

func (m Model) activate(i int) (Model, tea.Cmd) {
	rows := m.tree.Rows()
	if i < 0 || i >= len(rows) {
		return m, nil
	}
	node := rows[i]
	if !node.Dir {
		return m, func() tea.Msg { return OpenFileMsg{Path: node.Path} }
	}
	if err := m.tree.Toggle(node.Path); err != nil {
		m.err = err
		return m, nil
	}
	m.cursor = max(0, m.tree.Index(node.Path))
	m.scroll()
	dirs := m.tree.Dirs()
	return m, func() tea.Msg { return ExpandedMsg{Dirs: dirs} }
}

// collapse folds the selected directory, or jumps to the parent of a file.
func (m Model) collapse() (Model, tea.Cmd) {
	node, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if node.Dir && node.Expanded {
		return m.activate(m.cursor)
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if r := m.tree.Rows()[i]; r.Dir && r.Depth < node.Depth {
			m.cursor = i
			break
		}
	}
	m.scroll()
	return m, nil
}

func (m *Model) scroll() {
	if m.height <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func rowZone(i int) string {
	return fmt.Sprintf("tree-row-%d", i)
}

// View renders the visible rows, each marked as a click zone.
func (m Model) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render(styles.TruncateString(m.err.Error(), m.width))
	}
	rows := m.tree.Rows()
	if len(rows) == 0 {
		return styles.GutterStyle.Render("(empty)")
	}

	out := make([]string, 0, m.height)
	for i := m.offset; i < min(len(rows), m.offset+m.height); i++ {
		out = append(out, zone.Mark(rowZone(i), m.renderRow(i, rows[i])))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderRow(i int, n files.Node) string {
	icon := "  "
	if n.Dir {
		icon = "▸ "
		if n.Expanded {
			icon = "▾ "
		}
	}
	text := styles.TruncateString(strings.Repeat("  ", n.Depth)+icon+n.Name, m.width)
	style := styles.TreeFileStyle
	if n.Dir {
		style = styles.TreeDirStyle
	}
	if i == m.cursor {
		style = style.Inherit(styles.TreeSelectedStyle)
		if pad := m.width - len([]rune(text)); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return style.Render(text)
}
