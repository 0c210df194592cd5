package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

// popup is the completion list anchored at the identifier being typed.
type popup struct {
	visible bool
	items   []string
	sel     int
	line    int
	start   int // byte column where the prefix begins
}

func (p *popup) close() {
	*p = popup{}
}

func (p *popup) move(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.sel = (p.sel + delta + len(p.items)) % len(p.items)
}

// openPopup fills the popup for the identifier before the cursor. Without
// force an empty prefix closes it; with force the whole vocabulary is
// offered.
func (m *Model) openPopup(force bool) {
	line := m.buf.Line(m.cursor.Line)
	start := identStart(line, m.cursor.Col)
	prefix := line[start:m.cursor.Col]

	if r, _ := utf8.DecodeRuneInString(prefix); unicode.IsDigit(r) {
		m.popup.close()
		return
	}

	var items []string
	switch {
	case prefix != "":
		items = m.harvester.Index().Complete(prefix, m.maxCompletions)
	case force:
		items = m.harvester.Vocabulary().Sorted()
		if len(items) > m.maxCompletions {
			items = items[:m.maxCompletions]
		}
	}
	if len(items) == 0 {
		m.popup.close()
		return
	}

	sel := 0
	if m.popup.visible && m.popup.line == m.cursor.Line && m.popup.start == start {
		current := m.popup.items[m.popup.sel]
		for i, it := range items {
			if it == current {
				sel = i
				break
			}
		}
	}
	m.popup = popup{visible: true, items: items, sel: sel, line: m.cursor.Line, start: start}
}

// acceptCompletion replaces the typed prefix with the selected entry.
func (m Model) acceptCompletion() (Model, tea.Cmd) {
	choice := m.popup.items[m.popup.sel]
	from := Position{Line: m.popup.line, Col: m.popup.start}
	m.popup.close()

	m.beginEdit(false)
	m.buf.Delete(from, m.cursor)
	m.cursor = m.buf.Insert(from, choice)
	m.goalX = displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
	cmd := m.changed()
	return m, cmd
}

// renderPopup draws the list box.
func (m Model) renderPopup() string {
	width := 0
	for _, it := range m.popup.items {
		width = max(width, utf8.RuneCountInString(it))
	}
	rows := make([]string, len(m.popup.items))
	for i, it := range m.popup.items {
		text := it + strings.Repeat(" ", width-utf8.RuneCountInString(it))
		if i == m.popup.sel {
			rows[i] = styles.PopupCurrentStyle.Render(text)
		} else {
			rows[i] = styles.PopupItemStyle.Render(text)
		}
	}
	return styles.PopupStyle.Render(strings.Join(rows, "\n"))
}
