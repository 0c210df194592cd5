package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/shelldesk/internal/ui/overlay"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

func (m Model) gutterWidth() int {
	if !m.showLineNumbers {
		return 0
	}
	return max(3, len(fmt.Sprint(m.buf.LineCount()))) + 1
}

func (m Model) textWidth() int {
	return max(1, m.width-m.gutterWidth())
}

// View renders the visible lines, the cursor and the completion popup.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	ctx := context.Background()
	gutter := m.gutterWidth()
	textWidth := m.textWidth()
	tab := strings.Repeat(" ", m.tabWidth)

	rows := make([]string, 0, m.height)
	for i := m.top; i < m.top+m.height; i++ {
		if i >= m.buf.LineCount() {
			rows = append(rows, "")
			continue
		}
		line := m.buf.Line(i)
		var text string
		if m.focused && i == m.cursor.Line {
			text = m.hl.LineWithCursor(line, m.cursor.Col, m.tabWidth)
		} else {
			text = m.hl.Line(ctx, line)
		}
		text = strings.ReplaceAll(text, "\t", tab)
		if m.left > 0 {
			text = ansi.TruncateLeft(text, m.left, "")
		}
		text = ansi.Truncate(text, textWidth, "")

		if gutter > 0 {
			text = styles.GutterStyle.Render(fmt.Sprintf("%*d ", gutter-1, i+1)) + text
		}
		rows = append(rows, text)
	}
	view := strings.Join(rows, "\n")

	if m.popup.visible && m.focused {
		x := gutter + displayCol(m.buf.Line(m.popup.line), m.popup.start, m.tabWidth) - m.left
		y := m.cursor.Line - m.top + 1
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Anchor,
			X:        max(0, x-1),
			Y:        y,
		}, m.renderPopup(), view)
	}
	return view
}
