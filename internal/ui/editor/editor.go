// Package editor provides the ShellLite editing surface: a line buffer with
// undo, syntax highlighting, and identifier completion fed by a debounced
// harvest of the document.
package editor

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/shelldesk/internal/completion"
	"github.com/zjrosen/shelldesk/internal/harvest"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTabWidth       = 4
	DefaultScanDebounce   = 2 * time.Second
	DefaultMaxCompletions = 8
	maxUndo               = 200
)

var lastID atomic.Int64

// Options configures a new editor.
type Options struct {
	Path            string
	Text            string
	Language        string
	TabWidth        int
	ScanDebounce    time.Duration
	Threshold       int
	MaxCompletions  int
	ShowLineNumbers bool
	Seed            completion.Seed
	Highlighter     *Highlighter
	Clipboard       Clipboard
}

// ScanTickMsg fires when the harvest debounce window of one editor elapses.
// Only the tick carrying the editor's latest sequence triggers a scan.
type ScanTickMsg struct {
	EditorID int64
	Seq      uint64
}

// ClipboardErrorMsg reports a failed cut, copy or paste.
type ClipboardErrorMsg struct {
	Err error
}

type snapshot struct {
	text   string
	cursor Position
}

// Model is a single open document.
type Model struct {
	id       int64
	path     string
	language string

	buf     *Buffer
	cursor  Position
	goalX   int // display column kept across vertical moves
	top     int
	left    int
	width   int
	height  int
	focused bool

	tabWidth        int
	showLineNumbers bool

	saved    string
	dirty    bool
	undo     []snapshot
	redo     []snapshot
	coalesce bool

	harvester    *harvest.Harvester
	scanDebounce time.Duration
	scanSeq      uint64
	scans        int

	popup          popup
	maxCompletions int

	hl   *Highlighter
	clip Clipboard
}

// New creates an editor over opts.Text. The document is harvested once
// immediately so names already in the file complete right away.
func New(opts Options) Model {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	if opts.ScanDebounce <= 0 {
		opts.ScanDebounce = DefaultScanDebounce
	}
	if opts.MaxCompletions <= 0 {
		opts.MaxCompletions = DefaultMaxCompletions
	}
	if opts.Seed.Keywords == nil && opts.Seed.Stdlib == nil {
		opts.Seed = completion.DefaultSeed()
	}
	if opts.Highlighter == nil {
		opts.Highlighter = DefaultHighlighter()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}

	buf := NewBuffer(opts.Text)
	m := Model{
		id:              lastID.Add(1),
		path:            opts.Path,
		language:        opts.Language,
		buf:             buf,
		tabWidth:        opts.TabWidth,
		showLineNumbers: opts.ShowLineNumbers,
		saved:           buf.Text(),
		harvester: harvest.New(
			completion.NewVocabulary(opts.Seed),
			completion.NewIndex(opts.Threshold),
		),
		scanDebounce:   opts.ScanDebounce,
		maxCompletions: opts.MaxCompletions,
		hl:             opts.Highlighter,
		clip:           opts.Clipboard,
	}
	if opts.Text != "" {
		m.scan()
	}
	return m
}

// ID identifies the editor in ScanTickMsg.
func (m Model) ID() int64 { return m.id }

// Path is the file backing the buffer, or "" for an unsaved buffer.
func (m Model) Path() string { return m.path }

// SetPath rebinds the buffer, e.g. after Save As.
func (m *Model) SetPath(path string) { m.path = path }

// Language is the label shown in the status bar.
func (m Model) Language() string { return m.language }

// SetLanguage changes the status bar label.
func (m *Model) SetLanguage(lang string) { m.language = lang }

// Value returns the document text.
func (m Model) Value() string { return m.buf.Text() }

// SavedValue returns the text as of the last save or load.
func (m Model) SavedValue() string { return m.saved }

// Dirty reports unsaved changes.
func (m Model) Dirty() bool { return m.dirty }

// MarkSaved records the current text as saved.
func (m *Model) MarkSaved() {
	m.saved = m.buf.Text()
	m.dirty = false
}

// Cursor returns the cursor position.
func (m Model) Cursor() Position { return m.cursor }

// SetCursor moves the cursor, clamped to the document.
func (m *Model) SetCursor(p Position) {
	m.cursor = m.buf.Clamp(p)
	m.goalX = displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
	m.coalesce = false
	m.popup.close()
	m.ensureVisible()
}

// DisplayCursor returns the 1-based cursor line and screen column.
func (m Model) DisplayCursor() (line, col int) {
	return m.cursor.Line + 1, displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth) + 1
}

// LineCount returns the number of lines.
func (m Model) LineCount() int { return m.buf.LineCount() }

// Harvester exposes the completion vocabulary of this editor.
func (m Model) Harvester() *harvest.Harvester { return m.harvester }

// ScanCount is the number of harvest passes run so far.
func (m Model) ScanCount() int { return m.scans }

// Completions returns the entries of the open popup, or nil.
func (m Model) Completions() []string {
	if !m.popup.visible {
		return nil
	}
	return m.popup.items
}

// Focus gives the editor keyboard input.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard input and closes the popup.
func (m *Model) Blur() {
	m.focused = false
	m.popup.close()
}

// Focused reports whether the editor receives keys.
func (m Model) Focused() bool { return m.focused }

// SetSize sets the text area size, gutter included.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.ensureVisible()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles keys and scan ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScanTickMsg:
		if msg.EditorID == m.id && msg.Seq == m.scanSeq {
			m.scan()
		}
		return m, nil
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// ClickAt moves the cursor to the cell at x, y relative to the editor's
// top-left corner.
func (m *Model) ClickAt(x, y int) {
	line := m.top + y
	if line >= m.buf.LineCount() {
		line = m.buf.LineCount() - 1
	}
	text := m.buf.Line(line)
	col := colAtDisplay(text, m.left+max(0, x-m.gutterWidth()), m.tabWidth)
	m.SetCursor(Position{Line: line, Col: col})
}

// InsertText inserts s at the cursor as one undoable edit.
func (m Model) InsertText(s string) (Model, tea.Cmd) {
	m.beginEdit(false)
	m.cursor = m.buf.Insert(m.cursor, s)
	cmd := m.changed()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.popup.visible {
		switch {
		case key.Matches(msg, keys.Editor.Accept):
			return m.acceptCompletion()
		case key.Matches(msg, keys.Editor.Dismiss):
			m.popup.close()
			return m, nil
		case key.Matches(msg, keys.Editor.PrevItem):
			m.popup.move(-1)
			return m, nil
		case key.Matches(msg, keys.Editor.NextItem):
			m.popup.move(1)
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Editor.Undo):
		cmd := m.restore(false)
		return m, cmd
	case key.Matches(msg, keys.Editor.Redo):
		cmd := m.restore(true)
		return m, cmd
	case key.Matches(msg, keys.Editor.CutLine):
		return m.cutLine()
	case key.Matches(msg, keys.Editor.CopyLine):
		cmd := m.copyText(m.buf.Line(m.cursor.Line) + "\n")
		return m, cmd
	case key.Matches(msg, keys.Editor.Paste):
		text, err := m.clip.Paste()
		if err != nil {
			return m, clipboardError(err)
		}
		if text == "" {
			return m, nil
		}
		return m.InsertText(text)
	case key.Matches(msg, keys.Editor.Complete):
		m.openPopup(true)
		return m, nil
	case key.Matches(msg, keys.Editor.DeleteWord):
		line := m.buf.Line(m.cursor.Line)
		start := wordLeft(line, m.cursor.Col)
		if start == m.cursor.Col {
			return m.backspace()
		}
		m.beginEdit(false)
		m.buf.Delete(Position{Line: m.cursor.Line, Col: start}, m.cursor)
		m.cursor.Col = start
		cmd := m.changed()
		return m, cmd
	}

	if m.moveKey(msg) {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		return m.backspace()
	case tea.KeyDelete:
		return m.deleteForward()
	case tea.KeyEnter:
		indent := m.buf.Indent(m.cursor.Line)
		if m.cursor.Col < len(indent) {
			indent = indent[:m.cursor.Col]
		}
		m.popup.close()
		return m.InsertText("\n" + indent)
	case tea.KeyTab:
		x := displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
		return m.typeText(strings.Repeat(" ", m.tabWidth-x%m.tabWidth))
	case tea.KeySpace:
		return m.typeText(" ")
	case tea.KeyRunes:
		if msg.Paste {
			m.popup.close()
			return m.InsertText(string(msg.Runes))
		}
		return m.typeText(string(msg.Runes))
	}
	return m, nil
}

// moveKey applies cursor movement keys. It reports whether msg was one.
func (m *Model) moveKey(msg tea.KeyMsg) bool {
	line := m.buf.Line(m.cursor.Line)
	p := m.cursor
	vertical := false

	switch {
	case key.Matches(msg, keys.Editor.LineStart):
		indent := len(m.buf.Indent(p.Line))
		if p.Col == indent {
			p.Col = 0
		} else {
			p.Col = indent
		}
	case key.Matches(msg, keys.Editor.LineEnd):
		p.Col = len(line)
	case key.Matches(msg, keys.Editor.DocStart):
		p = Position{}
	case key.Matches(msg, keys.Editor.DocEnd):
		last := m.buf.LineCount() - 1
		p = Position{Line: last, Col: len(m.buf.Line(last))}
	case key.Matches(msg, keys.Editor.WordLeft):
		if p.Col == 0 && p.Line > 0 {
			p.Line--
			p.Col = len(m.buf.Line(p.Line))
		} else {
			p.Col = wordLeft(line, p.Col)
		}
	case key.Matches(msg, keys.Editor.WordRight):
		if p.Col == len(line) && p.Line < m.buf.LineCount()-1 {
			p = Position{Line: p.Line + 1}
		} else {
			p.Col = wordRight(line, p.Col)
		}
	case key.Matches(msg, keys.Editor.PageUp):
		p.Line -= m.height
		vertical = true
	case key.Matches(msg, keys.Editor.PageDown):
		p.Line += m.height
		vertical = true
	default:
		switch msg.Type {
		case tea.KeyLeft:
			if p.Col > 0 {
				p.Col = prevBoundary(line, p.Col)
			} else if p.Line > 0 {
				p.Line--
				p.Col = len(m.buf.Line(p.Line))
			}
		case tea.KeyRight:
			if p.Col < len(line) {
				p.Col = nextBoundary(line, p.Col)
			} else if p.Line < m.buf.LineCount()-1 {
				p = Position{Line: p.Line + 1}
			}
		case tea.KeyUp:
			p.Line--
			vertical = true
		case tea.KeyDown:
			p.Line++
			vertical = true
		default:
			return false
		}
	}

	if vertical {
		p.Line = max(0, min(p.Line, m.buf.LineCount()-1))
		p.Col = colAtDisplay(m.buf.Line(p.Line), m.goalX, m.tabWidth)
		m.cursor = p
		m.coalesce = false
		m.popup.close()
		m.ensureVisible()
		return true
	}
	m.SetCursor(p)
	return true
}

// typeText inserts typed characters. Consecutive typing is one undo step
// and keeps the completion popup in sync with the identifier prefix.
func (m Model) typeText(s string) (Model, tea.Cmd) {
	m.beginEdit(true)
	m.cursor = m.buf.Insert(m.cursor, s)
	m.goalX = displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
	m.openPopup(false)
	cmd := m.changed()
	return m, cmd
}

func (m Model) backspace() (Model, tea.Cmd) {
	if m.cursor == (Position{}) {
		return m, nil
	}
	from := m.cursor
	if from.Col > 0 {
		from.Col = prevBoundary(m.buf.Line(from.Line), from.Col)
	} else {
		from = Position{Line: from.Line - 1, Col: len(m.buf.Line(from.Line - 1))}
	}
	m.beginEdit(true)
	m.buf.Delete(from, m.cursor)
	m.cursor = from
	m.goalX = displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
	if m.popup.visible {
		m.openPopup(false)
	}
	cmd := m.changed()
	return m, cmd
}

func (m Model) deleteForward() (Model, tea.Cmd) {
	line := m.buf.Line(m.cursor.Line)
	to := m.cursor
	switch {
	case to.Col < len(line):
		to.Col = nextBoundary(line, to.Col)
	case to.Line < m.buf.LineCount()-1:
		to = Position{Line: to.Line + 1}
	default:
		return m, nil
	}
	m.beginEdit(false)
	m.buf.Delete(m.cursor, to)
	m.popup.close()
	cmd := m.changed()
	return m, cmd
}

func (m Model) cutLine() (Model, tea.Cmd) {
	m.beginEdit(false)
	removed := m.buf.DeleteLine(m.cursor.Line)
	m.cursor = m.buf.Clamp(Position{Line: m.cursor.Line})
	m.popup.close()
	cmd := tea.Batch(m.changed(), m.copyText(removed))
	return m, cmd
}

func (m Model) copyText(text string) tea.Cmd {
	if err := m.clip.Copy(text); err != nil {
		return clipboardError(err)
	}
	return nil
}

func clipboardError(err error) tea.Cmd {
	log.Warn(log.CatUI, "clipboard unavailable", "error", err)
	return func() tea.Msg { return ClipboardErrorMsg{Err: err} }
}

// beginEdit records an undo snapshot. A typing edit that follows another
// typing edit reuses the previous snapshot.
func (m *Model) beginEdit(typing bool) {
	if typing && m.coalesce {
		return
	}
	m.undo = append(m.undo, snapshot{text: m.buf.Text(), cursor: m.cursor})
	if len(m.undo) > maxUndo {
		m.undo = m.undo[len(m.undo)-maxUndo:]
	}
	m.redo = nil
	m.coalesce = typing
}

// restore steps back through the undo stack, or forward through the redo
// stack, saving the current state on the opposite one.
func (m *Model) restore(redo bool) tea.Cmd {
	from, to := &m.undo, &m.redo
	if redo {
		from, to = to, from
	}
	if len(*from) == 0 {
		return nil
	}
	last := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, snapshot{text: m.buf.Text(), cursor: m.cursor})

	m.buf = NewBuffer(last.text)
	m.cursor = m.buf.Clamp(last.cursor)
	m.coalesce = false
	m.popup.close()
	return m.changed()
}

// changed updates the dirty flag and arms the harvest debounce. Every call
// bumps the sequence, so only the tick from the last change in a burst
// survives.
func (m *Model) changed() tea.Cmd {
	m.dirty = m.buf.Text() != m.saved
	m.ensureVisible()

	m.scanSeq++
	id, seq := m.id, m.scanSeq
	return tea.Tick(m.scanDebounce, func(time.Time) tea.Msg {
		return ScanTickMsg{EditorID: id, Seq: seq}
	})
}

func (m *Model) scan() {
	added := m.harvester.Scan(context.Background(), m.buf.Text())
	m.scans++
	if len(added) > 0 && m.popup.visible {
		m.openPopup(false)
	}
}

func (m *Model) ensureVisible() {
	if m.height <= 0 {
		return
	}
	if m.cursor.Line < m.top {
		m.top = m.cursor.Line
	}
	if m.cursor.Line >= m.top+m.height {
		m.top = m.cursor.Line - m.height + 1
	}
	m.top = max(0, min(m.top, m.buf.LineCount()-1))

	textWidth := m.textWidth()
	x := displayCol(m.buf.Line(m.cursor.Line), m.cursor.Col, m.tabWidth)
	if x < m.left {
		m.left = x
	}
	if x >= m.left+textWidth {
		m.left = x - textWidth + 1
	}
}

