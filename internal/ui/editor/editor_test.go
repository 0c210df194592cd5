package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/shelldesk/internal/cachemanager"
	"github.com/zjrosen/shelldesk/internal/lexer"
)

func newTestEditor(text string) (Model, *MemoryClipboard) {
	clip := &MemoryClipboard{}
	m := New(Options{
		Text:            text,
		ShowLineNumbers: true,
		Highlighter:     NewHighlighter(lexer.Standard(), nil),
		Clipboard:       clip,
	})
	m.SetSize(40, 10)
	m.Focus()
	return m, clip
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeString sends one key per rune and returns the scan ticks it armed.
func typeString(m Model, s string) (Model, []ScanTickMsg) {
	var ticks []ScanTickMsg
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(runes(string(r)))
		if cmd != nil {
			ticks = append(ticks, ScanTickMsg{EditorID: m.id, Seq: m.scanSeq})
		}
	}
	return m, ticks
}

func TestTyping_InsertsAndMarksDirty(t *testing.T) {
	m, _ := newTestEditor("")
	require.False(t, m.Dirty())

	m, _ = typeString(m, "say hi")
	require.Equal(t, "say hi", m.Value())
	require.True(t, m.Dirty())
	require.Equal(t, Position{Line: 0, Col: 6}, m.Cursor())

	m.MarkSaved()
	require.False(t, m.Dirty())
	require.Equal(t, "say hi", m.SavedValue())
}

func TestTyping_BackToSavedTextIsClean(t *testing.T) {
	m, _ := newTestEditor("abc")
	m.SetCursor(Position{Col: 3})
	m, _ = typeString(m, "d")
	require.True(t, m.Dirty())
	m, _ = m.Update(keyMsg(tea.KeyBackspace))
	require.False(t, m.Dirty())
}

func TestRapidEdits_OneHarvestPass(t *testing.T) {
	m, _ := newTestEditor("")
	require.Equal(t, 0, m.ScanCount())

	m, ticks := typeString(m, "total = 5")
	require.Len(t, ticks, len("total = 5"))

	// Every armed tick eventually fires; only the newest is honored.
	for _, tick := range ticks {
		m, _ = m.Update(tick)
	}
	require.Equal(t, 1, m.ScanCount())
	require.True(t, m.Harvester().Vocabulary().Contains("total"))

	// A tick armed before a newer edit is stale.
	stale := ticks[len(ticks)-1]
	m, _ = typeString(m, "0")
	m, _ = m.Update(stale)
	require.Equal(t, 1, m.ScanCount())
}

func TestRapidEdits_OneHarvestPassProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, _ := newTestEditor("")
		text := rapid.StringMatching(`[a-z =]{1,30}`).Draw(t, "text")
		m, ticks := typeString(m, text)

		order := rapid.Permutation(ticks).Draw(t, "order")
		for _, tick := range order {
			m, _ = m.Update(tick)
		}
		if m.ScanCount() != 1 {
			t.Fatalf("scans = %d after %d edits", m.ScanCount(), len(ticks))
		}
	})
}

func TestScanTick_OtherEditorIgnored(t *testing.T) {
	a, _ := newTestEditor("")
	b, _ := newTestEditor("")
	a, _ = typeString(a, "x = 1")

	a, _ = a.Update(ScanTickMsg{EditorID: b.ID(), Seq: a.scanSeq})
	require.Equal(t, 0, a.ScanCount())
}

func TestNew_HarvestsInitialText(t *testing.T) {
	m, _ := newTestEditor("to greet\nname = 1\n")
	require.Equal(t, 1, m.ScanCount())
	vocab := m.Harvester().Vocabulary()
	require.True(t, vocab.Contains("greet"))
	require.True(t, vocab.Contains("name"))
}

func TestUndoRedo_TypingIsOneStep(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "abc")

	m, _ = m.Update(keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "", m.Value())
	require.Equal(t, Position{}, m.Cursor())

	m, _ = m.Update(keyMsg(tea.KeyCtrlY))
	require.Equal(t, "abc", m.Value())

	m, _ = m.Update(keyMsg(tea.KeyCtrlY))
	require.Equal(t, "abc", m.Value(), "redo stack is empty")
}

func TestUndo_MovementSplitsTyping(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "ab")
	m, _ = m.Update(keyMsg(tea.KeyLeft))
	m, _ = typeString(m, "X")
	require.Equal(t, "aXb", m.Value())

	m, _ = m.Update(keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "ab", m.Value())
	m, _ = m.Update(keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "", m.Value())
}

func TestEnter_KeepsIndent(t *testing.T) {
	m, _ := newTestEditor("    say 1")
	m.SetCursor(Position{Col: 9})
	m, _ = m.Update(keyMsg(tea.KeyEnter))
	require.Equal(t, "    say 1\n    ", m.Value())
	require.Equal(t, Position{Line: 1, Col: 4}, m.Cursor())
}

func TestTab_InsertsSpacesToNextStop(t *testing.T) {
	m, _ := newTestEditor("ab")
	m.SetCursor(Position{Col: 2})
	m, _ = m.Update(keyMsg(tea.KeyTab))
	require.Equal(t, "ab  ", m.Value())

	m, _ = newTestEditor("x")
	m, _ = m.Update(keyMsg(tea.KeyTab))
	require.Equal(t, "    x", m.Value())
	require.Equal(t, Position{Col: 4}, m.Cursor())
}

func TestBackspace_JoinsLines(t *testing.T) {
	m, _ := newTestEditor("a\nb")
	m.SetCursor(Position{Line: 1})
	m, _ = m.Update(keyMsg(tea.KeyBackspace))
	require.Equal(t, "ab", m.Value())
	require.Equal(t, Position{Col: 1}, m.Cursor())
}

func TestDelete_JoinsNextLine(t *testing.T) {
	m, _ := newTestEditor("a\nb")
	m.SetCursor(Position{Col: 1})
	m, _ = m.Update(keyMsg(tea.KeyDelete))
	require.Equal(t, "ab", m.Value())
}

func TestCursor_MovesByGrapheme(t *testing.T) {
	m, _ := newTestEditor("e\u0301x")
	m, _ = m.Update(keyMsg(tea.KeyRight))
	require.Equal(t, 3, m.Cursor().Col)
	m, _ = m.Update(keyMsg(tea.KeyBackspace))
	require.Equal(t, "x", m.Value())
}

func TestCursor_VerticalKeepsColumn(t *testing.T) {
	m, _ := newTestEditor("abcdef\nab\nabcdef")
	m.SetCursor(Position{Col: 5})
	m, _ = m.Update(keyMsg(tea.KeyDown))
	require.Equal(t, Position{Line: 1, Col: 2}, m.Cursor())
	m, _ = m.Update(keyMsg(tea.KeyDown))
	require.Equal(t, Position{Line: 2, Col: 5}, m.Cursor())
}

func TestCompletion_OffersHarvestedNames(t *testing.T) {
	m, _ := newTestEditor("to greet\n")
	m.SetCursor(Position{Line: 1})

	m, _ = typeString(m, "gre")
	require.Contains(t, m.Completions(), "greet")

	for m.Completions()[m.popup.sel] != "greet" {
		m, _ = m.Update(keyMsg(tea.KeyDown))
	}
	m, _ = m.Update(keyMsg(tea.KeyTab))
	require.Equal(t, "to greet\ngreet", m.Value())
	require.Nil(t, m.Completions())
}

func TestCompletion_EscDismisses(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "sa")
	require.Contains(t, m.Completions(), "say")

	m, _ = m.Update(keyMsg(tea.KeyEsc))
	require.Nil(t, m.Completions())
	require.Equal(t, "sa", m.Value())
}

func TestCompletion_ClosesOnNonIdentifier(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "sa")
	require.NotNil(t, m.Completions())
	m, _ = typeString(m, "(")
	require.Nil(t, m.Completions())
}

func TestCompletion_DottedStdlibName(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "math.sq")
	require.Contains(t, m.Completions(), "math.sqrt")
}

func TestCompletion_ForcedOpensWithEmptyPrefix(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlAt})
	require.Len(t, m.Completions(), DefaultMaxCompletions)
}

func TestCutCopyPaste(t *testing.T) {
	m, clip := newTestEditor("one\ntwo\nthree")
	m.SetCursor(Position{Line: 1})

	m, _ = m.Update(keyMsg(tea.KeyCtrlX))
	require.Equal(t, "one\nthree", m.Value())
	require.Equal(t, "two\n", clip.Text)

	m.SetCursor(Position{Line: 0})
	m, _ = m.Update(keyMsg(tea.KeyCtrlV))
	require.Equal(t, "two\none\nthree", m.Value())

	m.SetCursor(Position{Line: 2})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	require.Equal(t, "three\n", clip.Text)
}

func TestUnfocused_IgnoresKeys(t *testing.T) {
	m, _ := newTestEditor("")
	m.Blur()
	m, cmd := m.Update(runes("x"))
	require.Nil(t, cmd)
	require.Equal(t, "", m.Value())
}

func TestClickAt_PlacesCursor(t *testing.T) {
	m, _ := newTestEditor("alpha\nbeta")
	// Gutter is 4 cells wide: "  1 ".
	m.ClickAt(4+2, 1)
	require.Equal(t, Position{Line: 1, Col: 2}, m.Cursor())

	m.ClickAt(100, 50)
	require.Equal(t, Position{Line: 1, Col: 4}, m.Cursor())
}

func TestView_RendersGutterAndText(t *testing.T) {
	m, _ := newTestEditor("say \"hi\"\n# note")
	view := ansi.Strip(m.View())
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 10)
	require.Equal(t, "  1 say \"hi\"", lines[0])
	require.Equal(t, "  2 # note", lines[1])
}

func TestView_ScrollsToCursor(t *testing.T) {
	var b strings.Builder
	for i := range 30 {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("line")
	}
	m, _ := newTestEditor(b.String())
	m.SetCursor(Position{Line: 25})

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Equal(t, " 26 line", lines[len(lines)-1])
}

func TestView_ShowsPopup(t *testing.T) {
	m, _ := newTestEditor("")
	m, _ = typeString(m, "pri")
	require.Contains(t, ansi.Strip(m.View()), "print")
}

func TestHighlighter_CachesLines(t *testing.T) {
	cache := cachemanager.NewInMemoryCacheManager[string, string]("test", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	h := NewHighlighter(lexer.Standard(), cache)

	out := h.Line(t.Context(), "say 1")
	require.Equal(t, "say 1", ansi.Strip(out))
	h.Line(t.Context(), "say 1")
	h.Line(t.Context(), "x = 2")
	require.Equal(t, 2, cache.Len())

	h.Flush(t.Context())
	require.Equal(t, 0, cache.Len())
}

func TestHighlighter_LineWithCursor(t *testing.T) {
	h := NewHighlighter(lexer.Standard(), nil)
	require.Equal(t, "say 1", ansi.Strip(h.LineWithCursor("say 1", 2, 4)))
	require.Equal(t, "ab ", ansi.Strip(h.LineWithCursor("ab", 2, 4)), "cursor past the end")
	require.Equal(t, "    x", ansi.Strip(h.LineWithCursor("\tx", 0, 4)))
}
