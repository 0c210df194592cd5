package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_IsReady(t *testing.T) {
	require.Equal(t, "Ready", New().Message())
}

func TestView_MessageLeftInfoRight(t *testing.T) {
	m := New().SetWidth(60).Set("Saved: main.shl", LevelSuccess)
	view := ansi.Strip(m.View(Info{Language: "ShellLite", Line: 3, Col: 7, Dirty: true}))
	require.Equal(t, 60, ansi.StringWidth(view))
	require.True(t, strings.HasPrefix(view, " Saved: main.shl"))
	require.True(t, strings.HasSuffix(strings.TrimRight(view, " "), "●  ShellLite  Ln 3, Col 7"))
}

func TestView_TruncatesLongMessage(t *testing.T) {
	m := New().SetWidth(30).Set(strings.Repeat("x", 100), LevelError)
	view := ansi.Strip(m.View(Info{Line: 1, Col: 1}))
	require.Equal(t, 30, ansi.StringWidth(view))
	require.Contains(t, view, "...")
}

func TestFlash_ExpiresOnlyLatest(t *testing.T) {
	m, _ := New().Flash("first", LevelInfo, time.Second)
	stale := ExpireMsg{Gen: m.gen}
	m, _ = m.Flash("second", LevelInfo, time.Second)

	m = m.Update(stale)
	require.Equal(t, "second", m.Message())

	m = m.Update(ExpireMsg{Gen: m.gen})
	require.Equal(t, "Ready", m.Message())
}
