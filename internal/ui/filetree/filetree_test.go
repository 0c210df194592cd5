package filetree

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shelldesk/internal/testutil"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func workspace(t *testing.T) string {
	t.Helper()
	return testutil.NewWorkspace(t).
		WithFile("lib/util.shl", "say 1").
		WithFile("main.shl", "say 2").
		WithFile(".hidden", "").
		Build()
}

func newTree(t *testing.T) Model {
	return New(workspace(t)).SetSize(30, 10).Focus()
}

func TestView_ListsDirsFirstWithoutHidden(t *testing.T) {
	m := newTree(t)
	view := ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, "▸ lib")
	require.Contains(t, view, "main.shl")
	require.NotContains(t, view, ".hidden")
	require.Len(t, m.Rows(), 2)
	require.True(t, m.Rows()[0].Dir)
}

func TestEnter_ExpandsDirectory(t *testing.T) {
	m := newTree(t)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	expanded, ok := cmd().(ExpandedMsg)
	require.True(t, ok)
	require.Len(t, expanded.Dirs, 2)
	require.Len(t, m.Rows(), 3)
	require.Equal(t, "util.shl", m.Rows()[1].Name)
}

func TestEnter_OpensFile(t *testing.T) {
	m := newTree(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, OpenFileMsg{Path: filepath.Join(m.Root(), "main.shl")}, cmd())
}

func TestCollapse_FromFileJumpsToParent(t *testing.T) {
	m := newTree(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	node, _ := m.Selected()
	require.Equal(t, "util.shl", node.Name)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	node, _ = m.Selected()
	require.Equal(t, "lib", node.Name)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Len(t, m.Rows(), 2)
}

func TestUnfocused_IgnoresKeys(t *testing.T) {
	m := newTree(t).Blur()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
}

func TestReveal_ExpandsParents(t *testing.T) {
	m := newTree(t)
	path := filepath.Join(m.Root(), "lib", "util.shl")
	m = m.Reveal(path)
	node, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, path, node.Path)
}

func TestRefresh_PicksUpNewFiles(t *testing.T) {
	m := newTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.Root(), "new.shl"), nil, 0o644))
	m = m.Refresh()
	require.Len(t, m.Rows(), 3)
}

func TestSetRoot_MissingDirectoryShowsError(t *testing.T) {
	m := newTree(t).SetRoot(filepath.Join(t.TempDir(), "gone"))
	require.Error(t, m.Err())
	require.Contains(t, ansi.Strip(m.View()), "reading workspace")
}

func TestClick_OpensFile(t *testing.T) {
	m := newTree(t)

	var z *zone.ZoneInfo
	for range 10 {
		_ = zone.Scan(m.View())
		z = zone.Get(rowZone(1))
		if z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, cmd, hit := m.Click(tea.MouseMsg{
		X:      z.StartX + 1,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})
	require.True(t, hit)
	require.NotNil(t, cmd)
	require.Equal(t, OpenFileMsg{Path: filepath.Join(m.Root(), "main.shl")}, cmd())
}
