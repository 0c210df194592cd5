package prompt

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	m, _ := New().Open(OpenFile, "~/")
	require.True(t, m.Active())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a.shl")})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.Active())
	require.Equal(t, SubmitMsg{Purpose: OpenFile, Path: filepath.Join(home, "a.shl")}, cmd())
}

func TestCancel(t *testing.T) {
	m, _ := New().Open(SaveAs, "/tmp/x.shl")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Active())
	require.Equal(t, CancelMsg{}, cmd())
}

func TestEmptySubmitCancels(t *testing.T) {
	m, _ := New().Open(OpenFolder, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, CancelMsg{}, cmd())
}

func TestInactiveIgnoresInput(t *testing.T) {
	m := New()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
}
