package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestRenderPanel_Frame(t *testing.T) {
	result := RenderPanel("say 1", "main.shl", 20, 5, false)
	lines := strings.Split(result, "\n")

	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "╭")
	require.Contains(t, lines[0], "main.shl")
	require.Contains(t, lines[1], "say 1")
	require.Contains(t, lines[4], "╯")
	for _, line := range lines {
		require.Equal(t, 20, lipgloss.Width(line))
	}
}

func TestRenderPanel_ClipsLongContent(t *testing.T) {
	content := strings.Repeat("x", 50) + "\nsecond\nthird\nfourth"
	lines := strings.Split(RenderPanel(content, "", 12, 4, true), "\n")

	require.Len(t, lines, 4)
	for _, line := range lines {
		require.Equal(t, 12, lipgloss.Width(line))
	}
	require.Contains(t, lines[1], "...")
	require.NotContains(t, strings.Join(lines, "\n"), "third")
}

func TestRenderPanel_TitleTooNarrow(t *testing.T) {
	top := strings.Split(RenderPanel("", "a very long title", 5, 3, false), "\n")[0]
	require.NotContains(t, top, "a very")
	require.Equal(t, 5, lipgloss.Width(top))
}
