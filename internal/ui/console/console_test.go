package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shelldesk/internal/runner"
)

func TestAppendEvent_TranscriptLayout(t *testing.T) {
	m := New().SetSize(40, 10).StartRun()
	for _, ev := range []runner.Event{
		runner.Line{Stream: runner.Stdout, Text: "hello"},
		runner.Line{Stream: runner.Stderr, Text: "bad thing"},
		runner.Line{Stream: runner.Stderr, Text: "more"},
		runner.Exited{Code: 1},
	} {
		m = m.AppendEvent(ev)
	}

	require.Equal(t, strings.Join([]string{
		">> Executing script...",
		"hello",
		"Errors:",
		"bad thing",
		"more",
		"[Exited with code 1]",
	}, "\n"), m.Text())
}

func TestAppendEvent_LaunchFailure(t *testing.T) {
	m := New().SetSize(40, 10).StartRun()
	m = m.AppendEvent(runner.Exited{Code: -1, Err: &runner.LaunchError{Command: "python3", Err: errors.New("not found")}})
	require.Contains(t, m.Text(), "Execution failed: not found")
}

func TestStartRun_ClearsPreviousOutput(t *testing.T) {
	m := New().SetSize(40, 10).Append(Plain, "old")
	m = m.StartRun()
	require.Equal(t, runner.StartBanner, m.Text())

	m = m.AppendEvent(runner.Line{Stream: runner.Stderr, Text: "e"})
	require.Equal(t, runner.StartBanner+"\nErrors:\ne", m.Text(), "header is printed again for a new run")
}

func TestView_WrapsLongLines(t *testing.T) {
	m := New().SetSize(10, 5).Append(Plain, strings.Repeat("x", 25))
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Equal(t, strings.Repeat("x", 10), strings.TrimRight(lines[0], " "))
	require.Equal(t, strings.Repeat("x", 5), strings.TrimRight(lines[2], " "))
}

func TestAppend_FollowsTail(t *testing.T) {
	m := New().SetSize(20, 3)
	for i := range 10 {
		m = m.Append(Plain, strings.Repeat("a", i+1))
	}
	require.Contains(t, ansi.Strip(m.View()), "aaaaaaaaaa")
}

func TestAppend_CapsScrollback(t *testing.T) {
	m := New().SetSize(20, 3)
	lines := make([]string, MaxLines+10)
	for i := range lines {
		lines[i] = "x"
	}
	m = m.Append(Plain, lines...)
	require.Len(t, strings.Split(m.Text(), "\n"), MaxLines)
}
