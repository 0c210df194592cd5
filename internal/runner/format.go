package runner

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Console headings.
const (
	StartBanner  = ">> Executing script..."
	ErrorsHeader = "Errors:"
)

// WaitForEvent returns a command that yields the run's next event as a
// message (a Line or an Exited), or nil once the run is over.
func WaitForEvent(run *Run) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-run.Events()
		if !ok {
			return nil
		}
		return ev
	}
}

// ExitSummary is the console line printed when a run ends.
func ExitSummary(e Exited) string {
	var launch *LaunchError
	switch {
	case errors.As(e.Err, &launch):
		return "Execution failed: " + launch.Err.Error()
	case errors.Is(e.Err, ErrCanceled):
		return fmt.Sprintf("[Cancelled after %s]", e.Duration.Round(time.Millisecond))
	case errors.Is(e.Err, ErrTimeout):
		return fmt.Sprintf("[Timed out after %s]", e.Duration.Round(time.Millisecond))
	case e.Err != nil:
		return "Execution failed: " + e.Err.Error()
	}
	return fmt.Sprintf("[Exited with code %d]", e.Code)
}

// Transcript formats console output the way the console pane shows it:
// stdout lines as is, stderr lines after a single "Errors:" header.
type Transcript struct {
	sawStderr bool
}

// Lines returns the console lines for ev.
func (t *Transcript) Lines(ev Event) []string {
	switch ev := ev.(type) {
	case Line:
		if ev.Stream == Stderr && !t.sawStderr {
			t.sawStderr = true
			return []string{ErrorsHeader, ev.Text}
		}
		return []string{ev.Text}
	case Exited:
		return []string{ExitSummary(ev)}
	}
	return nil
}
