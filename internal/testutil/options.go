package testutil

import (
	"time"

	"github.com/zjrosen/shelldesk/internal/history"
)

// RunOption configures a run during builder setup.
type RunOption func(*history.Run)

// defaultRun returns a successful run with sensible defaults.
func defaultRun(id string) history.Run {
	return history.Run{
		ID:        id,
		Script:    id + ".shl",
		StartedAt: time.Now(),
		Duration:  100 * time.Millisecond,
	}
}

// Script sets the run's script label.
func Script(s string) RunOption {
	return func(r *history.Run) { r.Script = s }
}

// ExitCode sets the exit code.
func ExitCode(code int) RunOption {
	return func(r *history.Run) { r.ExitCode = code }
}

// Output sets the captured output.
func Output(s string) RunOption {
	return func(r *history.Run) { r.Output = s }
}

// Failed marks the run as failed to launch or cancelled.
func Failed(msg string) RunOption {
	return func(r *history.Run) {
		r.Error = msg
		if r.ExitCode == 0 {
			r.ExitCode = -1
		}
	}
}

// StartedAt sets the start time.
func StartedAt(t time.Time) RunOption {
	return func(r *history.Run) { r.StartedAt = t }
}

// Duration sets the run duration.
func Duration(d time.Duration) RunOption {
	return func(r *history.Run) { r.Duration = d }
}
