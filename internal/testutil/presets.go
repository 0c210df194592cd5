package testutil

import "time"

// WithSampleProject adds a small ShellLite project.
//
// Structure:
//
//	main.shl
//	README.md
//	lib/util.shl
//	lib/deep/x.shl
//	.hidden         (not listed)
//	.git/HEAD       (not listed)
func (w *Workspace) WithSampleProject() *Workspace {
	return w.
		WithFile("main.shl", "use lib.util\ngreeting = \"hi\"\nsay greeting\n").
		WithFile("README.md", "# sample\n").
		WithFile("lib/util.shl", "fn shout(x)\n  say x\n").
		WithFile("lib/deep/x.shl", "say 1\n").
		WithFile(".hidden", "").
		WithFile(".git/HEAD", "ref: refs/heads/main\n")
}

// WithStandardRuns adds three runs an hour apart, oldest first: a success,
// a script error, and a launch failure.
func (h *History) WithStandardRuns() *History {
	base := time.Now().Add(-3 * time.Hour)
	return h.
		WithRun("run-ok", Script("main.shl"), Output("hi\n"), StartedAt(base)).
		WithRun("run-err", Script("lib/util.shl"), ExitCode(1),
			Output("Errors:\nname error\n"), StartedAt(base.Add(time.Hour))).
		WithRun("run-launch", Script("main.shl"), Failed("exec: \"shl\": executable file not found in $PATH"),
			StartedAt(base.Add(2*time.Hour)))
}
