package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspace_Build(t *testing.T) {
	w := NewWorkspace(t).
		WithFile("a.shl", "say 1").
		WithExecutable("bin/run.sh", "#!/bin/sh\n").
		WithDir("empty")
	root := w.Build()

	data, err := os.ReadFile(filepath.Join(root, "a.shl"))
	require.NoError(t, err)
	require.Equal(t, "say 1", string(data))

	info, err := os.Stat(w.Path("bin/run.sh"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o100)

	info, err = os.Stat(w.Path("empty"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, root, w.Root())
}

func TestWorkspace_SampleProject(t *testing.T) {
	w := NewWorkspace(t).WithSampleProject()
	w.Build()
	require.FileExists(t, w.Path("lib/deep/x.shl"))
	require.FileExists(t, w.Path(".git/HEAD"))
}

func TestHistory_StandardRuns(t *testing.T) {
	store := NewTestStore(t)
	runs := NewHistory(t, store).WithStandardRuns().Build()
	require.Len(t, runs, 3)

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.Equal(t, "run-launch", recent[0].ID)
	require.Equal(t, -1, recent[0].ExitCode)
	require.NotEmpty(t, recent[0].Error)

	got, err := store.Get(context.Background(), "run-err")
	require.NoError(t, err)
	require.Equal(t, 1, got.ExitCode)
	require.Equal(t, "lib/util.shl", got.Script)
}
