package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.shl")
	require.NoError(t, os.WriteFile(file, []byte("say 1"), 0o644))

	got, err := ResolveTarget(dir)
	require.NoError(t, err)
	require.Equal(t, Target{Workspace: dir}, got)

	got, err = ResolveTarget(file)
	require.NoError(t, err)
	require.Equal(t, Target{Workspace: dir, File: file}, got)

	fresh := filepath.Join(dir, "new.shl")
	got, err = ResolveTarget(fresh)
	require.NoError(t, err)
	require.Equal(t, Target{Workspace: dir, File: fresh}, got)

	_, err = ResolveTarget(filepath.Join(dir, "missing", "x.shl"))
	require.ErrorContains(t, err, "no such directory")
}

func TestResolveTarget_EmptyIsCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolveTarget("")
	require.NoError(t, err)
	require.Equal(t, cwd, got.Workspace)
	require.Empty(t, got.File)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	require.Equal(t, home, ExpandHome("~"))
	require.Equal(t, "/abs", ExpandHome("/abs"))
	require.Equal(t, "~user/x", ExpandHome("~user/x"))
}

func TestDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	require.Equal(t, filepath.Join("/tmp/xdg", AppName), DataDir())
}

func TestRel(t *testing.T) {
	require.Equal(t, "src/a.shl", Rel("/w", "/w/src/a.shl"))
	require.Equal(t, "/other/a.shl", Rel("/w", "/other/a.shl"))
	require.Equal(t, "/w/a.shl", Rel("", "/w/a.shl"))
}
