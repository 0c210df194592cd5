// Package testutil provides fixtures for tests: on-disk workspaces and a
// seeded run history.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fileData holds a file to be written.
type fileData struct {
	rel     string
	content string
	mode    os.FileMode
}

// Workspace accumulates files and directories and writes them under a
// temporary root.
type Workspace struct {
	t     *testing.T
	root  string
	dirs  []string
	files []fileData
}

// NewWorkspace creates a builder rooted at a fresh t.TempDir().
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{t: t, root: t.TempDir()}
}

// WithFile adds a file. rel uses forward slashes; parents are created.
func (w *Workspace) WithFile(rel, content string) *Workspace {
	w.files = append(w.files, fileData{rel: rel, content: content, mode: 0o644})
	return w
}

// WithExecutable adds a file with the executable bit set.
func (w *Workspace) WithExecutable(rel, content string) *Workspace {
	w.files = append(w.files, fileData{rel: rel, content: content, mode: 0o755})
	return w
}

// WithDir adds an empty directory.
func (w *Workspace) WithDir(rel string) *Workspace {
	w.dirs = append(w.dirs, rel)
	return w
}

// Build writes everything and returns the root.
func (w *Workspace) Build() string {
	w.t.Helper()
	for _, d := range w.dirs {
		require.NoError(w.t, os.MkdirAll(w.Path(d), 0o755))
	}
	for _, f := range w.files {
		path := w.Path(f.rel)
		require.NoError(w.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(w.t, os.WriteFile(path, []byte(f.content), f.mode))
	}
	return w.root
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path joins rel onto the root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}
