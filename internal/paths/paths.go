// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config and data directories.
const AppName = "shelldesk"

// ConfigDir returns ~/.config/shelldesk, or "" if the home directory is
// unavailable.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// DataDir returns the directory for the run history database and traces.
// XDG_DATA_HOME is honored; otherwise ~/.local/share/shelldesk.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Target is what a command-line path argument resolved to.
type Target struct {
	// Workspace is the directory shown in the file tree.
	Workspace string
	// File is set when the argument named a file to open.
	File string
}

// ResolveTarget turns a command-line argument into a workspace and an
// optional file. An empty argument means the current directory. A file that
// does not exist yet is accepted so it can be created on first save.
//
//   - "" -> cwd
//   - "/proj" (dir) -> workspace /proj
//   - "/proj/main.shl" -> workspace /proj, file /proj/main.shl
func ResolveTarget(arg string) (Target, error) {
	if arg == "" {
		arg = "."
	}
	abs, err := filepath.Abs(ExpandHome(arg))
	if err != nil {
		return Target{}, fmt.Errorf("resolving %s: %w", arg, err)
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return Target{Workspace: abs}, nil
	case err == nil, os.IsNotExist(err):
		dir := filepath.Dir(abs)
		if st, derr := os.Stat(dir); derr != nil || !st.IsDir() {
			return Target{}, fmt.Errorf("no such directory: %s", dir)
		}
		return Target{Workspace: dir, File: abs}, nil
	default:
		return Target{}, fmt.Errorf("stat %s: %w", abs, err)
	}
}

// Rel returns path relative to base for display, falling back to path.
func Rel(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
