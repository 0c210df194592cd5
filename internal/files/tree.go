package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Node is one visible row of the workspace tree.
type Node struct {
	Name     string
	Path     string
	Dir      bool
	Depth    int
	Expanded bool
}

// Tree lists a workspace directory with expandable subdirectories.
// Hidden entries (leading dot) are skipped and directories sort first.
type Tree struct {
	root     string
	expanded map[string]bool
	rows     []Node
}

// NewTree creates a tree rooted at root. Call Refresh to list it.
func NewTree(root string) *Tree {
	return &Tree{root: filepath.Clean(root), expanded: make(map[string]bool)}
}

// Root returns the workspace directory.
func (t *Tree) Root() string {
	return t.root
}

// SetRoot switches to a new workspace and collapses everything.
func (t *Tree) SetRoot(root string) error {
	t.root = filepath.Clean(root)
	t.expanded = make(map[string]bool)
	return t.Refresh()
}

// Rows returns the visible rows in display order.
func (t *Tree) Rows() []Node {
	return t.rows
}

// Refresh re-reads the directories on disk. Expanded directories that no
// longer exist are forgotten.
func (t *Tree) Refresh() error {
	info, err := os.Stat(t.root)
	if err != nil {
		return fmt.Errorf("reading workspace: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace %s is not a directory", t.root)
	}

	for dir := range t.expanded {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			delete(t.expanded, dir)
		}
	}

	var rows []Node
	if err := t.appendDir(&rows, t.root, 0); err != nil {
		return err
	}
	t.rows = rows
	return nil
}

func (t *Tree) appendDir(rows *[]Node, dir string, depth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}

	visible := entries[:0]
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			visible = append(visible, e)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsDir() != visible[j].IsDir() {
			return visible[i].IsDir()
		}
		return strings.ToLower(visible[i].Name()) < strings.ToLower(visible[j].Name())
	})

	for _, e := range visible {
		path := filepath.Join(dir, e.Name())
		node := Node{Name: e.Name(), Path: path, Dir: e.IsDir(), Depth: depth, Expanded: t.expanded[path]}
		*rows = append(*rows, node)
		if node.Dir && node.Expanded {
			// An unreadable subdirectory shows as empty rather than
			// failing the whole listing.
			_ = t.appendDir(rows, path, depth+1)
		}
	}
	return nil
}

// Toggle expands or collapses the directory at path.
func (t *Tree) Toggle(path string) error {
	if t.expanded[path] {
		delete(t.expanded, path)
	} else {
		t.expanded[path] = true
	}
	return t.Refresh()
}

// Expand makes sure every directory between the root and path is expanded,
// so a file opened from elsewhere is visible in the tree.
func (t *Tree) Expand(path string) error {
	rel, err := filepath.Rel(t.root, filepath.Dir(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	dir := t.root
	if rel != "." {
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			dir = filepath.Join(dir, part)
			t.expanded[dir] = true
		}
	}
	return t.Refresh()
}

// Dirs returns the root and every expanded directory, for watching.
func (t *Tree) Dirs() []string {
	out := []string{t.root}
	for dir := range t.expanded {
		out = append(out, dir)
	}
	sort.Strings(out[1:])
	return out
}

// Index returns the row index of path, or -1.
func (t *Tree) Index(path string) int {
	for i, n := range t.rows {
		if n.Path == path {
			return i
		}
	}
	return -1
}
