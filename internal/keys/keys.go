// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// Workbench holds the global bindings, active whatever pane has focus.
var Workbench = struct {
	New         key.Binding
	Open        key.Binding
	OpenFolder  key.Binding
	Save        key.Binding
	SaveAs      key.Binding
	CloseTab    key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Run         key.Binding
	CancelRun   key.Binding
	ShowChanges key.Binding
	FocusTree   key.Binding
	Help        key.Binding
	ToggleLog   key.Binding
	Quit        key.Binding
}{
	New: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new file"),
	),
	Open: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open file"),
	),
	OpenFolder: key.NewBinding(
		key.WithKeys("alt+o"),
		key.WithHelp("alt+o", "open folder"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	SaveAs: key.NewBinding(
		key.WithKeys("alt+s"),
		key.WithHelp("alt+s", "save as"),
	),
	CloseTab: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "close tab"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("alt+]"),
		key.WithHelp("alt+]", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("alt+["),
		key.WithHelp("alt+[", "previous tab"),
	),
	Run: key.NewBinding(
		key.WithKeys("ctrl+r", "f5"),
		key.WithHelp("ctrl+r", "run script"),
	),
	CancelRun: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "stop script"),
	),
	ShowChanges: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "unsaved changes"),
	),
	FocusTree: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "toggle tree focus"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+g", "f1"),
		key.WithHelp("ctrl+g", "help"),
	),
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "debug log"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q", "ctrl+c"),
		key.WithHelp("ctrl+q", "quit"),
	),
}

// Editor holds the bindings handled by the editor pane.
var Editor = struct {
	Undo       key.Binding
	Redo       key.Binding
	CutLine    key.Binding
	CopyLine   key.Binding
	Paste      key.Binding
	Accept     key.Binding
	Dismiss    key.Binding
	PrevItem   key.Binding
	NextItem   key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	LineStart  key.Binding
	LineEnd    key.Binding
	DocStart   key.Binding
	DocEnd     key.Binding
	WordLeft   key.Binding
	WordRight  key.Binding
	Complete   key.Binding
	DeleteWord key.Binding
}{
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("ctrl+z", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "redo"),
	),
	CutLine: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "cut line"),
	),
	CopyLine: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("alt+c", "copy line"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste"),
	),
	Accept: key.NewBinding(
		key.WithKeys("tab", "enter"),
		key.WithHelp("tab/enter", "accept completion"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss completion"),
	),
	PrevItem: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous completion"),
	),
	NextItem: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next completion"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	LineStart: key.NewBinding(
		key.WithKeys("home", "ctrl+a"),
		key.WithHelp("home", "line start"),
	),
	LineEnd: key.NewBinding(
		key.WithKeys("end", "ctrl+e"),
		key.WithHelp("end", "line end"),
	),
	DocStart: key.NewBinding(
		key.WithKeys("ctrl+home"),
		key.WithHelp("ctrl+home", "top"),
	),
	DocEnd: key.NewBinding(
		key.WithKeys("ctrl+end"),
		key.WithHelp("ctrl+end", "bottom"),
	),
	WordLeft: key.NewBinding(
		key.WithKeys("alt+left", "ctrl+left", "alt+b"),
		key.WithHelp("alt+←", "word left"),
	),
	WordRight: key.NewBinding(
		key.WithKeys("alt+right", "ctrl+right", "alt+f"),
		key.WithHelp("alt+→", "word right"),
	),
	Complete: key.NewBinding(
		key.WithKeys("ctrl+@"),
		key.WithHelp("ctrl+space", "complete"),
	),
	DeleteWord: key.NewBinding(
		key.WithKeys("alt+backspace"),
		key.WithHelp("alt+bksp", "delete word"),
	),
}

// Tree holds the bindings handled by the file tree pane.
var Tree = struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Collapse key.Binding
	Refresh  key.Binding
}{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open / expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

// Prompt holds the bindings of the path prompt.
var Prompt = struct {
	Confirm key.Binding
	Cancel  key.Binding
}{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Overlay holds the bindings of the help and changes overlays.
var Overlay = struct {
	Close      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}{
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "close"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up", "pgup"),
		key.WithHelp("k/↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down", "pgdown"),
		key.WithHelp("j/↓", "scroll down"),
	),
}

// HelpMap adapts the global bindings to bubbles/help.
type HelpMap struct{}

// ShortHelp returns keybindings for the status bar hint.
func (HelpMap) ShortHelp() []key.Binding {
	w := Workbench
	return []key.Binding{w.Save, w.Run, w.Open, w.Help, w.Quit}
}

// FullHelp returns keybindings grouped for the help overlay.
func (HelpMap) FullHelp() [][]key.Binding {
	w, e := Workbench, Editor
	return [][]key.Binding{
		{w.New, w.Open, w.OpenFolder, w.Save, w.SaveAs, w.CloseTab, w.NextTab, w.PrevTab}, // Files
		{w.Run, w.CancelRun, w.ShowChanges},                                               // Script
		{e.Undo, e.Redo, e.CutLine, e.CopyLine, e.Paste, e.Complete, e.Accept, e.Dismiss}, // Editing
		{w.FocusTree, w.Help, w.Quit},                                                     // General
	}
}
