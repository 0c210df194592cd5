package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/shelldesk/internal/config"
	"github.com/zjrosen/shelldesk/internal/files"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/runner"
	"github.com/zjrosen/shelldesk/internal/ui/changes"
	"github.com/zjrosen/shelldesk/internal/ui/editor"
	"github.com/zjrosen/shelldesk/internal/ui/prompt"
	"github.com/zjrosen/shelldesk/internal/ui/statusbar"
)

const untitledName = "Untitled.shl"

func (m Model) newEditor(path, text, language string) editor.Model {
	e := editor.New(editor.Options{
		Path:            path,
		Text:            text,
		Language:        language,
		TabWidth:        m.cfg.Editor.TabWidth,
		ScanDebounce:    m.cfg.Editor.ScanDebounce,
		Threshold:       m.cfg.Editor.AutocompleteThreshold,
		MaxCompletions:  m.cfg.Editor.MaxCompletions,
		ShowLineNumbers: m.cfg.UI.ShowLineNumbers,
		Seed:            m.seed,
		Highlighter:     m.highlighter,
		Clipboard:       m.clipboard,
	})
	w, h := m.editorSize()
	e.SetSize(w, h)
	return e
}

// addTab appends e and, when focus is set, makes it the active tab.
func (m Model) addTab(e editor.Model, focus bool) Model {
	m.tabs = append(m.tabs, e)
	if focus || m.active < 0 {
		m = m.switchTab(len(m.tabs) - 1)
	}
	return m
}

func (m Model) tabFor(path string) int {
	for i := range m.tabs {
		if m.tabs[i].Path() != "" && m.tabs[i].Path() == path {
			return i
		}
	}
	return -1
}

// switchTab activates tab i, wrapping around at either end.
func (m Model) switchTab(i int) Model {
	if len(m.tabs) == 0 {
		m.active = -1
		return m
	}
	i = (i%len(m.tabs) + len(m.tabs)) % len(m.tabs)
	if m.active >= 0 && m.active < len(m.tabs) {
		m.tabs[m.active].Blur()
	}
	m.active = i
	return m.setFocus(focusEditor)
}

func (m Model) newFile() Model {
	m = m.addTab(m.newEditor("", "", files.LanguageShellLite), true)
	m.status = m.status.Set("Created new file", statusbar.LevelInfo)
	return m
}

// openPath switches to path if it is already open, otherwise starts a
// background load.
func (m Model) openPath(path string) (Model, tea.Cmd) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if i := m.tabFor(path); i >= 0 {
		m = m.switchTab(i)
		m.status = m.status.Set("Switched to: "+filepath.Base(path), statusbar.LevelInfo)
		return m, nil
	}
	req := m.tracker.Begin(path)
	m.status = m.status.Set("Loading: "+filepath.Base(path)+"...", statusbar.LevelInfo)
	return m, files.LoadCmd(req)
}

func (m Model) handleLoaded(msg files.LoadedMsg) (tea.Model, tea.Cmd) {
	decision := m.tracker.Accept(msg.Seq, msg.Path)
	if decision == files.Discard {
		log.Debug(log.CatFiles, "discarding stale load", "path", msg.Path, "seq", msg.Seq)
		return m, nil
	}
	focus := decision == files.OpenAndFocus
	if i := m.tabFor(msg.Path); i >= 0 {
		// Opened while this load was in flight.
		if focus {
			m = m.switchTab(i)
		}
		return m, nil
	}
	m = m.addTab(m.newEditor(msg.Path, msg.Content, msg.Language), focus)
	if focus {
		m.tree = m.tree.Reveal(msg.Path)
		m.status = m.status.Set("Editing: "+filepath.Base(msg.Path), statusbar.LevelInfo)
	}
	return m, nil
}

// handleLoadFailed opens an empty tab for a start-up file that does not
// exist yet; anything else is reported.
func (m Model) handleLoadFailed(msg files.LoadFailedMsg) (tea.Model, tea.Cmd) {
	decision := m.tracker.Accept(msg.Seq, msg.Path)
	if decision == files.Discard {
		return m, nil
	}
	if msg.Path == m.initialFile && errors.Is(msg.Err, fs.ErrNotExist) {
		m = m.addTab(m.newEditor(msg.Path, "", files.Language(msg.Path, nil)), true)
		m.status = m.status.Set("Created new file", statusbar.LevelInfo)
		return m, nil
	}
	m.status = m.status.Set("Error: "+msg.Err.Error(), statusbar.LevelError)
	return m, nil
}

func (m Model) openPrompt(purpose prompt.Purpose, initial string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.prompt = m.prompt.SetWidth(m.width)
	m.prompt, cmd = m.prompt.Open(purpose, initial)
	return m, cmd
}

// promptDir is the initial value of path prompts: the directory of the
// current file, or the workspace.
func (m Model) promptDir() string {
	dir := m.tree.Root()
	if m.active >= 0 && m.tabs[m.active].Path() != "" {
		dir = filepath.Dir(m.tabs[m.active].Path())
	}
	if dir == "" {
		return ""
	}
	return dir + string(filepath.Separator)
}

func (m Model) handlePrompt(msg prompt.SubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.Purpose {
	case prompt.OpenFile:
		return m.openPath(msg.Path)
	case prompt.OpenFolder:
		return m.openFolder(msg.Path), nil
	case prompt.SaveAs:
		return m.saveAs(msg.Path), nil
	}
	return m, nil
}

func (m Model) openFolder(dir string) Model {
	abs, err := filepath.Abs(dir)
	if err != nil {
		m.status = m.status.Set("Error: "+err.Error(), statusbar.LevelError)
		return m
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		m.status = m.status.Set("Error: not a directory: "+abs, statusbar.LevelError)
		return m
	}

	m.cfg.Workspace = abs
	m.tree = m.tree.SetRoot(abs)
	m.runner.SetWorkDir(abs)
	m.syncWatcher(m.tree.Dirs())
	if m.configPath != "" {
		if err := config.SaveWorkspace(m.configPath, abs); err != nil {
			log.Warn(log.CatConfig, "failed to persist workspace", "error", err)
		}
	}
	log.Info(log.CatFiles, "workspace changed", "dir", abs)
	m.status = m.status.Set("Workspace: "+abs, statusbar.LevelInfo)
	return m
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.active < 0 {
		return m, nil
	}
	if m.tabs[m.active].Path() == "" {
		return m.saveAsPrompt()
	}
	path := m.tabs[m.active].Path()
	if err := files.Save(context.Background(), path, m.tabs[m.active].Value()); err != nil {
		m.status = m.status.Set("Error saving: "+err.Error(), statusbar.LevelError)
		return m, nil
	}
	m.tabs[m.active].MarkSaved()
	m.status = m.status.Set("Saved: "+filepath.Base(path), statusbar.LevelSuccess)
	return m, nil
}

func (m Model) saveAsPrompt() (tea.Model, tea.Cmd) {
	if m.active < 0 {
		return m, nil
	}
	initial := m.tabs[m.active].Path()
	if initial == "" {
		initial = m.promptDir() + untitledName
	}
	return m.openPrompt(prompt.SaveAs, initial)
}

// saveAs writes the active buffer to path and rekeys its tab. The tab keeps
// its old path if the write fails.
func (m Model) saveAs(path string) Model {
	if m.active < 0 {
		return m
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if i := m.tabFor(path); i >= 0 && i != m.active {
		m.status = m.status.Set(fmt.Sprintf("Error: %s is open in another tab", filepath.Base(path)), statusbar.LevelError)
		return m
	}
	content := m.tabs[m.active].Value()
	if err := files.Save(context.Background(), path, content); err != nil {
		m.status = m.status.Set("Error saving: "+err.Error(), statusbar.LevelError)
		return m
	}
	m.tabs[m.active].SetPath(path)
	m.tabs[m.active].SetLanguage(files.Language(path, []byte(content)))
	m.tabs[m.active].MarkSaved()
	m.tree = m.tree.Refresh().Reveal(path)
	m.status = m.status.Set("Saved as: "+filepath.Base(path), statusbar.LevelSuccess)
	return m
}

// closeTab closes the active tab. Unsaved tabs need a second press.
func (m Model) closeTab() Model {
	if m.active < 0 {
		return m
	}
	tab := m.tabs[m.active]
	if tab.Dirty() && m.confirmClose != tab.ID() {
		m.confirmClose = tab.ID()
		m.status = m.status.Set(fmt.Sprintf("Unsaved changes in %s; press %s again to close",
			tabTitle(tab), keys.Workbench.CloseTab.Help().Key), statusbar.LevelWarn)
		return m
	}
	m.confirmClose = -1
	m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
	if len(m.tabs) == 0 {
		m.active = -1
		m.status = m.status.Set("Ready", statusbar.LevelInfo)
		return m.setFocus(focusTree)
	}
	next := min(m.active, len(m.tabs)-1)
	m.active = -1
	m = m.switchTab(next)
	m.status = m.status.Set("Switched to: "+tabTitle(m.tabs[m.active]), statusbar.LevelInfo)
	return m
}

// quit exits, asking for a second press while any tab is unsaved.
func (m Model) quit() (tea.Model, tea.Cmd) {
	dirty := 0
	for i := range m.tabs {
		if m.tabs[i].Dirty() {
			dirty++
		}
	}
	if dirty > 0 && !m.confirmQuit {
		m.confirmQuit = true
		m.status = m.status.Set(fmt.Sprintf("%d unsaved file(s); press %s again to quit",
			dirty, keys.Workbench.Quit.Help().Key), statusbar.LevelWarn)
		return m, nil
	}
	if err := m.Close(); err != nil {
		log.ErrorErr(log.CatUI, "shutdown failed", err)
	}
	return m, tea.Quit
}

// startRun starts the active buffer in the interpreter.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	if m.active < 0 {
		m.status = m.status.Set("Error: no file to run", statusbar.LevelError)
		return m, nil
	}
	tab := m.tabs[m.active]
	run, err := m.runner.Start(context.Background(), tab.Value(), tabTitle(tab))
	switch {
	case errors.Is(err, runner.ErrBusy):
		m.status = m.status.Set("A script is already running", statusbar.LevelWarn)
		return m, nil
	case err != nil:
		m.status = m.status.Set("Error saving temp file: "+err.Error(), statusbar.LevelError)
		return m, nil
	}
	log.Info(log.CatRunner, "run requested", "id", run.ID, "label", run.Label)
	m.run = run
	m.console = m.console.StartRun()
	m.status = m.status.Set("Running: "+tabTitle(tab), statusbar.LevelInfo)
	return m, runner.WaitForEvent(run)
}

// waitForRun keeps draining the current run's events. The runner drops its
// active run before the last events are read, so the model holds its own
// reference.
func (m Model) waitForRun() tea.Cmd {
	if m.run == nil {
		return nil
	}
	return runner.WaitForEvent(m.run)
}

func (m Model) handleExited(msg runner.Exited) (tea.Model, tea.Cmd) {
	if m.run == nil || msg.RunID != m.run.ID {
		return m, nil
	}
	m.run = nil
	m.console = m.console.AppendEvent(msg)
	level := statusbar.LevelSuccess
	if msg.Err != nil || msg.Code != 0 {
		level = statusbar.LevelError
	}
	var cmd tea.Cmd
	m.status, cmd = m.status.Flash(runner.ExitSummary(msg), level, statusFlash)
	return m, cmd
}

func (m Model) cancelRun() Model {
	run := m.run
	if run == nil {
		m.status = m.status.Set("No script is running", statusbar.LevelInfo)
		return m
	}
	run.Cancel()
	m.status = m.status.Set("Stopping script...", statusbar.LevelWarn)
	return m
}

func (m Model) showChanges() Model {
	if m.active < 0 {
		return m
	}
	tab := m.tabs[m.active]
	c := changes.New("Changes: "+tabTitle(tab), tab.SavedValue(), tab.Value())
	if c.Empty() {
		m.status = m.status.Set("No unsaved changes", statusbar.LevelInfo)
		return m
	}
	m.changes = c.SetSize(m.width, m.height)
	m.overlay = overlayChanges
	return m
}

func tabTitle(e editor.Model) string {
	if e.Path() == "" {
		return untitledName
	}
	return filepath.Base(e.Path())
}
