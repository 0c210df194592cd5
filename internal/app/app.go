// Package app contains the root application model.
package app

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/shelldesk/internal/completion"
	"github.com/zjrosen/shelldesk/internal/config"
	"github.com/zjrosen/shelldesk/internal/files"
	"github.com/zjrosen/shelldesk/internal/keys"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/pubsub"
	"github.com/zjrosen/shelldesk/internal/runner"
	"github.com/zjrosen/shelldesk/internal/ui/changes"
	"github.com/zjrosen/shelldesk/internal/ui/console"
	"github.com/zjrosen/shelldesk/internal/ui/editor"
	"github.com/zjrosen/shelldesk/internal/ui/filetree"
	"github.com/zjrosen/shelldesk/internal/ui/help"
	"github.com/zjrosen/shelldesk/internal/ui/logoverlay"
	"github.com/zjrosen/shelldesk/internal/ui/prompt"
	"github.com/zjrosen/shelldesk/internal/ui/statusbar"
	"github.com/zjrosen/shelldesk/internal/watcher"
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusTree
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayChanges
)

// Options wires the application's collaborators. Zero values fall back to
// the real implementations.
type Options struct {
	// ConfigPath is where the workspace choice is persisted. Empty disables
	// persisting.
	ConfigPath string
	// File is opened on start.
	File      string
	DebugMode bool

	Runner      *runner.Runner
	Clipboard   editor.Clipboard
	Highlighter *editor.Highlighter
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	seed       completion.Seed

	width  int
	height int
	focus  focusArea

	tree    filetree.Model
	tabs    []editor.Model
	active  int
	console console.Model
	status  statusbar.Model
	prompt  prompt.Model

	overlay overlayKind
	help    help.Model
	changes changes.Model

	tracker     *files.Tracker
	runner      *runner.Runner
	run         *runner.Run
	clipboard   editor.Clipboard
	highlighter *editor.Highlighter
	initialFile string

	// Set by a first ctrl+w / ctrl+q on unsaved work; the second press
	// goes through.
	confirmClose int64
	confirmQuit  bool

	debugMode   bool
	logOverlay  logoverlay.Model
	logCancel   context.CancelFunc
	logListener *log.LogListener

	// File watcher for tree refresh (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Change]
}

// New creates the root model for cfg.Workspace.
func New(cfg config.Config, opts Options) Model {
	if opts.Runner == nil {
		opts.Runner = runner.New(runnerConfig(cfg))
	}
	if opts.Clipboard == nil {
		opts.Clipboard = editor.SystemClipboard{}
	}
	if opts.Highlighter == nil {
		opts.Highlighter = editor.DefaultHighlighter()
	}
	opts.Runner.SetWorkDir(cfg.Workspace)
	if opts.File != "" {
		if abs, err := filepath.Abs(opts.File); err == nil {
			opts.File = abs
		}
	}

	m := Model{
		cfg:          cfg,
		configPath:   opts.ConfigPath,
		seed:         completion.DefaultSeed().With(cfg.Completion.Keywords, cfg.Completion.Stdlib),
		tree:         filetree.New(cfg.Workspace),
		active:       -1,
		console:      console.New(),
		status:       statusbar.New(),
		prompt:       prompt.New(),
		tracker:      files.NewTracker(),
		runner:       opts.Runner,
		clipboard:    opts.Clipboard,
		highlighter:  opts.Highlighter,
		initialFile:  opts.File,
		confirmClose: -1,
		debugMode:    opts.DebugMode,
		logOverlay:   logoverlay.New(),
	}
	m.help = help.New(m.seed, cfg.UI.MarkdownStyle)

	if cfg.Watch.Enabled && cfg.Workspace != "" {
		wcfg := watcher.DefaultConfig()
		if cfg.Watch.Debounce > 0 {
			wcfg.Debounce = cfg.Watch.Debounce
		}
		wcfg.Ignore = []string{filepath.Base(m.runner.TempPath())}
		w, err := watcher.New(wcfg)
		if err == nil {
			if err := w.Sync(m.tree.Dirs()); err == nil {
				m.watcherHandle = w
				m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
				m.watcherListener = pubsub.NewContinuousListener(m.watcherCtx, w.Broker())
			} else {
				log.Warn(log.CatWatcher, "watcher sync failed", "error", err)
				_ = w.Stop()
			}
		} else {
			// The tree still refreshes on demand without a watcher.
			log.Warn(log.CatWatcher, "watcher unavailable", "error", err)
		}
	}

	if opts.DebugMode {
		var ctx context.Context
		ctx, m.logCancel = context.WithCancel(context.Background())
		m.logListener = log.NewListener(ctx)
	}

	return m
}

func runnerConfig(cfg config.Config) runner.Config {
	return runner.Config{
		Command:       cfg.Interpreter.Command,
		Args:          cfg.Interpreter.Args,
		ModulePathEnv: cfg.Interpreter.ModulePathEnv,
		ModulePath:    cfg.Interpreter.ModulePath,
		TempFile:      cfg.Interpreter.TempFile,
		Timeout:       cfg.Interpreter.Timeout,
		WorkDir:       cfg.Workspace,
	}
}

// Init implements tea.Model. It opens the start-up file and starts the
// watcher and log listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.initialFile != "" {
		cmds = append(cmds, files.LoadCmd(m.tracker.Begin(m.initialFile)))
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case files.LoadedMsg:
		return m.handleLoaded(msg)

	case files.LoadFailedMsg:
		return m.handleLoadFailed(msg)

	case filetree.OpenFileMsg:
		return m.openPath(msg.Path)

	case filetree.ExpandedMsg:
		m.syncWatcher(msg.Dirs)
		return m, nil

	case prompt.SubmitMsg:
		return m.handlePrompt(msg)

	case prompt.CancelMsg:
		return m, nil

	case editor.ScanTickMsg:
		for i := range m.tabs {
			if m.tabs[i].ID() == msg.EditorID {
				m.tabs[i], _ = m.tabs[i].Update(msg)
				break
			}
		}
		return m, nil

	case editor.ClipboardErrorMsg:
		m.status = m.status.Set("Error: clipboard: "+msg.Err.Error(), statusbar.LevelError)
		return m, nil

	case runner.Line:
		if m.run == nil || msg.RunID != m.run.ID {
			return m, nil
		}
		m.console = m.console.AppendEvent(msg)
		return m, m.waitForRun()

	case runner.Exited:
		return m.handleExited(msg)

	case statusbar.ExpireMsg:
		m.status = m.status.Update(msg)
		return m, nil

	case help.ClosedMsg, changes.ClosedMsg:
		m.overlay = overlayNone
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil

	case pubsub.Event[watcher.Change]:
		log.Debug(log.CatWatcher, "workspace changed, refreshing tree", "paths", len(msg.Payload.Paths))
		m.tree = m.tree.Refresh()
		m.syncWatcher(m.tree.Dirs())
		if m.watcherListener != nil {
			return m, m.watcherListener.Listen()
		}
		return m, nil

	case pubsub.Event[string]:
		m.logOverlay.Append(msg.Payload)
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, keys.Workbench.ToggleLog) {
		m.logOverlay.Toggle()
		return m, nil
	}
	// The debug log overlay takes precedence while visible
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	switch m.overlay {
	case overlayHelp:
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	case overlayChanges:
		var cmd tea.Cmd
		m.changes, cmd = m.changes.Update(msg)
		return m, cmd
	}

	if m.prompt.Active() {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	if !key.Matches(msg, keys.Workbench.Quit) {
		m.confirmQuit = false
	}
	if !key.Matches(msg, keys.Workbench.CloseTab) {
		m.confirmClose = -1
	}

	switch {
	case key.Matches(msg, keys.Workbench.Quit):
		return m.quit()
	case key.Matches(msg, keys.Workbench.New):
		return m.newFile(), nil
	case key.Matches(msg, keys.Workbench.Open):
		return m.openPrompt(prompt.OpenFile, m.promptDir())
	case key.Matches(msg, keys.Workbench.OpenFolder):
		return m.openPrompt(prompt.OpenFolder, m.tree.Root())
	case key.Matches(msg, keys.Workbench.Save):
		return m.save()
	case key.Matches(msg, keys.Workbench.SaveAs):
		return m.saveAsPrompt()
	case key.Matches(msg, keys.Workbench.CloseTab):
		return m.closeTab(), nil
	case key.Matches(msg, keys.Workbench.NextTab):
		return m.switchTab(m.active + 1), nil
	case key.Matches(msg, keys.Workbench.PrevTab):
		return m.switchTab(m.active - 1), nil
	case key.Matches(msg, keys.Workbench.Run):
		return m.startRun()
	case key.Matches(msg, keys.Workbench.CancelRun):
		return m.cancelRun(), nil
	case key.Matches(msg, keys.Workbench.ShowChanges):
		return m.showChanges(), nil
	case key.Matches(msg, keys.Workbench.Help):
		m.overlay = overlayHelp
		m.help = m.help.SetSize(m.width, m.height)
		return m, nil
	case key.Matches(msg, keys.Workbench.FocusTree):
		if m.focus == focusTree {
			return m.setFocus(focusEditor), nil
		}
		return m.setFocus(focusTree), nil
	}

	if m.focus == focusTree {
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		return m, cmd
	}
	if m.active >= 0 {
		var cmd tea.Cmd
		m.tabs[m.active], cmd = m.tabs[m.active].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}
	switch m.overlay {
	case overlayHelp:
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	case overlayChanges:
		var cmd tea.Cmd
		m.changes, cmd = m.changes.Update(msg)
		return m, cmd
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if z := zone.Get(zoneConsole); z != nil && z.InBounds(msg) {
			var cmd tea.Cmd
			m.console, cmd = m.console.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i := range m.tabs {
		if z := zone.Get(tabZone(i)); z != nil && z.InBounds(msg) {
			m = m.switchTab(i)
			return m, nil
		}
	}

	if tree, cmd, ok := m.tree.Click(msg); ok {
		m.tree = tree
		m = m.setFocus(focusTree)
		return m, cmd
	}

	if z := zone.Get(zoneEditor); m.active >= 0 && z != nil && z.InBounds(msg) {
		// Pos is relative to the panel border.
		x, y := z.Pos(msg)
		m = m.setFocus(focusEditor)
		m.tabs[m.active].ClickAt(max(0, x-1), max(0, y-1))
		return m, nil
	}
	return m, nil
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.run != nil {
		m.run.Cancel()
		<-m.run.Done()
	}
	if m.logCancel != nil {
		m.logCancel()
	}

	// Cancel watcher subscription context (stops listener)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) syncWatcher(dirs []string) {
	if m.watcherHandle == nil {
		return
	}
	if err := m.watcherHandle.Sync(dirs); err != nil {
		log.Warn(log.CatWatcher, "watcher sync failed", "error", err)
	}
}

func (m Model) setFocus(f focusArea) Model {
	m.focus = f
	if f == focusTree {
		m.tree = m.tree.Focus()
		if m.active >= 0 {
			m.tabs[m.active].Blur()
		}
		return m
	}
	m.tree = m.tree.Blur()
	if m.active >= 0 {
		m.tabs[m.active].Focus()
	}
	return m
}
