package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/shelldesk/internal/app"
	"github.com/zjrosen/shelldesk/internal/config"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/paths"
	"github.com/zjrosen/shelldesk/internal/ui/styles"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, otherwise
	// the OSC 11 reply can leak into the editor as typed text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".shelldesk/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shelldesk [path]",
	Short: "A terminal editor and runner for ShellLite scripts",
	Long: `shelldesk is a terminal editor for ShellLite (.shl) scripts with syntax
highlighting, autocompletion, a workspace file tree, and an output console
that runs the current buffer through the ShellLite interpreter.

The optional path may name a directory (opened as the workspace) or a file
(its directory becomes the workspace and the file is opened).`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/shelldesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also SHELLDESK_DEBUG=1, path from SHELLDESK_LOG)")
	rootCmd.Flags().String("interpreter", "", "interpreter command (overrides config)")
	rootCmd.Flags().Bool("no-watch", false, "disable workspace file watching")

	_ = viper.BindPFlag("interpreter.command", rootCmd.Flags().Lookup("interpreter"))
}

// setDefaults registers every default so keys missing from the config file
// and SHELLDESK_* environment overrides both resolve.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("workspace", d.Workspace)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.scan_debounce", d.Editor.ScanDebounce)
	v.SetDefault("editor.autocomplete_threshold", d.Editor.AutocompleteThreshold)
	v.SetDefault("editor.max_completions", d.Editor.MaxCompletions)
	v.SetDefault("interpreter.command", d.Interpreter.Command)
	v.SetDefault("interpreter.args", d.Interpreter.Args)
	v.SetDefault("interpreter.module_path_env", d.Interpreter.ModulePathEnv)
	v.SetDefault("interpreter.module_path", d.Interpreter.ModulePath)
	v.SetDefault("interpreter.temp_file", d.Interpreter.TempFile)
	v.SetDefault("interpreter.timeout", d.Interpreter.Timeout)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("completion.keywords", d.Completion.Keywords)
	v.SetDefault("completion.stdlib", d.Completion.Stdlib)
	v.SetDefault("ui.sidebar_width", d.UI.SidebarWidth)
	v.SetDefault("ui.console_height", d.UI.ConsoleHeight)
	v.SetDefault("ui.show_line_numbers", d.UI.ShowLineNumbers)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("theme.accent", d.Theme.Accent)
	v.SetDefault("theme.muted", d.Theme.Muted)
	v.SetDefault("theme.error", d.Theme.Error)

	v.SetEnvPrefix("SHELLDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	setDefaults(viper.GetViper())
	if err := loadConfig(viper.GetViper(), cfgFile, paths.ConfigDir()); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "warning: decoding config:", err)
	}
}

// loadConfig reads the config file into v.
//
// Lookup order:
//  1. explicit path (--config)
//  2. .shelldesk/config.yaml in the current directory
//  3. <userDir>/config.yaml
//
// When nothing is found a commented default is written to <userDir>.
func loadConfig(v *viper.Viper, explicit, userDir string) error {
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		v.AddConfigPath(userDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) || userDir == "" {
		return fmt.Errorf("reading config: %w", err)
	}

	defaultPath := filepath.Join(userDir, "config.yaml")
	if writeErr := config.WriteDefaultConfig(defaultPath); writeErr != nil {
		// Continue on defaults alone.
		return nil
	}
	v.SetConfigFile(defaultPath)
	_ = v.ReadInConfig()
	return nil
}

// configPathUsed is where workspace changes are saved back.
func configPathUsed() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if dir := paths.ConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runApp(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	} else if cfg.Workspace != "" && dirExists(paths.ExpandHome(cfg.Workspace)) {
		arg = cfg.Workspace
	}
	target, err := paths.ResolveTarget(arg)
	if err != nil {
		return err
	}
	cfg.Workspace = target.Workspace

	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	styles.ApplyTheme(cfg.Theme.Accent, cfg.Theme.Muted, cfg.Theme.Error)

	rt, err := setupRuntime(cmd.Context(), cfg, isDebug())
	if err != nil {
		return err
	}
	defer rt.Close()

	zone.NewGlobal()
	model := app.New(cfg, app.Options{
		ConfigPath: configPathUsed(),
		File:       target.File,
		DebugMode:  rt.debug,
		Runner:     rt.newRunner(cfg, cfg.Workspace),
	})
	log.Info(log.CatConfig, "starting", "workspace", cfg.Workspace, "config", configPathUsed())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()

	// Stop the watcher and any run left behind by an abnormal exit.
	if fm, ok := final.(app.Model); ok {
		if closeErr := fm.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isDebug() bool {
	return debugFlag || os.Getenv("SHELLDESK_DEBUG") != ""
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
