// Package config provides configuration types, defaults, and validation for
// shelldesk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/paths"
)

// Config holds all configuration options for shelldesk.
type Config struct {
	Workspace   string            `mapstructure:"workspace"`
	Editor      EditorConfig      `mapstructure:"editor"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Watch       WatchConfig       `mapstructure:"watch"`
	History     HistoryConfig     `mapstructure:"history"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Completion  CompletionConfig  `mapstructure:"completion"`
	UI          UIConfig          `mapstructure:"ui"`
	Theme       ThemeConfig       `mapstructure:"theme"`
}

// EditorConfig holds editing behavior.
type EditorConfig struct {
	TabWidth              int           `mapstructure:"tab_width"`
	ScanDebounce          time.Duration `mapstructure:"scan_debounce"`          // idle time before a harvest pass
	AutocompleteThreshold int           `mapstructure:"autocomplete_threshold"` // characters typed before the popup opens
	MaxCompletions        int           `mapstructure:"max_completions"`
}

// InterpreterConfig describes how scripts are run.
type InterpreterConfig struct {
	Command       string        `mapstructure:"command"`
	Args          []string      `mapstructure:"args"`            // placed before the script path
	ModulePathEnv string        `mapstructure:"module_path_env"` // e.g. PYTHONPATH
	ModulePath    string        `mapstructure:"module_path"`     // prepended to ModulePathEnv
	TempFile      string        `mapstructure:"temp_file"`       // written in the working directory
	Timeout       time.Duration `mapstructure:"timeout"`         // 0 = no limit
}

// WatchConfig controls workspace watching.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// CompletionConfig extends the built-in completion seed.
type CompletionConfig struct {
	Keywords []string `mapstructure:"keywords"`
	Stdlib   []string `mapstructure:"stdlib"`
}

// UIConfig holds layout options.
type UIConfig struct {
	SidebarWidth    int    `mapstructure:"sidebar_width"`
	ConsoleHeight   int    `mapstructure:"console_height"`
	ShowLineNumbers bool   `mapstructure:"show_line_numbers"`
	MarkdownStyle   string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ThemeConfig overrides individual colors. Empty values keep the defaults.
type ThemeConfig struct {
	Accent string `mapstructure:"accent"`
	Muted  string `mapstructure:"muted"`
	Error  string `mapstructure:"error"`
}

// DefaultHistoryPath returns the default run history database path.
func DefaultHistoryPath() string {
	dir := paths.DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// DefaultTracesFilePath returns the default path for the file trace exporter.
func DefaultTracesFilePath() string {
	dir := paths.DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:              4,
			ScanDebounce:          2 * time.Second,
			AutocompleteThreshold: 1,
			MaxCompletions:        8,
		},
		Interpreter: InterpreterConfig{
			Command:       "python3",
			Args:          []string{"-m", "shell_lite.main"},
			ModulePathEnv: "PYTHONPATH",
			TempFile:      "temp_script.shl",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: TracingConfig{
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		UI: UIConfig{
			SidebarWidth:    28,
			ConsoleHeight:   8,
			ShowLineNumbers: true,
			MarkdownStyle:   "dark",
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateInterpreter(c.Interpreter); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if c.Workspace != "" {
		if info, err := os.Stat(paths.ExpandHome(c.Workspace)); err != nil || !info.IsDir() {
			// A stale workspace is not fatal; the cwd is used instead.
			log.Warn(log.CatConfig, "configured workspace is not a directory", "workspace", c.Workspace)
		}
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	return nil
}

// ValidateEditor checks editor settings.
func ValidateEditor(e EditorConfig) error {
	if e.TabWidth < 1 || e.TabWidth > 16 {
		return fmt.Errorf("editor.tab_width must be between 1 and 16, got %d", e.TabWidth)
	}
	if e.ScanDebounce < 0 {
		return fmt.Errorf("editor.scan_debounce must not be negative, got %s", e.ScanDebounce)
	}
	if e.AutocompleteThreshold < 1 {
		return fmt.Errorf("editor.autocomplete_threshold must be at least 1, got %d", e.AutocompleteThreshold)
	}
	if e.MaxCompletions < 1 {
		return fmt.Errorf("editor.max_completions must be at least 1, got %d", e.MaxCompletions)
	}
	return nil
}

// ValidateInterpreter checks interpreter settings.
func ValidateInterpreter(i InterpreterConfig) error {
	if i.Command == "" {
		return fmt.Errorf("interpreter.command is required")
	}
	if i.TempFile == "" {
		return fmt.Errorf("interpreter.temp_file is required")
	}
	if filepath.Base(i.TempFile) != i.TempFile {
		return fmt.Errorf("interpreter.temp_file must be a plain file name, got %q", i.TempFile)
	}
	if i.Timeout < 0 {
		return fmt.Errorf("interpreter.timeout must not be negative, got %s", i.Timeout)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# shelldesk configuration

# Workspace opened when no path is given (updated by "Open folder")
# workspace: ~/projects/scripts

editor:
  tab_width: 4                # Spaces inserted for Tab
  scan_debounce: 2s           # Idle time before completion names are rescanned
  autocomplete_threshold: 1   # Characters typed before suggestions appear
  max_completions: 8          # Suggestions shown in the popup

# How scripts are run (Ctrl+R). The buffer is written to temp_file in the
# workspace and passed as the last argument.
interpreter:
  command: python3
  args: ["-m", "shell_lite.main"]
  module_path_env: PYTHONPATH
  # module_path: ~/src/shell-lite   # Prepended to module_path_env
  temp_file: temp_script.shl
  # timeout: 30s                    # Kill runs that take longer (default: no limit)

# Refresh the file tree when files change on disk
watch:
  enabled: true
  debounce: 200ms

# Record every run in a local SQLite database ("shelldesk history")
history:
  enabled: true
  # path: ~/.local/share/shelldesk/history.db

# Extra completion entries
# completion:
#   keywords: [when]
#   stdlib: [net.get, net.post]

ui:
  sidebar_width: 28
  console_height: 8
  show_line_numbers: true
  # markdown_style: dark      # Help overlay style: "dark" (default) or "light"

# theme:
#   accent: "#20B2AA"
#   muted: "#757575"
#   error: "#FF8787"

# OpenTelemetry tracing of harvest passes, file loads and runs
# tracing:
#   enabled: false
#   exporter: file            # none, file, stdout, otlp
#   file_path: ~/.local/share/shelldesk/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file with default settings.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}
	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
