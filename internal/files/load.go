// Package files loads, saves and lists workspace files for the editor.
// Loads run off the UI goroutine as tea.Cmds and are tagged with a sequence
// number so a slow read cannot clobber a newer one.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-enry/go-enry/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/tracing"
)

// LanguageShellLite is reported for .shl files, which enry does not know.
const LanguageShellLite = "ShellLite"

// Extension is the ShellLite source file extension.
const Extension = ".shl"

// MaxFileSize bounds what the editor will open.
const MaxFileSize = 8 << 20

// Request asks for one file to be read.
type Request struct {
	Seq  uint64
	Path string
}

// LoadedMsg carries a successfully read file.
type LoadedMsg struct {
	Seq      uint64
	Path     string
	Content  string
	Language string
	Elapsed  time.Duration
}

// LoadFailedMsg reports a read that failed. No tab should be opened.
type LoadFailedMsg struct {
	Seq  uint64
	Path string
	Err  error
}

// LoadError describes why a file could not be opened.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrBinary is wrapped by LoadError for files that look binary.
var ErrBinary = errors.New("binary file")

// ErrTooLarge is wrapped by LoadError for files over MaxFileSize.
var ErrTooLarge = fmt.Errorf("file larger than %d bytes", MaxFileSize)

// LoadCmd reads req.Path in the background.
func LoadCmd(req Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		content, lang, err := Load(context.Background(), req.Path)
		if err != nil {
			log.ErrorErr(log.CatFiles, "load failed", err, "path", req.Path, "seq", req.Seq)
			return LoadFailedMsg{Seq: req.Seq, Path: req.Path, Err: err}
		}
		log.Debug(log.CatFiles, "loaded", "path", req.Path, "bytes", len(content), "seq", req.Seq)
		return LoadedMsg{Seq: req.Seq, Path: req.Path, Content: content, Language: lang, Elapsed: time.Since(start)}
	}
}

// Load reads path as UTF-8 text and detects its language. Errors are
// *LoadError.
func Load(ctx context.Context, path string) (content, language string, err error) {
	_, span := otel.Tracer(tracing.InstrumentationName).Start(ctx, tracing.SpanFileLoad,
		trace.WithAttributes(attribute.String(tracing.AttrFilePath, path)))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	info, err := os.Stat(path)
	if err != nil {
		return "", "", &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", "", &LoadError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if info.Size() > MaxFileSize {
		return "", "", &LoadError{Path: path, Err: ErrTooLarge}
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: user-selected file
	if err != nil {
		return "", "", &LoadError{Path: path, Err: err}
	}
	if enry.IsBinary(data) {
		return "", "", &LoadError{Path: path, Err: ErrBinary}
	}

	span.SetAttributes(attribute.Int(tracing.AttrFileBytes, len(data)))
	return string(data), Language(path, data), nil
}

// Language names the language of a file for the tab label.
func Language(path string, content []byte) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return LanguageShellLite
	}
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		return lang
	}
	return "Text"
}
