// Package runner executes a buffer through the external ShellLite
// interpreter and streams its output.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shelldesk/internal/history"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/tracing"
)

var (
	// ErrBusy is returned by Start while another run is active.
	ErrBusy = errors.New("a script is already running")
	// ErrCanceled is reported in Exited.Err when the run was cancelled.
	ErrCanceled = errors.New("run cancelled")
	// ErrTimeout is reported in Exited.Err when the run hit Config.Timeout.
	ErrTimeout = errors.New("run timed out")
)

// maxLine bounds a single output line.
const maxLine = 1 << 20

// CommandFactoryFunc creates the interpreter command. Tests swap it to
// observe or replace the process.
type CommandFactoryFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Config describes how the interpreter is launched.
type Config struct {
	Command       string
	Args          []string
	ModulePathEnv string // variable that receives ModulePath, e.g. PYTHONPATH
	ModulePath    string
	TempFile      string // file name, written inside WorkDir
	Timeout       time.Duration
	WorkDir       string
}

// Stream identifies the pipe a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Event is a Line or an Exited.
type Event interface {
	runID() string
}

// Line is one line of interpreter output, without its newline.
type Line struct {
	RunID  string
	Stream Stream
	Text   string
}

func (l Line) runID() string { return l.RunID }

// Exited is the final event of a run.
type Exited struct {
	RunID    string
	Code     int
	Err      error // launch failure, ErrCanceled or ErrTimeout
	Duration time.Duration
	Output   string
}

func (e Exited) runID() string { return e.RunID }

// LaunchError means the interpreter process could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Runner starts at most one interpreter run at a time.
type Runner struct {
	cfg      Config
	factory  CommandFactoryFunc
	recorder Recorder
	tracer   trace.Tracer

	mu     sync.Mutex
	active *Run
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommandFactory replaces exec.CommandContext.
func WithCommandFactory(fn CommandFactoryFunc) Option {
	return func(r *Runner) { r.factory = fn }
}

// WithRecorder records every finished run.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithTracer overrides the tracer used for run spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// New creates a Runner.
func New(cfg Config, opts ...Option) *Runner {
	if cfg.TempFile == "" {
		cfg.TempFile = "temp_script.shl"
	}
	r := &Runner{
		cfg:    cfg,
		tracer: otel.Tracer(tracing.InstrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetWorkDir changes the directory used by later runs.
func (r *Runner) SetWorkDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.WorkDir = dir
}

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Active returns the current run, or nil.
func (r *Runner) Active() *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// TempPath is where the script is written before launch.
func (r *Runner) TempPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filepath.Join(r.cfg.WorkDir, r.cfg.TempFile)
}

// Start writes script to the temp file and launches the interpreter on it.
// label names the run in history. An error means nothing was launched;
// a process that fails to start is reported through the Exited event.
func (r *Runner) Start(ctx context.Context, script, label string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return nil, ErrBusy
	}
	if r.cfg.Command == "" {
		return nil, errors.New("no interpreter command configured")
	}

	cfg := r.cfg
	cfg.Args = append([]string(nil), r.cfg.Args...)
	tempPath := filepath.Join(cfg.WorkDir, cfg.TempFile)
	if err := os.WriteFile(tempPath, []byte(script), 0o600); err != nil {
		return nil, fmt.Errorf("writing %s: %w", cfg.TempFile, err)
	}

	var (
		procCtx context.Context
		cancel  context.CancelFunc
	)
	if cfg.Timeout > 0 {
		procCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	} else {
		procCtx, cancel = context.WithCancel(ctx)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Label:     label,
		StartedAt: time.Now(),
		parent:    ctx,
		ctx:       procCtx,
		cancel:    cancel,
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
	}
	r.active = run

	go r.execute(run, cfg, tempPath)
	return run, nil
}

func (r *Runner) execute(run *Run, cfg Config, tempPath string) {
	spanCtx, span := r.tracer.Start(run.parent, tracing.SpanRunnerRun,
		trace.WithAttributes(
			attribute.String(tracing.AttrRunID, run.ID),
			attribute.String(tracing.AttrRunCommand, cfg.Command),
		))

	exited := r.spawn(run, cfg, tempPath)
	exited.RunID = run.ID
	exited.Duration = time.Since(run.StartedAt)
	exited.Output = run.output.String()

	if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(log.CatRunner, "temp file not removed", "path", tempPath, "error", err)
	}

	span.SetAttributes(attribute.Int(tracing.AttrRunExitCode, exited.Code))
	if exited.Err != nil {
		span.SetStatus(codes.Error, exited.Err.Error())
	}
	span.End()

	if r.recorder != nil {
		rec := history.Run{
			ID:        run.ID,
			Script:    run.Label,
			StartedAt: run.StartedAt,
			Duration:  exited.Duration,
			ExitCode:  exited.Code,
			Output:    exited.Output,
		}
		if exited.Err != nil {
			rec.Error = exited.Err.Error()
		}
		if err := r.recorder.Record(context.WithoutCancel(spanCtx), rec); err != nil {
			log.ErrorErr(log.CatRunner, "recording run failed", err, "run", run.ID)
		}
	}

	log.Info(log.CatRunner, "run finished",
		"run", run.ID, "code", exited.Code, "duration", exited.Duration, "error", exited.Err)

	run.finish(exited)

	r.mu.Lock()
	if r.active == run {
		r.active = nil
	}
	r.mu.Unlock()
}

func (r *Runner) spawn(run *Run, cfg Config, tempPath string) Exited {
	defer run.cancel()

	args := append(cfg.Args, tempPath)
	var cmd *exec.Cmd
	if r.factory != nil {
		cmd = r.factory(run.ctx, cfg.Command, args...)
	} else {
		// #nosec G204 -- the interpreter comes from the user's config
		cmd = exec.CommandContext(run.ctx, cfg.Command, args...)
	}
	cmd.Dir = cfg.WorkDir
	if env := moduleEnv(cfg); env != "" {
		cmd.Env = append(os.Environ(), env)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Exited{Code: -1, Err: &LaunchError{Command: cfg.Command, Err: err}}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Exited{Code: -1, Err: &LaunchError{Command: cfg.Command, Err: err}}
	}

	log.Debug(log.CatRunner, "starting interpreter",
		"run", run.ID, "command", cfg.Command, "args", strings.Join(args, " "), "dir", cfg.WorkDir)

	if err := cmd.Start(); err != nil {
		// Start fails with ctx.Err() when the run was stopped first.
		if ex, stopped := stoppedExit(run.ctx, -1); stopped {
			return ex
		}
		return Exited{Code: -1, Err: &LaunchError{Command: cfg.Command, Err: err}}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go run.pump(&wg, stdout, Stdout)
	go run.pump(&wg, stderr, Stderr)
	wg.Wait()

	waitErr := cmd.Wait()
	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}

	if ex, stopped := stoppedExit(run.ctx, code); stopped {
		return ex
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return Exited{Code: code, Err: waitErr}
	}
	return Exited{Code: code}
}

// stoppedExit reports a timeout or cancellation once ctx is done.
func stoppedExit(ctx context.Context, code int) (Exited, bool) {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return Exited{Code: code, Err: ErrTimeout}, true
	case err != nil:
		return Exited{Code: code, Err: ErrCanceled}, true
	}
	return Exited{}, false
}

// moduleEnv returns "VAR=modulepath<sep>existing", or "" when unset.
func moduleEnv(cfg Config) string {
	if cfg.ModulePathEnv == "" || cfg.ModulePath == "" {
		return ""
	}
	value := cfg.ModulePath
	if existing := os.Getenv(cfg.ModulePathEnv); existing != "" {
		value += string(os.PathListSeparator) + existing
	}
	return cfg.ModulePathEnv + "=" + value
}

// Run is one interpreter process.
type Run struct {
	ID        string
	Label     string
	StartedAt time.Time

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}

	mu     sync.Mutex
	output strings.Builder
	result Exited
}

// Events delivers output lines followed by exactly one Exited, then closes.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Cancel kills the process. The run still ends with an Exited event.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed once the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its final event.
func (r *Run) Wait() Exited {
	<-r.done
	return r.result
}

// pump reads rd to EOF. Lines longer than maxLine are split into chunks
// so the pipe is always drained.
func (r *Run) pump(wg *sync.WaitGroup, rd io.Reader, stream Stream) {
	defer wg.Done()
	br := bufio.NewReaderSize(rd, 64*1024)
	var line []byte
	for {
		frag, err := br.ReadSlice('\n')
		line = append(line, frag...)
		if err == nil {
			line = trimEOL(line)
		}
		for len(line) > maxLine {
			n := chunkEnd(line, maxLine)
			r.emit(stream, line[:n])
			line = append(line[:0], line[n:]...)
		}
		switch {
		case err == nil:
			r.emit(stream, line)
			line = line[:0]
		case errors.Is(err, bufio.ErrBufferFull):
			// partial line, keep reading
		default:
			if len(line) > 0 {
				r.emit(stream, line)
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				log.Warn(log.CatRunner, "output read failed", "run", r.ID, "stream", stream, "error", err)
			}
			return
		}
	}
}

func (r *Run) emit(stream Stream, b []byte) {
	text := string(b)
	r.mu.Lock()
	r.output.WriteString(text)
	r.output.WriteByte('\n')
	r.mu.Unlock()
	r.send(Line{RunID: r.ID, Stream: stream, Text: text})
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}

// chunkEnd backs n off so a chunk never ends inside a UTF-8 sequence.
func chunkEnd(b []byte, n int) int {
	for i := n; i > n-utf8.UTFMax && i > 0; i-- {
		if utf8.RuneStart(b[i]) {
			return i
		}
	}
	return n
}

// send drops the event once the caller's context is gone, so an abandoned
// run cannot block forever.
func (r *Run) send(ev Event) {
	select {
	case r.events <- ev:
	case <-r.parent.Done():
	}
}

func (r *Run) finish(ex Exited) {
	r.mu.Lock()
	r.result = ex
	r.mu.Unlock()
	r.send(ex)
	close(r.events)
	close(r.done)
}
