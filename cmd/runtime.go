package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zjrosen/shelldesk/internal/config"
	"github.com/zjrosen/shelldesk/internal/history"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/paths"
	"github.com/zjrosen/shelldesk/internal/runner"
	"github.com/zjrosen/shelldesk/internal/tracing"
)

// shutdownTimeout bounds the final span flush.
const shutdownTimeout = 5 * time.Second

// runtime holds the process-wide services shared by the TUI and the
// headless commands.
type runtime struct {
	debug   bool
	tracing *tracing.Provider
	history *history.Store
	closers []func()
}

// setupRuntime starts debug logging, tracing, and the run history store as
// configured. Close releases them in reverse order.
func setupRuntime(ctx context.Context, cfg config.Config, debug bool) (*runtime, error) {
	rt := &runtime{debug: debug}

	if debug {
		logPath := os.Getenv("SHELLDESK_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return nil, fmt.Errorf("initializing logging: %w", err)
		}
		rt.closers = append(rt.closers, cleanup)
		log.Info(log.CatConfig, "debug logging enabled", "path", logPath)
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     paths.ExpandHome(cfg.Tracing.FilePath),
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  paths.AppName,
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	rt.tracing = provider
	rt.closers = append(rt.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Warn(log.CatTrace, "tracing shutdown failed", "error", err)
		}
	})

	if cfg.History.Enabled {
		store, err := history.Open(ctx, paths.ExpandHome(cfg.History.Path))
		if err != nil {
			// Runs still work without a history.
			log.Warn(log.CatHistory, "run history unavailable", "error", err)
		} else {
			rt.history = store
			rt.closers = append(rt.closers, func() { _ = store.Close() })
		}
	}

	return rt, nil
}

// newRunner builds an interpreter runner rooted at workDir that records
// finished runs and traces them with the configured provider.
func (rt *runtime) newRunner(cfg config.Config, workDir string) *runner.Runner {
	opts := []runner.Option{runner.WithTracer(rt.tracing.Tracer())}
	if rt.history != nil {
		opts = append(opts, runner.WithRecorder(rt.history))
	}
	return runner.New(runner.Config{
		Command:       cfg.Interpreter.Command,
		Args:          cfg.Interpreter.Args,
		ModulePathEnv: cfg.Interpreter.ModulePathEnv,
		ModulePath:    paths.ExpandHome(cfg.Interpreter.ModulePath),
		TempFile:      cfg.Interpreter.TempFile,
		Timeout:       cfg.Interpreter.Timeout,
		WorkDir:       workDir,
	}, opts...)
}

// Close is safe to call more than once.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
