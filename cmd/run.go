package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/shelldesk/internal/files"
	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a script without the editor",
	Long: `Run a ShellLite script through the configured interpreter and print its
output the way the editor's console shows it. The script is copied to the
interpreter temp file inside the working directory first, exactly as the
editor does.

The exit status is the interpreter's exit code.

Example:
  shelldesk run hello.shl
  shelldesk run --workdir ~/scripts lib/test.shl`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var runWorkDir string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runWorkDir, "workdir", "w", "",
		"interpreter working directory (default: the script's directory)")
}

// exitError carries a non-zero script exit code up to main.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("script exited with code %d", e.code)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func runScript(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	script, _, err := files.Load(ctx, path)
	if err != nil {
		return err
	}

	workDir := runWorkDir
	if workDir == "" {
		workDir = filepath.Dir(path)
	}

	rt, err := setupRuntime(ctx, cfg, isDebug())
	if err != nil {
		return err
	}
	defer rt.Close()

	run, err := rt.newRunner(cfg, workDir).Start(ctx, script, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var transcript runner.Transcript
	fmt.Fprintln(out, runner.StartBanner)
	for ev := range run.Events() {
		for _, line := range transcript.Lines(ev) {
			fmt.Fprintln(out, line)
		}
	}
	// Events are dropped after an interrupt; the result is still recorded.
	exited := run.Wait()
	log.Debug(log.CatRunner, "headless run finished", "id", run.ID, "code", exited.Code)

	if exited.Err != nil {
		cmd.SilenceErrors = true
		return &exitError{code: max(1, exited.Code)}
	}
	if exited.Code != 0 {
		cmd.SilenceErrors = true
		return &exitError{code: exited.Code}
	}
	return nil
}
