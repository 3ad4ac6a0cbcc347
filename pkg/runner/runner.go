package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"hoststatus/pkg/log"
)

const waitDelay = 500 * time.Millisecond

// Result holds the captured output streams of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes a shell command line and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, command string) (*Result, error)
}

// ShellRunner runs commands through "<shell> -c". Pipelines and globbing are
// interpreted by the shell, not by Go.
type ShellRunner struct {
	shell   string
	timeout time.Duration
}

// NewShellRunner returns a runner using the given shell. A zero timeout lets
// commands run for as long as they need.
func NewShellRunner(shell string, timeout time.Duration) *ShellRunner {
	return &ShellRunner{
		shell:   shell,
		timeout: timeout,
	}
}

// Run executes command and returns its output. Any spawn failure or non-zero
// exit is reported as *CommandError; the Result is still returned so callers
// can log stderr.
func (r *ShellRunner) Run(ctx context.Context, command string) (*Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	//nolint:gosec // commands come from the service configuration, never from requests
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.timeout > 0 {
		// Background children of the shell may keep the pipes open after a kill.
		cmd.WaitDelay = waitDelay
	}

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	log.Debug().
		Str("command", command).
		Dur("elapsed", time.Since(start)).
		Bool("failed", err != nil).
		Msg("Command finished")

	if err != nil {
		return result, newCommandError(ctx, command, result.Stderr, err)
	}

	return result, nil
}

// newCommandError classifies a failure. Killed is reserved for processes the
// runner itself terminated; a command dying from a signal it sent to itself
// only reports Signal.
func newCommandError(ctx context.Context, command, stderr string, err error) *CommandError {
	cmdErr := &CommandError{
		Command: command,
		Stderr:  stderr,
		Err:     err,
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return cmdErr
	}

	code := exitErr.ExitCode()
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		name := unixSignalName(status.Signal())
		cmdErr.Killed = ctx.Err() != nil
		cmdErr.Signal = &name
		return cmdErr
	}

	cmdErr.Code = &code
	return cmdErr
}
