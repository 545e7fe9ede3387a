package probe

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Command is a fully resolved runner invocation.
type Command struct {
	Path string
	Args []string
	Env  []string

	// Stdout and Stderr receive the child streams. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
}

// Exit describes how a child process terminated.
type Exit struct {
	// Code is the exit status, or -1 when the process did not exit normally
	Code int

	// Signaled is true when the process was killed instead of exiting
	Signaled bool
}

// Success reports a clean zero exit.
func (e Exit) Success() bool {
	return !e.Signaled && e.Code == 0
}

// Launcher starts a command and blocks until it terminates.
//
// A process that ran and exited (with any status, or by signal) is not an
// error. An error is returned only when the process could not be started.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) (Exit, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, cmd Command) (Exit, error)

// Launch calls f(ctx, cmd).
func (f LauncherFunc) Launch(ctx context.Context, cmd Command) (Exit, error) {
	return f(ctx, cmd)
}

// ExecLauncher runs commands with os/exec, resolving Path on PATH.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(ctx context.Context, cmd Command) (Exit, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Env = cmd.Env
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	if err := c.Start(); err != nil {
		// Start refuses an already cancelled context; the run counts as killed.
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Exit{Code: -1, Signaled: true}, nil
		}
		return Exit{Code: -1}, &LaunchError{Runner: cmd.Path, Err: err}
	}

	err := c.Wait()
	if err == nil {
		return Exit{Code: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return Exit{Code: code, Signaled: code == -1}, nil
	}

	// Wait failed after a successful start; the stream copy broke or the
	// context was cancelled before the state was collected.
	code := -1
	if c.ProcessState != nil {
		code = c.ProcessState.ExitCode()
	}
	return Exit{Code: code, Signaled: code == -1}, nil
}
