// Package probe runs HTTP probes through an external k6 runner.
//
// A probe validates its request, encodes it into CHAOS_K6_* environment
// variables, launches `k6 run scripts/probe.js` and reports whether the
// runner exited cleanly. Load generation, virtual users and the status
// assertion itself all happen inside the runner.
//
//	inv := probe.NewInvoker()
//	req := probe.NewRequest("https://example.com/health")
//	req.VUs = 5
//	req.Duration = "10s"
//	ok, err := inv.Probe(ctx, req)
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	// DefaultRunner is the runner executable looked up on PATH.
	DefaultRunner = "k6"

	// DefaultOutputLimit bounds captured runner output.
	DefaultOutputLimit = 64 * 1024
)

// Result is the detailed outcome of one probe run.
type Result struct {
	Passed   bool          `json:"passed" yaml:"passed"`
	ExitCode int           `json:"exitCode" yaml:"exitCode"`
	Signaled bool          `json:"signaled,omitempty" yaml:"signaled,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Output is the tail of the runner output, captured only when debug is off
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Summary is present when summary export is enabled and the runner wrote one
	Summary *Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Invoker launches probe runs. It holds no per-call state and is safe for
// concurrent use.
type Invoker struct {
	runner      string
	launcher    Launcher
	env         EnvProvider
	script      *ScriptLocator
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
	summary     bool
	outputLimit int
	now         func() time.Time
}

// Option configures an Invoker.
type Option func(*Invoker)

// NewInvoker creates an invoker that runs k6 from PATH with the process environment.
func NewInvoker(options ...Option) *Invoker {
	inv := &Invoker{
		runner:      DefaultRunner,
		launcher:    ExecLauncher{},
		env:         OSEnv,
		script:      &ScriptLocator{},
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		outputLimit: DefaultOutputLimit,
		now:         time.Now,
	}

	for _, option := range options {
		option(inv)
	}

	return inv
}

// WithRunner sets the runner executable name or path.
func WithRunner(runner string) Option {
	return func(inv *Invoker) {
		if runner != "" {
			inv.runner = runner
		}
	}
}

// WithLauncher replaces the process launcher.
func WithLauncher(l Launcher) Option {
	return func(inv *Invoker) {
		inv.launcher = l
	}
}

// WithEnv replaces the base environment provider.
func WithEnv(env EnvProvider) Option {
	return func(inv *Invoker) {
		inv.env = env
	}
}

// WithScriptPath pins the script passed to the runner.
func WithScriptPath(path string) Option {
	return func(inv *Invoker) {
		inv.script = &ScriptLocator{Path: path}
	}
}

// WithConsole sets where runner output goes in debug mode.
func WithConsole(stdout, stderr io.Writer) Option {
	return func(inv *Invoker) {
		inv.stdout = stdout
		inv.stderr = stderr
	}
}

// WithLogger sets the logger used for launch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// WithSummary asks the script to export its end-of-test summary.
func WithSummary(enabled bool) Option {
	return func(inv *Invoker) {
		inv.summary = enabled
	}
}

// WithOutputLimit bounds the captured output kept in Result.Output.
func WithOutputLimit(n int) Option {
	return func(inv *Invoker) {
		if n > 0 {
			inv.outputLimit = n
		}
	}
}

// Probe runs req and reports whether the runner exited with status 0.
//
// A failed assertion, a non-zero exit and a killed runner all return false
// with a nil error. Errors are returned only for an invalid request
// (ErrInvalidArgument) or a runner that could not be started (ErrLaunch).
func (inv *Invoker) Probe(ctx context.Context, req Request) (bool, error) {
	res, err := inv.Run(ctx, req)
	if err != nil {
		return false, err
	}
	return res.Passed, nil
}

// Run executes req and returns the detailed result.
func (inv *Invoker) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vars, err := probeVars(req)
	if err != nil {
		return nil, &ValidationError{Field: "headers", Message: err.Error()}
	}

	script, err := inv.script.Locate()
	if err != nil {
		return nil, &LaunchError{Runner: inv.runner, Err: err}
	}

	var summaryPath string
	if inv.summary {
		summaryPath, err = reserveSummaryFile()
		if err != nil {
			return nil, &LaunchError{Runner: inv.runner, Err: err}
		}
		defer os.Remove(summaryPath)
		vars[EnvSummaryPath] = summaryPath
	}

	cmd := Command{
		Path: inv.runner,
		Args: []string{"run", script},
		Env:  overlayEnv(inv.env(), vars),
	}

	var captured *tailBuffer
	if req.Debug {
		cmd.Stdout = inv.stdout
		cmd.Stderr = inv.stderr
	} else {
		captured = newTailBuffer(inv.outputLimit)
		cmd.Stdout = captured
		cmd.Stderr = captured
	}

	inv.logger.Debug("launching runner",
		"runner", inv.runner,
		"script", script,
		"endpoint", req.Endpoint,
		"method", vars[EnvMethod],
		"vus", req.VUs,
		"duration", req.Duration,
	)

	start := inv.now()
	exit, err := inv.launcher.Launch(ctx, cmd)
	elapsed := inv.now().Sub(start)
	if err != nil {
		inv.logger.Debug("runner launch failed", "runner", inv.runner, "error", err)
		var launchErr *LaunchError
		if errors.As(err, &launchErr) {
			return nil, err
		}
		return nil, &LaunchError{Runner: inv.runner, Err: err}
	}

	res := &Result{
		Passed:   exit.Success(),
		ExitCode: exit.Code,
		Signaled: exit.Signaled,
		Duration: elapsed,
	}
	if captured != nil {
		res.Output = captured.String()
	}

	if summaryPath != "" {
		summary, err := ReadSummary(summaryPath)
		if err != nil {
			inv.logger.Debug("no runner summary", "path", summaryPath, "error", err)
		} else {
			res.Summary = summary
		}
	}

	inv.logger.Debug("runner exited",
		"endpoint", req.Endpoint,
		"exit_code", exit.Code,
		"signaled", exit.Signaled,
		"duration", elapsed,
	)

	return res, nil
}

// reserveSummaryFile returns an empty path the runner can write its summary to.
func reserveSummaryFile() (string, error) {
	f, err := os.CreateTemp("", "k6probe-summary-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	return name, nil
}
