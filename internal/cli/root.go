package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/wesleyorama2/k6probe/internal/logging"
	"github.com/wesleyorama2/k6probe/internal/output"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

var version = "0.1.0"

// ErrProbeFailed is returned when every probe ran but at least one failed.
var ErrProbeFailed = errors.New("one or more probes failed")

// Exit codes returned by Main.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitInvalid = 2
)

// app carries the process dependencies and the persistent flags shared by
// every subcommand.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	launcher probe.Launcher
	env      probe.EnvProvider
	getenv   func(string) string
	now      func() time.Time

	runner   string
	script   string
	summary  bool
	output   string
	noColor  bool
	verbose  bool
	logLevel string

	format output.OutputFormat
	logger *slog.Logger
}

func newApp() *app {
	return &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		launcher: probe.ExecLauncher{},
		env:      probe.OSEnv,
		getenv:   os.Getenv,
		now:      time.Now,
	}
}

// NewRootCmd builds the command tree wired to the real process environment.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "k6probe",
		Short:   "Run HTTP probes through k6",
		Version: version,
		Long: `k6probe checks that an HTTP endpoint answers with the expected status
code, optionally under load. Each probe is executed by k6 with the bundled
probe script; a probe passes when k6 exits cleanly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.runner, "runner", "", "k6 executable name or path (env K6PROBE_RUNNER, default k6)")
	flags.StringVar(&a.script, "script", "", "Probe script passed to k6 (env K6PROBE_SCRIPT)")
	flags.BoolVar(&a.summary, "summary", false, "Export and report the k6 end-of-test summary")
	flags.StringVarP(&a.output, "output", "o", "text", "Output format (text, json, yaml)")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Show every run and its summary")
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newHTTPCmd(a))
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newScriptCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

func (a *app) setup() error {
	format, err := output.ParseFormat(a.output)
	if err != nil {
		return &probe.ValidationError{Field: "output", Message: err.Error()}
	}
	a.format = format

	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return &probe.ValidationError{Field: "log-level", Message: err.Error()}
	}
	a.logger = logging.New(a.stderr, level)
	return nil
}

// Execute runs the command line and returns the error that decides the exit code.
// An interrupt cancels the running probe.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrProbeFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrProbeFailed):
		return ExitFailed
	default:
		return ExitInvalid
	}
}
