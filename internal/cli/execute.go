package cli

import (
	"context"
	"fmt"

	"github.com/wesleyorama2/k6probe/internal/config"
	"github.com/wesleyorama2/k6probe/internal/metrics"
	"github.com/wesleyorama2/k6probe/internal/output"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

// plannedProbe is one probe scheduled for execution.
type plannedProbe struct {
	name   string
	req    probe.Request
	repeat int
}

// runnerSettings selects the runner and script for an invocation.
type runnerSettings struct {
	runner  string
	script  string
	summary bool
}

// settingsFor overlays K6PROBE_* variables on cfg, then the command
// line flags on top.
func (a *app) settingsFor(cfg *config.ProbeFile) runnerSettings {
	config.ApplyEnv(cfg, a.getenv)

	s := runnerSettings{runner: cfg.Runner, script: cfg.Script, summary: cfg.Summary || a.summary}
	if a.runner != "" {
		s.runner = a.runner
	}
	if a.script != "" {
		s.script = a.script
	}
	return s
}

// newInvoker builds the invoker for s. With a structured report on stdout,
// debug runner output is sent to stderr.
func (a *app) newInvoker(s runnerSettings) *probe.Invoker {
	console := a.stdout
	if a.format != output.FormatText {
		console = a.stderr
	}

	options := []probe.Option{
		probe.WithRunner(s.runner),
		probe.WithLauncher(a.launcher),
		probe.WithEnv(a.env),
		probe.WithConsole(console, a.stderr),
		probe.WithLogger(a.logger),
		probe.WithSummary(s.summary),
	}
	if s.script != "" {
		options = append(options, probe.WithScriptPath(s.script))
	}
	return probe.NewInvoker(options...)
}

// runProbes executes probes in order, printing each one as it finishes.
//
// A probe whose runner cannot be launched is reported and the remaining
// probes still run; the first launch error is returned at the end.
func (a *app) runProbes(ctx context.Context, inv *probe.Invoker, probes []plannedProbe) error {
	formatter := output.GetFormatter(a.format, a.verbose, !output.UseColor(a.stdout, a.noColor))
	report := output.NewReport(a.now())
	start := a.now()

	var firstErr error
	for _, p := range probes {
		if ctx.Err() != nil {
			break
		}

		pr := output.NewProbeReport(p.name, p.req)
		recorder := metrics.NewRecorder()

		for attempt := 1; attempt <= p.repeat; attempt++ {
			res, err := inv.Run(ctx, p.req)
			if err != nil {
				a.logger.Error("probe aborted", "probe", p.name, "attempt", attempt, "error", err)
				pr.Fail(err)
				if firstErr == nil {
					firstErr = fmt.Errorf("probe %s: %w", p.name, err)
				}
				break
			}
			pr.AddRun(res)
			recorder.Record(res.Duration, res.Passed)
			a.logger.Info("probe run finished",
				"probe", p.name,
				"attempt", attempt,
				"passed", res.Passed,
				"exit_code", res.ExitCode,
				"duration", res.Duration,
			)
		}

		if p.repeat > 1 && len(pr.Runs) > 0 {
			pr.SetStats(recorder.Stats())
		}

		report.Add(*pr)
		fmt.Fprint(a.stdout, formatter.FormatProbe(*pr))
	}

	report.DurationMs = a.now().Sub(start).Milliseconds()
	fmt.Fprint(a.stdout, formatter.FormatReport(*report))

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !report.AllPassed() {
		return ErrProbeFailed
	}
	return nil
}
