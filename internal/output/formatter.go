package output

import (
	"fmt"
	"strings"
	"time"
)

// Formatter renders probe reports as human-readable text
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatProbe formats a finished probe for display
func (f *Formatter) FormatProbe(p ProbeReport) string {
	var buf strings.Builder

	icon := SuccessIcon(f.NoColor)
	verdict := f.colors.Pass.Sprint("PASS")
	if !p.Passed {
		icon = ErrorIcon(f.NoColor)
		verdict = f.colors.Fail.Sprint("FAIL")
	}

	buf.WriteString(fmt.Sprintf("%s %s %s %s %s\n",
		icon,
		verdict,
		f.colors.Name.Sprint(p.Name),
		f.colors.Method.Sprint(p.Method),
		f.colors.URL.Sprint(p.Endpoint)))

	buf.WriteString(fmt.Sprintf("  %s %d  %s %s\n",
		f.colors.Label.Sprint("expect"),
		p.Status,
		f.colors.Label.Sprint("load"),
		describeLoad(p.VUs, p.Duration)))

	if p.Error != "" {
		buf.WriteString(fmt.Sprintf("  %s %s\n", f.colors.Error.Sprint("error:"), p.Error))
		return buf.String()
	}

	for _, run := range p.Runs {
		if len(p.Runs) > 1 || f.Verbose {
			buf.WriteString(f.formatRun(run))
		}
		if run.Summary != nil && (f.Verbose || len(p.Runs) == 1) {
			buf.WriteString(f.formatSummary(run.Summary))
		}
		if !run.Passed && run.Output != "" {
			buf.WriteString(fmt.Sprintf("  %s\n", f.colors.Label.Sprint("runner output:")))
			buf.WriteString(indent(run.Output, "    "))
		}
	}

	if len(p.Runs) == 1 && !f.Verbose {
		run := p.Runs[0]
		buf.WriteString(fmt.Sprintf("  %s %s  %s\n",
			f.colors.Label.Sprint("took"),
			formatMillis(run.DurationMs),
			describeExit(run)))
	}

	if p.Stats != nil && p.Stats.Runs > 1 {
		buf.WriteString(f.formatStats(p.Stats))
	}

	return buf.String()
}

// FormatReport formats the closing summary of an invocation
func (f *Formatter) FormatReport(r Report) string {
	status := f.colors.Pass.Sprint("all probes passed")
	if !r.AllPassed() {
		status = f.colors.Fail.Sprintf("%d of %d probes failed", r.Failed, r.Total)
	}
	return fmt.Sprintf("\n%s  %s\n",
		f.colors.Emphasis.Sprintf("Probes: %d total, %d passed, %d failed (%s)",
			r.Total, r.Passed, r.Failed, formatMillis(r.DurationMs)),
		status)
}

func (f *Formatter) formatRun(run RunData) string {
	var icon string
	switch {
	case run.Signaled:
		icon = WarningIcon(f.NoColor)
	case run.Passed:
		icon = SuccessIcon(f.NoColor)
	default:
		icon = ErrorIcon(f.NoColor)
	}
	return fmt.Sprintf("  %s run %d  %s  %s\n", icon, run.Attempt, formatMillis(run.DurationMs), describeExit(run))
}

func (f *Formatter) formatSummary(s *SummaryData) string {
	return fmt.Sprintf("  %s %d passed, %d failed  %s %d  %s %.2f%%  %s avg %s p95 %s max %s\n",
		f.colors.Label.Sprint("checks"), s.ChecksPassed, s.ChecksFailed,
		f.colors.Label.Sprint("requests"), s.HTTPRequests,
		f.colors.Label.Sprint("failed"), s.HTTPFailedRate*100,
		f.colors.Label.Sprint("latency"),
		formatFractionalMillis(s.AvgMs), formatFractionalMillis(s.P95Ms), formatFractionalMillis(s.MaxMs))
}

func (f *Formatter) formatStats(s *StatsData) string {
	return fmt.Sprintf("  %s %d/%d passed (%.0f%%)  min %s  mean %s  p50 %s  p95 %s  p99 %s  max %s\n",
		f.colors.Label.Sprint("runs"), s.Passed, s.Runs, s.PassRate*100,
		formatMillis(s.MinMs), formatMillis(s.MeanMs), formatMillis(s.P50Ms),
		formatMillis(s.P95Ms), formatMillis(s.P99Ms), formatMillis(s.MaxMs))
}

func describeLoad(vus int, duration string) string {
	unit := "VUs"
	if vus == 1 {
		unit = "VU"
	}
	if duration == "" {
		return fmt.Sprintf("%d %s, single run", vus, unit)
	}
	return fmt.Sprintf("%d %s for %s", vus, unit, duration)
}

func describeExit(run RunData) string {
	if run.Signaled {
		return "runner killed"
	}
	return fmt.Sprintf("exit %d", run.ExitCode)
}

func formatMillis(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func formatFractionalMillis(ms float64) string {
	return time.Duration(ms * float64(time.Millisecond)).Round(10 * time.Microsecond).String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
