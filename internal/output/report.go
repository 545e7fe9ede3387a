package output

import (
	"time"

	"github.com/wesleyorama2/k6probe/internal/metrics"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

// SummaryData is the runner summary of one run
type SummaryData struct {
	ChecksPassed   int64   `json:"checksPassed" yaml:"checksPassed"`
	ChecksFailed   int64   `json:"checksFailed" yaml:"checksFailed"`
	Iterations     int64   `json:"iterations" yaml:"iterations"`
	HTTPRequests   int64   `json:"httpRequests" yaml:"httpRequests"`
	HTTPFailedRate float64 `json:"httpFailedRate" yaml:"httpFailedRate"`
	AvgMs          float64 `json:"avgMs" yaml:"avgMs"`
	P95Ms          float64 `json:"p95Ms" yaml:"p95Ms"`
	MaxMs          float64 `json:"maxMs" yaml:"maxMs"`
}

// RunData is one execution of a probe
type RunData struct {
	Attempt    int          `json:"attempt" yaml:"attempt"`
	Passed     bool         `json:"passed" yaml:"passed"`
	ExitCode   int          `json:"exitCode" yaml:"exitCode"`
	Signaled   bool         `json:"signaled,omitempty" yaml:"signaled,omitempty"`
	DurationMs int64        `json:"durationMs" yaml:"durationMs"`
	Output     string       `json:"output,omitempty" yaml:"output,omitempty"`
	Summary    *SummaryData `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// StatsData aggregates the runs of a repeated probe
type StatsData struct {
	Runs     int64   `json:"runs" yaml:"runs"`
	Passed   int64   `json:"passed" yaml:"passed"`
	Failed   int64   `json:"failed" yaml:"failed"`
	PassRate float64 `json:"passRate" yaml:"passRate"`
	MinMs    int64   `json:"minMs" yaml:"minMs"`
	MeanMs   int64   `json:"meanMs" yaml:"meanMs"`
	P50Ms    int64   `json:"p50Ms" yaml:"p50Ms"`
	P95Ms    int64   `json:"p95Ms" yaml:"p95Ms"`
	P99Ms    int64   `json:"p99Ms" yaml:"p99Ms"`
	MaxMs    int64   `json:"maxMs" yaml:"maxMs"`
}

// ProbeReport is the outcome of one configured probe
type ProbeReport struct {
	Name     string     `json:"name" yaml:"name"`
	Endpoint string     `json:"endpoint" yaml:"endpoint"`
	Method   string     `json:"method" yaml:"method"`
	Status   int        `json:"status" yaml:"status"`
	VUs      int        `json:"vus" yaml:"vus"`
	Duration string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Passed   bool       `json:"passed" yaml:"passed"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
	Runs     []RunData  `json:"runs,omitempty" yaml:"runs,omitempty"`
	Stats    *StatsData `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Report collects every probe of an invocation
type Report struct {
	Total      int           `json:"total" yaml:"total"`
	Passed     int           `json:"passed" yaml:"passed"`
	Failed     int           `json:"failed" yaml:"failed"`
	DurationMs int64         `json:"durationMs" yaml:"durationMs"`
	Timestamp  string        `json:"timestamp" yaml:"timestamp"`
	Probes     []ProbeReport `json:"probes" yaml:"probes"`
}

// NewProbeReport starts a report for req. It passes until a run fails.
func NewProbeReport(name string, req probe.Request) *ProbeReport {
	return &ProbeReport{
		Name:     name,
		Endpoint: req.Endpoint,
		Method:   req.NormalizedMethod(),
		Status:   req.Status,
		VUs:      req.VUs,
		Duration: req.Duration,
		Passed:   true,
	}
}

// AddRun records one run result.
func (p *ProbeReport) AddRun(res *probe.Result) {
	run := RunData{
		Attempt:    len(p.Runs) + 1,
		Passed:     res.Passed,
		ExitCode:   res.ExitCode,
		Signaled:   res.Signaled,
		DurationMs: res.Duration.Milliseconds(),
		Output:     res.Output,
	}
	if s := res.Summary; s != nil {
		run.Summary = &SummaryData{
			ChecksPassed:   s.ChecksPassed,
			ChecksFailed:   s.ChecksFailed,
			Iterations:     s.Iterations,
			HTTPRequests:   s.HTTPRequests,
			HTTPFailedRate: s.HTTPFailedRate,
			AvgMs:          fractionalMillis(s.DurationAvg),
			P95Ms:          fractionalMillis(s.DurationP95),
			MaxMs:          fractionalMillis(s.DurationMax),
		}
	}
	p.Runs = append(p.Runs, run)
	if !res.Passed {
		p.Passed = false
	}
}

// Fail marks the probe as failed by an error rather than a run.
func (p *ProbeReport) Fail(err error) {
	p.Passed = false
	p.Error = err.Error()
}

// SetStats attaches repeat statistics.
func (p *ProbeReport) SetStats(s metrics.Stats) {
	p.Stats = &StatsData{
		Runs:     s.Runs,
		Passed:   s.Passed,
		Failed:   s.Failed,
		PassRate: s.PassRate,
		MinMs:    s.Min.Milliseconds(),
		MeanMs:   s.Mean.Milliseconds(),
		P50Ms:    s.P50.Milliseconds(),
		P95Ms:    s.P95.Milliseconds(),
		P99Ms:    s.P99.Milliseconds(),
		MaxMs:    s.Max.Milliseconds(),
	}
}

// NewReport creates an empty report stamped with now.
func NewReport(now time.Time) *Report {
	return &Report{
		Timestamp: now.UTC().Format(time.RFC3339),
		Probes:    []ProbeReport{},
	}
}

// Add appends a finished probe.
func (r *Report) Add(p ProbeReport) {
	r.Probes = append(r.Probes, p)
	r.Total++
	if p.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// AllPassed reports whether the report has probes and none failed.
func (r *Report) AllPassed() bool {
	return r.Total > 0 && r.Failed == 0
}

func fractionalMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
