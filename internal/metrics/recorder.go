// Package metrics aggregates the wall time and outcome of repeated probe runs.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range in milliseconds: 1ms to 24h, 3 significant figures.
const (
	histogramMin     int64 = 1
	histogramMax     int64 = 24 * 60 * 60 * 1000
	histogramSigFigs       = 3
)

// Recorder collects probe runs. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	hist   *hdrhistogram.Histogram
	passed int64
	failed int64
}

// Stats is a point-in-time view of a Recorder.
type Stats struct {
	Runs     int64   `json:"runs" yaml:"runs"`
	Passed   int64   `json:"passed" yaml:"passed"`
	Failed   int64   `json:"failed" yaml:"failed"`
	PassRate float64 `json:"passRate" yaml:"passRate"`

	Min  time.Duration `json:"min" yaml:"min"`
	Max  time.Duration `json:"max" yaml:"max"`
	Mean time.Duration `json:"mean" yaml:"mean"`
	P50  time.Duration `json:"p50" yaml:"p50"`
	P95  time.Duration `json:"p95" yaml:"p95"`
	P99  time.Duration `json:"p99" yaml:"p99"`
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds one run.
func (r *Recorder) Record(d time.Duration, passed bool) {
	ms := d.Milliseconds()
	if ms < histogramMin {
		ms = histogramMin
	}
	if ms > histogramMax {
		ms = histogramMax
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// RecordValue only fails for out-of-range values, which are clamped above.
	_ = r.hist.RecordValue(ms)
	if passed {
		r.passed++
	} else {
		r.failed++
	}
}

// Stats returns the aggregated figures. An empty recorder yields zero Stats.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	runs := r.passed + r.failed
	if runs == 0 {
		return Stats{}
	}

	return Stats{
		Runs:     runs,
		Passed:   r.passed,
		Failed:   r.failed,
		PassRate: float64(r.passed) / float64(runs),
		Min:      millis(r.hist.Min()),
		Max:      millis(r.hist.Max()),
		Mean:     time.Duration(r.hist.Mean() * float64(time.Millisecond)),
		P50:      millis(r.hist.ValueAtQuantile(50)),
		P95:      millis(r.hist.ValueAtQuantile(95)),
		P99:      millis(r.hist.ValueAtQuantile(99)),
	}
}

// Reset discards all recorded runs.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hist.Reset()
	r.passed = 0
	r.failed = 0
}

func millis(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}
