package probe

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// Summary holds the figures read from the runner's end-of-test summary.
type Summary struct {
	ChecksPassed int64 `json:"checksPassed" yaml:"checksPassed"`
	ChecksFailed int64 `json:"checksFailed" yaml:"checksFailed"`
	Iterations   int64 `json:"iterations" yaml:"iterations"`

	HTTPRequests   int64   `json:"httpRequests" yaml:"httpRequests"`
	HTTPFailedRate float64 `json:"httpFailedRate" yaml:"httpFailedRate"`

	DurationAvg time.Duration `json:"durationAvg" yaml:"durationAvg"`
	DurationP95 time.Duration `json:"durationP95" yaml:"durationP95"`
	DurationMax time.Duration `json:"durationMax" yaml:"durationMax"`
}

// ReadSummary loads a summary file written by the probe script.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	return ParseSummary(data)
}

// ParseSummary extracts a Summary from k6 handleSummary JSON.
// Metrics absent from the document are left at zero.
func ParseSummary(data []byte) (*Summary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid summary JSON")
	}

	metrics := gjson.GetBytes(data, "metrics")
	if !metrics.Exists() {
		return nil, fmt.Errorf("summary has no metrics")
	}

	return &Summary{
		ChecksPassed:   metrics.Get("checks.values.passes").Int(),
		ChecksFailed:   metrics.Get("checks.values.fails").Int(),
		Iterations:     metrics.Get("iterations.values.count").Int(),
		HTTPRequests:   metrics.Get("http_reqs.values.count").Int(),
		HTTPFailedRate: metrics.Get("http_req_failed.values.rate").Float(),
		DurationAvg:    millis(metrics.Get("http_req_duration.values.avg")),
		DurationP95:    millis(metrics.Get("http_req_duration.values.p(95)")),
		DurationMax:    millis(metrics.Get("http_req_duration.values.max")),
	}, nil
}

// k6 reports trend metrics in fractional milliseconds.
func millis(r gjson.Result) time.Duration {
	return time.Duration(r.Float() * float64(time.Millisecond))
}
