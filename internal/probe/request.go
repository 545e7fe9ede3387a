package probe

import "strings"

// Allowed request methods, upper case.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
)

var validMethods = map[string]bool{
	MethodGet:     true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodOptions: true,
}

// Request describes a single probe: one endpoint, one expected status.
type Request struct {
	// Endpoint is the URL the runner requests
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Method is matched case-insensitively and sent upper case
	Method string `json:"method" yaml:"method"`

	// Status is the expected HTTP response status code
	Status int `json:"status" yaml:"status"`

	// Body is the request body, sent verbatim
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// Headers are sent with every request; nil means none
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// VUs is the number of concurrent virtual users
	VUs int `json:"vus" yaml:"vus"`

	// Duration is how long the runner keeps requesting (e.g. "20s", "1m").
	// Empty means a single iteration.
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Debug streams the runner output to the console
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Timeout is the per-request HTTP timeout in seconds, enforced by the runner
	Timeout int `json:"timeout" yaml:"timeout"`
}

// NewRequest returns a request for endpoint with the default settings:
// GET, expecting 200, one VU, a single iteration and a one second timeout.
func NewRequest(endpoint string) Request {
	return Request{
		Endpoint: endpoint,
		Method:   MethodGet,
		Status:   200,
		VUs:      1,
		Timeout:  1,
	}
}

// Validate checks the request and returns the first failure as a *ValidationError.
func (r Request) Validate() error {
	if r.Status < 100 || r.Status > 999 {
		return &ValidationError{Field: "status", Message: "invalid HTTP status code"}
	}
	if !validMethods[strings.ToUpper(r.Method)] {
		return &ValidationError{Field: "method", Message: "invalid HTTP method"}
	}
	if strings.TrimSpace(r.Endpoint) == "" {
		return &ValidationError{Field: "endpoint", Message: "endpoint required"}
	}
	if r.VUs < 1 {
		return &ValidationError{Field: "vus", Message: "virtual users must be positive"}
	}
	if r.Duration != "" {
		if _, err := ParseDuration(r.Duration); err != nil {
			return &ValidationError{Field: "duration", Message: "invalid duration"}
		}
	}
	if r.Timeout < 0 {
		return &ValidationError{Field: "timeout", Message: "invalid timeout"}
	}
	return nil
}

// NormalizedMethod returns the method in upper case.
func (r Request) NormalizedMethod() string {
	return strings.ToUpper(r.Method)
}
