// Package config loads probe files.
//
// A probe file lists the probes to run and the runner settings shared by them:
//
//	runner: k6
//	summary: true
//	defaults:
//	  status: 200
//	  timeout: 2
//	  headers:
//	    Accept: application/json
//	probes:
//	  - name: health
//	    endpoint: https://example.com/health
//	    vus: 5
//	    duration: 10s
//	  - name: create
//	    endpoint: https://example.com/items
//	    method: POST
//	    status: 201
//	    body: '{"name":"probe"}'
//
// Files ending in .json are parsed as JSON, everything else as YAML.
package config

import (
	"github.com/wesleyorama2/k6probe/internal/probe"
)

// Environment variables that override file settings.
const (
	EnvRunner = "K6PROBE_RUNNER"
	EnvScript = "K6PROBE_SCRIPT"
)

// ProbeFile is the root of a probe file.
type ProbeFile struct {
	// Runner is the runner executable (default "k6")
	Runner string `json:"runner,omitempty" yaml:"runner,omitempty"`

	// Script overrides the bundled probe script
	Script string `json:"script,omitempty" yaml:"script,omitempty"`

	// Summary enables the end-of-test summary export
	Summary bool `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Defaults fill unset fields of every probe
	Defaults ProbeDefaults `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Probes run in file order
	Probes []ProbeConfig `json:"probes" yaml:"probes"`
}

// ProbeDefaults are applied to probes that leave a field at its zero value.
type ProbeDefaults struct {
	Method   string            `json:"method,omitempty" yaml:"method,omitempty"`
	Status   int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	VUs      int               `json:"vus,omitempty" yaml:"vus,omitempty"`
	Duration string            `json:"duration,omitempty" yaml:"duration,omitempty"`
	Timeout  int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ProbeConfig is one probe entry.
type ProbeConfig struct {
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Method   string            `json:"method,omitempty" yaml:"method,omitempty"`
	Status   int               `json:"status,omitempty" yaml:"status,omitempty"`
	Body     string            `json:"body,omitempty" yaml:"body,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	VUs      int               `json:"vus,omitempty" yaml:"vus,omitempty"`
	Duration string            `json:"duration,omitempty" yaml:"duration,omitempty"`
	Timeout  int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Debug    bool              `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Repeat runs the probe this many times (default 1)
	Repeat int `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Request converts the entry into a probe request. Headers are copied.
func (pc ProbeConfig) Request() probe.Request {
	var headers map[string]string
	if len(pc.Headers) > 0 {
		headers = make(map[string]string, len(pc.Headers))
		for k, v := range pc.Headers {
			headers[k] = v
		}
	}

	return probe.Request{
		Endpoint: pc.Endpoint,
		Method:   pc.Method,
		Status:   pc.Status,
		Body:     pc.Body,
		Headers:  headers,
		VUs:      pc.VUs,
		Duration: pc.Duration,
		Debug:    pc.Debug,
		Timeout:  pc.Timeout,
	}
}
