package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/k6probe/internal/probe"
)

// LoadConfig reads, parses, defaults and validates a probe file.
func LoadConfig(path string) (*ProbeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read probe file: %w", err)
	}

	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig checks data against the probe file schema and decodes it.
//
// The format is taken from the extension of path: .json is JSON, anything
// else (including no path) is YAML.
func ParseConfig(data []byte, path string) (*ProbeFile, error) {
	isJSON := strings.ToLower(filepath.Ext(path)) == ".json"

	var doc interface{}
	if isJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON probe file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML probe file: %w", err)
		}
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var cfg ProbeFile
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON probe file: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML probe file: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyDefaults fills unset probe fields from the file defaults and then
// from the built-in request defaults.
func ApplyDefaults(cfg *ProbeFile) {
	if cfg.Runner == "" {
		cfg.Runner = probe.DefaultRunner
	}

	builtin := probe.NewRequest("")
	d := cfg.Defaults
	if d.Method == "" {
		d.Method = builtin.Method
	}
	if d.Status == 0 {
		d.Status = builtin.Status
	}
	if d.VUs == 0 {
		d.VUs = builtin.VUs
	}
	if d.Timeout == 0 {
		d.Timeout = builtin.Timeout
	}

	for i := range cfg.Probes {
		pc := &cfg.Probes[i]
		if pc.Name == "" {
			pc.Name = fmt.Sprintf("probe-%d", i+1)
		}
		if pc.Method == "" {
			pc.Method = d.Method
		}
		if pc.Status == 0 {
			pc.Status = d.Status
		}
		if pc.VUs == 0 {
			pc.VUs = d.VUs
		}
		if pc.Duration == "" {
			pc.Duration = d.Duration
		}
		if pc.Timeout == 0 {
			pc.Timeout = d.Timeout
		}
		if pc.Repeat == 0 {
			pc.Repeat = 1
		}
		pc.Headers = MergeHeaders(d.Headers, pc.Headers)
	}
}

// ApplyEnv overrides runner settings with K6PROBE_* variables.
// getenv is usually os.Getenv.
func ApplyEnv(cfg *ProbeFile, getenv func(string) string) {
	if v := getenv(EnvRunner); v != "" {
		cfg.Runner = v
	}
	if v := getenv(EnvScript); v != "" {
		cfg.Script = v
	}
}

// MergeHeaders returns a new map with later maps taking precedence.
// It returns nil when every input is empty.
func MergeHeaders(maps ...map[string]string) map[string]string {
	var result map[string]string
	for _, m := range maps {
		for k, v := range m {
			if result == nil {
				result = make(map[string]string)
			}
			result[k] = v
		}
	}
	return result
}

// ParseHeaders parses "Key: Value" pairs as given on the command line.
func ParseHeaders(values []string) (map[string]string, error) {
	var headers map[string]string
	for _, h := range values {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Key: Value'", h)
		}
		if headers == nil {
			headers = make(map[string]string)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}
