package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wesleyorama2/k6probe/internal/probe"
)

const sampleYAML = `
runner: /usr/local/bin/k6
summary: true
defaults:
  status: 204
  timeout: 3
  headers:
    Accept: application/json
    X-Env: staging
probes:
  - name: health
    endpoint: https://example.com/health
    vus: 5
    duration: 10s
    repeat: 3
  - endpoint: https://example.com/items
    method: post
    status: 201
    body: '{"name":"probe"}'
    headers:
      X-Env: prod
`

func TestParseConfig_YAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleYAML), "probes.yaml")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.Runner != "/usr/local/bin/k6" {
		t.Errorf("Runner = %v, want %v", cfg.Runner, "/usr/local/bin/k6")
	}
	if !cfg.Summary {
		t.Error("Summary = false, want true")
	}
	if cfg.Defaults.Status != 204 {
		t.Errorf("Defaults.Status = %v, want %v", cfg.Defaults.Status, 204)
	}
	if len(cfg.Probes) != 2 {
		t.Fatalf("len(Probes) = %v, want %v", len(cfg.Probes), 2)
	}

	health := cfg.Probes[0]
	if health.Name != "health" {
		t.Errorf("Name = %v, want %v", health.Name, "health")
	}
	if health.VUs != 5 {
		t.Errorf("VUs = %v, want %v", health.VUs, 5)
	}
	if health.Duration != "10s" {
		t.Errorf("Duration = %v, want %v", health.Duration, "10s")
	}
	if health.Repeat != 3 {
		t.Errorf("Repeat = %v, want %v", health.Repeat, 3)
	}

	create := cfg.Probes[1]
	if create.Body != `{"name":"probe"}` {
		t.Errorf("Body = %v, want %v", create.Body, `{"name":"probe"}`)
	}
	if create.Headers["X-Env"] != "prod" {
		t.Errorf("Headers[X-Env] = %v, want %v", create.Headers["X-Env"], "prod")
	}
}

func TestParseConfig_JSON(t *testing.T) {
	data := `{
  "probes": [
    {"name": "health", "endpoint": "https://example.com/health", "vus": 2, "debug": true}
  ]
}`
	cfg, err := ParseConfig([]byte(data), "probes.json")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if len(cfg.Probes) != 1 {
		t.Fatalf("len(Probes) = %v, want %v", len(cfg.Probes), 1)
	}
	if !cfg.Probes[0].Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Probes[0].VUs != 2 {
		t.Errorf("VUs = %v, want %v", cfg.Probes[0].VUs, 2)
	}
}

func TestParseConfig_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		path  string
		field string
	}{
		{
			name:  "missing probes",
			data:  "runner: k6\n",
			path:  "p.yaml",
			field: "",
		},
		{
			name:  "missing endpoint",
			data:  "probes:\n  - name: x\n",
			path:  "p.yaml",
			field: "probes[0]",
		},
		{
			name:  "status as string",
			data:  "probes:\n  - endpoint: https://example.com\n    status: \"ok\"\n",
			path:  "p.yaml",
			field: "probes[0].status",
		},
		{
			name:  "unknown field",
			data:  `{"probes": [{"endpoint": "https://example.com", "verb": "GET"}]}`,
			path:  "p.json",
			field: "probes[0]",
		},
		{
			name:  "bad method",
			data:  "probes:\n  - endpoint: https://example.com\n    method: HEAD\n",
			path:  "p.yaml",
			field: "probes[0].method",
		},
		{
			name:  "headers must be strings",
			data:  "probes:\n  - endpoint: https://example.com\n    headers:\n      X-Id: 5\n",
			path:  "p.yaml",
			field: "probes[0].headers.X-Id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.path)
			if err == nil {
				t.Fatal("ParseConfig() should return an error")
			}

			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error should be *ValidationErrors, got %T: %v", err, err)
			}
			if !errors.Is(err, probe.ErrInvalidArgument) {
				t.Error("error should match probe.ErrInvalidArgument")
			}

			found := false
			for _, e := range verrs.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q in %v", tt.field, err)
			}
		})
	}
}

func TestParseConfig_Malformed(t *testing.T) {
	if _, err := ParseConfig([]byte("probes: [unclosed"), "p.yaml"); err == nil {
		t.Error("ParseConfig() should fail on malformed YAML")
	}
	if _, err := ParseConfig([]byte(`{"probes": `), "p.json"); err == nil {
		t.Error("ParseConfig() should fail on malformed JSON")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleYAML), "probes.yaml")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	ApplyDefaults(cfg)

	health := cfg.Probes[0]
	if health.Method != "GET" {
		t.Errorf("Method = %v, want GET", health.Method)
	}
	if health.Status != 204 {
		t.Errorf("Status = %v, want 204 from defaults", health.Status)
	}
	if health.Timeout != 3 {
		t.Errorf("Timeout = %v, want 3", health.Timeout)
	}
	if health.Headers["Accept"] != "application/json" || health.Headers["X-Env"] != "staging" {
		t.Errorf("Headers = %v, want defaults", health.Headers)
	}

	create := cfg.Probes[1]
	if create.Name != "probe-2" {
		t.Errorf("Name = %v, want probe-2", create.Name)
	}
	if create.Status != 201 {
		t.Errorf("Status = %v, want 201", create.Status)
	}
	if create.VUs != 1 {
		t.Errorf("VUs = %v, want 1", create.VUs)
	}
	if create.Repeat != 1 {
		t.Errorf("Repeat = %v, want 1", create.Repeat)
	}
	if create.Headers["X-Env"] != "prod" || create.Headers["Accept"] != "application/json" {
		t.Errorf("Headers = %v, want probe headers over defaults", create.Headers)
	}

	// Merging must not write through to the defaults map.
	if cfg.Defaults.Headers["X-Env"] != "staging" {
		t.Errorf("Defaults.Headers modified: %v", cfg.Defaults.Headers)
	}
}

func TestApplyDefaults_Runner(t *testing.T) {
	cfg := &ProbeFile{Probes: []ProbeConfig{{Endpoint: "https://example.com"}}}
	ApplyDefaults(cfg)
	if cfg.Runner != probe.DefaultRunner {
		t.Errorf("Runner = %v, want %v", cfg.Runner, probe.DefaultRunner)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &ProbeFile{Runner: "k6", Script: "a.js"}
	env := map[string]string{EnvRunner: "/opt/k6", EnvScript: "/opt/probe.js"}
	ApplyEnv(cfg, func(k string) string { return env[k] })

	if cfg.Runner != "/opt/k6" {
		t.Errorf("Runner = %v, want /opt/k6", cfg.Runner)
	}
	if cfg.Script != "/opt/probe.js" {
		t.Errorf("Script = %v, want /opt/probe.js", cfg.Script)
	}

	ApplyEnv(cfg, func(string) string { return "" })
	if cfg.Runner != "/opt/k6" {
		t.Errorf("empty variables must not override, Runner = %v", cfg.Runner)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Probes[1].Name != "probe-2" {
		t.Errorf("defaults were not applied: %+v", cfg.Probes[1])
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "failed to read probe file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_InvalidProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	data := "probes:\n  - endpoint: https://example.com\n    status: 42\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should reject status 42")
	}
	if !strings.Contains(err.Error(), "probes[0].status") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

func TestMergeHeaders(t *testing.T) {
	if got := MergeHeaders(nil, map[string]string{}); got != nil {
		t.Errorf("MergeHeaders() = %v, want nil", got)
	}

	got := MergeHeaders(map[string]string{"A": "1", "B": "1"}, map[string]string{"B": "2"})
	if got["A"] != "1" || got["B"] != "2" || len(got) != 2 {
		t.Errorf("MergeHeaders() = %v", got)
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := ParseHeaders([]string{"Accept: application/json", "X-Token:abc:def", "  X-Empty :  "})
	if err != nil {
		t.Fatalf("ParseHeaders() error = %v", err)
	}
	want := map[string]string{"Accept": "application/json", "X-Token": "abc:def", "X-Empty": ""}
	if len(got) != len(want) {
		t.Fatalf("ParseHeaders() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ParseHeaders()[%q] = %q, want %q", k, got[k], v)
		}
	}

	for _, bad := range []string{"NoColon", ": value"} {
		if _, err := ParseHeaders([]string{bad}); err == nil {
			t.Errorf("ParseHeaders(%q) should fail", bad)
		}
	}

	if got, _ := ParseHeaders(nil); got != nil {
		t.Errorf("ParseHeaders(nil) = %v, want nil", got)
	}
}
