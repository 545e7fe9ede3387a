package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"nil", nil, "{}"},
		{"empty", map[string]string{}, "{}"},
		{"single", map[string]string{"Accept": "application/json"}, `{"Accept": "application/json"}`},
		{
			"sorted",
			map[string]string{"X-B": "2", "Authorization": "Bearer t", "X-A": "1"},
			`{"Authorization": "Bearer t", "X-A": "1", "X-B": "2"}`,
		},
		{"escaped", map[string]string{"X-Quote": `say "hi"`}, `{"X-Quote": "say \"hi\""}`},
		{"html kept", map[string]string{"X-Filter": "a<b&c"}, `{"X-Filter": "a<b&c"}`},
		{"non-ascii", map[string]string{"X-Name": "café"}, `{"X-Name": "caf\u00e9"}`},
		{"astral", map[string]string{"X-Mood": "😀"}, `{"X-Mood": "\ud83d\ude00"}`},
		{"controls", map[string]string{"X-C": "a\tb\x01\x7f"}, `{"X-C": "a\tb\u0001\u007f"}`},
		{"backslash", map[string]string{"X-Path": `C:\tmp`}, `{"X-Path": "C:\\tmp"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeHeaders(tt.headers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeHeaders_InvalidUTF8(t *testing.T) {
	_, err := EncodeHeaders(map[string]string{"X-Bad": "\xff"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"X-Bad"`)
}

func TestOverlayEnv(t *testing.T) {
	base := []string{"PATH=/bin", "CHAOS_K6_VUS=99", "EMPTY=", "NOVALUE"}
	got := overlayEnv(base, map[string]string{
		"CHAOS_K6_VUS": "2",
		"CHAOS_K6_URL": "https://example.com",
	})

	assert.Equal(t, []string{
		"PATH=/bin",
		"EMPTY=",
		"NOVALUE",
		"CHAOS_K6_URL=https://example.com",
		"CHAOS_K6_VUS=2",
	}, got)
	assert.Equal(t, []string{"PATH=/bin", "CHAOS_K6_VUS=99", "EMPTY=", "NOVALUE"}, base, "base must not be modified")
}

func TestStaticEnvReturnsCopies(t *testing.T) {
	env := StaticEnv("A=1")
	first := env()
	first[0] = "A=2"
	assert.Equal(t, []string{"A=1"}, env())
}

func TestProbeVars(t *testing.T) {
	req := NewRequest("https://example.com")
	req.Method = "delete"

	vars, err := probeVars(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		EnvURL:         "https://example.com",
		EnvMethod:      "DELETE",
		EnvStatus:      "200",
		EnvBody:        "",
		EnvHeaders:     "{}",
		EnvVUs:         "1",
		EnvDuration:    "",
		EnvHTTPTimeout: "1",
	}, vars)
}
