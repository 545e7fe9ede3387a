package probe

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// EnvPrefix is the prefix of every variable read by the probe script.
const EnvPrefix = "CHAOS_K6"

// Variables consumed by scripts/probe.js.
const (
	EnvURL         = EnvPrefix + "_URL"
	EnvMethod      = EnvPrefix + "_METHOD"
	EnvStatus      = EnvPrefix + "_STATUS"
	EnvBody        = EnvPrefix + "_BODY"
	EnvHeaders     = EnvPrefix + "_HEADERS"
	EnvVUs         = EnvPrefix + "_VUS"
	EnvDuration    = EnvPrefix + "_DURATION"
	EnvHTTPTimeout = EnvPrefix + "_HTTP_TIMEOUT"
	EnvSummaryPath = EnvPrefix + "_SUMMARY_PATH"
)

// EnvProvider returns the base environment in os.Environ form.
type EnvProvider func() []string

// OSEnv reads the environment of the current process.
func OSEnv() []string {
	return os.Environ()
}

// StaticEnv returns an EnvProvider that always yields a copy of env.
func StaticEnv(env ...string) EnvProvider {
	return func() []string {
		return append([]string(nil), env...)
	}
}

// probeVars returns the variables describing req. req must be valid.
func probeVars(req Request) (map[string]string, error) {
	headers, err := EncodeHeaders(req.Headers)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		EnvURL:         req.Endpoint,
		EnvMethod:      req.NormalizedMethod(),
		EnvStatus:      strconv.Itoa(req.Status),
		EnvBody:        req.Body,
		EnvHeaders:     headers,
		EnvVUs:         strconv.Itoa(req.VUs),
		EnvDuration:    req.Duration,
		EnvHTTPTimeout: strconv.Itoa(req.Timeout),
	}, nil
}

// overlayEnv returns base with every key in vars replaced or appended.
// Base order is kept; appended keys are sorted.
func overlayEnv(base []string, vars map[string]string) []string {
	env := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := vars[key]; ok {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

// EncodeHeaders renders headers as a JSON object laid out like Python's
// json.dumps: `{"Accept": "application/json", "X-Id": "1"}`. Keys are sorted.
// A nil map encodes as "{}".
func EncodeHeaders(headers map[string]string) (string, error) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		key, err := encodeString(k)
		if err != nil {
			return "", fmt.Errorf("failed to encode header %q: %w", k, err)
		}
		value, err := encodeString(headers[k])
		if err != nil {
			return "", fmt.Errorf("failed to encode header %q: %w", k, err)
		}
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(value)
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// encodeString quotes s the way json.dumps does with ensure_ascii: every
// character outside printable ASCII becomes a \uXXXX escape, using a
// surrogate pair above U+FFFF.
func encodeString(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", errors.New("not valid UTF-8")
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				sb.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String(), nil
}
