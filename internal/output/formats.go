package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters.
//
// FormatProbe is called as each probe finishes; FormatReport once at the end.
type FormatProvider interface {
	FormatProbe(p ProbeReport) string
	FormatReport(r Report) string
}

// JSONFormatter formats the final report as JSON
type JSONFormatter struct {
	Pretty bool
}

// FormatProbe returns nothing; structured output is written once.
func (f *JSONFormatter) FormatProbe(p ProbeReport) string {
	return ""
}

// FormatReport formats the report as a JSON document
func (f *JSONFormatter) FormatReport(r Report) string {
	var (
		data []byte
		err  error
	)
	if f.Pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`+"\n", err.Error())
	}
	return string(data) + "\n"
}

// YAMLFormatter formats the final report as YAML
type YAMLFormatter struct{}

// FormatProbe returns nothing; structured output is written once.
func (f *YAMLFormatter) FormatProbe(p ProbeReport) string {
	return ""
}

// FormatReport formats the report as a YAML document
func (f *YAMLFormatter) FormatReport(r Report) string {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(data)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}
