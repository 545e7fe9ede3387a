package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wesleyorama2/k6probe/internal/probe"
)

//go:embed probefile.schema.json
var probeFileSchema string

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ValidationError represents a probe file validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Unwrap lets errors.Is(err, probe.ErrInvalidArgument) match a bad file.
func (e *ValidationErrors) Unwrap() error {
	return probe.ErrInvalidArgument
}

// Validate checks every probe after defaults have been applied.
//
// Returns nil if valid, or a *ValidationErrors with all problems found.
func (c *ProbeFile) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Probes) == 0 {
		errs.Add("probes", "at least one probe is required")
	}

	seen := make(map[string]int, len(c.Probes))
	for i, pc := range c.Probes {
		prefix := fmt.Sprintf("probes[%d]", i)

		if pc.Name != "" {
			if first, dup := seen[pc.Name]; dup {
				errs.Add(prefix+".name", fmt.Sprintf("duplicate probe name %q (first used by probes[%d])", pc.Name, first))
			} else {
				seen[pc.Name] = i
			}
		}
		if pc.Repeat < 0 {
			errs.Add(prefix+".repeat", "repeat cannot be negative")
		}

		var verr *probe.ValidationError
		if err := pc.Request().Validate(); errors.As(err, &verr) {
			errs.Add(prefix+"."+verr.Field, verr.Message)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateDocument checks a decoded YAML or JSON document against the
// embedded probe file schema.
func validateDocument(doc interface{}) error {
	schema, err := probeSchema()
	if err != nil {
		return err
	}

	// YAML decodes into Go types the schema validator does not know;
	// a JSON round trip normalizes them.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("probe file is not representable as JSON: %w", err)
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("probe file is not representable as JSON: %w", err)
	}

	err = schema.Validate(normalized)
	if err == nil {
		return nil
	}

	var schemaErr *jsonschema.ValidationError
	if !errors.As(err, &schemaErr) {
		return err
	}

	errs := &ValidationErrors{}
	collectSchemaErrors(schemaErr, errs)
	if !errs.HasErrors() {
		errs.Add("", schemaErr.Error())
	}
	return errs
}

func probeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("probefile.schema.json", strings.NewReader(probeFileSchema)); err != nil {
			compileErr = fmt.Errorf("invalid probe file schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("probefile.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("invalid probe file schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// collectSchemaErrors flattens the leaf causes of a schema error.
func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		errs.Add(instanceField(err.InstanceLocation), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// instanceField turns a JSON pointer like /probes/0/status into probes[0].status.
func instanceField(pointer string) string {
	var sb strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if part == "" {
			continue
		}
		if isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
