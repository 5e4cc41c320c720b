// Package validation checks tool arguments locally, before any upstream request
// is built, and reports failures per field.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
)

// Validator validates tool arguments against a tool's input schema.
// Each top-level property is resolved once so failures can name the field.
type Validator struct {
	properties map[string]*jsonschema.Resolved
	required   []string
}

// NewValidator resolves every property schema of the tool input schema.
func NewValidator(schema mcp.ToolInputSchema) (*Validator, error) {
	v := &Validator{
		properties: make(map[string]*jsonschema.Resolved, len(schema.Properties)),
		required:   schema.Required,
	}
	for name, prop := range schema.Properties {
		resolved, err := resolve(prop)
		if err != nil {
			return nil, fmt.Errorf("invalid schema for property %q: %w", name, err)
		}
		v.properties[name] = resolved
	}
	return v, nil
}

func resolve(prop any) (*jsonschema.Resolved, error) {
	raw, err := json.Marshal(prop)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("invalid JSON schema definition: %w", err)
	}
	return s.Resolve(nil)
}

// Validate returns a *domain.ValidationError listing every failing field, or nil.
// Arguments without a declared property are ignored.
func (v *Validator) Validate(args map[string]any) error {
	var issues []domain.FieldIssue

	for _, name := range v.required {
		if _, ok := args[name]; !ok {
			issues = append(issues, domain.FieldIssue{Path: name, Message: "Required"})
		}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		resolved, ok := v.properties[name]
		if !ok {
			continue
		}
		if err := resolved.Validate(args[name]); err != nil {
			issues = append(issues, domain.FieldIssue{Path: name, Message: cleanMessage(err)})
		}
	}

	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}

// cleanMessage drops the "validating root:" prefixes the schema library adds.
func cleanMessage(err error) string {
	msg := err.Error()
	for strings.HasPrefix(msg, "validating ") {
		idx := strings.Index(msg, ": ")
		if idx < 0 {
			break
		}
		msg = msg[idx+2:]
	}
	return msg
}

// Decode converts validated arguments into the typed params struct v.
// Type mismatches are reported as a *domain.ValidationError naming the field.
func Decode(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &domain.ValidationError{Issues: []domain.FieldIssue{{
				Path:    typeErr.Field,
				Message: fmt.Sprintf("expected %s, received %s", typeErr.Type, typeErr.Value),
			}}}
		}
		return &domain.ValidationError{Issues: []domain.FieldIssue{{Message: err.Error()}}}
	}
	if c, ok := v.(interface{ Check() []domain.FieldIssue }); ok {
		if issues := c.Check(); len(issues) > 0 {
			return &domain.ValidationError{Issues: issues}
		}
	}
	return nil
}
