package tools

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Integer narrows a number property to whole numbers.
func Integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// AllowNull additionally allows an explicit JSON null for the property.
// Call it after Enum so the enum is widened too.
func AllowNull() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = nullableType(schema["type"])
		if enum, ok := schema["enum"].([]string); ok {
			values := make([]any, 0, len(enum)+1)
			for _, v := range enum {
				values = append(values, v)
			}
			schema["enum"] = append(values, nil)
		}
	}
}

// MinItems sets the minimum array length.
func MinItems(n int) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["minItems"] = n
	}
}

// MaxItems sets the maximum array length.
func MaxItems(n int) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["maxItems"] = n
	}
}

// ExactlyOne restricts an array property to a single element.
func ExactlyOne() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["minItems"] = 1
		schema["maxItems"] = 1
	}
}

// Format sets the JSON schema format annotation.
func Format(format string) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["format"] = format
	}
}

// RequireNested marks keys of an object property as required. It must follow
// the option that declares the property, since the property-level "required"
// key is reserved for the top-level flag while the property is built.
func RequireNested(property string, keys ...string) mcp.ToolOption {
	return func(t *mcp.Tool) {
		if schema, ok := t.InputSchema.Properties[property].(map[string]any); ok {
			schema["required"] = keys
		}
	}
}

func nullableType(t any) any {
	switch t := t.(type) {
	case string:
		return []any{t, "null"}
	case []any:
		return append(t, "null")
	default:
		return t
	}
}

// Raw schema fragments for nested properties.

func stringSchema(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func nullableString(description string) map[string]any {
	return map[string]any{"type": []any{"string", "null"}, "description": description}
}

func enumSchema(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func stringItems() map[string]any {
	return map[string]any{"type": "string"}
}

func integerItems() map[string]any {
	return map[string]any{"type": "integer"}
}

func enumItems(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

// dropdownConfigurationSchema describes the options of a dropdown custom field.
func dropdownConfigurationSchema() map[string]any {
	return map[string]any{
		"values": map[string]any{
			"type":        "array",
			"description": "Dropdown items with id (stable identifier) and value (display name)",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    stringSchema("Stable identifier for the option"),
					"value": stringSchema("Display name for the option"),
					"group": stringSchema("Optional group for the option"),
				},
				"required": []string{"id", "value"},
			},
		},
	}
}

// Nullable is an optional JSON value that distinguishes an absent field from
// an explicit null. Use it with the omitzero tag option.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a Nullable holding v.
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true}
}

// Null returns an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

// IsZero reports whether the field was absent.
func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Value = zero
		n.Null = true
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}
