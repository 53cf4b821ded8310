package util

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema derives a JSON schema object from a Go struct (or pointer to
// one) by reflection.
//
// Supported tags: json (name, omitempty, "-"), description and enum (comma
// separated values). Pointer and omitempty fields are optional. Nested
// structs and slices are described recursively.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	return objectSchema(t)
}

func objectSchema(t reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		prop := typeSchema(field.Type)

		if description := field.Tag.Get("description"); description != "" {
			prop["description"] = description
		}

		if enum := field.Tag.Get("enum"); enum != "" {
			values := strings.Split(enum, ",")
			for i := range values {
				values[i] = strings.TrimSpace(values[i])
			}

			prop["enum"] = values
		}

		properties[name] = prop

		if !omitEmpty && field.Type.Kind() != reflect.Ptr {
			required = append(required, name)
		}
	}

	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func typeSchema(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.Ptr:
		return typeSchema(t.Elem())
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	case reflect.Struct:
		return objectSchema(t)
	case reflect.Map:
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

// jsonName resolves a field's wire name from its json tag.
func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")

	name = field.Name
	if parts[0] != "" {
		name = parts[0]
	}

	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}

	return name, omitEmpty, false
}

// ValidateParameters validates parameters against a JSON schema. The first
// violation is returned as *ValidationError.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(params))
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]

	field := first.Field()
	if first.Type() == "required" {
		if p, ok := first.Details()["property"].(string); ok {
			field = p
		}
	}

	return &ValidationError{
		Field:   field,
		Value:   first.Value(),
		Message: first.Description(),
	}
}
