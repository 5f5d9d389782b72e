package schema

import (
	"encoding/json"
	"fmt"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonschema"
)

// Validator compiles a defaulted [Schema] into a real JSON Schema
// validator (github.com/kaptinlin/jsonschema), applying the schema's
// resolved defaults before validating so that a partial, streaming-decoded
// document -- missing keys the defaulter has already chosen to fill in --
// still satisfies the schema's "required" constraints.
type Validator struct {
	schema   *Schema
	compiled *jsonschema.Schema
}

// NewValidator compiles defaulted (the output of [Defaulter.Default])
// into a Validator. It is an error to pass a Schema that has not been
// through a Defaulter: fields without a resolved default cannot be
// reliably applied.
func NewValidator(defaulted *Schema) (*Validator, error) {
	raw, err := toJSONSchema(defaulted)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal defaulted schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	compiled, err := compiler.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: compile defaulted schema: %w", err)
	}

	return &Validator{schema: defaulted, compiled: compiled}, nil
}

// ValidationError reports that a decoded value did not satisfy a
// Validator's compiled schema.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: value does not satisfy schema: %s", e.Reason)
}

// Validate applies v's schema defaults to decoded (filling in any field
// with a Resolve and no present value), then validates the result,
// returning the defaulted, validated mapping or a *ValidationError.
func (v *Validator) Validate(decoded map[string]any) (map[string]any, error) {
	withDefaults := applyDefaults(v.schema, decoded)

	result := v.compiled.Validate(withDefaults)
	if !result.IsValid() {
		return nil, &ValidationError{Reason: formatValidationErrors(result)}
	}

	return withDefaults, nil
}

// Serialize round-trips a validated instance back to a plain mapping for
// delta comparison. Because this binding's validated instances are
// already map[string]any (Go has no runtime struct-schema binding without
// code generation), this is a defaulted-copy pass rather than a
// reflective marshal step -- see DESIGN.md.
func (v *Validator) Serialize(value map[string]any) map[string]any {
	return applyDefaults(v.schema, value)
}

func applyDefaults(s *Schema, decoded map[string]any) map[string]any {
	out := make(map[string]any, len(s.Fields))

	for k, val := range decoded {
		out[k] = val
	}

	for _, f := range s.Fields {
		if _, present := out[f.Name]; present {
			continue
		}

		if f.Resolve == nil {
			continue
		}

		out[f.Name] = f.Resolve()
	}

	return out
}

// toJSONSchema builds s as a *gjsonschema.Schema -- the same structural
// schema type the teacher's magicschema generator builds and merges
// (github.com/google/jsonschema-go/jsonschema) -- then marshals it to the
// raw JSON document kaptinlin/jsonschema compiles. Building the
// intermediate form as a typed Schema rather than a bare map keeps field
// names (Type, Properties, Required, Items, AnyOf, ...) compiler-checked
// instead of stringly-typed.
func toJSONSchema(s *Schema) ([]byte, error) {
	doc := &gjsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*gjsonschema.Schema, len(s.Fields)),
	}

	if s.Title != "" {
		doc.Title = s.Title
	}

	if s.Description != "" {
		doc.Description = s.Description
	}

	for _, f := range s.Fields {
		doc.Properties[f.Name] = fieldJSONSchema(f)

		if f.Required {
			doc.Required = append(doc.Required, f.Name)
		}
	}

	if len(doc.Properties) == 0 {
		doc.Properties = nil
	}

	return json.Marshal(doc)
}

func fieldJSONSchema(f *Field) *gjsonschema.Schema {
	node := &gjsonschema.Schema{}

	switch f.Kind {
	case KindString:
		setNullableType(node, "string", f.Nullable)
	case KindNumber:
		setNullableType(node, "number", f.Nullable)
	case KindBool:
		setNullableType(node, "boolean", f.Nullable)
	case KindNull:
		node.Type = "null"
	case KindSequence:
		setNullableType(node, "array", f.Nullable)

		if f.Nested != nil && len(f.Nested.Fields) > 0 {
			items := &gjsonschema.Schema{Type: "object", Properties: make(map[string]*gjsonschema.Schema, len(f.Nested.Fields))}

			for _, nf := range f.Nested.Fields {
				items.Properties[nf.Name] = fieldJSONSchema(nf)
			}

			node.Items = items
		}
	case KindMapping:
		setNullableType(node, "object", f.Nullable)
	case KindNested:
		setNullableType(node, "object", f.Nullable)

		if f.Nested != nil {
			node.Properties = make(map[string]*gjsonschema.Schema, len(f.Nested.Fields))

			for _, nf := range f.Nested.Fields {
				node.Properties[nf.Name] = fieldJSONSchema(nf)

				if nf.Required {
					node.Required = append(node.Required, nf.Name)
				}
			}
		}
	case KindUnion:
		for _, k := range f.Union {
			node.AnyOf = append(node.AnyOf, &gjsonschema.Schema{Type: kindJSONType(k)})
		}
	}

	return node
}

func kindJSONType(k Kind) string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "array"
	case KindMapping, KindNested:
		return "object"
	default:
		return "null"
	}
}

// setNullableType sets node's Type to t, or its Types to [t, "null"] when
// the field accepts null -- gjsonschema.Schema models a multi-type
// constraint as the plural Types slice rather than overloading Type.
func setNullableType(node *gjsonschema.Schema, t string, nullable bool) {
	if !nullable {
		node.Type = t

		return
	}

	node.Types = []string{t, "null"}
}

func formatValidationErrors(result *jsonschema.EvaluationResult) string {
	list := result.ToList()
	if list == nil || len(list.Errors) == 0 {
		return "schema validation failed"
	}

	msg := ""

	for field, reason := range list.Errors {
		if msg != "" {
			msg += "; "
		}

		msg += fmt.Sprintf("%s: %s", field, reason)
	}

	return msg
}
