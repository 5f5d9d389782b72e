package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// yamlSchema and yamlField mirror the declarative document FromYAML
// accepts: a title/description plus an ordered list of fields, each
// naming its kind and optional defaulting annotations. This is the
// textual alternative to building a Schema field-by-field with a
// [Builder] in Go.
type yamlSchema struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Fields      []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name          string      `yaml:"name"`
	Kind          string      `yaml:"kind"`
	Nullable      bool        `yaml:"nullable"`
	Required      bool        `yaml:"required"`
	Default       any         `yaml:"default"`
	StreamDefault any         `yaml:"stream_default"`
	Union         []string    `yaml:"union"`
	Nested        *yamlSchema `yaml:"nested"`
}

// FromYAML builds a *Schema from a small declarative YAML document, using
// github.com/goccy/go-yaml to parse it.
//
// Example document:
//
//	title: Person
//	fields:
//	  - {name: name, kind: string, required: true}
//	  - {name: age, kind: number, nullable: true}
//	  - {name: tags, kind: sequence}
func FromYAML(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}

	return buildSchemaFromYAML(&doc)
}

func buildSchemaFromYAML(doc *yamlSchema) (*Schema, error) {
	s := &Schema{Title: doc.Title, Description: doc.Description}

	for _, yf := range doc.Fields {
		f, err := buildFieldFromYAML(yf)
		if err != nil {
			return nil, err
		}

		s.Fields = append(s.Fields, f)
	}

	return s, nil
}

func buildFieldFromYAML(yf yamlField) (*Field, error) {
	kind, err := parseKind(yf.Kind)
	if err != nil {
		return nil, fmt.Errorf("schema: field %q: %w", yf.Name, err)
	}

	f := &Field{
		Name:     yf.Name,
		Kind:     kind,
		Nullable: yf.Nullable,
		Required: yf.Required,
	}

	if yf.Default != nil {
		f.HasExplicitDefault = true
		f.ExplicitDefault = yf.Default
	}

	if yf.StreamDefault != nil {
		f.HasStreamDefault = true
		f.StreamDefault = yf.StreamDefault
	}

	for _, member := range yf.Union {
		mk, err := parseKind(member)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q union member: %w", yf.Name, err)
		}

		f.Union = append(f.Union, mk)
	}

	if yf.Nested != nil {
		nested, err := buildSchemaFromYAML(yf.Nested)
		if err != nil {
			return nil, err
		}

		f.Nested = nested
	}

	return f, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return KindString, nil
	case "number":
		return KindNumber, nil
	case "bool", "boolean":
		return KindBool, nil
	case "null":
		return KindNull, nil
	case "sequence", "array":
		return KindSequence, nil
	case "mapping", "object":
		return KindMapping, nil
	case "nested":
		return KindNested, nil
	case "union":
		return KindUnion, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}
