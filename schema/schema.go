package schema

import "fmt"

// Schema is a field-by-field description of a structured value: the
// "schema capability" a streaming parser consumes to know what defaults
// are available and what shape a decoded document must conform to.
//
// A Schema is built once, by hand with a [Builder], with the field
// constructors below, or parsed with [FromYAML], and is immutable once
// handed to a [Defaulter] or [Validator].
type Schema struct {
	Title       string
	Description string
	Fields      []*Field
}

// Field looks up a field by name, returning nil if absent.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// Clone returns a deep copy of s; mutating the clone's fields (as the
// Defaulter does) never affects the original.
func (s *Schema) Clone() *Schema {
	clone := &Schema{Title: s.Title, Description: s.Description}

	clone.Fields = make([]*Field, len(s.Fields))
	for i, f := range s.Fields {
		clone.Fields[i] = f.Clone()
	}

	return clone
}

// Builder assembles a Schema field by field, the way a host-language
// binding (a reflection-based struct walker, a code generator, or a
// hand-written description) would populate one.
type Builder struct {
	schema *Schema
}

// NewBuilder starts a Builder for a schema with the given title.
func NewBuilder(title string) *Builder {
	return &Builder{schema: &Schema{Title: title}}
}

// Describe sets the schema's description.
func (b *Builder) Describe(description string) *Builder {
	b.schema.Description = description

	return b
}

// Field appends f to the schema under construction and returns b for
// chaining.
func (b *Builder) Field(f *Field) *Builder {
	b.schema.Fields = append(b.schema.Fields, f)

	return b
}

// Build finalizes and returns the assembled Schema.
func (b *Builder) Build() *Schema {
	return b.schema
}

// FieldOption configures a [Field] produced by one of the kind
// constructors below (StringField, NumberField, ...).
type FieldOption func(*Field)

// Nullable marks a field as accepting null, giving it the rule-4 implicit
// null default in the absence of a higher-precedence one.
func Nullable() FieldOption {
	return func(f *Field) {
		f.Nullable = true
	}
}

// Required marks a field as required, meaning the Defaulter must find it
// a default under the rule-6 sequence or fail construction.
func Required() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

// WithDefault sets rule 1's explicit default, including explicit nil.
func WithDefault(v any) FieldOption {
	return func(f *Field) {
		f.HasExplicitDefault = true
		f.ExplicitDefault = v
	}
}

// WithDefaultFactory sets rule 2's explicit default factory.
func WithDefaultFactory(factory func() any) FieldOption {
	return func(f *Field) {
		f.DefaultFactory = factory
	}
}

// WithStreamDefault sets rule 3's stream_default annotation.
func WithStreamDefault(v any) FieldOption {
	return func(f *Field) {
		f.HasStreamDefault = true
		f.StreamDefault = v
	}
}

// WithNested attaches a nested schema: the element schema for a sequence
// or mapping value, or the full schema for a nested structured field.
func WithNested(nested *Schema) FieldOption {
	return func(f *Field) {
		f.Nested = nested
	}
}

// WithUnion sets the member kinds of a union field. Per defaulting rule
// 6, member kinds never contribute defaults on their own.
func WithUnion(kinds ...Kind) FieldOption {
	return func(f *Field) {
		f.Union = kinds
	}
}

func newField(name string, kind Kind, opts []FieldOption) *Field {
	f := &Field{Name: name, Kind: kind}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func StringField(name string, opts ...FieldOption) *Field {
	return newField(name, KindString, opts)
}

func NumberField(name string, opts ...FieldOption) *Field {
	return newField(name, KindNumber, opts)
}

func BoolField(name string, opts ...FieldOption) *Field {
	return newField(name, KindBool, opts)
}

func SequenceField(name string, opts ...FieldOption) *Field {
	return newField(name, KindSequence, opts)
}

func MappingField(name string, opts ...FieldOption) *Field {
	return newField(name, KindMapping, opts)
}

func NestedField(name string, opts ...FieldOption) *Field {
	return newField(name, KindNested, opts)
}

func UnionField(name string, opts ...FieldOption) *Field {
	return newField(name, KindUnion, opts)
}

func (f *Field) String() string {
	return fmt.Sprintf("Field{%s %s nullable=%v required=%v}", f.Name, f.Kind, f.Nullable, f.Required)
}
