// Package schematest provides canned [schema.Schema] fixtures shared
// across the schema package's own tests and the root package's
// stream-parser tests, so a multi-field schema with nesting and defaults
// doesn't need to be re-assembled by hand in every test file.
package schematest

import "github.com/jqcolvin/deltastream/schema"

// Person returns a schema with a required name, a numeric age defaulted
// to zero, and an optional sequence of tags -- the shape used throughout
// the defaulter, validator, and stream-parser tests.
//
// Example:
//
//	s := schematest.Person()
//	defaulted, err := schema.NewDefaulter().Default(s)
func Person() *schema.Schema {
	return schema.NewBuilder("person").
		Field(schema.StringField("name", schema.Required())).
		Field(schema.NumberField("age", schema.Required(), schema.WithDefault(0.0))).
		Field(schema.SequenceField("tags")).
		Build()
}

// PersonWithAddress returns Person with a required, nested address field
// carrying its own required city string -- a fixture for exercising
// recursive defaulting and nested JSON Schema compilation.
func PersonWithAddress() *schema.Schema {
	address := schema.NewBuilder("address").
		Field(schema.StringField("city", schema.Required())).
		Field(schema.StringField("zip", schema.Required())).
		Build()

	return schema.NewBuilder("person").
		Field(schema.StringField("name", schema.Required())).
		Field(schema.NestedField("address", schema.Required(), schema.WithNested(address))).
		Build()
}

// RequiredNumberWithNoDefault returns a minimal schema with a single
// required, non-nullable numeric field and no default of any kind -- the
// canonical rule-6 *BuildError fixture.
func RequiredNumberWithNoDefault() *schema.Schema {
	return schema.NewBuilder("bad").
		Field(schema.NumberField("score", schema.Required())).
		Build()
}
