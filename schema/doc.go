// Package schema provides the "schema capability" a streaming parser
// consumes: a field-by-field description of a structured value (name,
// kind, nullability, explicit default, default factory, stream default),
// a [Defaulter] that relaxes a schema for partial-document streaming, and
// a [Validator] that compiles the defaulted shape into a real JSON Schema
// validator.
//
// Go has no runtime struct-schema introspection, so a [Schema] is built
// explicitly -- with a [Builder], by hand, or parsed from a small YAML
// description via [FromYAML] -- rather than derived by reflection.
package schema
