package schema

// Defaulter produces a streaming-relaxed copy of a [Schema]: a clone in
// which every field has a usable default for partial-document validation,
// chosen per the precedence in [Defaulter.Default]'s doc comment. It holds
// no state and is safe to reuse and share across schemas.
type Defaulter struct{}

// NewDefaulter returns a ready-to-use Defaulter.
func NewDefaulter() *Defaulter {
	return &Defaulter{}
}

// Default returns a clone of s with every field's Resolve populated,
// trying each of the following in order and stopping at the first that
// applies:
//
//  1. The field's explicit default (including an explicit nil).
//  2. The field's explicit default factory.
//  3. The field's stream_default annotation.
//  4. Implicit null, if the field is nullable.
//  5. An automatic default for non-nullable strings (empty string),
//     sequences and mappings (empty, freshly allocated on each call), and
//     nested schemas (recursively defaulted), whether required or not.
//  6. Failure: returns a [*BuildError] naming the field's dotted path.
//
// Non-required fields that reach rule 6 without a default are left with
// a nil Resolve rather than failing -- they are simply optional and may
// be absent from a validated document.
func (d *Defaulter) Default(s *Schema) (*Schema, error) {
	return d.defaultAt(s, "")
}

func (d *Defaulter) defaultAt(s *Schema, path string) (*Schema, error) {
	out := s.Clone()

	for _, f := range out.Fields {
		if err := d.resolveField(f, joinPath(path, f.Name)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (d *Defaulter) resolveField(f *Field, path string) error {
	switch {
	case f.HasExplicitDefault:
		v := f.ExplicitDefault
		f.Resolve = func() any { return v }

		return nil

	case f.DefaultFactory != nil:
		f.Resolve = f.DefaultFactory

		return nil

	case f.HasStreamDefault:
		v := f.StreamDefault
		f.Resolve = func() any { return v }

		return nil

	case f.Nullable:
		f.Resolve = func() any { return nil }

		return nil
	}

	switch f.Kind {
	case KindString:
		f.Resolve = func() any { return "" }

		return nil

	case KindSequence:
		f.Resolve = func() any { return []any{} }

		return nil

	case KindMapping:
		f.Resolve = func() any { return map[string]any{} }

		return nil

	case KindNested:
		if f.Nested == nil {
			if f.Required {
				return &BuildError{Path: path, Kind: f.Kind, Reason: "nested field has no schema"}
			}

			return nil
		}

		defaulted, err := d.defaultAt(f.Nested, path)
		if err != nil {
			return err
		}

		f.Nested = defaulted
		f.Resolve = func() any { return materialize(defaulted) }

		return nil
	}

	if !f.Required {
		return nil
	}

	switch f.Kind {
	case KindNumber:
		return &BuildError{Path: path, Kind: f.Kind, Reason: "required numbers have no automatic default"}
	case KindBool:
		return &BuildError{Path: path, Kind: f.Kind, Reason: "required Booleans have no automatic default"}
	case KindUnion:
		return &BuildError{Path: path, Kind: f.Kind, Reason: "union members do not individually contribute defaults"}
	default:
		return &BuildError{Path: path, Kind: f.Kind, Reason: "no default available"}
	}
}

// materialize builds a default instance of a fully-defaulted nested
// schema by resolving every field, the recursive half of rule 5.
func materialize(s *Schema) map[string]any {
	out := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		if f.Resolve == nil {
			continue
		}

		out[f.Name] = f.Resolve()
	}

	return out
}
