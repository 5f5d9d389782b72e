package schema

import "fmt"

// BuildError is raised when the [Defaulter] cannot produce a default for
// a required, non-nullable field: a required number, bool, or union whose
// member kinds are not individually defaultable. It carries the dotted
// field path (e.g. "address.zip") so callers can
// locate the offending field in a deeply nested schema.
type BuildError struct {
	Path   string
	Kind   Kind
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("schema: cannot build streaming default for %q (%s): %s", e.Path, e.Kind, e.Reason)
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}

	return parent + "." + child
}
