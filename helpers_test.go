package deltastream_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertValidJSON fails t unless doc decodes as JSON. Decoding, not
// re-implementing a validator, is the simplest faithful check that a
// synthesized completion is well-formed.
func assertValidJSON(t *testing.T, doc string) {
	t.Helper()

	var v any

	assert.NoError(t, json.Unmarshal([]byte(doc), &v), "not valid JSON: %q", doc)
}
