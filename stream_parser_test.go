package deltastream_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jqcolvin/deltastream"
	"github.com/jqcolvin/deltastream/log"
	"github.com/jqcolvin/deltastream/schema"
	"github.com/jqcolvin/deltastream/schema/schematest"
)

func personSchema() *schema.Schema {
	return schematest.Person()
}

func feedChunks(t *testing.T, p *deltastream.Parser, chunks []string) []any {
	t.Helper()

	var emissions []any

	for _, chunk := range chunks {
		got, err := p.ParseChunk(chunk)
		require.NoError(t, err)

		if got != nil {
			emissions = append(emissions, got)
		}
	}

	return emissions
}

func TestNew_BuildsParserWithDefaultedSchema(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID())
	assert.False(t, p.Poisoned())
}

func TestNew_FailsWithModelBuildErrorForUndefaultableField(t *testing.T) {
	t.Parallel()

	_, err := deltastream.New(schematest.RequiredNumberWithNoDefault(), deltastream.ModeSnapshot)
	require.Error(t, err)

	var buildErr *deltastream.ModelBuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "score", buildErr.Path)
}

func TestParseChunk_SnapshotModeEmitsFullDefaultedValueEachTime(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	chunks := []string{`{"name": "A`, `da", "age": 3`, `0}`}
	emissions := feedChunks(t, p, chunks)

	require.NotEmpty(t, emissions)

	last, ok := emissions[len(emissions)-1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", last["name"])
	assert.Equal(t, 30.0, last["age"])
	assert.Equal(t, []any{}, last["tags"])
}

func TestParseChunk_IncompleteChunkEmitsNothing(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	got, err := p.ParseChunk(`{"nam`)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseChunk_DeltaModeEmitsOnlyChanges(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeDelta)
	require.NoError(t, err)

	first, err := p.ParseChunk(`{"name": "Ad`)
	require.NoError(t, err)
	require.NotNil(t, first)

	firstMap, ok := first.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ad", firstMap["name"])

	second, err := p.ParseChunk(`a", "age": 5}`)
	require.NoError(t, err)
	require.NotNil(t, second)

	secondMap, ok := second.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", secondMap["name"])
	assert.Equal(t, 5.0, secondMap["age"])
}

func TestParseChunk_MalformedPrefixPoisonsParser(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	_, err = p.ParseChunk(`}`)
	require.Error(t, err)

	var verr *deltastream.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, deltastream.StageScan, verr.Stage)
	assert.True(t, p.Poisoned())

	_, err = p.ParseChunk(`{"name": "x"}`)
	require.ErrorIs(t, err, deltastream.ErrPoisoned)
}

func TestParseChunk_SchemaValidationFailurePoisonsParser(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	_, err = p.ParseChunk(`{"name": 123}`)
	require.Error(t, err)

	var verr *deltastream.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, deltastream.StageValidate, verr.Stage)
	assert.True(t, p.Poisoned())
}

func TestParseChunk_FinalEmissionMatchesWholeDocumentParse(t *testing.T) {
	t.Parallel()

	const doc = `{"name": "Grace", "age": 41, "tags": ["navy", "cobol"]}`

	whole, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	wholeGot, err := whole.ParseChunk(doc)
	require.NoError(t, err)

	chunked, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	var chunkedGot any

	for _, c := range doc {
		got, err := chunked.ParseChunk(string(c))
		require.NoError(t, err)

		if got != nil {
			chunkedGot = got
		}
	}

	assert.Equal(t, wholeGot, chunkedGot)
}

func TestParser_DebugAccessors(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	assert.NotNil(t, p.Schema())
	assert.NotNil(t, p.DefaultedSchema())

	_, err = p.ParseChunk(`{"name": "x`)
	require.NoError(t, err)

	st := p.State()
	assert.True(t, st.IsInsideString)
}

func TestParser_WithLoggerOption(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot, deltastream.WithLogger(logger))
	require.NoError(t, err)

	_, err = p.ParseChunk(`{"name": "x", "age": 1}`)
	require.NoError(t, err)
}

func TestParser_DefaultSubscribeIsReachable(t *testing.T) {
	t.Parallel()

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot)
	require.NoError(t, err)

	sub := p.Subscribe()
	require.NotNil(t, sub)
	sub.Close()
}

func TestParser_WithLoggerDetachesPublisher(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p, err := deltastream.New(personSchema(), deltastream.ModeSnapshot, deltastream.WithLogger(logger))
	require.NoError(t, err)

	assert.Nil(t, p.Subscribe())
}

func TestParser_WithPublisherSharesInstanceAcrossParsers(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	defer pub.Close()

	first, err := deltastream.New(personSchema(), deltastream.ModeSnapshot, deltastream.WithPublisher(pub))
	require.NoError(t, err)

	second, err := deltastream.New(personSchema(), deltastream.ModeDelta, deltastream.WithPublisher(pub))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())

	sub := first.Subscribe()
	require.NotNil(t, sub)
	defer sub.Close()

	n, err := pub.Write([]byte("aggregated"))
	require.NoError(t, err)
	assert.Equal(t, len("aggregated"), n)

	select {
	case got := <-sub.C():
		assert.Equal(t, []byte("aggregated"), got)
	case <-time.After(time.Second):
		t.Fatal("expected subscription to receive bytes published through the shared Publisher")
	}
}
