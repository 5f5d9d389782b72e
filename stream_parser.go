package deltastream

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/jqcolvin/deltastream/log"
	"github.com/jqcolvin/deltastream/schema"
	"github.com/jqcolvin/deltastream/version"
)

// Mode selects what ParseChunk emits on each call.
type Mode int

const (
	// ModeSnapshot returns the full validated value on every emission.
	ModeSnapshot Mode = iota
	// ModeDelta returns only what changed since the previous emission,
	// per the rules in delta.go.
	ModeDelta
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Parser is the public façade: it owns a [State], a schema defaulted once
// at construction, and (in [ModeDelta]) the previously emitted snapshot.
// It is not safe for concurrent ParseChunk calls on the same instance;
// independent instances share no state.
type Parser struct {
	id     string
	mode   Mode
	state  *State
	schema *schema.Schema

	defaulted *schema.Schema
	validator *schema.Validator

	prev     map[string]any
	poisoned bool

	logger    *slog.Logger
	publisher *log.Publisher
}

// Option configures a [Parser] at construction.
type Option func(*Parser)

// WithLogger overrides the logger a Parser uses for debug-level chunk
// tracing and poisoning notices, replacing the default handler built over
// a [log.Publisher]. Since logger is supplied fully formed, p's Publisher
// is detached -- Subscribe will return nil.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
		p.publisher = nil
	}
}

// WithPublisher routes a Parser's default log handler through pub instead
// of a private one created at construction. Multiple Parser instances
// sharing one Publisher get aggregated, per-instance-distinguishable debug
// output (each record carries this Parser's id) on pub's subscriptions --
// the concurrent-instances story [Parser.ID] documents.
//
// Options apply in order: a WithLogger given after WithPublisher replaces
// this logger and detaches pub, and a WithPublisher given after WithLogger
// replaces that logger.
func WithPublisher(pub *log.Publisher) Option {
	return func(p *Parser) {
		p.publisher = pub
		p.logger = slog.New(log.CreateHandler(pub, slog.LevelDebug, log.FormatJSON))
	}
}

// New builds a Parser from s and mode. It runs the schema defaulter and
// compiles a validator once; both failures are returned synchronously
// rather than deferred to the first ParseChunk call.
func New(s *schema.Schema, mode Mode, opts ...Option) (*Parser, error) {
	defaulted, err := schema.NewDefaulter().Default(s)
	if err != nil {
		return nil, modelBuildErrorFrom(err)
	}

	validator, err := schema.NewValidator(defaulted)
	if err != nil {
		return nil, modelBuildErrorFrom(err)
	}

	publisher := log.NewPublisher()

	p := &Parser{
		id:        uuid.NewString(),
		mode:      mode,
		state:     &State{},
		schema:    s,
		defaulted: defaulted,
		validator: validator,
		publisher: publisher,
		logger:    slog.New(log.CreateHandler(publisher, slog.LevelDebug, log.FormatJSON)),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("id", p.id, "revision", version.Revision, "go_version", version.GoVersion)

	return p, nil
}

func modelBuildErrorFrom(err error) error {
	var buildErr *schema.BuildError
	if errors.As(err, &buildErr) {
		return &ModelBuildError{Path: buildErr.Path, Reason: buildErr.Reason}
	}

	return err
}

// ParseChunk runs the five-step pipeline: advance the character processor
// over every rune in chunk, attempt completion, decode, validate, and
// (in ModeDelta) diff against the previous snapshot. It returns (nil, nil)
// when chunk produced no emission, and a *ValidationError -- poisoning p --
// on any failure; once p is poisoned, every later call returns ErrPoisoned.
func (p *Parser) ParseChunk(chunk string) (any, error) {
	if p.poisoned {
		return nil, ErrPoisoned
	}

	for _, c := range chunk {
		if err := p.state.Advance(c); err != nil {
			p.poisoned = true
			p.logger.Debug("parser poisoned during scan", "error", err)

			return nil, err
		}
	}

	completion, ok := p.state.Complete()
	if !ok {
		p.logger.Debug("chunk not yet completable")

		return nil, nil
	}

	var decoded map[string]any
	if err := jsonAPI.UnmarshalFromString(completion, &decoded); err != nil {
		p.poisoned = true
		verr := newDecodeError(len(p.state.Aggregated), err.Error())
		p.logger.Debug("parser poisoned during decode", "error", verr)

		return nil, verr
	}

	validated, err := p.validator.Validate(decoded)
	if err != nil {
		p.poisoned = true
		verr := newValidateError(len(p.state.Aggregated), err.Error())
		p.logger.Debug("parser poisoned during validation", "error", verr)

		return nil, verr
	}

	if p.mode == ModeSnapshot {
		p.logger.Debug("emitted snapshot")

		return validated, nil
	}

	delta := ComputeDelta(p.prev, validated)
	p.prev = validated

	p.logger.Debug("emitted delta")

	return delta, nil
}

// State returns a read-only snapshot of p's current internal state.
func (p *Parser) State() State {
	return *p.state.Clone()
}

// Schema returns the original, pre-defaulting schema passed to [New].
func (p *Parser) Schema() *schema.Schema {
	return p.schema
}

// DefaultedSchema returns the streaming-relaxed schema produced at
// construction by the schema Defaulter.
func (p *Parser) DefaultedSchema() *schema.Schema {
	return p.defaulted
}

// ID returns the UUID assigned to p at construction, included in every
// debug log record it emits -- so multiple concurrent Parser instances
// sharing a [log.Publisher] (see [WithPublisher]) are distinguishable in
// aggregated log output.
func (p *Parser) ID() string {
	return p.id
}

// Poisoned reports whether a prior ValidationError has made p unusable.
func (p *Parser) Poisoned() bool {
	return p.poisoned
}

// Subscribe returns a subscription to p's log output, or nil if p was
// built with [WithLogger], since that option detaches p's Publisher
// entirely.
func (p *Parser) Subscribe() *log.Subscription {
	if p.publisher == nil {
		return nil
	}

	return p.publisher.Subscribe()
}
