package deltastream

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these, not against the concrete
// *ModelBuildError / *ValidationError types, since the latter carry
// request-specific context.
var (
	// ErrMalformedPrefix is wrapped by a *ValidationError raised when the
	// character processor rejects the input prefix (stage a of §7).
	ErrMalformedPrefix = errors.New("malformed json prefix")
	// ErrDecodeFailed is wrapped by a *ValidationError raised when the
	// completed prefix fails to decode as JSON (stage b of §7).
	ErrDecodeFailed = errors.New("completed prefix is not valid json")
	// ErrSchemaValidation is wrapped by a *ValidationError raised when the
	// decoded value fails schema validation (stage c of §7).
	ErrSchemaValidation = errors.New("value does not satisfy schema")
	// ErrPoisoned is returned by ParseChunk once a parser has previously
	// failed; the instance must be discarded.
	ErrPoisoned = errors.New("parser is poisoned by a prior validation error")
)

// Stage identifies which of ValidationError's three raise points (§7)
// produced a given error.
type Stage int

const (
	// StageScan means the character processor rejected the prefix.
	StageScan Stage = iota
	// StageDecode means the completed prefix failed to decode as JSON.
	StageDecode
	// StageValidate means the decoded value failed schema validation.
	StageValidate
)

func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageDecode:
		return "decode"
	case StageValidate:
		return "validate"
	default:
		return "unknown"
	}
}

// ValidationError is raised from ParseChunk when the character processor
// detects a malformed prefix, the completed string fails JSON decoding, or
// the decoded value fails schema validation. It always wraps one of
// [ErrMalformedPrefix], [ErrDecodeFailed], or [ErrSchemaValidation].
//
// A ValidationError poisons the [Parser] that raised it: the parser's
// state is left in its last consistent position, but subsequent
// ParseChunk calls are not required to succeed.
type ValidationError struct {
	Stage Stage
	Offset int // byte offset into Aggregated at which the failure occurred
	Reason string
	cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("deltastream: %s error at byte %d: %s", e.Stage, e.Offset, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func newScanError(offset int, reason string) *ValidationError {
	return &ValidationError{Stage: StageScan, Offset: offset, Reason: reason, cause: ErrMalformedPrefix}
}

func newDecodeError(offset int, reason string) *ValidationError {
	return &ValidationError{Stage: StageDecode, Offset: offset, Reason: reason, cause: ErrDecodeFailed}
}

func newValidateError(offset int, reason string) *ValidationError {
	return &ValidationError{Stage: StageValidate, Offset: offset, Reason: reason, cause: ErrSchemaValidation}
}

// ModelBuildError is raised synchronously from [New] when the schema
// defaulter cannot produce a default for a required field (§4.3 rule 6:
// a required, non-nullable field whose kind carries no defaulting story --
// numbers, Booleans, binary data, and bare unions).
type ModelBuildError struct {
	// Path is the dotted field path that could not be defaulted, e.g.
	// "address.zip".
	Path   string
	Reason string
}

func (e *ModelBuildError) Error() string {
	return fmt.Sprintf("deltastream: cannot build streaming default for %q: %s", e.Path, e.Reason)
}
