// Package deltastream parses a JSON document that arrives incrementally --
// character by character, or in chunks of arbitrary size -- and, on every
// chunk boundary, produces either a fully-typed partial snapshot of the
// document or a delta describing only what changed since the previous
// snapshot.
//
// The target use case is consuming structured output from large language
// model streaming APIs: every token that arrives should be reflected in a
// typed value as soon as possible, without waiting for the JSON to
// terminate.
//
// # Pipeline
//
// [New] builds a [Parser] from a [schema.Schema] and a [Mode]. Each call to
// [Parser.ParseChunk] runs five steps:
//
//  1. Every character in the chunk advances the parser's internal [State]
//     (see state.go, scanner.go).
//  2. The prefix completer (complete.go) synthesizes the smallest suffix
//     that turns the accumulated buffer into a well-formed JSON document, or
//     reports that the buffer is not yet completable.
//  3. The completed document is decoded and validated against the
//     schema-directed defaults computed once at construction time by
//     [schema.Defaulter] (see the schema subpackage).
//  4. In [ModeSnapshot], the validated value is returned directly.
//  5. In [ModeDelta], [ComputeDelta] (delta.go) diffs it against the
//     previously emitted snapshot and the delta is returned instead.
//
// A single chunk produces zero or one emission. Once [Parser.ParseChunk]
// returns a [*ValidationError], the parser is poisoned and must not be
// reused.
//
// # Concurrency
//
// A [Parser] is single-threaded and cooperative: it performs no I/O, spawns
// no goroutines, and does not block. Concurrent [Parser.ParseChunk] calls on
// the same instance are undefined; independent instances share no state and
// may run in parallel freely.
package deltastream
