// Package log provides structured logging handler construction for use
// with [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt]) and
// the four standard severities, parsed by name with [GetLevel] and
// [GetFormat]. Use [CreateHandler] to build a handler directly, or
// [CreateHandlerWithStrings] when the level and format arrive as strings
// (e.g. from a host application's own configuration):
//
//	handler, err := log.CreateHandlerWithStrings(os.Stderr, "info", "json")
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] fans out log output to multiple subscribers -- useful for
// forwarding a parser's debug log to more than one consumer without
// blocking on a slow one:
//
//	pub := log.NewPublisher()
//	handler := log.CreateHandler(pub, slog.LevelInfo, log.FormatJSON)
//	logger := slog.New(handler)
//
//	sub := pub.Subscribe()
//	go func() {
//	    for entry := range sub.C() {
//	        // forward entry elsewhere
//	    }
//	}()
package log
