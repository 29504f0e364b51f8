// Package appender provides the Appender contract and its built-in
// implementations for delivering rendered events to output sinks.
//
// An appender may be invoked concurrently from many goroutines, so each
// implementation serializes access to its own sink with a mutex held
// only for the actual Write call; events are rendered into pooled
// buffers beforehand. Close is idempotent: an appender releases its
// resources once and every later Close or DoAppend is a safe no-op.
//
// Every appender carries an optional filter chain. Filters are
// predicates over the event returning Accept, Deny, or Neutral; the
// first non-Neutral decision wins, and an all-Neutral chain accepts.
// A Threshold level provides a cheaper severity floor checked before
// the filters run.
//
// Built-in appenders:
//
//   - WriterAppender writes formatted events to any io.Writer.
//   - ConsoleAppender writes to stdout or stderr, colorizing by level
//     when the target is a terminal.
//   - FileAppender writes to a file with size-based rotation and backup
//     cleanup.
//   - ZapAppender forwards events to a go.uber.org/zap logger, letting
//     treelog front an existing zap pipeline.
package appender
