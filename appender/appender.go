package appender

import (
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

// Appender is a sink that receives log events during dispatch.
//
// DoAppend may be called concurrently; implementations serialize their
// own sink access. Errors returned from DoAppend are routed to the
// internal diagnostic log by the dispatcher and never reach the
// application. Close releases the sink's resources; calling it more
// than once is a no-op.
type Appender interface {
	Name() string
	DoAppend(ev *core.Event) error
	Close() error
}

// LayoutProvider is an optional interface for appenders that render
// through a Layout. The core never requires it; configuration helpers
// use it to inspect or replace an appender's layout.
type LayoutProvider interface {
	Layout() layout.Layout
}

// DefaultPattern is the layout used by appenders constructed without an
// explicit one.
const DefaultPattern = "%d [%p] %c - %m%n"
