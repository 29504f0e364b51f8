// Package core defines the shared types used across the treelog framework.
//
// It provides the Level type for severity ordering, the Event type that
// represents a single log call, the insertion-ordered Properties bag,
// and the global/context-scoped property layers that are merged into
// every Event.
//
// An Event is built once by the logger that owns the call and is then
// read, possibly concurrently, by every appender reached during
// dispatch. Nothing mutates an Event after NewEvent returns, which is
// what makes concurrent reads safe without locking.
//
// The package also hosts the internal diagnostic log. The framework
// cannot report its own failures through itself, so parse errors,
// appender faults, and probe failures are written here instead of being
// raised to the application. Logging must never crash or surprise the
// host program; the diagnostic log is where that contract is enforced.
package core
