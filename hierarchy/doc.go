// Package hierarchy owns the tree of named loggers and the event
// dispatch algorithm.
//
// Loggers form a dot-separated name hierarchy ("db", "db.pool",
// "db.pool.conn") rooted at an unnamed root logger. A logger without an
// explicit level inherits the nearest ancestor's; the root always has a
// level, so the inheritance walk always terminates. Resolving a name
// whose ancestors do not exist yet records provision placeholders;
// when an ancestor is later resolved for real, every logger registered
// under its placeholder is re-parented to it, so creation order never
// affects the final tree shape.
//
// An enabled event is dispatched to the logger's own appenders and then
// up the ancestor chain, stopping at the first non-additive logger.
// Each appender invocation is isolated: a failing or panicking appender
// is reported to the internal diagnostic log and never prevents the
// remaining appenders from running, and nothing propagates back to the
// application's log call.
//
// The Hierarchy serializes configuration changes under a single lock,
// while dispatch reads per-logger appender snapshots and never holds
// any hierarchy lock during rendering or I/O. An event already in
// flight when the configuration changes may be delivered to the old
// appender set; configuration is eventually consistent by design of
// the locking model.
package hierarchy
