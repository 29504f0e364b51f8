// Package config turns declarative configuration into a live hierarchy.
//
// A Config is a parsed tree of plain records: a root section, named
// logger sections, and appender definitions with options, a pattern,
// and a filter chain. The package does not discover types at runtime;
// appenders and filters are instantiated through an explicit Registry
// mapping kind strings to factory functions, and options are decoded
// from loosely typed maps into each factory's option struct.
//
// Config trees come from XML files in the classic log4net shape, from
// YAML files, or are built in code. ConfigureAndWatch applies a file
// and then re-applies it on change, coalescing rapid notifications into
// one reload per quiet period.
//
// Applying a configuration never panics and never fails the caller:
// records that cannot be honored are skipped and reported as
// configuration messages, and the rest of the tree is applied.
package config
