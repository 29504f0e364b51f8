// Package treelog is the front door of the framework: a process-wide
// default hierarchy with the handful of calls most applications need.
// Libraries that want their own configuration scope use
// hierarchy.New directly instead.
package treelog

import (
	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/config"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/hierarchy"
)

// Level aliases so callers of the facade do not need to import core.
type Level = core.Level

var (
	LevelAll   = core.LevelAll
	LevelDebug = core.LevelDebug
	LevelInfo  = core.LevelInfo
	LevelWarn  = core.LevelWarn
	LevelError = core.LevelError
	LevelFatal = core.LevelFatal
	LevelOff   = core.LevelOff
)

var defaultHierarchy = hierarchy.New()

// Default returns the process-wide hierarchy.
func Default() *hierarchy.Hierarchy {
	return defaultHierarchy
}

// GetLogger returns the named logger from the default hierarchy,
// creating it on first use.
func GetLogger(name string) *hierarchy.Logger {
	return defaultHierarchy.GetLogger(name)
}

// Root returns the default hierarchy's root logger.
func Root() *hierarchy.Logger {
	return defaultHierarchy.Root()
}

// Configure wires the given appenders on the root logger, replacing any
// existing configuration.
func Configure(appenders ...appender.Appender) {
	config.Configure(defaultHierarchy, appenders...)
}

// ConfigureFromFile applies the configuration file once.
func ConfigureFromFile(path string) ([]string, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return config.Apply(defaultHierarchy, cfg, nil), nil
}

// ConfigureAndWatch applies the configuration file and re-applies it on
// change until the returned watcher is closed.
func ConfigureAndWatch(path string) (*config.Watcher, error) {
	return config.ConfigureAndWatch(defaultHierarchy, path, nil)
}

// ResetConfiguration returns the default hierarchy to its unconfigured
// state, closing every attached appender.
func ResetConfiguration() {
	defaultHierarchy.ResetConfiguration()
}

// Shutdown closes every appender in the default hierarchy and stops
// dispatch. Call it before process exit to flush buffered sinks.
func Shutdown() {
	defaultHierarchy.Shutdown()
}
