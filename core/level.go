package core

import (
	"math"
	"strings"
)

// Level is an ordered severity value. Higher values are more severe.
// Levels compare by Value only; the name is for display. A Level is
// immutable once constructed.
type Level struct {
	Value int
	Name  string
}

// Predefined levels. The values are spaced widely so applications can
// define custom levels between the built-in ones.
var (
	LevelAll   = Level{math.MinInt32, "ALL"}
	LevelDebug = Level{30000, "DEBUG"}
	LevelInfo  = Level{40000, "INFO"}
	LevelWarn  = Level{60000, "WARN"}
	LevelError = Level{70000, "ERROR"}
	LevelFatal = Level{110000, "FATAL"}
	LevelOff   = Level{math.MaxInt32, "OFF"}
)

// String returns the display name of the level.
func (l Level) String() string {
	return l.Name
}

// GreaterOrEqual reports whether l is at least as severe as other.
func (l Level) GreaterOrEqual(other Level) bool {
	return l.Value >= other.Value
}

// Equals reports value equality. Two differently named levels with the
// same value are equal.
func (l Level) Equals(other Level) bool {
	return l.Value == other.Value
}

// ParseLevel converts a level name to a Level. The second return value
// reports whether the name was recognized; unrecognized names return
// LevelDebug so callers that ignore it still get a safe default.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(s) {
	case "ALL":
		return LevelAll, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	case "OFF":
		return LevelOff, true
	}
	return LevelDebug, false
}
