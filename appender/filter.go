package appender

import "github.com/Philipp01105/treelog/core"

// Decision is the outcome of one filter for one event.
type Decision int

const (
	// Neutral defers to the next filter in the chain.
	Neutral Decision = iota
	// Accept delivers the event, skipping the remaining filters.
	Accept
	// Deny drops the event, skipping the remaining filters.
	Deny
)

// Filter is a predicate over an event. Filters form a chain on an
// appender: the first non-Neutral decision wins, and a chain that stays
// Neutral throughout accepts the event.
type Filter interface {
	Decide(ev *core.Event) Decision
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(ev *core.Event) Decision

func (f FilterFunc) Decide(ev *core.Event) Decision {
	return f(ev)
}

// RunFilters evaluates a chain and reports whether the event passes.
func RunFilters(filters []Filter, ev *core.Event) bool {
	for _, f := range filters {
		switch f.Decide(ev) {
		case Accept:
			return true
		case Deny:
			return false
		}
	}
	return true
}

// LevelRangeFilter accepts events whose level lies in [Min, Max].
type LevelRangeFilter struct {
	Min core.Level
	Max core.Level
	// AcceptOnMatch short-circuits the chain with Accept on a match
	// instead of staying Neutral. Out-of-range events are always denied.
	AcceptOnMatch bool
}

func (f *LevelRangeFilter) Decide(ev *core.Event) Decision {
	if !ev.Level.GreaterOrEqual(f.Min) || ev.Level.Value > f.Max.Value {
		return Deny
	}
	if f.AcceptOnMatch {
		return Accept
	}
	return Neutral
}

// LevelMatchFilter matches events of exactly one level.
type LevelMatchFilter struct {
	Match core.Level
	// AcceptOnMatch selects the decision for a matching event: Accept
	// when true, Deny when false. Non-matching events stay Neutral.
	AcceptOnMatch bool
}

func (f *LevelMatchFilter) Decide(ev *core.Event) Decision {
	if !ev.Level.Equals(f.Match) {
		return Neutral
	}
	if f.AcceptOnMatch {
		return Accept
	}
	return Deny
}

// DenyAllFilter denies every event. Placed at the end of a chain it
// turns the default from accept into deny.
type DenyAllFilter struct{}

func (DenyAllFilter) Decide(*core.Event) Decision {
	return Deny
}
