package core

import (
	"context"
	"fmt"
	"time"

	"github.com/trickstertwo/xclock"
)

// Event is a snapshot of one log call. It is built once by the logger
// that owns the call and must not be mutated afterwards: the same Event
// is handed to every appender reached during dispatch, and appenders may
// render it concurrently.
type Event struct {
	LoggerName   string
	Level        Level
	Message      string
	Timestamp    time.Time // UTC
	GoroutineID  uint64
	Caller       CallerInfo
	Properties   *Properties // merged snapshot, never nil
	ContextStack []string
	ErrorText    string
}

// EventData carries the caller-supplied parts of an Event.
type EventData struct {
	LoggerName string
	Level      Level
	Message    string
	// Error, when non-nil, is rendered into the event's ErrorText as
	// "<type>: <message>".
	Error error
	// Properties holds event-local properties. May be nil.
	Properties *Properties
	// CallerSkip, when positive, captures call-site information that
	// many frames above NewEvent.
	CallerSkip int
}

// NewEvent builds a fully populated Event. The property layers merge as
// event-local, then context-scoped, then global; later layers override
// earlier ones on key collision. The timestamp comes from the process
// clock (xclock), so tests can freeze it.
func NewEvent(ctx context.Context, d EventData) *Event {
	ev := &Event{
		LoggerName:   d.LoggerName,
		Level:        d.Level,
		Message:      d.Message,
		Timestamp:    xclock.Now().UTC(),
		GoroutineID:  GoroutineID(),
		ContextStack: ContextStack(ctx),
	}

	var props *Properties
	if d.Properties != nil {
		props = d.Properties.Clone()
	} else {
		props = NewProperties()
	}
	props.Merge(ctxProperties(ctx))
	props.Merge(globalSnapshot())
	ev.Properties = props

	if d.Error != nil {
		ev.ErrorText = fmt.Sprintf("%T: %v", d.Error, d.Error)
	}
	if d.CallerSkip > 0 {
		ev.Caller = CaptureCaller(d.CallerSkip)
	}
	return ev
}
