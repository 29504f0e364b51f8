package hierarchy

import (
	"context"
	"fmt"
	"sync"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
)

// Logger is one named node in the hierarchy. Loggers are created and
// owned by a Hierarchy; applications obtain them via GetLogger and
// never construct them directly. The same name always resolves to the
// same instance.
type Logger struct {
	name string
	h    *Hierarchy

	mu        sync.RWMutex
	parent    *Logger
	level     *core.Level
	appenders []appender.Appender
	additive  bool
}

func newLogger(h *Hierarchy, name string) *Logger {
	return &Logger{name: name, h: h, additive: true}
}

// Name returns the logger's full dotted name. The root logger's name is
// the empty string.
func (l *Logger) Name() string {
	return l.name
}

// Parent returns the logger's current parent, or nil for the root.
func (l *Logger) Parent() *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parent
}

func (l *Logger) setParent(p *Logger) {
	l.mu.Lock()
	l.parent = p
	l.mu.Unlock()
}

// Level returns the logger's own level and whether one is set. An unset
// level means the logger inherits from its ancestors.
func (l *Logger) Level() (core.Level, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level == nil {
		return core.Level{}, false
	}
	return *l.level, true
}

// SetLevel sets the logger's own level.
func (l *Logger) SetLevel(level core.Level) {
	l.mu.Lock()
	l.level = &level
	l.mu.Unlock()
}

// ClearLevel removes the logger's own level so it inherits again. The
// root logger must always have a level; clearing it is refused.
func (l *Logger) ClearLevel() {
	if l.parentless() {
		core.DiagErrorf("refusing to clear the root logger's level")
		return
	}
	l.mu.Lock()
	l.level = nil
	l.mu.Unlock()
}

func (l *Logger) parentless() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parent == nil
}

// EffectiveLevel resolves the level used for enablement checks: the
// logger's own level if set, else the nearest ancestor's. The root
// always has a level, so the walk terminates there; if that invariant
// is ever violated the walk falls back to DEBUG and reports it.
func (l *Logger) EffectiveLevel() core.Level {
	for node := l; node != nil; {
		node.mu.RLock()
		level, parent := node.level, node.parent
		node.mu.RUnlock()
		if level != nil {
			return *level
		}
		node = parent
	}
	core.DiagErrorf("no level found walking ancestors of %q; root has no level", l.name)
	return core.LevelDebug
}

// IsEnabledFor reports whether an event at the given level would be
// dispatched. It is the cheap guard applied before an event is built.
func (l *Logger) IsEnabledFor(level core.Level) bool {
	if l.h.closed.Load() {
		return false
	}
	return level.GreaterOrEqual(l.EffectiveLevel())
}

// Additive reports whether events also propagate to ancestor appenders.
func (l *Logger) Additive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.additive
}

// SetAdditive controls propagation to ancestor appenders.
func (l *Logger) SetAdditive(additive bool) {
	l.mu.Lock()
	l.additive = additive
	l.mu.Unlock()
}

// AddAppender attaches an appender. Attaching the same instance twice
// is a no-op.
func (l *Logger) AddAppender(a appender.Appender) {
	if a == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.appenders {
		if existing == a {
			return
		}
	}
	l.appenders = append(l.appenders, a)
}

// RemoveAppender detaches the appender with the given name and returns
// it, or nil when no such appender is attached. The appender is not
// closed.
func (l *Logger) RemoveAppender(name string) appender.Appender {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, a := range l.appenders {
		if a.Name() == name {
			l.appenders = append(l.appenders[:i], l.appenders[i+1:]...)
			return a
		}
	}
	return nil
}

// Appenders returns a snapshot of the attached appenders in
// registration order.
func (l *Logger) Appenders() []appender.Appender {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make([]appender.Appender, len(l.appenders))
	copy(snapshot, l.appenders)
	return snapshot
}

func (l *Logger) clearAppenders() {
	l.mu.Lock()
	l.appenders = nil
	l.mu.Unlock()
}

// Log logs at an arbitrary level.
func (l *Logger) Log(level core.Level, args ...interface{}) {
	l.log(nil, level, nil, args)
}

// Logf logs a formatted message at an arbitrary level.
func (l *Logger) Logf(level core.Level, format string, args ...interface{}) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.log(nil, level, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// LogCtx logs with the properties and nested diagnostic stack carried
// by ctx merged into the event.
func (l *Logger) LogCtx(ctx context.Context, level core.Level, args ...interface{}) {
	l.log(ctx, level, nil, args)
}

// LogWithError logs with an associated error, rendered by the
// %exception converter.
func (l *Logger) LogWithError(level core.Level, err error, args ...interface{}) {
	l.log(nil, level, err, args)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(args ...interface{}) {
	l.log(nil, core.LevelDebug, nil, args)
}

// Debugf logs a formatted message at DEBUG level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.LevelDebug) {
		return
	}
	l.log(nil, core.LevelDebug, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// Info logs at INFO level.
func (l *Logger) Info(args ...interface{}) {
	l.log(nil, core.LevelInfo, nil, args)
}

// Infof logs a formatted message at INFO level.
func (l *Logger) Infof(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.LevelInfo) {
		return
	}
	l.log(nil, core.LevelInfo, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// Warn logs at WARN level.
func (l *Logger) Warn(args ...interface{}) {
	l.log(nil, core.LevelWarn, nil, args)
}

// Warnf logs a formatted message at WARN level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.LevelWarn) {
		return
	}
	l.log(nil, core.LevelWarn, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// Error logs at ERROR level.
func (l *Logger) Error(args ...interface{}) {
	l.log(nil, core.LevelError, nil, args)
}

// Errorf logs a formatted message at ERROR level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.LevelError) {
		return
	}
	l.log(nil, core.LevelError, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// Fatal logs at FATAL level. The process is not terminated; FATAL is a
// severity, not a control-flow primitive.
func (l *Logger) Fatal(args ...interface{}) {
	l.log(nil, core.LevelFatal, nil, args)
}

// Fatalf logs a formatted message at FATAL level.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.LevelFatal) {
		return
	}
	l.log(nil, core.LevelFatal, nil, []interface{}{fmt.Sprintf(format, args...)})
}

// log is the single funnel all level helpers go through. Its depth
// below the application frame is fixed, which keeps caller capture
// accurate. The enablement gate runs before the event is built so
// filtered-out calls cost only the level comparison.
func (l *Logger) log(ctx context.Context, level core.Level, err error, args []interface{}) {
	if !l.IsEnabledFor(level) {
		return
	}

	callerSkip := 0
	if l.h.captureCaller.Load() {
		callerSkip = 4 // CaptureCaller, NewEvent, log, level helper
	}
	ev := core.NewEvent(ctx, core.EventData{
		LoggerName: l.name,
		Level:      level,
		Message:    fmt.Sprint(args...),
		Error:      err,
		CallerSkip: callerSkip,
	})
	l.callAppenders(ev)
}

// LogEvent dispatches a pre-built event through this logger. The
// enablement gate still applies.
func (l *Logger) LogEvent(ev *core.Event) {
	if ev == nil || !l.IsEnabledFor(ev.Level) {
		return
	}
	l.callAppenders(ev)
}

// callAppenders walks from this logger up the ancestor chain, invoking
// every attached appender in registration order, and stops after the
// first non-additive logger. The same event object is handed to every
// appender. No hierarchy lock is held while an appender runs.
func (l *Logger) callAppenders(ev *core.Event) {
	delivered := 0
	for node := l; node != nil; {
		for _, a := range node.Appenders() {
			safeAppend(a, ev)
			delivered++
		}
		if !node.Additive() {
			break
		}
		node = node.Parent()
	}
	if delivered == 0 && l.h.noAppenderWarned.CompareAndSwap(false, true) {
		core.Diagf("no appenders reachable from logger %q; events are being discarded", l.name)
	}
}

// safeAppend isolates one appender invocation: an error or panic is
// reported to the internal diagnostic log and dispatch continues with
// the next appender.
func safeAppend(a appender.Appender, ev *core.Event) {
	defer func() {
		if r := recover(); r != nil {
			core.DiagErrorf("appender %q panicked: %v", a.Name(), r)
		}
	}()
	if err := a.DoAppend(ev); err != nil {
		core.DiagErrorf("appender %q: %v", a.Name(), err)
	}
}
