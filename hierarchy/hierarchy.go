package hierarchy

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
)

// provisionNode is a placeholder recorded for a name that has been seen
// only as an ancestor of a real logger. It remembers the descendants
// that currently link past it, so that resolving the name for real can
// re-parent them.
type provisionNode struct {
	children []*Logger
}

// Hierarchy owns the tree of loggers for one configuration scope: the
// name→logger map, the root logger, and the configuration lifecycle.
type Hierarchy struct {
	mu      sync.RWMutex           // guards the loggers map
	loggers map[string]interface{} // *Logger or *provisionNode

	// configMu serializes configuration changes (Reconfigure, Reset,
	// Shutdown) against each other. It is never held during dispatch.
	configMu sync.Mutex

	root *Logger

	generation       atomic.Uint64
	closed           atomic.Bool
	captureCaller    atomic.Bool
	noAppenderWarned atomic.Bool

	msgMu    sync.Mutex
	messages []string
}

// New creates a hierarchy with an unconfigured root at DEBUG level.
// The root's level is always set; this is what guarantees that every
// effective-level walk terminates.
func New() *Hierarchy {
	h := &Hierarchy{loggers: make(map[string]interface{})}
	h.root = newLogger(h, "")
	h.root.SetLevel(core.LevelDebug)
	return h
}

// Root returns the root logger.
func (h *Hierarchy) Root() *Logger {
	return h.root
}

// Generation returns the configuration generation counter, incremented
// on every applied configuration change.
func (h *Hierarchy) Generation() uint64 {
	return h.generation.Load()
}

// SetCaptureCaller enables call-site capture on events. Capture walks
// the runtime stack, so it is off by default.
func (h *Hierarchy) SetCaptureCaller(enabled bool) {
	h.captureCaller.Store(enabled)
}

// GetLogger returns the logger with the given name, creating it and
// recording provision placeholders for missing ancestors on first use.
// Repeated calls with the same name return the same instance. The empty
// name resolves to the root.
func (h *Hierarchy) GetLogger(name string) *Logger {
	if name == "" {
		return h.root
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch node := h.loggers[name].(type) {
	case *Logger:
		return node
	case *provisionNode:
		l := newLogger(h, name)
		h.loggers[name] = l
		h.updateChildren(node, l)
		h.updateParents(l)
		return l
	default:
		l := newLogger(h, name)
		h.loggers[name] = l
		h.updateParents(l)
		return l
	}
}

// updateParents links l to its nearest existing ancestor, registering l
// on the provision placeholder of every missing one. Falls back to the
// root when no ancestor exists. Caller holds h.mu.
func (h *Hierarchy) updateParents(l *Logger) {
	name := l.name
	for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name[:i], '.') {
		prefix := name[:i]
		switch ancestor := h.loggers[prefix].(type) {
		case *Logger:
			l.setParent(ancestor)
			return
		case *provisionNode:
			ancestor.children = append(ancestor.children, l)
		default:
			h.loggers[prefix] = &provisionNode{children: []*Logger{l}}
		}
	}
	l.setParent(h.root)
}

// updateChildren re-parents the descendants registered on a provision
// placeholder to the logger that now owns the placeholder's name. A
// descendant whose parent already sits below l is left alone. This is
// the operation that makes creation order irrelevant: a logger created
// before its ancestor is relinked the moment the ancestor appears.
// Caller holds h.mu.
func (h *Hierarchy) updateChildren(pn *provisionNode, l *Logger) {
	for _, child := range pn.children {
		parent := child.Parent()
		if parent == nil || !strings.HasPrefix(parent.name+".", l.name+".") {
			child.setParent(l)
		}
	}
}

// Exists returns the logger with the given name if it has been created,
// without creating it. Provision placeholders do not count.
func (h *Hierarchy) Exists(name string) *Logger {
	if name == "" {
		return h.root
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if l, ok := h.loggers[name].(*Logger); ok {
		return l
	}
	return nil
}

// CurrentLoggers returns all created loggers sorted by name. The root
// is not included.
func (h *Hierarchy) CurrentLoggers() []*Logger {
	h.mu.RLock()
	all := make([]*Logger, 0, len(h.loggers))
	for _, node := range h.loggers {
		if l, ok := node.(*Logger); ok {
			all = append(all, l)
		}
	}
	h.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].name < all[j].name })
	return all
}

// SetLevel sets the level of the named logger, creating it if needed.
func (h *Hierarchy) SetLevel(name string, level core.Level) {
	h.GetLogger(name).SetLevel(level)
}

// Reconfigure runs fn under the configuration lock and bumps the
// generation counter. Dispatch is not blocked: it reads per-logger
// appender snapshots, so an event in flight may still see the previous
// appender set.
func (h *Hierarchy) Reconfigure(fn func()) {
	h.configMu.Lock()
	defer h.configMu.Unlock()
	fn()
	h.generation.Add(1)
}

// ResetConfiguration closes every reachable appender exactly once,
// detaches them all, clears non-root levels, restores additivity, and
// returns the hierarchy to an unconfigured state ready for a new
// configuration.
func (h *Hierarchy) ResetConfiguration() {
	h.Reconfigure(func() {
		h.closeAllAppenders()
		for _, l := range h.allLoggers() {
			l.clearAppenders()
			if l != h.root {
				l.ClearLevel()
				l.SetAdditive(true)
			}
		}
		h.root.SetLevel(core.LevelDebug)
		h.closed.Store(false)
		h.noAppenderWarned.Store(false)
	})
}

// Shutdown closes every reachable appender exactly once and stops
// dispatch. Loggers remain resolvable; log calls become no-ops.
func (h *Hierarchy) Shutdown() {
	h.Reconfigure(func() {
		h.closed.Store(true)
		h.closeAllAppenders()
		for _, l := range h.allLoggers() {
			l.clearAppenders()
		}
	})
}

// closeAllAppenders closes each distinct appender once, even when it is
// shared between loggers.
func (h *Hierarchy) closeAllAppenders() {
	visited := make(map[appender.Appender]bool)
	for _, l := range h.allLoggers() {
		for _, a := range l.Appenders() {
			if visited[a] {
				continue
			}
			visited[a] = true
			if err := a.Close(); err != nil {
				core.DiagErrorf("closing appender %q: %v", a.Name(), err)
			}
		}
	}
}

// allLoggers returns the root plus every created logger.
func (h *Hierarchy) allLoggers() []*Logger {
	return append([]*Logger{h.root}, h.CurrentLoggers()...)
}

// RecordConfigurationMessage stores a message produced while applying
// configuration. Messages accumulate until collected.
func (h *Hierarchy) RecordConfigurationMessage(msg string) {
	h.msgMu.Lock()
	h.messages = append(h.messages, msg)
	h.msgMu.Unlock()
}

// ConfigurationMessages returns and clears the pending configuration
// messages.
func (h *Hierarchy) ConfigurationMessages() []string {
	h.msgMu.Lock()
	defer h.msgMu.Unlock()
	msgs := h.messages
	h.messages = nil
	return msgs
}
