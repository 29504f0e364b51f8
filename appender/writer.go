package appender

import (
	"bytes"
	"io"
	"sync"

	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

// bufferPool holds render buffers so the appender write path stays
// allocation-free.
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// WriterConfig holds configuration for WriterAppender.
type WriterConfig struct {
	// Name identifies the appender in configuration and diagnostics.
	Name string
	// Writer is the destination sink. The appender does not close it.
	Writer io.Writer
	// Layout renders events (default: pattern DefaultPattern).
	Layout layout.Layout
	// Threshold drops events below this level before the filters run.
	// The zero value lets everything through.
	Threshold core.Level
	// Filters is the appender's filter chain.
	Filters []Filter
}

// WriterAppender writes rendered events to an io.Writer. Events are
// rendered into a pooled buffer first; the internal mutex is held only
// for the single Write call, so a slow sink never blocks rendering in
// other goroutines longer than its own write.
type WriterAppender struct {
	name      string
	layout    layout.Layout
	threshold core.Level
	filters   []Filter

	mu     sync.Mutex // serializes sink writes
	w      io.Writer
	closed bool
}

// NewWriterAppender creates an appender writing to cfg.Writer.
func NewWriterAppender(cfg WriterConfig) *WriterAppender {
	if cfg.Layout == nil {
		cfg.Layout = layout.NewPatternLayout(DefaultPattern)
	}
	return &WriterAppender{
		name:      cfg.Name,
		layout:    cfg.Layout,
		threshold: cfg.Threshold,
		filters:   cfg.Filters,
		w:         cfg.Writer,
	}
}

// Name returns the appender's configured name.
func (a *WriterAppender) Name() string {
	return a.name
}

// Layout returns the appender's layout.
func (a *WriterAppender) Layout() layout.Layout {
	return a.layout
}

// accepts applies the threshold and the filter chain.
func (a *WriterAppender) accepts(ev *core.Event) bool {
	if !ev.Level.GreaterOrEqual(a.threshold) {
		return false
	}
	return RunFilters(a.filters, ev)
}

// DoAppend renders the event and writes it to the sink.
func (a *WriterAppender) DoAppend(ev *core.Event) error {
	return a.appendWith(ev, "", "")
}

// appendWith renders the event between prefix and suffix (used by the
// console appender for color escapes) and performs one locked write.
func (a *WriterAppender) appendWith(ev *core.Event, prefix, suffix string) error {
	if !a.accepts(ev) {
		return nil
	}

	buf := getBuffer()
	defer putBuffer(buf)
	buf.WriteString(prefix)
	if err := a.layout.Format(buf, ev); err != nil {
		return err
	}
	buf.WriteString(suffix)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	_, err := a.w.Write(buf.Bytes())
	return err
}

// Close marks the appender closed. It does not close the underlying
// writer, which the appender does not own. Double-close is a no-op.
func (a *WriterAppender) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}
