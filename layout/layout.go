package layout

import (
	"bytes"
	"io"
	"sync"

	"github.com/Philipp01105/treelog/core"
)

// Layout renders an Event into text on the given writer.
type Layout interface {
	Format(w io.Writer, ev *core.Event) error
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
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

// PatternLayout is a Layout backed by a compiled converter chain.
// It is immutable after construction and safe for concurrent use.
type PatternLayout struct {
	pattern string
	head    *Converter
}

// NewPatternLayout compiles pattern using the global converter registry.
// Compilation never fails: malformed specifiers are reported to the
// internal diagnostic log and render as empty fragments.
func NewPatternLayout(pattern string) *PatternLayout {
	return NewParser(pattern).Layout()
}

// Pattern returns the source pattern string.
func (l *PatternLayout) Pattern() string {
	return l.pattern
}

// Format walks the converter chain, rendering each fragment in order,
// and writes the result to w in a single call.
func (l *PatternLayout) Format(w io.Writer, ev *core.Event) error {
	buf := getBuffer()
	for c := l.head; c != nil; c = c.next {
		c.format(buf, ev)
	}
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}
