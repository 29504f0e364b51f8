package layout

import (
	"bytes"

	"github.com/Philipp01105/treelog/core"
)

// Modifiers are the width and alignment flags parsed from a conversion
// specifier, e.g. "-5" in "%-5level" or ".3" in "%.3m".
type Modifiers struct {
	// MinWidth pads the fragment with spaces up to this width. Zero
	// means no padding.
	MinWidth int
	// MaxWidth truncates the fragment to this width. Zero means no
	// truncation.
	MaxWidth int
	// LeftAlign pads on the right instead of the left.
	LeftAlign bool
}

// RenderFunc produces the raw text of one fragment, before width and
// truncation modifiers are applied.
type RenderFunc func(buf *bytes.Buffer, ev *core.Event)

// ConverterFactory builds a RenderFunc for one specifier instance. The
// option string is the verbatim contents of the {...} braces, or ""
// when no option was given. Factories interpret their own option syntax
// and may precompute derived state (a parsed precision, a date layout).
type ConverterFactory func(option string) RenderFunc

// Converter is one node in a compiled pattern chain. The chain is singly
// linked, owned by its PatternLayout, and immutable after parsing.
type Converter struct {
	render RenderFunc
	mod    Modifiers
	next   *Converter
}

// format renders the node into out, applying the width modifiers.
func (c *Converter) format(out *bytes.Buffer, ev *core.Event) {
	if c.mod == (Modifiers{}) {
		c.render(out, ev)
		return
	}

	scratch := getBuffer()
	c.render(scratch, ev)
	s := scratch.String()
	putBuffer(scratch)

	if c.mod.MaxWidth > 0 && len(s) > c.mod.MaxWidth {
		if c.mod.LeftAlign {
			// Left-aligned fields keep the head.
			s = s[:c.mod.MaxWidth]
		} else {
			// Right-aligned fields keep the tail.
			s = s[len(s)-c.mod.MaxWidth:]
		}
	}

	if pad := c.mod.MinWidth - len(s); pad > 0 {
		if c.mod.LeftAlign {
			out.WriteString(s)
			writeSpaces(out, pad)
			return
		}
		writeSpaces(out, pad)
	}
	out.WriteString(s)
}

var spaces = [16]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

func writeSpaces(buf *bytes.Buffer, n int) {
	for n > len(spaces) {
		buf.Write(spaces[:])
		n -= len(spaces)
	}
	buf.Write(spaces[:n])
}
