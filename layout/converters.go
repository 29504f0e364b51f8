package layout

import (
	"bytes"
	"math/rand/v2"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/Philipp01105/treelog/core"
)

// lineSep is the platform line terminator emitted by %n.
var lineSep = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// unavailable is substituted when a probe converter cannot read its
// source (missing user database, permission error). Probe failures must
// never escape into the log pipeline.
const unavailable = "??"

const iso8601 = "2006-01-02 15:04:05,000"

// Named date formats accepted by %date and %utcdate.
var dateFormats = map[string]string{
	"ISO8601":  iso8601,
	"ABSOLUTE": "15:04:05,000",
	"DATE":     "02 Jan 2006 15:04:05,000",
}

func literalConverter(text string) RenderFunc {
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(text)
	}
}

func messageConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		buf.WriteString(ev.Message)
	}
}

func levelConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		buf.WriteString(ev.Level.Name)
	}
}

func newlineConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(lineSep)
	}
}

// dateLayout resolves the converter option to a Go time layout. The
// option is a named preset or a literal layout; empty means ISO8601.
func dateLayout(option string) string {
	if option == "" {
		return iso8601
	}
	if f, ok := dateFormats[option]; ok {
		return f
	}
	return option
}

func dateConverter(option string) RenderFunc {
	format := dateLayout(option)
	return func(buf *bytes.Buffer, ev *core.Event) {
		buf.Write(ev.Timestamp.Local().AppendFormat(buf.AvailableBuffer(), format))
	}
}

func utcDateConverter(option string) RenderFunc {
	format := dateLayout(option)
	return func(buf *bytes.Buffer, ev *core.Event) {
		buf.Write(ev.Timestamp.AppendFormat(buf.AvailableBuffer(), format))
	}
}

// loggerConverter renders the logger name, optionally truncated to the
// last N dot-separated segments. A trailing dot is preserved verbatim
// and does not count as a segment boundary.
func loggerConverter(option string) RenderFunc {
	precision := 0
	if option != "" {
		n, err := cast.ToIntE(option)
		if err != nil || n < 1 {
			core.DiagErrorf("layout: invalid logger precision %q", option)
		} else {
			precision = n
		}
	}
	return func(buf *bytes.Buffer, ev *core.Event) {
		name := ev.LoggerName
		if precision == 0 {
			buf.WriteString(name)
			return
		}
		suffix := ""
		if strings.HasSuffix(name, ".") {
			suffix = "."
			name = name[:len(name)-1]
		}
		segments := strings.Split(name, ".")
		if len(segments) > precision {
			segments = segments[len(segments)-precision:]
		}
		buf.WriteString(strings.Join(segments, "."))
		buf.WriteString(suffix)
	}
}

// propertyConverter renders a single property when a key option is
// given, or the whole bag as an ordered key=value list otherwise.
func propertyConverter(option string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		if option != "" {
			if v, ok := ev.Properties.Get(option); ok {
				buf.WriteString(v)
			}
			return
		}
		for i, k := range ev.Properties.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}
			v, _ := ev.Properties.Get(k)
			buf.WriteString(k)
			buf.WriteByte('=')
			buf.WriteString(v)
		}
	}
}

// exceptionConverter emits the event's error text with a trailing line
// break, or nothing at all when there is no error. No blank line is
// produced for error-free events.
func exceptionConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		if ev.ErrorText == "" {
			return
		}
		buf.WriteString(ev.ErrorText)
		buf.WriteString(lineSep)
	}
}

func ndcConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		for i, msg := range ev.ContextStack {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(msg)
		}
	}
}

func environmentConverter(option string) RenderFunc {
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(os.Getenv(option))
	}
}

func processIDConverter(_ string) RenderFunc {
	pid := strconv.Itoa(os.Getpid())
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(pid)
	}
}

func usernameConverter(_ string) RenderFunc {
	name := unavailable
	if u, err := user.Current(); err == nil {
		name = u.Username
	} else {
		core.Diagf("layout: username unavailable: %v", err)
	}
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(name)
	}
}

func identityConverter(_ string) RenderFunc {
	id := os.Getenv("USER")
	if id == "" {
		id = os.Getenv("USERNAME")
	}
	if id == "" {
		id = unavailable
	}
	return func(buf *bytes.Buffer, _ *core.Event) {
		buf.WriteString(id)
	}
}

const randomChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomConverter emits N random characters per event, default 4.
func randomConverter(option string) RenderFunc {
	length := 4
	if option != "" {
		n, err := cast.ToIntE(option)
		if err != nil || n < 1 {
			core.DiagErrorf("layout: invalid random length %q", option)
		} else {
			length = n
		}
	}
	return func(buf *bytes.Buffer, _ *core.Event) {
		for i := 0; i < length; i++ {
			buf.WriteByte(randomChars[rand.IntN(len(randomChars))])
		}
	}
}

func goroutineConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), ev.GoroutineID, 10))
	}
}

func callerConverter(_ string) RenderFunc {
	return func(buf *bytes.Buffer, ev *core.Event) {
		if !ev.Caller.Defined {
			buf.WriteString(unavailable)
			return
		}
		buf.WriteString(ev.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(ev.Caller.Line), 10))
	}
}
