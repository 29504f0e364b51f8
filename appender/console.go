package appender

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

// ConsoleConfig holds configuration for ConsoleAppender.
type ConsoleConfig struct {
	// Name identifies the appender in configuration and diagnostics.
	Name string
	// Writer is the destination (default: os.Stdout).
	Writer io.Writer
	// Layout renders events (default: pattern DefaultPattern).
	Layout layout.Layout
	// Threshold drops events below this level before the filters run.
	Threshold core.Level
	// Filters is the appender's filter chain.
	Filters []Filter
	// ForceColor enables level colorization even for non-terminal
	// writers; DisableColor wins when both are set. Without either
	// flag, color is enabled when the writer is a terminal.
	ForceColor   bool
	DisableColor bool
}

// ConsoleAppender writes events to a console stream, colorizing each
// line by level when the stream is a terminal.
type ConsoleAppender struct {
	*WriterAppender
	color bool
}

// NewConsoleAppender creates a console appender.
func NewConsoleAppender(cfg ConsoleConfig) *ConsoleAppender {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	color := cfg.ForceColor
	if !color && !cfg.DisableColor {
		if f, ok := cfg.Writer.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	if cfg.DisableColor {
		color = false
	}
	return &ConsoleAppender{
		WriterAppender: NewWriterAppender(WriterConfig{
			Name:      cfg.Name,
			Writer:    cfg.Writer,
			Layout:    cfg.Layout,
			Threshold: cfg.Threshold,
			Filters:   cfg.Filters,
		}),
		color: color,
	}
}

const colorReset = "\x1b[0m"

// levelColor picks an ANSI color by severity band so custom levels
// between the built-in ones still colorize sensibly.
func levelColor(l core.Level) string {
	switch {
	case l.GreaterOrEqual(core.LevelFatal):
		return "\x1b[35m" // magenta
	case l.GreaterOrEqual(core.LevelError):
		return "\x1b[31m" // red
	case l.GreaterOrEqual(core.LevelWarn):
		return "\x1b[33m" // yellow
	case l.GreaterOrEqual(core.LevelInfo):
		return "\x1b[32m" // green
	default:
		return "\x1b[36m" // cyan
	}
}

// DoAppend renders the event, wrapped in color escapes when enabled.
func (a *ConsoleAppender) DoAppend(ev *core.Event) error {
	if !a.color {
		return a.WriterAppender.DoAppend(ev)
	}
	return a.appendWith(ev, levelColor(ev.Level), colorReset)
}
