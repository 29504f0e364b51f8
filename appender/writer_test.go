package appender

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

func TestWriterAppender_Basic(t *testing.T) {
	var buf bytes.Buffer
	a := NewWriterAppender(WriterConfig{
		Name:   "test",
		Writer: &buf,
		Layout: layout.NewPatternLayout("%p %c %m%n"),
	})

	if err := a.DoAppend(eventNamed("db.pool", core.LevelInfo, "connected")); err != nil {
		t.Fatalf("DoAppend() error = %v", err)
	}
	if !strings.Contains(buf.String(), "INFO db.pool connected") {
		t.Errorf("Expected rendered event, got: %s", buf.String())
	}
}

func TestWriterAppender_DefaultLayout(t *testing.T) {
	var buf bytes.Buffer
	a := NewWriterAppender(WriterConfig{Name: "test", Writer: &buf})

	if err := a.DoAppend(eventNamed("a", core.LevelWarn, "careful")); err != nil {
		t.Fatalf("DoAppend() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "careful") {
		t.Errorf("Default pattern output = %q", out)
	}
}

func TestWriterAppender_Threshold(t *testing.T) {
	var buf bytes.Buffer
	a := NewWriterAppender(WriterConfig{
		Name:      "test",
		Writer:    &buf,
		Threshold: core.LevelWarn,
	})

	a.DoAppend(eventNamed("a", core.LevelInfo, "dropped"))
	a.DoAppend(eventNamed("a", core.LevelError, "kept"))

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("Below-threshold event leaked: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Above-threshold event missing: %s", out)
	}
}

func TestWriterAppender_Filters(t *testing.T) {
	var buf bytes.Buffer
	a := NewWriterAppender(WriterConfig{
		Name:   "test",
		Writer: &buf,
		Filters: []Filter{
			&LevelMatchFilter{Match: core.LevelInfo, AcceptOnMatch: true},
			DenyAllFilter{},
		},
	})

	a.DoAppend(eventNamed("a", core.LevelInfo, "matched"))
	a.DoAppend(eventNamed("a", core.LevelError, "denied"))

	out := buf.String()
	if !strings.Contains(out, "matched") {
		t.Errorf("Accepted event missing: %s", out)
	}
	if strings.Contains(out, "denied") {
		t.Errorf("Denied event leaked: %s", out)
	}
}

func TestWriterAppender_WriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	a := NewWriterAppender(WriterConfig{Name: "test", Writer: &buf})

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Second Close() error = %v", err)
	}
	if err := a.DoAppend(eventNamed("a", core.LevelInfo, "late")); err != nil {
		t.Errorf("DoAppend after close must be a silent no-op, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Write after close leaked: %s", buf.String())
	}
}

func eventNamed(logger string, level core.Level, msg string) *core.Event {
	return core.NewEvent(nil, core.EventData{LoggerName: logger, Level: level, Message: msg})
}
