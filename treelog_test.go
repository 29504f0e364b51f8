package treelog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

func TestFacade_DefaultHierarchy(t *testing.T) {
	defer ResetConfiguration()

	if GetLogger("svc") != Default().GetLogger("svc") {
		t.Errorf("Facade and hierarchy must hand out the same instance")
	}
	if Root() != Default().Root() {
		t.Errorf("Root() must be the default hierarchy's root")
	}
}

func TestFacade_ConfigureAndLog(t *testing.T) {
	defer ResetConfiguration()

	var buf bytes.Buffer
	Configure(appender.NewWriterAppender(appender.WriterConfig{
		Name:   "buf",
		Writer: &buf,
		Layout: layout.NewPatternLayout("%p %c %m%n"),
	}))

	GetLogger("web.server").Info("listening")
	if !strings.Contains(buf.String(), "INFO web.server listening") {
		t.Errorf("Output = %q", buf.String())
	}
}

func TestFacade_ConfigureFromFile(t *testing.T) {
	defer ResetConfiguration()

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	doc := `
root:
  level: ERROR
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := ConfigureFromFile(path); err != nil {
		t.Fatalf("ConfigureFromFile() error = %v", err)
	}
	if !Root().EffectiveLevel().Equals(LevelError) {
		t.Errorf("Root level = %s, want ERROR", Root().EffectiveLevel())
	}

	if _, err := ConfigureFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestFacade_Shutdown(t *testing.T) {
	defer ResetConfiguration()

	var buf bytes.Buffer
	Configure(appender.NewWriterAppender(appender.WriterConfig{Name: "buf", Writer: &buf}))

	Shutdown()
	GetLogger("svc").Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("Events delivered after Shutdown: %q", buf.String())
	}
}

func TestFacade_LevelAliases(t *testing.T) {
	if !LevelWarn.Equals(core.LevelWarn) {
		t.Errorf("Facade level aliases out of sync")
	}
	var l Level = LevelInfo
	if l.Name != "INFO" {
		t.Errorf("Level alias = %+v", l)
	}
}
