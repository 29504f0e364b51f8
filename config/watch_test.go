package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/hierarchy"
)

func writeConfigFile(t *testing.T, path, level string) {
	t.Helper()
	doc := `
root:
  level: ` + level + `
  appenders: [counted]
appenders:
  - name: counted
    kind: counted
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// countingRegistry tracks how many times a configuration was applied
// through its factory.
func countingRegistry(builds *atomic.Int64) *Registry {
	reg := NewRegistry()
	reg.RegisterAppender("counted", func(name string, opts Options, filters []appender.Filter) (appender.Appender, error) {
		builds.Add(1)
		return appender.NewWriterAppender(appender.WriterConfig{Name: name, Writer: discard{}}), nil
	})
	return reg
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestConfigureAndWatch_InitialApply(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	writeConfigFile(t, path, "WARN")

	var builds atomic.Int64
	h := hierarchy.New()
	w, err := configureAndWatch(h, path, countingRegistry(&builds), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("configureAndWatch() error = %v", err)
	}
	defer w.Close()

	if builds.Load() != 1 {
		t.Errorf("Initial apply ran %d times, want 1", builds.Load())
	}
	if !h.Root().EffectiveLevel().Equals(core.LevelWarn) {
		t.Errorf("Root level = %s, want WARN", h.Root().EffectiveLevel())
	}
}

func TestConfigureAndWatch_ReloadOnChange(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	writeConfigFile(t, path, "INFO")

	var builds atomic.Int64
	h := hierarchy.New()
	w, err := configureAndWatch(h, path, countingRegistry(&builds), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("configureAndWatch() error = %v", err)
	}
	defer w.Close()

	writeConfigFile(t, path, "ERROR")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if h.Root().EffectiveLevel().Equals(core.LevelError) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Root level = %s, want ERROR after reload", h.Root().EffectiveLevel())
}

func TestConfigureAndWatch_CoalescesBursts(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	writeConfigFile(t, path, "INFO")

	var builds atomic.Int64
	h := hierarchy.New()
	w, err := configureAndWatch(h, path, countingRegistry(&builds), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("configureAndWatch() error = %v", err)
	}
	defer w.Close()

	// A burst of writes inside one debounce window.
	for i := 0; i < 5; i++ {
		writeConfigFile(t, path, "WARN")
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && builds.Load() < 2 {
		time.Sleep(10 * time.Millisecond)
	}
	// Initial apply plus one coalesced reload. A straggling event may
	// land after the window, so allow one extra but not one per write.
	if n := builds.Load(); n < 2 || n > 3 {
		t.Errorf("Configuration applied %d times, want 2 (burst coalesced)", n)
	}
}

func TestConfigureAndWatch_BadFileKeepsConfiguration(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	writeConfigFile(t, path, "WARN")

	var builds atomic.Int64
	h := hierarchy.New()
	w, err := configureAndWatch(h, path, countingRegistry(&builds), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("configureAndWatch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("root: ["), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if !h.Root().EffectiveLevel().Equals(core.LevelWarn) {
		t.Errorf("Broken file replaced the configuration: %s", h.Root().EffectiveLevel())
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	path := filepath.Join(t.TempDir(), "treelog.yaml")
	writeConfigFile(t, path, "INFO")

	var builds atomic.Int64
	h := hierarchy.New()
	w, err := configureAndWatch(h, path, countingRegistry(&builds), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("configureAndWatch() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close() error = %v", err)
	}
}
