package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/hierarchy"
)

// recordingAppender captures delivered events so tests can observe the
// wiring that a configuration produced.
type recordingAppender struct {
	name   string
	marker string

	mu     sync.Mutex
	events []*core.Event
	closes int
}

func (a *recordingAppender) Name() string { return a.name }

func (a *recordingAppender) DoAppend(ev *core.Event) error {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
	return nil
}

func (a *recordingAppender) Close() error {
	a.mu.Lock()
	a.closes++
	a.mu.Unlock()
	return nil
}

func (a *recordingAppender) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

type recordingOptions struct {
	Marker string
}

// testRegistry returns a registry with a "recording" kind plus the
// builtins, and a map tracking every instance the factory produced.
func testRegistry(t *testing.T) (*Registry, map[string]*recordingAppender) {
	t.Helper()
	made := make(map[string]*recordingAppender)
	reg := NewRegistry()
	reg.RegisterAppender("recording", func(name string, opts Options, filters []appender.Filter) (appender.Appender, error) {
		var o recordingOptions
		if err := decodeOptions(opts, &o); err != nil {
			return nil, err
		}
		a := &recordingAppender{name: name, marker: o.Marker}
		made[name] = a
		return a, nil
	})
	return reg, made
}

func TestApply_FullTree(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, made := testRegistry(t)
	h := hierarchy.New()

	additive := false
	cfg := &Config{
		Root: RootConfig{Level: "INFO", AppenderRefs: []string{"main"}},
		Loggers: []LoggerConfig{
			{Name: "db", Level: "WARN", Additive: &additive, AppenderRefs: []string{"dbout"}},
		},
		Appenders: []AppenderConfig{
			{Name: "main", Kind: "recording", Options: Options{"marker": "m1"}},
			{Name: "dbout", Kind: "recording"},
		},
	}

	msgs := Apply(h, cfg, reg)
	if len(msgs) != 0 {
		t.Fatalf("Apply() messages = %v", msgs)
	}

	if !h.Root().EffectiveLevel().Equals(core.LevelInfo) {
		t.Errorf("Root level = %s, want INFO", h.Root().EffectiveLevel())
	}
	db := h.GetLogger("db")
	if !db.EffectiveLevel().Equals(core.LevelWarn) || db.Additive() {
		t.Errorf("db logger misconfigured: level=%s additive=%v", db.EffectiveLevel(), db.Additive())
	}
	if made["main"].marker != "m1" {
		t.Errorf("Options not decoded: marker = %q", made["main"].marker)
	}

	// Non-additive db logger delivers only to its own appender.
	db.Error("to dbout")
	h.GetLogger("web").Info("to main")
	if made["dbout"].count() != 1 {
		t.Errorf("dbout received %d events", made["dbout"].count())
	}
	if made["main"].count() != 1 {
		t.Errorf("main received %d events", made["main"].count())
	}
}

func TestApply_UnknownKindSkipsRecord(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, made := testRegistry(t)
	h := hierarchy.New()

	cfg := &Config{
		Root: RootConfig{AppenderRefs: []string{"good"}},
		Appenders: []AppenderConfig{
			{Name: "bad", Kind: "teleport"},
			{Name: "good", Kind: "recording"},
		},
	}

	msgs := Apply(h, cfg, reg)
	if len(msgs) == 0 || !strings.Contains(msgs[0], "unknown appender kind") {
		t.Errorf("Apply() messages = %v", msgs)
	}
	if _, ok := made["good"]; !ok {
		t.Errorf("Healthy record must still apply")
	}
	if len(h.Root().Appenders()) != 1 {
		t.Errorf("Root appenders = %d, want 1", len(h.Root().Appenders()))
	}
}

func TestApply_DanglingReference(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, _ := testRegistry(t)
	h := hierarchy.New()

	cfg := &Config{Root: RootConfig{AppenderRefs: []string{"ghost"}}}
	msgs := Apply(h, cfg, reg)

	found := false
	for _, m := range msgs {
		if strings.Contains(m, "unknown appender \"ghost\"") {
			found = true
		}
	}
	if !found {
		t.Errorf("Apply() messages = %v", msgs)
	}
}

func TestApply_BadLevelKeepsDefault(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, _ := testRegistry(t)
	h := hierarchy.New()

	cfg := &Config{Root: RootConfig{Level: "CHATTY"}}
	msgs := Apply(h, cfg, reg)

	if len(msgs) == 0 || !strings.Contains(msgs[0], "unknown level") {
		t.Errorf("Apply() messages = %v", msgs)
	}
	if !h.Root().EffectiveLevel().Equals(core.LevelDebug) {
		t.Errorf("Root level = %s, want DEBUG kept", h.Root().EffectiveLevel())
	}
}

func TestApply_ClosesUnreferencedAppender(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, made := testRegistry(t)
	h := hierarchy.New()

	cfg := &Config{
		Appenders: []AppenderConfig{{Name: "orphan", Kind: "recording"}},
	}
	msgs := Apply(h, cfg, reg)

	if made["orphan"].closes != 1 {
		t.Errorf("Orphan appender closed %d times, want 1", made["orphan"].closes)
	}
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "never referenced") {
			found = true
		}
	}
	if !found {
		t.Errorf("Apply() messages = %v", msgs)
	}
}

func TestApply_ReplacesPreviousConfiguration(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg, made := testRegistry(t)
	h := hierarchy.New()

	first := &Config{
		Root:      RootConfig{AppenderRefs: []string{"gen1"}},
		Appenders: []AppenderConfig{{Name: "gen1", Kind: "recording"}},
	}
	Apply(h, first, reg)

	second := &Config{
		Root:      RootConfig{AppenderRefs: []string{"gen2"}},
		Appenders: []AppenderConfig{{Name: "gen2", Kind: "recording"}},
	}
	Apply(h, second, reg)

	if made["gen1"].closes != 1 {
		t.Errorf("Previous appender closed %d times, want 1", made["gen1"].closes)
	}

	h.Root().Info("routed")
	if made["gen1"].count() != 0 || made["gen2"].count() != 1 {
		t.Errorf("Events routed to gen1=%d gen2=%d", made["gen1"].count(), made["gen2"].count())
	}
}

func TestApply_BuildsFilterChain(t *testing.T) {
	core.SetDiagnosticQuiet(true)
	defer core.SetDiagnosticQuiet(false)

	reg := NewRegistry()
	var got *recordingAppender
	reg.RegisterAppender("probe", func(name string, opts Options, filters []appender.Filter) (appender.Appender, error) {
		if len(filters) != 2 {
			t.Errorf("Factory received %d filters, want 2", len(filters))
		}
		got = &recordingAppender{name: name}
		return got, nil
	})

	h := hierarchy.New()
	cfg := &Config{
		Root: RootConfig{AppenderRefs: []string{"p"}},
		Appenders: []AppenderConfig{{
			Name: "p",
			Kind: "probe",
			Filters: []FilterConfig{
				{Kind: "levelMatch", Options: Options{"levelToMatch": "INFO", "acceptOnMatch": "true"}},
				{Kind: "denyAll"},
			},
		}},
	}
	if msgs := Apply(h, cfg, reg); len(msgs) != 0 {
		t.Fatalf("Apply() messages = %v", msgs)
	}
	if got == nil {
		t.Fatalf("Factory never ran")
	}
}

func TestConfigure_Programmatic(t *testing.T) {
	h := hierarchy.New()
	a := &recordingAppender{name: "direct"}
	Configure(h, a)

	h.GetLogger("svc").Info("hello")
	if a.count() != 1 {
		t.Errorf("Delivered %d events, want 1", a.count())
	}
}

func TestFilterFactories(t *testing.T) {
	reg := NewRegistry()

	f, err := reg.buildFilter(FilterConfig{
		Kind:    "levelRange",
		Options: Options{"levelMin": "INFO", "levelMax": "ERROR"},
	})
	if err != nil {
		t.Fatalf("buildFilter(levelRange) error = %v", err)
	}
	rangeFilter, ok := f.(*appender.LevelRangeFilter)
	if !ok {
		t.Fatalf("Built %T", f)
	}
	if !rangeFilter.Min.Equals(core.LevelInfo) || !rangeFilter.Max.Equals(core.LevelError) {
		t.Errorf("Range = [%s, %s]", rangeFilter.Min, rangeFilter.Max)
	}

	if _, err := reg.buildFilter(FilterConfig{Kind: "levelMatch"}); err == nil {
		t.Errorf("levelMatch without a level must fail")
	}
	if _, err := reg.buildFilter(FilterConfig{Kind: "noSuchFilter"}); err == nil {
		t.Errorf("Unknown filter kind must fail")
	}
}

func TestConsoleFactory_BadTarget(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.buildAppender(AppenderConfig{
		Name:    "c",
		Kind:    "console",
		Options: Options{"target": "printer"},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown stream") {
		t.Errorf("Expected an unknown stream error, got %v", err)
	}
}
