package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

// AppenderFactory builds an appender from its decoded definition. The
// filter chain is already built from the definition's filter records.
type AppenderFactory func(name string, opts Options, filters []appender.Filter) (appender.Appender, error)

// FilterFactory builds one filter from its option bag.
type FilterFactory func(opts Options) (appender.Filter, error)

// Registry maps kind strings to factories. Kinds are case-insensitive.
// A zero Registry is empty; NewRegistry returns one preloaded with the
// built-in console and file appenders and the level filters.
type Registry struct {
	mu        sync.RWMutex
	appenders map[string]AppenderFactory
	filters   map[string]FilterFactory
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used when Apply is given nil.
// Registering on it makes a kind available process-wide.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry returns a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	r := &Registry{}
	r.RegisterAppender("console", consoleFactory)
	r.RegisterAppender("file", fileFactory)
	r.RegisterFilter("levelRange", levelRangeFactory)
	r.RegisterFilter("levelMatch", levelMatchFactory)
	r.RegisterFilter("denyAll", denyAllFactory)
	return r
}

// RegisterAppender registers or replaces an appender kind.
func (r *Registry) RegisterAppender(kind string, f AppenderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appenders == nil {
		r.appenders = make(map[string]AppenderFactory)
	}
	r.appenders[strings.ToLower(kind)] = f
}

// RegisterFilter registers or replaces a filter kind.
func (r *Registry) RegisterFilter(kind string, f FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filters == nil {
		r.filters = make(map[string]FilterFactory)
	}
	r.filters[strings.ToLower(kind)] = f
}

func (r *Registry) buildAppender(ac AppenderConfig) (appender.Appender, error) {
	r.mu.RLock()
	f, ok := r.appenders[strings.ToLower(ac.Kind)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown appender kind %q", ac.Kind)
	}

	filters := make([]appender.Filter, 0, len(ac.Filters))
	for _, fc := range ac.Filters {
		flt, err := r.buildFilter(fc)
		if err != nil {
			return nil, err
		}
		filters = append(filters, flt)
	}
	return f(ac.Name, ac.Options, filters)
}

func (r *Registry) buildFilter(fc FilterConfig) (appender.Filter, error) {
	r.mu.RLock()
	f, ok := r.filters[strings.ToLower(fc.Kind)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown filter kind %q", fc.Kind)
	}
	return f(fc.Options)
}

// decodeOptions decodes a loose option bag into a factory's option
// struct. Input is weakly typed, so string values from file formats
// coerce into bools and integers, and keys match field names
// case-insensitively.
func decodeOptions(opts Options, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(opts)); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}

func parseLevelOption(field, name string, fallback core.Level) (core.Level, error) {
	if name == "" {
		return fallback, nil
	}
	level, ok := core.ParseLevel(name)
	if !ok {
		return fallback, fmt.Errorf("%s: unknown level %q", field, name)
	}
	return level, nil
}

func patternLayout(pattern string) layout.Layout {
	if pattern == "" {
		pattern = appender.DefaultPattern
	}
	return layout.NewPatternLayout(pattern)
}

type consoleOptions struct {
	// Target selects the stream: "stdout" (default) or "stderr".
	Target    string
	Pattern   string
	Threshold string
	// Color overrides terminal detection: "always" or "never".
	Color string
}

func consoleFactory(name string, opts Options, filters []appender.Filter) (appender.Appender, error) {
	var o consoleOptions
	if err := decodeOptions(opts, &o); err != nil {
		return nil, err
	}

	var w *os.File
	switch strings.ToLower(o.Target) {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		return nil, fmt.Errorf("target: unknown stream %q", o.Target)
	}

	threshold, err := parseLevelOption("threshold", o.Threshold, core.LevelAll)
	if err != nil {
		return nil, err
	}

	return appender.NewConsoleAppender(appender.ConsoleConfig{
		Name:         name,
		Writer:       w,
		Layout:       patternLayout(o.Pattern),
		Threshold:    threshold,
		Filters:      filters,
		ForceColor:   strings.EqualFold(o.Color, "always"),
		DisableColor: strings.EqualFold(o.Color, "never"),
	}), nil
}

type fileOptions struct {
	Path       string
	Pattern    string
	Threshold  string
	Truncate   bool
	MaxSize    int64
	MaxBackups int
}

func fileFactory(name string, opts Options, filters []appender.Filter) (appender.Appender, error) {
	var o fileOptions
	if err := decodeOptions(opts, &o); err != nil {
		return nil, err
	}

	threshold, err := parseLevelOption("threshold", o.Threshold, core.LevelAll)
	if err != nil {
		return nil, err
	}

	return appender.NewFileAppender(appender.FileConfig{
		Name:       name,
		Path:       o.Path,
		Layout:     patternLayout(o.Pattern),
		Threshold:  threshold,
		Filters:    filters,
		Truncate:   o.Truncate,
		MaxSize:    o.MaxSize,
		MaxBackups: o.MaxBackups,
	})
}

type levelRangeOptions struct {
	LevelMin      string
	LevelMax      string
	AcceptOnMatch bool
}

func levelRangeFactory(opts Options) (appender.Filter, error) {
	var o levelRangeOptions
	if err := decodeOptions(opts, &o); err != nil {
		return nil, err
	}
	min, err := parseLevelOption("levelMin", o.LevelMin, core.LevelAll)
	if err != nil {
		return nil, err
	}
	max, err := parseLevelOption("levelMax", o.LevelMax, core.LevelOff)
	if err != nil {
		return nil, err
	}
	return &appender.LevelRangeFilter{Min: min, Max: max, AcceptOnMatch: o.AcceptOnMatch}, nil
}

type levelMatchOptions struct {
	LevelToMatch  string
	AcceptOnMatch bool
}

func levelMatchFactory(opts Options) (appender.Filter, error) {
	var o levelMatchOptions
	if err := decodeOptions(opts, &o); err != nil {
		return nil, err
	}
	if o.LevelToMatch == "" {
		return nil, fmt.Errorf("levelToMatch is required")
	}
	match, err := parseLevelOption("levelToMatch", o.LevelToMatch, core.Level{})
	if err != nil {
		return nil, err
	}
	return &appender.LevelMatchFilter{Match: match, AcceptOnMatch: o.AcceptOnMatch}, nil
}

func denyAllFactory(Options) (appender.Filter, error) {
	return appender.DenyAllFilter{}, nil
}
