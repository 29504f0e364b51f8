package config

import (
	"fmt"

	"github.com/Philipp01105/treelog/appender"
	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/hierarchy"
)

// Options is a loosely typed option bag for one appender or filter.
// Factories decode it into their own option struct; string values from
// file formats are coerced to the target types during decoding.
type Options map[string]interface{}

// Config is a fully parsed configuration tree, ready to apply.
type Config struct {
	Root      RootConfig       `yaml:"root"`
	Loggers   []LoggerConfig   `yaml:"loggers"`
	Appenders []AppenderConfig `yaml:"appenders"`
}

// RootConfig configures the root logger.
type RootConfig struct {
	// Level is the root level name. Empty leaves the root at DEBUG.
	Level string `yaml:"level"`
	// AppenderRefs names the appender definitions attached to the root.
	AppenderRefs []string `yaml:"appenders"`
}

// LoggerConfig configures one named logger.
type LoggerConfig struct {
	Name string `yaml:"name"`
	// Level is the logger's own level name. Empty leaves it inheriting.
	Level string `yaml:"level"`
	// Additive controls propagation to ancestor appenders. Nil keeps
	// the default (true).
	Additive     *bool    `yaml:"additive"`
	AppenderRefs []string `yaml:"appenders"`
}

// AppenderConfig defines one appender instance.
type AppenderConfig struct {
	Name string `yaml:"name"`
	// Kind selects the factory in the registry ("console", "file", ...).
	Kind    string         `yaml:"kind"`
	Options Options        `yaml:"options"`
	Filters []FilterConfig `yaml:"filters"`
}

// FilterConfig defines one filter on an appender's chain.
type FilterConfig struct {
	Kind    string  `yaml:"kind"`
	Options Options `yaml:"options"`
}

// Apply replaces the hierarchy's configuration with cfg: existing
// appenders are closed and detached, then the new appenders are built
// through the registry and attached per the root and logger records.
//
// Apply is best-effort per record. A record that cannot be honored (an
// unknown appender kind, a failing factory, a bad level name, a
// dangling appender reference) is skipped and reported; the remaining
// records still take effect. The returned messages are also recorded
// on the hierarchy. A nil registry uses the built-in defaults.
func Apply(h *hierarchy.Hierarchy, cfg *Config, reg *Registry) []string {
	if reg == nil {
		reg = defaultRegistry
	}

	var messages []string
	report := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		messages = append(messages, msg)
		h.RecordConfigurationMessage(msg)
		core.Diagf("%s", msg)
	}

	// Build every appender before touching the hierarchy, so a factory
	// failure surfaces while the previous configuration is still live.
	built := make(map[string]appender.Appender, len(cfg.Appenders))
	order := make([]string, 0, len(cfg.Appenders))
	for _, ac := range cfg.Appenders {
		if ac.Name == "" {
			report("appender definition of kind %q has no name; skipped", ac.Kind)
			continue
		}
		if _, dup := built[ac.Name]; dup {
			report("duplicate appender name %q; later definition skipped", ac.Name)
			continue
		}
		a, err := reg.buildAppender(ac)
		if err != nil {
			report("appender %q: %v", ac.Name, err)
			continue
		}
		built[ac.Name] = a
		order = append(order, ac.Name)
	}

	resolve := func(owner string, refs []string) []appender.Appender {
		out := make([]appender.Appender, 0, len(refs))
		for _, ref := range refs {
			a, ok := built[ref]
			if !ok {
				report("%s references unknown appender %q", owner, ref)
				continue
			}
			out = append(out, a)
		}
		return out
	}

	h.ResetConfiguration()
	referenced := make(map[string]bool)
	h.Reconfigure(func() {
		root := h.Root()
		if cfg.Root.Level != "" {
			if level, ok := core.ParseLevel(cfg.Root.Level); ok {
				root.SetLevel(level)
			} else {
				report("root: unknown level %q; keeping %s", cfg.Root.Level, root.EffectiveLevel().Name)
			}
		}
		for _, a := range resolve("root", cfg.Root.AppenderRefs) {
			root.AddAppender(a)
			referenced[a.Name()] = true
		}

		for _, lc := range cfg.Loggers {
			if lc.Name == "" {
				report("logger section without a name; skipped")
				continue
			}
			l := h.GetLogger(lc.Name)
			if lc.Level != "" {
				if level, ok := core.ParseLevel(lc.Level); ok {
					l.SetLevel(level)
				} else {
					report("logger %q: unknown level %q; leaving level inherited", lc.Name, lc.Level)
				}
			}
			if lc.Additive != nil {
				l.SetAdditive(*lc.Additive)
			}
			for _, a := range resolve("logger "+lc.Name, lc.AppenderRefs) {
				l.AddAppender(a)
				referenced[a.Name()] = true
			}
		}
	})

	// An appender nobody references would leak its sink; close it now.
	for _, name := range order {
		if referenced[name] {
			continue
		}
		report("appender %q is defined but never referenced; closing it", name)
		if err := built[name].Close(); err != nil {
			report("appender %q: close: %v", name, err)
		}
	}

	return messages
}

// Configure wires the hierarchy with the given appenders on the root at
// DEBUG level, replacing any existing configuration. It is the
// programmatic shortcut for tools that do not carry a config file.
func Configure(h *hierarchy.Hierarchy, appenders ...appender.Appender) {
	h.ResetConfiguration()
	h.Reconfigure(func() {
		for _, a := range appenders {
			h.Root().AddAppender(a)
		}
	})
}
