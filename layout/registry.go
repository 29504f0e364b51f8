package layout

import "sync"

// Registry maps pattern keywords to converter factories. The package
// holds one global registry populated with the built-in converters; a
// Parser can carry its own registry whose entries shadow the global
// ones on name collision.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ConverterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ConverterFactory)}
}

// Register binds a keyword to a factory, replacing any previous binding.
func (r *Registry) Register(keyword string, f ConverterFactory) {
	r.mu.Lock()
	r.factories[keyword] = f
	r.mu.Unlock()
}

func (r *Registry) lookup(keyword string) (ConverterFactory, bool) {
	r.mu.RLock()
	f, ok := r.factories[keyword]
	r.mu.RUnlock()
	return f, ok
}

// maxKeywordLen returns the length of the longest registered keyword.
func (r *Registry) maxKeywordLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for k := range r.factories {
		if len(k) > max {
			max = len(k)
		}
	}
	return max
}

var globalRegistry = NewRegistry()

// Register binds a keyword in the global registry. Custom converters
// registered here are visible to every subsequently compiled pattern.
func Register(keyword string, f ConverterFactory) {
	globalRegistry.Register(keyword, f)
}

func init() {
	builtins := map[string]ConverterFactory{
		"message":     messageConverter,
		"m":           messageConverter,
		"level":       levelConverter,
		"p":           levelConverter,
		"logger":      loggerConverter,
		"c":           loggerConverter,
		"date":        dateConverter,
		"d":           dateConverter,
		"utcdate":     utcDateConverter,
		"property":    propertyConverter,
		"exception":   exceptionConverter,
		"ndc":         ndcConverter,
		"newline":     newlineConverter,
		"n":           newlineConverter,
		"environment": environmentConverter,
		"env":         environmentConverter,
		"processid":   processIDConverter,
		"identity":    identityConverter,
		"username":    usernameConverter,
		"random":      randomConverter,
		"goroutine":   goroutineConverter,
		"caller":      callerConverter,
	}
	for k, f := range builtins {
		globalRegistry.Register(k, f)
	}
}
