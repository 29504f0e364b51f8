package core

// Properties is an insertion-ordered string key-value bag. Rendering a
// full property set must produce a stable order, so keys are tracked in
// the order they were first set.
//
// Properties is not goroutine-safe on its own; the global property layer
// wraps it with a lock, and the copy merged into an Event is never
// mutated after the Event is built.
type Properties struct {
	keys []string
	vals map[string]string
}

// NewProperties creates an empty property bag.
func NewProperties() *Properties {
	return &Properties{vals: make(map[string]string)}
}

// Set stores a value, preserving the key's original position when it
// already exists.
func (p *Properties) Set(key, value string) {
	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = value
}

// Get returns the value for key and whether it was present.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Remove deletes a key if present.
func (p *Properties) Remove(key string) {
	if _, ok := p.vals[key]; !ok {
		return
	}
	delete(p.vals, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (p *Properties) Keys() []string {
	return p.keys
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	c := &Properties{
		keys: make([]string, len(p.keys)),
		vals: make(map[string]string, len(p.vals)),
	}
	copy(c.keys, p.keys)
	for k, v := range p.vals {
		c.vals[k] = v
	}
	return c
}

// Merge overlays other onto p. Entries from other win on key collision.
func (p *Properties) Merge(other *Properties) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		p.Set(k, other.vals[k])
	}
}
