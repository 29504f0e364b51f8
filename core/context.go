package core

import (
	"context"
	"sync"
)

// The global property layer applies to every event in the process. It is
// the outermost overlay in the merge order, so a global property wins
// over a context-scoped or event-local one with the same key.
var (
	globalMu    sync.RWMutex
	globalProps = NewProperties()
)

// SetGlobalProperty sets a process-wide property.
func SetGlobalProperty(key, value string) {
	globalMu.Lock()
	globalProps.Set(key, value)
	globalMu.Unlock()
}

// RemoveGlobalProperty removes a process-wide property.
func RemoveGlobalProperty(key string) {
	globalMu.Lock()
	globalProps.Remove(key)
	globalMu.Unlock()
}

// ClearGlobalProperties removes all process-wide properties.
func ClearGlobalProperties() {
	globalMu.Lock()
	globalProps = NewProperties()
	globalMu.Unlock()
}

func globalSnapshot() *Properties {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalProps.Len() == 0 {
		return nil
	}
	return globalProps.Clone()
}

type ctxPropsKey struct{}
type ctxStackKey struct{}

// WithProperty returns a context carrying the given property in addition
// to any properties already on ctx. The parent context is not modified.
func WithProperty(ctx context.Context, key, value string) context.Context {
	props := ctxProperties(ctx)
	var next *Properties
	if props == nil {
		next = NewProperties()
	} else {
		next = props.Clone()
	}
	next.Set(key, value)
	return context.WithValue(ctx, ctxPropsKey{}, next)
}

// WithProperties returns a context carrying all entries of props layered
// over any properties already on ctx.
func WithProperties(ctx context.Context, props *Properties) context.Context {
	if props == nil || props.Len() == 0 {
		return ctx
	}
	existing := ctxProperties(ctx)
	var next *Properties
	if existing == nil {
		next = props.Clone()
	} else {
		next = existing.Clone()
		next.Merge(props)
	}
	return context.WithValue(ctx, ctxPropsKey{}, next)
}

func ctxProperties(ctx context.Context) *Properties {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(ctxPropsKey{}).(*Properties)
	return p
}

// PushContext returns a context whose nested diagnostic stack has msg
// pushed on top. The stack follows the context chain, so it unwinds
// naturally when the derived context goes out of scope.
func PushContext(ctx context.Context, msg string) context.Context {
	stack := ContextStack(ctx)
	next := make([]string, len(stack)+1)
	copy(next, stack)
	next[len(stack)] = msg
	return context.WithValue(ctx, ctxStackKey{}, next)
}

// ContextStack returns the nested diagnostic stack carried by ctx,
// outermost entry first. The returned slice must not be modified.
func ContextStack(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxStackKey{}).([]string)
	return s
}
