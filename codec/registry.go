package codec

import (
	"fmt"
	"sort"
	"sync"
)

// Format converts a string-typed property between its wire form and a richer
// in-memory value (dates, custom types).
type Format interface {
	Load(s string) (any, error)
	Dump(v any) (string, error)
}

// Funcs adapts a pair of plain functions to Format.
type Funcs struct {
	LoadFunc func(string) (any, error)
	DumpFunc func(any) (string, error)
}

// Load calls LoadFunc, or returns s unchanged when it is nil.
func (f Funcs) Load(s string) (any, error) {
	if f.LoadFunc == nil {
		return s, nil
	}
	return f.LoadFunc(s)
}

// Dump calls DumpFunc, or falls back to fmt.Sprint when it is nil.
func (f Funcs) Dump(v any) (string, error) {
	if f.DumpFunc == nil {
		return fmt.Sprint(v), nil
	}
	return f.DumpFunc(v)
}

// Registry maps format names to Format implementations. Registration is
// expected to happen during setup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// NewDefaultRegistry returns a registry holding the built-in formats
// ("date" and "date-time").
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatDate, Date())
	r.Register(FormatDateTime, DateTime())
	return r
}

// Register stores f under name, replacing any previous registration.
func (r *Registry) Register(name string, f Format) {
	if f == nil {
		return
	}
	r.mu.Lock()
	r.formats[name] = f
	r.mu.Unlock()
}

// Find returns the format registered under name.
func (r *Registry) Find(name string) (Format, bool) {
	if name == "" {
		return nil, false
	}
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()
	return f, ok
}

// LoadValue converts raw with the named format. Unknown formats and
// non-string values are returned unchanged.
func (r *Registry) LoadValue(name string, raw any) (any, error) {
	f, ok := r.Find(name)
	if !ok {
		return raw, nil
	}
	s, ok := raw.(string)
	if !ok {
		return raw, nil
	}
	return f.Load(s)
}

// DumpValue converts v back to its string form. Without a registered format
// it falls back to fmt.Sprint.
func (r *Registry) DumpValue(name string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	f, ok := r.Find(name)
	if !ok {
		return fmt.Sprint(v), nil
	}
	return f.Dump(v)
}

// Names lists registered format names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.formats))
	for k := range r.formats {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

var defaultRegistry = NewDefaultRegistry()

// Default returns the process-wide registry shared by every model type that
// is not given an explicit one.
func Default() *Registry { return defaultRegistry }

// Register adds f to the process-wide registry.
func Register(name string, f Format) { defaultRegistry.Register(name, f) }
