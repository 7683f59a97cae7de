package jsonmodels

import (
	"fmt"
	"maps"
)

// Instance is a built model value. It owns its stored values; nested model
// values are *Instance, arrays are []any and inline objects are map[string]any.
type Instance struct {
	model    *ModelType
	values   map[string]any
	presence PresenceMap
}

func newInstance(mt *ModelType) *Instance {
	return &Instance{model: mt, values: map[string]any{}, presence: PresenceMap{}}
}

// Model returns the instance's model type.
func (in *Instance) Model() *ModelType { return in.model }

// Get returns the value of name. Computed properties are evaluated on every
// call; a failing hook reports ok=false.
func (in *Instance) Get(name string) (any, bool) {
	p, declared := in.model.Properties().Get(name)
	if declared && p.computed != nil {
		v, err := in.compute(p)
		if err != nil {
			return nil, false
		}
		return v, true
	}
	v, ok := in.values[name]
	return v, ok
}

// Has reports whether a value is stored for name.
func (in *Instance) Has(name string) bool {
	_, ok := in.values[name]
	return ok
}

// Set stores v for name without conversion. Computed and undeclared names are
// rejected.
func (in *Instance) Set(name string, v any) error {
	p, ok := in.model.Properties().Get(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, in.model.name, name)
	}
	if p.computed != nil {
		return fmt.Errorf("%w: %s.%s", ErrReadOnly, in.model.name, name)
	}
	in.values[name] = v
	in.presence[name] = markPresence(v)
	return nil
}

// Presence returns the flags recorded for name.
func (in *Instance) Presence(name string) Presence { return in.presence[name] }

// Stored returns a plain snapshot of the stored values. Nested instances are
// flattened to their own stored maps; computed properties are not included.
func (in *Instance) Stored() map[string]any {
	out := make(map[string]any, len(in.values))
	for k, v := range in.values {
		out[k] = storedValue(v)
	}
	return out
}

func storedValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		if t == nil {
			return nil
		}
		return t.Stored()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = storedValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = storedValue(e)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy; nested instances are cloned too.
func (in *Instance) Clone() *Instance {
	out := &Instance{
		model:    in.model,
		values:   make(map[string]any, len(in.values)),
		presence: maps.Clone(in.presence),
	}
	for k, v := range in.values {
		out.values[k] = deepCopy(v)
	}
	return out
}

func (in *Instance) compute(p Property) (v any, err error) {
	defer recoverHook(&err)
	return p.computed(in)
}

func markPresence(v any) Presence {
	if v == nil {
		return PresenceSeen | PresenceWasNull
	}
	return PresenceSeen
}
