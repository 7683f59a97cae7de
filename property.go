package jsonmodels

import (
	"iter"
)

// ComputeFunc derives a read-only property from an already built instance.
type ComputeFunc func(in *Instance) (any, error)

// Property describes one property of a model type. The kind is fixed by the
// constructor; modifiers return an updated copy.
type Property struct {
	kind        Kind
	format      string
	def         Default
	readOnly    bool
	computed    ComputeFunc
	items       *Property
	props       *Properties
	ref         func() *ModelType
	title       string
	description string
	absent      bool
}

// String declares a string property.
func String() Property { return Property{kind: KindString} }

// Number declares a numeric property.
func Number() Property { return Property{kind: KindNumber} }

// Integer declares an integral numeric property.
func Integer() Property { return Property{kind: KindInteger} }

// Boolean declares a boolean property.
func Boolean() Property { return Property{kind: KindBoolean} }

// Any declares a property accepting any JSON value.
func Any() Property { return Property{kind: KindAny} }

// Array declares a sequence whose elements are described by items.
func Array(items Property) Property {
	it := items
	return Property{kind: KindArray, items: &it}
}

// Object declares an inline object; add its properties with Prop.
func Object() Property { return Property{kind: KindObject, props: newProperties()} }

// Ref declares a property holding an instance of mt.
func Ref(mt *ModelType) Property {
	if mt == nil {
		return Property{kind: KindModel}
	}
	return Property{kind: KindModel, ref: func() *ModelType { return mt }}
}

// LazyRef declares a model reference resolved on first use, for forward and
// mutually recursive declarations.
func LazyRef(resolve func() *ModelType) Property {
	return Property{kind: KindModel, ref: resolve}
}

// Self declares a property holding an instance of the enclosing model type.
func Self() Property { return Property{kind: KindSelf} }

// Absent is the sentinel that removes an inherited property.
func Absent() Property { return Property{absent: true} }

// Prop adds a property to an inline object.
func (p Property) Prop(name string, fp Property) Property {
	if p.kind != KindObject {
		return p
	}
	p.props = p.props.clone()
	p.props.set(name, fp)
	return p
}

// Default sets a literal default. Mutable literals are deep-copied for every
// instance.
func (p Property) Default(v any) Property {
	p.def = Literal(v)
	return p
}

// DefaultFunc sets a producer invoked once per missing value at build time.
func (p Property) DefaultFunc(fn func() (any, error)) Property {
	p.def = Producer(fn)
	return p
}

// ReadOnly excludes the property from input-driven construction and updates.
func (p Property) ReadOnly() Property {
	p.readOnly = true
	return p
}

// Computed marks the property read-only and derives its value from the
// instance whenever it is read or serialized.
func (p Property) Computed(fn ComputeFunc) Property {
	p.readOnly = true
	p.computed = fn
	return p
}

// Format names the codec used to load and dump string values.
func (p Property) Format(name string) Property {
	p.format = name
	return p
}

// Title sets the JSON Schema title.
func (p Property) Title(s string) Property {
	p.title = s
	return p
}

// Describe sets the JSON Schema description.
func (p Property) Describe(s string) Property {
	p.description = s
	return p
}

// Kind returns the active variant.
func (p Property) Kind() Kind { return p.kind }

// FormatName returns the codec name, empty when none is set.
func (p Property) FormatName() string { return p.format }

// IsReadOnly reports whether input never sets the property.
func (p Property) IsReadOnly() bool { return p.readOnly }

// IsComputed reports whether the value comes from a compute hook.
func (p Property) IsComputed() bool { return p.computed != nil }

// IsAbsent reports whether p is the removal sentinel.
func (p Property) IsAbsent() bool { return p.absent }

// DefaultValue returns the declared default.
func (p Property) DefaultValue() Default { return p.def }

// Items returns the element property of an array.
func (p Property) Items() (Property, bool) {
	if p.items == nil {
		return Property{}, false
	}
	return *p.items, true
}

// Fields returns the properties of an inline object.
func (p Property) Fields() *Properties { return p.props }

// Target resolves the referenced model type; nil for other kinds or while a
// lazy reference is unresolved.
func (p Property) Target() *ModelType {
	if p.ref == nil {
		return nil
	}
	return p.ref()
}

// Default is either a literal value or a zero-argument producer.
type Default struct {
	value    any
	producer func() (any, error)
	set      bool
}

// Literal wraps a literal default.
func Literal(v any) Default { return Default{value: v, set: true} }

// Producer wraps a default computed at build time.
func Producer(fn func() (any, error)) Default {
	if fn == nil {
		return Default{}
	}
	return Default{producer: fn, set: true}
}

// IsSet reports whether a default was declared.
func (d Default) IsSet() bool { return d.set }

// IsProducer reports whether the default is computed at build time.
func (d Default) IsProducer() bool { return d.producer != nil }

// Literal returns the literal value; ok is false for producers and unset
// defaults.
func (d Default) Literal() (v any, ok bool) {
	if !d.set || d.producer != nil {
		return nil, false
	}
	return d.value, true
}

func (d Default) resolve() (v any, err error) {
	if d.producer == nil {
		return deepCopy(d.value), nil
	}
	defer recoverHook(&err)
	return d.producer()
}

// Properties is an ordered property mapping.
type Properties struct {
	keys []string
	m    map[string]Property
}

func newProperties() *Properties {
	return &Properties{m: map[string]Property{}}
}

// set replaces an existing entry in place or appends a new one.
func (ps *Properties) set(name string, p Property) {
	if _, ok := ps.m[name]; !ok {
		ps.keys = append(ps.keys, name)
	}
	ps.m[name] = p
}

func (ps *Properties) clone() *Properties {
	out := newProperties()
	if ps == nil {
		return out
	}
	out.keys = append(out.keys, ps.keys...)
	for k, v := range ps.m {
		out.m[k] = v
	}
	return out
}

// Len returns the number of entries.
func (ps *Properties) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.keys)
}

// Keys returns the names in declaration order.
func (ps *Properties) Keys() []string {
	if ps == nil {
		return nil
	}
	return append([]string(nil), ps.keys...)
}

// Get returns the property named name.
func (ps *Properties) Get(name string) (Property, bool) {
	if ps == nil {
		return Property{}, false
	}
	p, ok := ps.m[name]
	return p, ok
}

// All iterates entries in declaration order.
func (ps *Properties) All() iter.Seq2[string, Property] {
	return func(yield func(string, Property) bool) {
		if ps == nil {
			return
		}
		for _, k := range ps.keys {
			if !yield(k, ps.m[k]) {
				return
			}
		}
	}
}
