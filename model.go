package jsonmodels

import (
	"fmt"
	"maps"
	"sync"

	"go.uber.org/multierr"
)

// ModelType is a named, immutable model declaration with an optional parent.
type ModelType struct {
	name      string
	parent    *ModelType
	own       *Properties
	overrides map[string]any

	once      sync.Once
	effective *Properties
}

// Name returns the model type name, also used as the document $id.
func (mt *ModelType) Name() string { return mt.name }

// Parent returns the supertype, or nil for a root type.
func (mt *ModelType) Parent() *ModelType { return mt.parent }

// OwnProperties returns the properties declared on this type only, including
// Absent() removals.
func (mt *ModelType) OwnProperties() *Properties { return mt.own.clone() }

// Overrides returns a copy of the schema overrides declared on this type.
func (mt *ModelType) Overrides() map[string]any { return maps.Clone(mt.overrides) }

// Properties returns the effective property set after resolving inheritance
// and removals. It is computed once.
func (mt *ModelType) Properties() *Properties {
	mt.once.Do(func() { mt.effective = composeProperties(mt) })
	return mt.effective
}

// IsA reports whether mt is other or inherits from it.
func (mt *ModelType) IsA(other *ModelType) bool {
	for t := mt; t != nil; t = t.parent {
		if t == other {
			return true
		}
	}
	return false
}

func (mt *ModelType) String() string { return mt.name }

// ModelBuilder declares a model type.
type ModelBuilder struct {
	name      string
	parent    *ModelType
	own       *Properties
	overrides map[string]any
}

// Model starts the declaration of a model type named name.
func Model(name string) *ModelBuilder {
	return &ModelBuilder{name: name, own: newProperties(), overrides: map[string]any{}}
}

// Extends sets the single supertype.
func (b *ModelBuilder) Extends(parent *ModelType) *ModelBuilder {
	b.parent = parent
	return b
}

// Field declares or overrides a property.
func (b *ModelBuilder) Field(name string, p Property) *ModelBuilder {
	b.own.set(name, p)
	return b
}

// Remove drops inherited properties from the effective set.
func (b *ModelBuilder) Remove(names ...string) *ModelBuilder {
	for _, n := range names {
		b.own.set(n, Absent())
	}
	return b
}

// Override sets a top-level schema key applied after derivation.
func (b *ModelBuilder) Override(key string, v any) *ModelBuilder {
	b.overrides[key] = v
	return b
}

// Require overrides the document's required list.
func (b *ModelBuilder) Require(names ...string) *ModelBuilder {
	return b.Override("required", append([]string(nil), names...))
}

// Description overrides the document's description.
func (b *ModelBuilder) Description(s string) *ModelBuilder {
	return b.Override("description", s)
}

// AdditionalProperties overrides the default additionalProperties=false.
func (b *ModelBuilder) AdditionalProperties(allowed bool) *ModelBuilder {
	return b.Override("additionalProperties", allowed)
}

// Build checks the declaration and returns the immutable model type.
func (b *ModelBuilder) Build() (*ModelType, error) {
	var err error
	if b.name == "" {
		err = multierr.Append(err, fmt.Errorf("%w: empty model name", ErrInvalidDeclaration))
	}
	for name, p := range b.own.All() {
		err = multierr.Append(err, checkProperty(b.name, name, p))
	}
	if err != nil {
		return nil, err
	}
	return &ModelType{
		name:      b.name,
		parent:    b.parent,
		own:       b.own.clone(),
		overrides: maps.Clone(b.overrides),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ModelBuilder) MustBuild() *ModelType {
	mt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return mt
}

func checkProperty(model, name string, p Property) error {
	if name == "" {
		return fmt.Errorf("%w: model %q: empty property name", ErrInvalidDeclaration, model)
	}
	if p.absent {
		return nil
	}
	var err error
	switch p.kind {
	case KindModel:
		if p.ref == nil {
			err = multierr.Append(err, fmt.Errorf("%w: model %q property %q: nil model reference", ErrInvalidDeclaration, model, name))
		}
	case KindSelf:
		// every occurrence would default to another occurrence
		if v, ok := p.def.Literal(); ok {
			if _, isMap := v.(map[string]any); isMap {
				err = multierr.Append(err, fmt.Errorf("%w: model %q property %q: object default on a self reference does not terminate", ErrInvalidDeclaration, model, name))
			}
		}
	case KindArray:
		if p.items != nil {
			err = multierr.Append(err, checkProperty(model, name+"[]", *p.items))
		}
	case KindObject:
		for k, fp := range p.props.All() {
			err = multierr.Append(err, checkProperty(model, name+"."+k, fp))
		}
	}
	return err
}
