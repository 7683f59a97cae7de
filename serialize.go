package jsonmodels

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// EncodeMode selects canonical or preserving output.
type EncodeMode int

const (
	// EncodeCanonical emits every stored and computed property.
	EncodeCanonical EncodeMode = iota
	// EncodePreserve drops top-level properties materialized only by defaults.
	EncodePreserve
)

// ToPlain serializes in into plain data. Computed properties are evaluated
// fresh; properties without a stored value are left out.
func (e *Engine) ToPlain(in *Instance) (map[string]any, error) {
	return e.plainInstance(in, rootPath)
}

// ToPlainPreserving is ToPlain without the top-level properties whose value
// came from a default alone. Explicit nulls are kept.
func (e *Engine) ToPlainPreserving(in *Instance) (map[string]any, error) {
	plain, err := e.ToPlain(in)
	if err != nil {
		return nil, err
	}
	return preserving(plain, in.presence), nil
}

// Encode serializes in with the given mode.
func (e *Engine) Encode(in *Instance, mode EncodeMode) (map[string]any, error) {
	if mode == EncodePreserve {
		return e.ToPlainPreserving(in)
	}
	return e.ToPlain(in)
}

// ToJSON serializes in as JSON text indented by indent spaces; indent <= 0
// yields the compact form.
func (e *Engine) ToJSON(in *Instance, indent int) ([]byte, error) {
	plain, err := e.ToPlain(in)
	if err != nil {
		return nil, err
	}
	return MarshalPlain(plain, indent)
}

// MarshalPlain encodes plain data as JSON text indented by indent spaces.
func MarshalPlain(v any, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
}

func (e *Engine) plainInstance(in *Instance, p *path) (map[string]any, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[string]any, len(in.values))
	for name, prop := range in.model.Properties().All() {
		fp := p.Field(name)
		var (
			v  any
			ok bool
		)
		if prop.computed != nil {
			cv, err := in.compute(prop)
			if err != nil {
				return nil, stampSerialize(fp, err)
			}
			v, ok = cv, true
		} else {
			v, ok = in.values[name]
		}
		if !ok {
			continue
		}
		pv, err := e.plainValue(prop, v, fp)
		if err != nil {
			return nil, err
		}
		out[name] = pv
	}
	return out, nil
}

func (e *Engine) plainValue(prop Property, v any, p *path) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch prop.kind {
	case KindModel, KindSelf:
		if in, ok := v.(*Instance); ok {
			return e.plainInstance(in, p)
		}
		return e.plainAny(v, p)
	case KindArray:
		elems, ok := asSlice(v)
		if !ok {
			return e.plainAny(v, p)
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			var (
				pv  any
				err error
			)
			if prop.items == nil {
				pv, err = e.plainAny(el, p.Index(i))
			} else {
				pv, err = e.plainValue(*prop.items, el, p.Index(i))
			}
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case KindObject:
		obj, ok := asObject(v)
		if !ok {
			return e.plainAny(v, p)
		}
		out := make(map[string]any, len(obj))
		for name, fp := range prop.props.All() {
			fv, ok := obj[name]
			if !ok || fp.absent {
				continue
			}
			pv, err := e.plainValue(fp, fv, p.Field(name))
			if err != nil {
				return nil, err
			}
			out[name] = pv
		}
		return out, nil
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		if prop.format == "" {
			return fmt.Sprint(v), nil
		}
		s, err := e.dumpFormat(prop.format, v)
		if err != nil {
			return nil, stampSerialize(p, err)
		}
		return s, nil
	default:
		return e.plainAny(v, p)
	}
}

// plainAny flattens untyped values, serializing any instance found inside.
func (e *Engine) plainAny(v any, p *path) (any, error) {
	switch t := v.(type) {
	case *Instance:
		return e.plainInstance(t, p)
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			pv, err := e.plainAny(el, p.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			pv, err := e.plainAny(el, p.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	default:
		return v, nil
	}
}

func (e *Engine) dumpFormat(name string, v any) (s string, err error) {
	defer recoverHook(&err)
	return e.formats.DumpValue(name, v)
}

// MarshalJSON encodes the instance with the default engine.
func (in *Instance) MarshalJSON() ([]byte, error) {
	plain, err := DefaultEngine().ToPlain(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}
