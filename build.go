package jsonmodels

import (
	"fmt"

	js "github.com/novopl/json-models/jsonschema"
)

// Build validates raw against the expanded schema of mt and then constructs an
// instance from it. A nil raw is treated as an empty object; other non-object
// input fails validation, or with ErrNotObject when validation is off.
func (e *Engine) Build(mt *ModelType, raw any) (*Instance, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	obj, ok := asObject(raw)
	if e.validate {
		data := raw
		if ok {
			data = obj
		}
		iss, err := e.Validate(mt, data)
		if err != nil {
			return nil, err
		}
		if iss != nil {
			return nil, &ValidationError{Model: mt.name, Input: raw, Issues: iss}
		}
	}
	if !ok {
		return nil, &BuildError{Path: rootPath.String(), Err: fmt.Errorf("%w: got %T", ErrNotObject, raw)}
	}
	in, err := e.buildInstance(mt, obj, rootPath, 0)
	if err != nil {
		e.log.V(1).Info("build failed", "model", mt.name, "error", err.Error())
		return nil, err
	}
	return in, nil
}

// BuildJSON decodes data and builds an instance from it. Numbers are kept as
// json.Number. With validation enabled, duplicate object keys are rejected.
func (e *Engine) BuildJSON(mt *ModelType, data []byte) (*Instance, error) {
	raw, err := js.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("jsonmodels: decode %s input: %w", mt.name, err)
	}
	if e.validate {
		if iss := duplicateKeys(data); iss != nil {
			e.log.V(1).Info("duplicate keys", "model", mt.name, "issues", len(iss))
			return nil, &ValidationError{Model: mt.name, Input: raw, Issues: iss}
		}
	}
	return e.Build(mt, raw)
}

// SetValues converts the declared, writable keys present in partial and
// assigns them to in. Missing keys are left untouched and no defaults are
// applied; on error in is not modified.
func (e *Engine) SetValues(in *Instance, partial map[string]any) error {
	staged := make(map[string]any, len(partial))
	for name, prop := range in.model.Properties().All() {
		raw, ok := partial[name]
		if !ok || prop.readOnly {
			continue
		}
		v, err := e.buildValue(in.model, prop, raw, rootPath.Field(name), 0)
		if err != nil {
			return err
		}
		staged[name] = v
	}
	for name, v := range staged {
		in.values[name] = v
		in.presence[name] = markPresence(partial[name])
	}
	return nil
}

func (e *Engine) buildInstance(mt *ModelType, obj map[string]any, p *path, depth int) (*Instance, error) {
	if depth > e.maxDepth {
		return nil, stampBuild(p, fmt.Errorf("%w (%d)", ErrMaxDepth, e.maxDepth))
	}
	in := newInstance(mt)
	if err := e.buildFields(mt, mt.Properties(), obj, p, depth, in.values, in.presence); err != nil {
		return nil, err
	}
	return in, nil
}

// buildFields fills values (and presence, when non-nil) from obj following
// props. Read-only properties and undeclared keys are skipped.
func (e *Engine) buildFields(owner *ModelType, props *Properties, obj map[string]any, p *path, depth int, values map[string]any, presence PresenceMap) error {
	for name, prop := range props.All() {
		if prop.readOnly || prop.absent {
			continue
		}
		fp := p.Field(name)
		raw, present := obj[name]
		var flags Presence
		if present {
			flags = markPresence(raw)
		} else {
			switch {
			case prop.def.IsSet():
				v, err := prop.def.resolve()
				if err != nil {
					return stampBuild(fp, err)
				}
				raw = v
				flags = PresenceDefaultApplied
			case prop.kind == KindArray:
				raw = []any{}
				flags = PresenceDefaultApplied
			default:
				continue
			}
		}
		v, err := e.buildValue(owner, prop, raw, fp, depth)
		if err != nil {
			return err
		}
		values[name] = v
		if presence != nil {
			presence[name] = flags
		}
	}
	return nil
}

func (e *Engine) buildValue(owner *ModelType, prop Property, v any, p *path, depth int) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch prop.kind {
	case KindSelf:
		return e.buildModel(owner, v, p, depth)
	case KindModel:
		target := prop.Target()
		if target == nil {
			return nil, stampBuild(p, ErrUnresolvedRef)
		}
		return e.buildModel(target, v, p, depth)
	case KindArray:
		elems, ok := asSlice(v)
		if !ok {
			return nil, stampBuild(p, fmt.Errorf("%w: expected array, got %T", ErrInvalidValue, v))
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			if prop.items == nil {
				out[i] = el
				continue
			}
			bv, err := e.buildValue(owner, *prop.items, el, p.Index(i), depth)
			if err != nil {
				return nil, err
			}
			out[i] = bv
		}
		return out, nil
	case KindObject:
		obj, ok := asObject(v)
		if !ok {
			return nil, stampBuild(p, fmt.Errorf("%w: got %T", ErrNotObject, v))
		}
		out := make(map[string]any, prop.props.Len())
		if err := e.buildFields(owner, prop.props, obj, p, depth, out, nil); err != nil {
			return nil, err
		}
		return out, nil
	case KindString:
		if prop.format == "" {
			return v, nil
		}
		loaded, err := e.loadFormat(prop.format, v)
		if err != nil {
			return nil, stampBuild(p, err)
		}
		return loaded, nil
	default:
		return v, nil
	}
}

func (e *Engine) buildModel(mt *ModelType, v any, p *path, depth int) (any, error) {
	if in, ok := v.(*Instance); ok && in != nil && in.model.IsA(mt) {
		return in.Clone(), nil
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, stampBuild(p, fmt.Errorf("%w: %s expects an object, got %T", ErrNotObject, mt.name, v))
	}
	return e.buildInstance(mt, obj, p, depth+1)
}

func (e *Engine) loadFormat(name string, v any) (out any, err error) {
	if _, ok := e.formats.Find(name); !ok {
		e.log.V(2).Info("unknown format, value kept as-is", "format", name)
	}
	defer recoverHook(&err)
	return e.formats.LoadValue(name, v)
}
