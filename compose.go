package jsonmodels

import (
	"fmt"
	"sort"

	js "github.com/novopl/json-models/jsonschema"
)

// composeProperties merges the ancestor chain farthest-first so nearer
// declarations win. Overrides keep the position of the first declaration;
// Absent() entries are dropped only after the whole chain is merged.
func composeProperties(mt *ModelType) *Properties {
	var chain []*ModelType
	for t := mt; t != nil; t = t.parent {
		chain = append(chain, t)
	}
	merged := newProperties()
	for i := len(chain) - 1; i >= 0; i-- {
		for name, p := range chain[i].own.All() {
			merged.set(name, p)
		}
	}
	out := newProperties()
	for name, p := range merged.All() {
		if !p.absent {
			out.set(name, p)
		}
	}
	return out
}

// JSONSchema derives the document describing mt. In Expanded mode every model
// type is embedded once per document under its own $id; later occurrences
// refer to it by name.
func (mt *ModelType) JSONSchema(mode SchemaMode) (*js.Schema, error) {
	d := &deriver{mode: mode, emitted: map[string]bool{}}
	return d.model(mt)
}

type deriver struct {
	mode    SchemaMode
	emitted map[string]bool
}

func (d *deriver) model(mt *ModelType) (*js.Schema, error) {
	doc := &js.Schema{
		ID:                   mt.name,
		Type:                 "object",
		AdditionalProperties: false,
	}
	// $schema only belongs on the root document
	if len(d.emitted) == 0 {
		doc.Schema = js.MetaSchemaURI
	}
	d.emitted[mt.name] = true
	for name, p := range mt.Properties().All() {
		ps, err := d.property(p)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", mt.name, name, err)
		}
		doc.SetProperty(name, ps)
	}
	applyOverrides(doc, mt.overrides)
	return doc, nil
}

func (d *deriver) property(p Property) (*js.Schema, error) {
	var s *js.Schema
	switch p.kind {
	case KindSelf:
		s = &js.Schema{Ref: js.SelfRef}
	case KindModel:
		target := p.Target()
		if target == nil {
			return nil, ErrUnresolvedRef
		}
		// a model already embedded is referenced by its $id
		if d.mode == Left || d.emitted[target.name] {
			s = &js.Schema{Ref: target.name}
			break
		}
		nested, err := d.model(target)
		if err != nil {
			return nil, err
		}
		s = nested
	case KindArray:
		s = &js.Schema{Type: "array"}
		if p.items != nil {
			items, err := d.property(*p.items)
			if err != nil {
				return nil, err
			}
			s.Items = items
		}
	case KindObject:
		s = &js.Schema{Type: "object"}
		for name, fp := range p.props.All() {
			if fp.absent {
				continue
			}
			fs, err := d.property(fp)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			s.SetProperty(name, fs)
		}
	case KindAny:
		s = &js.Schema{}
	default:
		s = &js.Schema{Type: p.kind.String(), Format: p.format}
	}
	if v, ok := p.def.Literal(); ok {
		s.Default = v
	}
	s.ReadOnly = p.readOnly
	if p.title != "" {
		s.Title = p.title
	}
	if p.description != "" {
		s.Description = p.description
	}
	return s, nil
}

// applyOverrides merges overrides on top of the derived document. Keys with a
// typed field set it when the value has the matching type; everything else is
// carried in Extra.
func applyOverrides(doc *js.Schema, overrides map[string]any) {
	if len(overrides) == 0 {
		return
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := overrides[k]
		switch k {
		case "additionalProperties":
			doc.AdditionalProperties = v
			continue
		case "required":
			if names, ok := toStrings(v); ok {
				doc.Required = names
				continue
			}
		case "description":
			if s, ok := v.(string); ok {
				doc.Description = s
				continue
			}
		case "title":
			if s, ok := v.(string); ok {
				doc.Title = s
				continue
			}
		case "type":
			if s, ok := v.(string); ok {
				doc.Type = s
				continue
			}
		case "$id":
			if s, ok := v.(string); ok {
				doc.ID = s
				continue
			}
		}
		if doc.Extra == nil {
			doc.Extra = map[string]any{}
		}
		doc.Extra[k] = v
	}
}

func toStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
