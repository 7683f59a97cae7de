package jsonschema

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// MetaSchemaURI is the $schema value written on root documents.
const MetaSchemaURI = "http://json-schema.org/draft-07/schema#"

// SelfRef is the $ref marker pointing at the enclosing document.
const SelfRef = "#"

// Schema is the JSON Schema representation derived from model types.
// Properties encode in insertion order when set through SetProperty.
type Schema struct {
	// Document
	Schema string `json:"$schema,omitempty"`
	ID     string `json:"$id,omitempty"`
	Ref    string `json:"$ref,omitempty"`

	// Core
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Extra carries keys without a typed field. They are merged into the
	// encoded document and win over typed fields on conflict.
	Extra map[string]any `json:"-"`

	// order lists Properties keys in insertion order.
	order []string
}

// SetProperty adds or replaces a property, keeping the first insertion
// position.
func (s *Schema) SetProperty(name string, p *Schema) {
	if s.Properties == nil {
		s.Properties = map[string]*Schema{}
	}
	if _, ok := s.Properties[name]; !ok {
		s.order = append(s.order, name)
	}
	s.Properties[name] = p
}

// PropertyNames returns the property names in encoding order: insertion order
// first, then keys set directly on the map, sorted.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.order))
	for _, k := range s.order {
		if _, ok := s.Properties[k]; ok && !seen[k] {
			seen[k] = true
			names = append(names, k)
		}
	}
	var rest []string
	for k := range s.Properties {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

type member struct {
	key string
	val any
}

// MarshalJSON encodes s with a stable key order: document keys, core keys,
// object and array keys, then Extra sorted by key. Extra keys replace typed
// fields of the same name.
func (s Schema) MarshalJSON() ([]byte, error) {
	var ms []member
	add := func(key string, val any, ok bool) {
		if !ok {
			return
		}
		if _, over := s.Extra[key]; over {
			return
		}
		ms = append(ms, member{key, val})
	}
	add("$schema", s.Schema, s.Schema != "")
	add("$id", s.ID, s.ID != "")
	add("$ref", s.Ref, s.Ref != "")
	add("type", s.Type, s.Type != "")
	add("format", s.Format, s.Format != "")
	add("title", s.Title, s.Title != "")
	add("description", s.Description, s.Description != "")
	add("default", s.Default, s.Default != nil)
	add("readOnly", true, s.ReadOnly)
	add("properties", orderedProperties{&s}, len(s.Properties) > 0)
	add("required", s.Required, len(s.Required) > 0)
	add("additionalProperties", s.AdditionalProperties, s.AdditionalProperties != nil)
	add("items", s.Items, s.Items != nil)

	extra := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		ms = append(ms, member{k, s.Extra[k]})
	}
	return encodeMembers(len(ms), func(i int) (string, any) { return ms[i].key, ms[i].val })
}

type orderedProperties struct{ s *Schema }

func (o orderedProperties) MarshalJSON() ([]byte, error) {
	names := o.s.PropertyNames()
	return encodeMembers(len(names), func(i int) (string, any) {
		return names[i], o.s.Properties[names[i]]
	})
}

func encodeMembers(n int, at func(int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, val := at(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: encode %q: %w", key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal renders s as JSON text; indent <= 0 yields the compact form.
func Marshal(s *Schema, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(s)
	}
	return json.MarshalIndent(s, "", string(bytes.Repeat([]byte{' '}, indent)))
}
