package catalog

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	jm "github.com/novopl/json-models"
	"github.com/novopl/json-models/codec"
)

// Catalog is a named set of model types loaded from YAML declarations.
type Catalog struct {
	models map[string]*jm.ModelType
	order  []string
}

// Get returns the model type declared as name.
func (c *Catalog) Get(name string) (*jm.ModelType, bool) {
	mt, ok := c.models[name]
	return mt, ok
}

// Names lists model names in declaration order.
func (c *Catalog) Names() []string { return slices.Clone(c.order) }

// Len returns the number of models.
func (c *Catalog) Len() int { return len(c.order) }

type DefaultFunc func() (any, error)

type Option func(*loader)

// WithDefaultFunc registers a named default producer usable as defaultFunc.
func WithDefaultFunc(name string, fn DefaultFunc) Option {
	return func(l *loader) {
		l.defaults[name] = fn
	}
}

// WithFormats makes format names outside reg a load error.
func WithFormats(reg *codec.Registry) Option {
	return func(l *loader) {
		l.formats = reg
	}
}

// LoadFile reads and loads a catalog file.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return LoadYAML(data, opts...)
}

// LoadYAML loads the models of every document in data. Failures of
// independent declarations are reported together.
func LoadYAML(data []byte, opts ...Option) (*Catalog, error) {
	decls, err := parseDocuments(data)
	if err != nil {
		return nil, err
	}
	env, err := newCELEnv()
	if err != nil {
		return nil, fmt.Errorf("catalog: cel: %w", err)
	}
	l := &loader{
		decls:    map[string]*modelDecl{},
		built:    map[string]*jm.ModelType{},
		visiting: map[string]bool{},
		env:      env,
		defaults: map[string]DefaultFunc{
			"uuid": func() (any, error) { return uuid.NewString(), nil },
			"now":  func() (any, error) { return time.Now().UTC(), nil },
		},
		cat: &Catalog{models: map[string]*jm.ModelType{}},
	}
	for _, opt := range opts {
		opt(l)
	}
	for i := range decls {
		d := &decls[i]
		if _, dup := l.decls[d.name]; dup {
			err = multierr.Append(err, fmt.Errorf("catalog: line %d: model %q declared twice", d.line, d.name))
			continue
		}
		l.decls[d.name] = d
		l.cat.order = append(l.cat.order, d.name)
	}
	for _, name := range l.cat.order {
		if _, e := l.model(name); e != nil {
			err = multierr.Append(err, e)
		}
	}
	if err != nil {
		return nil, err
	}
	return l.cat, nil
}

type loader struct {
	decls    map[string]*modelDecl
	built    map[string]*jm.ModelType
	failed   map[string]bool
	visiting map[string]bool
	env      *cel.Env
	defaults map[string]DefaultFunc
	formats  *codec.Registry
	cat      *Catalog
}

// model builds name after its parent; each model is built at most once.
func (l *loader) model(name string) (*jm.ModelType, error) {
	if mt, ok := l.built[name]; ok {
		return mt, nil
	}
	if l.failed[name] {
		return nil, nil
	}
	d := l.decls[name]
	if l.visiting[name] {
		return nil, fmt.Errorf("catalog: line %d: inheritance cycle through model %q", d.line, name)
	}
	l.visiting[name] = true
	defer delete(l.visiting, name)

	b := jm.Model(name)
	var err error
	if d.extends != "" {
		if _, ok := l.decls[d.extends]; !ok {
			err = multierr.Append(err, fmt.Errorf("catalog: model %q extends unknown model %q", name, d.extends))
		} else {
			parent, perr := l.model(d.extends)
			err = multierr.Append(err, perr)
			if parent == nil && perr == nil {
				// the parent already reported its own failure
				err = multierr.Append(err, fmt.Errorf("catalog: model %q: parent %q is invalid", name, d.extends))
			}
			b.Extends(parent)
		}
	}
	if d.description != "" {
		b.Description(d.description)
	}
	for k, v := range d.overrides {
		b.Override(k, v)
	}
	for _, pd := range d.props {
		if isNull(pd.node) {
			b.Remove(pd.name)
			continue
		}
		p, perr := l.property(pd.node)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("catalog: model %q property %q: %w", name, pd.name, perr))
			continue
		}
		b.Field(pd.name, p)
	}
	if err == nil {
		mt, berr := b.Build()
		if berr == nil {
			l.built[name] = mt
			l.cat.models[name] = mt
			return mt, nil
		}
		err = berr
	}
	if l.failed == nil {
		l.failed = map[string]bool{}
	}
	l.failed[name] = true
	return nil, err
}

func (l *loader) property(n *yaml.Node) (jm.Property, error) {
	var decl propSpec
	if err := n.Decode(&decl); err != nil {
		return jm.Property{}, fmt.Errorf("line %d: %w", n.Line, err)
	}

	var p jm.Property
	switch {
	case decl.Ref == "#":
		p = jm.Self()
	case decl.Ref != "":
		target := decl.Ref
		if _, ok := l.decls[target]; !ok {
			return jm.Property{}, fmt.Errorf("line %d: unknown model %q", n.Line, target)
		}
		p = jm.LazyRef(func() *jm.ModelType { return l.cat.models[target] })
	default:
		var err error
		if p, err = l.typed(&decl); err != nil {
			return jm.Property{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
	}

	if decl.Format != "" {
		if l.formats != nil {
			if _, ok := l.formats.Find(decl.Format); !ok {
				return jm.Property{}, fmt.Errorf("line %d: unknown format %q", n.Line, decl.Format)
			}
		}
		p = p.Format(decl.Format)
	}
	switch {
	case decl.Default.Kind != 0 && decl.DefaultFunc != "":
		return jm.Property{}, fmt.Errorf("line %d: default and defaultFunc are exclusive", n.Line)
	case decl.Default.Kind != 0:
		var v any
		if err := decl.Default.Decode(&v); err != nil {
			return jm.Property{}, fmt.Errorf("line %d: default: %w", n.Line, err)
		}
		p = p.Default(v)
	case decl.DefaultFunc != "":
		fn, ok := l.defaults[decl.DefaultFunc]
		if !ok {
			return jm.Property{}, fmt.Errorf("line %d: unknown defaultFunc %q", n.Line, decl.DefaultFunc)
		}
		p = p.DefaultFunc(fn)
	}
	if decl.ReadOnly {
		p = p.ReadOnly()
	}
	if decl.Computed != "" {
		fn, err := compileComputed(l.env, decl.Computed)
		if err != nil {
			return jm.Property{}, fmt.Errorf("line %d: computed: %w", n.Line, err)
		}
		p = p.Computed(fn)
	}
	if decl.Title != "" {
		p = p.Title(decl.Title)
	}
	if decl.Description != "" {
		p = p.Describe(decl.Description)
	}
	return p, nil
}

func (l *loader) typed(decl *propSpec) (jm.Property, error) {
	switch decl.Type {
	case "string":
		return jm.String(), nil
	case "number":
		return jm.Number(), nil
	case "integer":
		return jm.Integer(), nil
	case "boolean":
		return jm.Boolean(), nil
	case "", "any":
		return jm.Any(), nil
	case "array":
		if decl.Items.Kind == 0 {
			return jm.Array(jm.Any()), nil
		}
		items, err := l.property(&decl.Items)
		if err != nil {
			return jm.Property{}, fmt.Errorf("items: %w", err)
		}
		return jm.Array(items), nil
	case "object":
		entries, err := orderedEntries(&decl.Properties)
		if err != nil {
			return jm.Property{}, err
		}
		p := jm.Object()
		for _, e := range entries {
			if isNull(e.node) {
				continue
			}
			fp, err := l.property(e.node)
			if err != nil {
				return jm.Property{}, fmt.Errorf("%s: %w", e.name, err)
			}
			p = p.Prop(e.name, fp)
		}
		return p, nil
	default:
		return jm.Property{}, fmt.Errorf("unknown type %q", decl.Type)
	}
}
