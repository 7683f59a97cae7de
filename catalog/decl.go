package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is one YAML document of a catalog file.
type document struct {
	Models yaml.Node `yaml:"models"`
}

type modelDecl struct {
	name        string
	extends     string
	description string
	props       []propDecl
	overrides   map[string]any
	line        int
}

type propDecl struct {
	name string
	node *yaml.Node
}

// propSpec is the mapping form of a property declaration.
type propSpec struct {
	Type        string    `yaml:"type"`
	Ref         string    `yaml:"$ref"`
	Format      string    `yaml:"format"`
	Default     yaml.Node `yaml:"default"`
	DefaultFunc string    `yaml:"defaultFunc"`
	ReadOnly    bool      `yaml:"readOnly"`
	Computed    string    `yaml:"computed"`
	Items       yaml.Node `yaml:"items"`
	Properties  yaml.Node `yaml:"properties"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
}

type modelSpec struct {
	Extends     string         `yaml:"extends"`
	Description string         `yaml:"description"`
	Properties  yaml.Node      `yaml:"properties"`
	Overrides   map[string]any `yaml:"overrides"`
}

// parseDocuments reads every YAML document in data and returns the model
// declarations in file order.
func parseDocuments(data []byte) ([]modelDecl, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []modelDecl
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if doc.Models.Kind == 0 {
			continue
		}
		if doc.Models.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("catalog: line %d: models must be a mapping", doc.Models.Line)
		}
		for i := 0; i+1 < len(doc.Models.Content); i += 2 {
			key, val := doc.Models.Content[i], doc.Models.Content[i+1]
			var ms modelSpec
			if err := val.Decode(&ms); err != nil {
				return nil, fmt.Errorf("catalog: model %q: %w", key.Value, err)
			}
			props, err := orderedEntries(&ms.Properties)
			if err != nil {
				return nil, fmt.Errorf("catalog: model %q: %w", key.Value, err)
			}
			out = append(out, modelDecl{
				name:        key.Value,
				extends:     ms.Extends,
				description: ms.Description,
				props:       props,
				overrides:   ms.Overrides,
				line:        key.Line,
			})
		}
	}
	return out, nil
}

// orderedEntries lists the entries of a mapping node in declaration order.
func orderedEntries(n *yaml.Node) ([]propDecl, error) {
	if n.Kind == 0 || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: properties must be a mapping", n.Line)
	}
	out := make([]propDecl, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, propDecl{name: n.Content[i].Value, node: n.Content[i+1]})
	}
	return out, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
