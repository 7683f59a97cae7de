package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	sjs "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultCacheSize bounds the number of compiled schemas kept by a Validator.
const DefaultCacheSize = 256

const resourceBase = "https://json-models.local/schemas/"

// Error is a single violation reported by a Validator.
type Error struct {
	InstanceLocation string // JSON Pointer into the validated data ("/" for the root).
	KeywordLocation  string // JSON Pointer into the schema.
	Keyword          string // Last segment of KeywordLocation (e.g. "required").
	Message          string
}

// Validator validates plain data against derived documents. Compiled schemas
// are cached by their JSON text.
type Validator struct {
	cache *lru.Cache[string, *sjs.Schema]
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	cacheSize int
}

// WithCacheSize sets the number of compiled schemas kept in memory.
func WithCacheSize(n int) ValidatorOption {
	return func(c *validatorConfig) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// NewValidator returns a draft-07 validator with format assertions enabled.
func NewValidator(opts ...ValidatorOption) *Validator {
	cfg := validatorConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New[string, *sjs.Schema](cfg.cacheSize)
	if err != nil {
		// only reachable with a non-positive size, which the option rejects
		panic(err)
	}
	return &Validator{cache: cache}
}

// Validate checks data against schema. It returns no errors when data is
// valid; a non-nil error means the schema itself could not be used.
func (v *Validator) Validate(data any, schema *Schema) ([]Error, error) {
	if schema == nil {
		return nil, errors.New("jsonschema: nil schema")
	}
	compiled, err := v.compiled(schema)
	if err != nil {
		return nil, err
	}
	doc, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: normalize data: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		var ve *sjs.ValidationError
		if errors.As(err, &ve) {
			return flatten(ve, nil), nil
		}
		return nil, err
	}
	return nil, nil
}

// Len reports how many compiled schemas are cached.
func (v *Validator) Len() int { return v.cache.Len() }

func (v *Validator) compiled(schema *Schema) (*sjs.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode schema: %w", err)
	}
	key := string(raw)
	if c, ok := v.cache.Get(key); ok {
		return c, nil
	}
	c, err := compile(schema.ID, raw)
	if err != nil {
		return nil, err
	}
	v.cache.Add(key, c)
	return c, nil
}

func compile(id string, raw []byte) (*sjs.Schema, error) {
	if id == "" {
		id = "schema"
	}
	// the root $id resolves to loc itself so {"$ref": "<Name>"} reaches it
	loc := resourceBase + url.PathEscape(id)
	c := sjs.NewCompiler()
	c.Draft = sjs.Draft7
	c.AssertFormat = true
	if err := c.AddResource(loc, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("jsonschema: add %s: %w", id, err)
	}
	s, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile %s: %w", id, err)
	}
	return s, nil
}

// flatten collects the leaf causes of a validation error tree in order.
func flatten(ve *sjs.ValidationError, dst []Error) []Error {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		kw := ve.KeywordLocation
		if i := strings.LastIndex(kw, "/"); i >= 0 {
			kw = kw[i+1:]
		}
		return append(dst, Error{
			InstanceLocation: loc,
			KeywordLocation:  ve.KeywordLocation,
			Keyword:          kw,
			Message:          ve.Message,
		})
	}
	for _, c := range ve.Causes {
		dst = flatten(c, dst)
	}
	return dst
}

// Normalize converts arbitrary Go values into the JSON data model
// (map[string]any, []any, json.Number, string, bool, nil).
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Decode parses JSON text keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
