package jsonmodels

import (
	"sync"

	"github.com/go-logr/logr"

	"github.com/novopl/json-models/codec"
	js "github.com/novopl/json-models/jsonschema"
)

// Validator checks data against a derived schema document. It returns no
// errors when data is valid.
type Validator interface {
	Validate(data any, schema *js.Schema) ([]js.Error, error)
}

// Engine builds, serializes and validates instances. An Engine is safe for
// concurrent use once configured.
type Engine struct {
	formats   *codec.Registry
	validator Validator
	validate  bool
	maxDepth  int
	log       logr.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFormats sets the format registry used by loaders and dumpers.
var WithFormats = func(r *codec.Registry) Option {
	return func(e *Engine) {
		e.formats = r
	}
}

// WithValidator replaces the schema validator.
var WithValidator = func(v Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithoutValidation makes Build skip the validation step.
var WithoutValidation = func() Option {
	return func(e *Engine) {
		e.validate = false
	}
}

// WithMaxDepth bounds nested model construction.
var WithMaxDepth = func(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithLogr sets the logger; the default discards everything.
var WithLogr = func(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

var sharedValidator = sync.OnceValue(func() *js.Validator { return js.NewValidator() })

// New returns an engine using the process-wide format registry and a shared
// validator unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		formats:  codec.Default(),
		validate: true,
		maxDepth: DefaultMaxDepth,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.validator == nil {
		e.validator = sharedValidator()
	}
	if e.formats == nil {
		e.formats = codec.NewRegistry()
	}
	if e.maxDepth <= 0 {
		e.maxDepth = DefaultMaxDepth
	}
	return e
}

// DefaultEngine returns the engine used by the package-level functions.
var DefaultEngine = sync.OnceValue(func() *Engine { return New() })

// Formats returns the engine's format registry.
func (e *Engine) Formats() *codec.Registry { return e.formats }

// Validate checks raw against the expanded schema of mt. It returns nil Issues
// when raw is valid; err reports failures to derive or compile the schema.
func (e *Engine) Validate(mt *ModelType, raw any) (Issues, error) {
	doc, err := mt.JSONSchema(Expanded)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	errs, err := e.validator.Validate(raw, doc)
	if err != nil {
		return nil, err
	}
	if len(errs) == 0 {
		return nil, nil
	}
	var iss Issues
	for _, ve := range errs {
		iss = AppendIssues(iss, issueFromValidator(ve))
	}
	e.log.V(1).Info("validation failed", "model", mt.name, "issues", len(iss))
	return iss, nil
}
