package catalog

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"

	jm "github.com/novopl/json-models"
)

// newCELEnv declares the single variable computed expressions see: self, the
// stored values of the instance being serialized.
func newCELEnv() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("self", cel.MapType(cel.StringType, cel.DynType)))
}

// compileComputed turns a CEL expression into a compute hook.
func compileComputed(env *cel.Env, expr string) (jm.ComputeFunc, error) {
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return func(in *jm.Instance) (any, error) {
		out, _, err := prg.Eval(map[string]any{"self": celValue(in.Stored())})
		if err != nil {
			return nil, fmt.Errorf("computed %q: %w", expr, err)
		}
		return nativeValue(out), nil
	}, nil
}

// celValue rewrites json.Number, which the CEL adapter does not know, into
// int64 or float64.
func celValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = celValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = celValue(e)
		}
		return out
	case int:
		return int64(t)
	default:
		return v
	}
}

func nativeValue(v ref.Val) any {
	switch t := v.Value().(type) {
	case []ref.Val:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = nativeValue(e)
		}
		return out
	default:
		return t
	}
}
