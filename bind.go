package jsonmodels

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Decode binds the serialized form of in to a Go value through its JSON tags.
func Decode[T any](in *Instance) (T, error) {
	var out T
	plain, err := ToPlain(in)
	if err != nil {
		return out, err
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return out, fmt.Errorf("jsonmodels: encode %s: %w", in.model.name, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("jsonmodels: decode %s into %T: %w", in.model.name, out, err)
	}
	return out, nil
}
