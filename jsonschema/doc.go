// Package jsonschema holds the JSON Schema document derived from model types
// and the validator used to check raw input against it.
//
// Documents are plain structs encoded with go-json. The Validator compiles
// them with santhosh-tekuri/jsonschema (draft-07) and keeps compiled schemas
// in an LRU cache keyed by the document's JSON text, so repeated validation
// against the same model type does not recompile.
package jsonschema
