package jsonmodels

// Package jsonmodels provides:
//
// - Declarative model types with single inheritance and property removal (Model/Extends/Remove)
// - Derived JSON Schema documents in expanded or left form (ModelType.JSONSchema)
// - Validate-then-build construction of instances with defaults, nested models and formats (Build)
// - Serialization back to plain data and JSON text, with computed read-only properties (ToPlain/ToJSON)
// - A stable error model: ValidationError with Issues, BuildError/SerializeError with $-rooted paths
//
// Design policy:
// - Keep the engine in the root package; formats live under codec/, schema documents and the
//   validator under jsonschema/, YAML declarations under catalog/ and the CLI under cmd/jsonmodels.
// - Model types are immutable once built; an Engine carries the format registry and validator.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  person := jsonmodels.Model("Person").
//      Field("name", jsonmodels.String().Default("John")).
//      Field("surname", jsonmodels.String().Default("Doe")).
//      MustBuild()
//
//  in, err := person.New(map[string]any{"name": "Jack"})
//  data, err := jsonmodels.ToJSON(in, 2)
//  doc, err := person.JSONSchema(jsonmodels.Expanded)
