package jsonmodels

// Kind tags the active variant of a Property.
type Kind int

const (
	KindAny     Kind = iota // Any JSON value, passed through untouched.
	KindString              // String, optionally converted through a format.
	KindNumber              // Any JSON number.
	KindInteger             // Integral JSON number.
	KindBoolean             // true/false.
	KindArray               // Sequence of Items.
	KindObject              // Inline object with its own properties.
	KindModel               // Instance of another model type.
	KindSelf                // Instance of the enclosing model type.
)

// String returns the JSON Schema type name for primitive kinds and a
// descriptive name for the others.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindModel:
		return "model"
	case KindSelf:
		return "self"
	default:
		return "any"
	}
}

// SchemaMode selects how nested model types appear in a derived document.
type SchemaMode int

const (
	// Expanded replaces every model reference by the referenced type's own
	// document, recursively.
	Expanded SchemaMode = iota
	// Left keeps model references as {"$ref": "<ModelName>"} markers.
	Left
)

// DefaultMaxDepth bounds nested model construction.
const DefaultMaxDepth = 512
