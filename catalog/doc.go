// Package catalog loads model types from YAML declarations.
//
// A catalog file holds one or more documents with a top-level models mapping.
// Each model lists its properties in order; a property declared as null
// removes the one inherited through extends. $ref names another model of the
// catalog, or "#" for the declaring model itself. Computed properties are CEL
// expressions over self, the stored values of the instance.
package catalog
