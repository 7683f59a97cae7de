// Package codec holds the format registry used for string-typed properties.
//
// A format is a named Load/Dump pair. The builder loads raw strings through
// it and the serializer dumps live values back. Unknown format names are not
// an error: values pass through unchanged on load and are rendered with
// fmt.Sprint on dump.
//
//	codec.Register("upper", codec.Funcs{
//	    LoadFunc: func(s string) (any, error) { return strings.ToUpper(s), nil },
//	})
package codec
