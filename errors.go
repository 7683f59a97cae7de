package jsonmodels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/novopl/json-models/i18n"
	js "github.com/novopl/json-models/jsonschema"
)

// Issue codes.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidEnum   = "invalid_enum"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalid       = "invalid"
)

var (
	ErrNotObject          = errors.New("value is not an object")
	ErrMaxDepth           = errors.New("maximum nesting depth exceeded")
	ErrUnknownProperty    = errors.New("unknown property")
	ErrReadOnly           = errors.New("property is read-only")
	ErrInvalidDeclaration = errors.New("invalid model declaration")
	ErrUnresolvedRef      = errors.New("unresolved model reference")
	ErrInvalidValue       = errors.New("invalid value")
	ErrHookPanic          = errors.New("hook panicked")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Keyword string // Failing schema keyword.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issueFromValidator(e js.Error) Issue {
	return Issue{
		Path:    e.InstanceLocation,
		Code:    codeForKeyword(e.Keyword),
		Message: e.Message,
		Keyword: e.Keyword,
	}
}

func codeForKeyword(kw string) string {
	switch kw {
	case "type":
		return CodeInvalidType
	case "required":
		return CodeRequired
	case "additionalProperties":
		return CodeUnknownKey
	case "format":
		return CodeInvalidFormat
	case "enum", "const":
		return CodeInvalidEnum
	case "minimum", "exclusiveMinimum":
		return CodeTooSmall
	case "maximum", "exclusiveMaximum":
		return CodeTooBig
	case "minLength", "minItems", "minProperties":
		return CodeTooShort
	case "maxLength", "maxItems", "maxProperties":
		return CodeTooLong
	case "pattern":
		return CodePattern
	default:
		return CodeInvalid
	}
}

// ValidationError reports input rejected by the derived schema. No building
// happens when it is returned.
type ValidationError struct {
	Model  string
	Input  any
	Issues Issues
}

func (e *ValidationError) Error() string {
	return i18n.T("validation_failed", map[string]string{"model": e.Model}) + ": " + e.Issues.Error()
}

func (e *ValidationError) Unwrap() error { return e.Issues }

// BuildError reports a construction failure at the innermost path where it
// happened, rendered like $.items[2].field.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s at %s: %v", i18n.T("build_failed", nil), e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// SerializeError reports a serialization failure, with the same path policy as
// BuildError.
type SerializeError struct {
	Path string
	Err  error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("%s at %s: %v", i18n.T("serialize_failed", nil), e.Path, e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// stampBuild wraps err with the path unless a deeper frame already did.
func stampBuild(p *path, err error) error {
	if err == nil {
		return nil
	}
	var be *BuildError
	if errors.As(err, &be) {
		return err
	}
	return &BuildError{Path: p.String(), Err: err}
}

func stampSerialize(p *path, err error) error {
	if err == nil {
		return nil
	}
	var se *SerializeError
	if errors.As(err, &se) {
		return err
	}
	return &SerializeError{Path: p.String(), Err: err}
}

// recoverHook turns a panic in user code into an error assigned to *err.
func recoverHook(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("%w: %w", ErrHookPanic, e)
			return
		}
		*err = fmt.Errorf("%w: %v", ErrHookPanic, r)
	}
}
