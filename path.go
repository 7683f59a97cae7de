package jsonmodels

import (
	"strconv"
	"strings"
)

// path is an immutable linked trace of the current build position. Frames
// share their parent, so extending a path never copies; rendering is lazy and
// only happens when an error is stamped.
type path struct {
	parent *path
	field  string
	index  int
	isIdx  bool
}

var rootPath = &path{}

func (p *path) Field(name string) *path { return &path{parent: p, field: name} }

func (p *path) Index(i int) *path { return &path{parent: p, index: i, isIdx: true} }

// String renders $, $.name, $.items[2].name, and $["odd key"] for names that are
// not plain identifiers.
func (p *path) String() string {
	var frames []*path
	for f := p; f != nil && f != rootPath; f = f.parent {
		frames = append(frames, f)
	}
	b := &strings.Builder{}
	b.WriteByte('$')
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		switch {
		case f.isIdx:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(f.index))
			b.WriteByte(']')
		case isIdent(f.field):
			b.WriteByte('.')
			b.WriteString(f.field)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(f.field))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
