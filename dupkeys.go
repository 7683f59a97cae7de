package jsonmodels

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/novopl/json-models/i18n"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	last         string
	ptr          string // pointer of this container
	next         int    // next array index
}

// duplicateKeys scans JSON text and reports every object key that appears more
// than once, at the pointer of its container. Syntax errors are left to the
// decoder.
func duplicateKeys(data []byte) Issues {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		iss   Issues
		stack []dupFrame
	)
	// childPtr consumes the position of the value about to start.
	childPtr := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindArray {
			p := top.ptr + "/" + strconv.Itoa(top.next)
			top.next++
			return p
		}
		return top.ptr + "/" + escapePointer(top.last)
	}
	valueDone := func() {
		if len(stack) > 0 {
			if top := &stack[len(stack)-1]; top.kind == kindObject {
				top.expectingKey = true
			}
		}
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return iss
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, ptr: childPtr()})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray, ptr: childPtr()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						path := top.ptr
						if path == "" {
							path = "/"
						}
						iss = AppendIssues(iss, Issue{Path: path, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil) + " '" + v + "'"})
					}
					top.keys[v] = struct{}{}
					top.expectingKey = false
					top.last = v
					continue
				}
				if top.kind == kindArray {
					top.next++
				}
			}
			valueDone()
		default:
			if len(stack) > 0 {
				if top := &stack[len(stack)-1]; top.kind == kindArray {
					top.next++
				}
			}
			valueDone()
		}
	}
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
