package gritql

import (
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
)

// fieldReader adapts an ast.Entity (or bare cst.Node) so predicates can
// look up named clauses (`description`, `parent`, ...) uniformly.
type fieldReader struct {
	node *cst.Node
}

func newFieldReader(n *cst.Node) *fieldReader { return &fieldReader{node: n} }

// field resolves a predicate field name to its text value, covering the
// common entity clauses plus the synthetic "name" field.
func (f *fieldReader) field(name string) (string, bool) {
	e, ok := ast.FromNode(f.node)
	if !ok {
		return "", false
	}
	switch strings.ToLower(name) {
	case "name":
		return e.Name()
	case "parent":
		return e.Parent()
	case "id":
		return e.Id()
	case "title":
		return e.Title()
	case "description":
		return e.Description()
	case "instanceof":
		return e.InstanceOf()
	case "usage":
		return e.Usage()
	default:
		return "", false
	}
}

// fieldOrBinding resolves either a $var binding or a plain field name. A
// $var with no binding yet captures the field of the same name, so `$name`
// reads the matched entity's name.
func (f *fieldReader) fieldOrBinding(name string, bindings map[string]string) (string, bool) {
	if strings.HasPrefix(name, "$") {
		if v, ok := bindings[name]; ok {
			return v, true
		}
		return f.field(strings.TrimPrefix(name, "$"))
	}
	return f.field(name)
}
