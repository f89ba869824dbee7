package export

import (
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
)

// ExportValueSet builds a ValueSet resource from components and caret
// rules, per spec.md §4.6.3: one `compose.include`/`exclude` entry per
// component line, each carrying only a `system`. Entries are not grouped
// by system, and no concept or filter entries are produced.
func ExportValueSet(file string, e ast.Entity) (*Resource, []diagnostic.Diagnostic) {
	name, _ := e.Name()
	vs := NewResource().
		Set("resourceType", "ValueSet").
		Set("id", idOrName(e, name)).
		Set("url", canonicalURL(e, name)).
		Set("name", name).
		Set("status", "active")

	if title, ok := e.Title(); ok {
		vs.Set("title", trimQuotes(title))
	}
	if desc, ok := e.Description(); ok {
		vs.Set("description", trimQuotes(desc))
	}

	var includes, excludes []any
	var diags []diagnostic.Diagnostic

	for _, rule := range e.Rules() {
		switch rule.Kind() {
		case cst.NodeCaretValueRule:
			if cv, ok := ast.AsCaretValueRule(rule.Body()); ok {
				applyRootCaret(vs, cv)
			}
		case cst.NodePathRule:
			if pr, ok := ast.AsPathRule(rule.Body()); ok {
				component, exclude := parseVSComponent(pr.RestOfLine())
				if component != nil {
					if exclude {
						excludes = append(excludes, component)
					} else {
						includes = append(includes, component)
					}
				}
			}
		}
	}

	compose := NewResource()
	if len(includes) > 0 {
		compose.Set("include", includes)
	}
	if len(excludes) > 0 {
		compose.Set("exclude", excludes)
	}
	if compose.Len() > 0 {
		vs.Set("compose", compose)
	}

	return vs, diags
}

// parseVSComponent interprets one ValueSet rule line of the forms:
//
//	include codes from system <url>
//	exclude codes from system <url>
//
// producing a compose.include/exclude entry, per spec.md §4.6.3. Any other
// line (e.g. `<system>#<code> "<display>"`) is taken whole as the system.
func parseVSComponent(line string) (*Resource, bool) {
	exclude := strings.HasPrefix(line, "exclude")
	line = strings.TrimPrefix(strings.TrimPrefix(line, "exclude"), "include")
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "codes")
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "from")
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "system")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, exclude
	}
	return NewResource().Set("system", line), exclude
}
