package export

import (
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
)

// ExportCodeSystem builds a CodeSystem resource from concept rules and
// caret rules, per spec.md §4.6.3. Concept rule lines follow the form
// `#code "display" "definition"`; a leading run of extra `#` markers (one
// per nesting level this module does not track positionally) is treated
// flat, matching a typical FSH CodeSystem's common case.
func ExportCodeSystem(file string, e ast.Entity) (*Resource, []diagnostic.Diagnostic) {
	name, _ := e.Name()
	cs := NewResource().
		Set("resourceType", "CodeSystem").
		Set("id", idOrName(e, name)).
		Set("url", canonicalURL(e, name)).
		Set("name", name).
		Set("status", "active").
		Set("content", "complete")

	if title, ok := e.Title(); ok {
		cs.Set("title", trimQuotes(title))
	}
	if desc, ok := e.Description(); ok {
		cs.Set("description", trimQuotes(desc))
	}

	var concepts []any
	var diags []diagnostic.Diagnostic

	for _, rule := range e.Rules() {
		switch rule.Kind() {
		case cst.NodeCaretValueRule:
			if cv, ok := ast.AsCaretValueRule(rule.Body()); ok {
				applyRootCaret(cs, cv)
			}
		case cst.NodePathRule:
			if pr, ok := ast.AsPathRule(rule.Body()); ok {
				if concept := parseConceptLine(pr.RestOfLine()); concept != nil {
					concepts = append(concepts, concept)
				}
			}
		}
	}

	if len(concepts) > 0 {
		cs.Set("concept", concepts)
		cs.Set("count", len(concepts))
	}

	return cs, diags
}

// parseConceptLine interprets a `#code "display" "definition"` line.
func parseConceptLine(line string) *Resource {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		return nil
	}
	line = strings.TrimLeft(line, "#")
	fields := splitQuoted(line)
	if len(fields) == 0 {
		return nil
	}
	concept := NewResource().Set("code", fields[0])
	if len(fields) > 1 {
		concept.Set("display", fields[1])
	}
	if len(fields) > 2 {
		concept.Set("definition", fields[2])
	}
	return concept
}

// splitQuoted splits line into the leading bareword (code) followed by any
// double-quoted segments (display, definition), in order.
func splitQuoted(line string) []string {
	var out []string
	i := 0
	for i < len(line) && line[i] != ' ' && line[i] != '"' {
		i++
	}
	if i > 0 {
		out = append(out, line[:i])
	}
	for i < len(line) {
		for i < len(line) && line[i] != '"' {
			i++
		}
		if i >= len(line) {
			break
		}
		i++
		start := i
		for i < len(line) && line[i] != '"' {
			i++
		}
		out = append(out, line[start:i])
		if i < len(line) {
			i++
		}
	}
	return out
}
