package export

import (
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
)

// ExportLogical builds a StructureDefinition for a Logical or Resource
// entity, per spec.md §4.6.3: `kind=logical|resource`,
// `derivation=specialization`; AddElement rules synthesize new elements;
// the root element path is renamed from the parent's type to the new
// entity name.
func ExportLogical(file string, e ast.Entity, kind string) (*Resource, []diagnostic.Diagnostic) {
	name, _ := e.Name()
	parentName, _ := e.Parent()

	sd := NewResource().
		Set("resourceType", "StructureDefinition").
		Set("id", idOrName(e, name)).
		Set("url", canonicalURL(e, name)).
		Set("name", name).
		Set("status", "active").
		Set("kind", kind).
		Set("abstract", false).
		Set("type", name).
		Set("derivation", "specialization")

	if parentName != "" {
		sd.Set("baseDefinition", "http://example.org/fhir/StructureDefinition/"+parentName)
	}
	if title, ok := e.Title(); ok {
		sd.Set("title", trimQuotes(title))
	}
	if desc, ok := e.Description(); ok {
		sd.Set("description", trimQuotes(desc))
	}

	var diags []diagnostic.Diagnostic
	var elements []any
	elements = append(elements, NewResource().Set("path", name).Set("min", 0).Set("max", "*"))

	for _, rule := range e.Rules() {
		path, hasPath := rule.Path()
		if !hasPath || rule.Kind() != cst.NodePathRule {
			continue
		}
		pr, ok := ast.AsPathRule(rule.Body())
		if !ok {
			continue
		}
		el := parseAddElementLine(name, path, pr.RestOfLine())
		if el != nil {
			elements = append(elements, el)
		}
	}

	sd.Set("differential", NewResource().Set("element", elements))
	return sd, diags
}

// parseAddElementLine interprets an AddElement rule body of the form
// `<card> <Type> "<short>" "<definition>"?` into an ElementDefinition,
// whose path is rootName.path.
func parseAddElementLine(rootName, path, rest string) *Resource {
	rest = strings.TrimSpace(rest)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil
	}

	el := NewResource().Set("path", rootName+"."+path)

	card := fields[0]
	if dots := strings.Index(card, ".."); dots >= 0 {
		el.Set("min", mustAtoiOrZero(card[:dots]))
		maxS := card[dots+2:]
		el.Set("max", maxS)
	}

	if len(fields) > 1 {
		el.Set("type", []any{NewResource().Set("code", fields[1])})
	}

	quoted := splitQuoted(strings.Join(fields[2:], " "))
	if len(quoted) > 0 {
		el.Set("short", quoted[0])
	}
	if len(quoted) > 1 {
		el.Set("definition", quoted[1])
	}
	return el
}

func mustAtoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
