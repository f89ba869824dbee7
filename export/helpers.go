package export

import (
	"strings"

	"github.com/termfx/fshlint/ast"
)

// idOrName returns the entity's declared Id clause if present, else its
// Name, mirroring FHIR's fallback rule for StructureDefinition.id.
func idOrName(e ast.Entity, name string) string {
	if id, ok := e.Id(); ok {
		return trimQuotes(id)
	}
	return name
}

// canonicalURL synthesizes a default canonical URL for an entity lacking
// an explicit `^url` caret rule, always under the example.org base (no
// configured canonical is read); the exporter always needs a URL to
// populate baseDefinition for dependents.
func canonicalURL(e ast.Entity, name string) string {
	return "http://example.org/fhir/StructureDefinition/" + idOrName(e, name)
}

// trimQuotes strips a single layer of double-quote delimiters from an FSH
// string literal, a no-op on already-bare text.
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// applyRootCaret mutates sd's own metadata for a root-level (no Path)
// caret rule, per spec.md §4.6.3's "mutates root SD metadata" clause.
func applyRootCaret(sd *Resource, caret ast.CaretValueRule) {
	value := parseValueLiteral(caret.Value())
	switch caret.CaretPath() {
	case "status", "version", "experimental", "publisher", "description", "purpose", "url", "title", "name":
		sd.Set(caret.CaretPath(), value)
	}
}
