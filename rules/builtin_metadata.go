package rules

import (
	"bytes"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
)

// MissingDescriptionRuleID identifies the Documentation-category check that
// flags Profile/Extension/ValueSet/CodeSystem entities lacking a
// Description clause, grounded on original_source's
// builtin/metadata.rs check_missing_metadata.
const MissingDescriptionRuleID = "builtin/documentation/missing-description"

// MissingDescriptionRule warns when a documentable entity has neither a
// `Description:` clause nor an equivalent `^description` caret rule.
var MissingDescriptionRule = Rule{
	ID:              MissingDescriptionRuleID,
	Name:            "missing-description",
	Description:     "Profiles, extensions, value sets, and code systems should declare a Description.",
	Category:        Documentation,
	DefaultSeverity: diagnostic.SeverityWarning,
	Tags:            []string{"documentation"},
	HasAutofix:      true,
	Check: func(m Model) []diagnostic.Diagnostic {
		var out []diagnostic.Diagnostic
		for _, e := range m.Doc.Entities() {
			switch e.Kind() {
			case cst.NodeProfile, cst.NodeExtension, cst.NodeValueSet, cst.NodeCodeSystem:
			default:
				continue
			}
			if _, ok := e.Description(); ok {
				continue
			}
			if hasCaretDescription(e) {
				continue
			}
			name, _ := e.Name()
			start, _ := e.Node().Range()
			d := diagnostic.New(
				MissingDescriptionRuleID,
				diagnostic.SeverityWarning,
				"entity \""+name+"\" has no Description",
				diagnostic.Location{File: m.File, Offset: start, Length: 1},
			)
			headerEnd := headerLineEnd(m.Src, start)
			d = d.WithSuggestion(diagnostic.CodeSuggestion{
				Message:     "insert an empty Description clause",
				Replacement: "\nDescription: \"\"",
				Location: diagnostic.Location{
					File:   m.File,
					Offset: headerEnd,
					Length: 0,
				},
				Applicability: diagnostic.Always,
			})
			out = append(out, d)
		}
		return out
	},
}

// headerLineEnd returns the offset just before the first newline following
// start, i.e. the end of the entity's `Kind: Name` header line, so an
// inserted clause lands on its own line right after the header.
func headerLineEnd(src []byte, start int) int {
	if idx := bytes.IndexByte(src[start:], '\n'); idx >= 0 {
		return start + idx
	}
	return len(src)
}

func hasCaretDescription(e ast.Entity) bool {
	for _, r := range e.Rules() {
		if cv, ok := ast.AsCaretValueRule(r.Body()); ok && cv.CaretPath() == "description" {
			return true
		}
	}
	return false
}
