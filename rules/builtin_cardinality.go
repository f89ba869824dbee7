package rules

import (
	"fmt"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/diagnostic"
)

// InvalidCardinalityRuleID flags a cardinality rule whose min exceeds its
// finite max, grounded on original_source's builtin/cardinality.rs.
const InvalidCardinalityRuleID = "builtin/correctness/invalid-cardinality"

var InvalidCardinalityRule = Rule{
	ID:              InvalidCardinalityRuleID,
	Name:            "invalid-cardinality",
	Description:     "A cardinality rule's minimum must not exceed its finite maximum.",
	Category:        Blocking,
	DefaultSeverity: diagnostic.SeverityError,
	Tags:            []string{"correctness", "cardinality"},
	HasAutofix:      true,
	Check: func(m Model) []diagnostic.Diagnostic {
		var out []diagnostic.Diagnostic
		for _, e := range m.Doc.Entities() {
			for _, r := range e.Rules() {
				card, ok := ast.AsCardRule(r.Body())
				if !ok {
					continue
				}
				min, max, ok := card.MinMaxInts()
				if !ok || max < 0 {
					continue
				}
				if min > max {
					start, _ := r.Node().Range()
					d := diagnostic.New(
						InvalidCardinalityRuleID,
						diagnostic.SeverityError,
						fmt.Sprintf("cardinality %d..%d has a minimum greater than its maximum", min, max),
						diagnostic.Location{File: m.File, Offset: start, Length: nodeLength(r.Node())},
					)
					if spanStart, spanEnd, ok := card.CardinalitySpan(); ok {
						swapped := fmt.Sprintf("%d..%d", max, min)
						d = d.WithSuggestion(diagnostic.CodeSuggestion{
							Message:     fmt.Sprintf("replace with %q", swapped),
							Replacement: swapped,
							Location: diagnostic.Location{
								File:   m.File,
								Offset: spanStart,
								Length: spanEnd - spanStart,
							},
							Applicability: diagnostic.MaybeIncorrect,
						})
					}
					out = append(out, d)
				}
			}
		}
		return out
	},
}

func nodeLength(n interface{ Range() (int, int) }) int {
	start, end := n.Range()
	if end-start > 0 {
		return end - start
	}
	return 1
}
