package rules

import (
	"fmt"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/diagnostic"
)

// InvalidBindingStrengthRuleID flags a `from ... (strength)` whose strength
// is not one of the four valid values, with a Levenshtein-closest
// suggestion, per spec.md §4.6.3's "Unknown strength" requirement.
const InvalidBindingStrengthRuleID = "builtin/correctness/invalid-binding-strength"

var validStrengths = []string{"required", "extensible", "preferred", "example"}

var InvalidBindingStrengthRule = Rule{
	ID:              InvalidBindingStrengthRuleID,
	Name:            "invalid-binding-strength",
	Description:     "A binding's strength must be one of required, extensible, preferred, example.",
	Category:        Correctness,
	DefaultSeverity: diagnostic.SeverityError,
	Tags:            []string{"correctness", "binding"},
	HasAutofix:      true,
	Check: func(m Model) []diagnostic.Diagnostic {
		var out []diagnostic.Diagnostic
		for _, e := range m.Doc.Entities() {
			for _, r := range e.Rules() {
				b, ok := ast.AsBindingRule(r.Body())
				if !ok {
					continue
				}
				strength, hasStrength := b.Strength()
				if !hasStrength || isValidStrength(strength) {
					continue
				}
				suggestion := closestStrength(strength)
				start, end := r.Node().Range()
				d := diagnostic.New(
					InvalidBindingStrengthRuleID,
					diagnostic.SeverityError,
					fmt.Sprintf("unknown binding strength %q", strength),
					diagnostic.Location{File: m.File, Offset: start, Length: end - start},
				)
				if spanStart, spanEnd, ok := b.StrengthSpan(); ok {
					d = d.WithSuggestion(diagnostic.CodeSuggestion{
						Message:     fmt.Sprintf("replace with %q", suggestion),
						Replacement: suggestion,
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
		return out
	},
}

func isValidStrength(s string) bool {
	for _, v := range validStrengths {
		if v == s {
			return true
		}
	}
	return false
}

func closestStrength(s string) string {
	best := validStrengths[0]
	bestDist := levenshtein(s, best)
	for _, v := range validStrengths[1:] {
		if d := levenshtein(s, v); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min(del, min(ins, sub))
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
