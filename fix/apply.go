// Package fix implements the fix-application algorithm described in
// spec.md §4.9: select CodeSuggestions from a diagnostic batch, apply them
// right-to-left over the source buffer, skip any that conflict with an
// already-accepted edit, and loop to convergence (re-running the rule
// engine and re-applying) up to a bounded number of passes, mirroring the
// 8-step deterministic pipeline in internal/core/pipeline.go's Apply
// method generalized from Tree-sitter anchors to byte-offset suggestions.
package fix

import (
	"fmt"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/termfx/fshlint/diagnostic"
)

// DefaultMaxPasses bounds the fix-until-convergence loop so a
// pathologically oscillating rule set cannot hang the fixer, per
// spec.md §4.9's default.
const DefaultMaxPasses = 10

// SuggestionFilter selects which CodeSuggestions Apply is willing to use.
type SuggestionFilter func(diagnostic.CodeSuggestion) bool

// OnlySafe accepts only Applicability == Always suggestions, the default
// used when no --unsafe flag is given.
func OnlySafe(s diagnostic.CodeSuggestion) bool {
	return s.Applicability == diagnostic.Always
}

// IncludingUnsafe accepts Always and MaybeIncorrect suggestions.
func IncludingUnsafe(s diagnostic.CodeSuggestion) bool {
	return s.Applicability == diagnostic.Always || s.Applicability == diagnostic.MaybeIncorrect
}

// Skip records why a candidate edit was not applied.
type Skip struct {
	RuleID string
	Offset int
	Reason string
}

// Result is the outcome of applying one pass of fixes over a buffer.
type Result struct {
	Before  []byte
	After   []byte
	Applied int
	Skipped []Skip
	Diff    string
}

// candidate is one CodeSuggestion flattened alongside the rule id that
// produced it, ready for offset-based sorting and overlap detection.
type candidate struct {
	ruleID     string
	suggestion diagnostic.CodeSuggestion
}

// Apply selects suggestions from diags via filter, applies the
// non-conflicting ones right-to-left over src, and returns the modified
// buffer plus a human-readable diff, per spec.md §4.9:
//  1. collect eligible suggestions, sort by (offset, length) ascending
//  2. walk in that order; reject any suggestion whose span overlaps a
//     previously accepted one, recording it as Skipped
//  3. apply the accepted suggestions right-to-left so earlier offsets
//     stay valid as later (higher-offset) edits are applied first
func Apply(file string, src []byte, diags []diagnostic.Diagnostic, filter SuggestionFilter) (*Result, error) {
	if filter == nil {
		filter = OnlySafe
	}

	var candidates []candidate
	for _, d := range diags {
		for _, s := range d.Suggestions {
			if s.Location.File != "" && s.Location.File != file {
				continue
			}
			if filter(s) {
				candidates = append(candidates, candidate{ruleID: d.RuleID, suggestion: s})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].suggestion.Location, candidates[j].suggestion.Location
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Length < b.Length
	})

	var accepted []candidate
	var skipped []Skip
	lastEnd := -1
	for _, c := range candidates {
		loc := c.suggestion.Location
		if loc.Offset < lastEnd {
			skipped = append(skipped, Skip{RuleID: c.ruleID, Offset: loc.Offset, Reason: "overlaps a previously accepted edit"})
			continue
		}
		accepted = append(accepted, c)
		lastEnd = loc.End()
	}

	out := make([]byte, len(src))
	copy(out, src)
	for i := len(accepted) - 1; i >= 0; i-- {
		loc := accepted[i].suggestion.Location
		if loc.Offset < 0 || loc.End() > len(out) {
			return nil, fmt.Errorf("fix: suggestion from rule %s out of bounds: %d-%d", accepted[i].ruleID, loc.Offset, loc.End())
		}
		next := make([]byte, 0, len(out)+len(accepted[i].suggestion.Replacement))
		next = append(next, out[:loc.Offset]...)
		next = append(next, []byte(accepted[i].suggestion.Replacement)...)
		next = append(next, out[loc.End():]...)
		out = next
	}

	diff, err := unifiedDiff(file, src, out)
	if err != nil {
		return nil, err
	}

	return &Result{
		Before:  src,
		After:   out,
		Applied: len(accepted),
		Skipped: skipped,
		Diff:    diff,
	}, nil
}

// unifiedDiff renders a before/after diff with go-difflib, the same
// library spec.md's ambient stack designates for diff previews.
func unifiedDiff(file string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: file,
		ToFile:   file,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
