package diagnostic

import "sort"

// SortDeterministic sorts diagnostics in place by (file, offset, rule_id)
// and removes exact duplicates (same rule_id, offset, length, message), per
// spec.md §4.7's duplicate-suppression rule.
func SortDeterministic(diags []Diagnostic) []Diagnostic {
	sort.SliceStable(diags, func(i, j int) bool { return Less(diags[i], diags[j]) })
	return dedupe(diags)
}

type dupKey struct {
	ruleID  string
	offset  int
	length  int
	message string
}

func dedupe(diags []Diagnostic) []Diagnostic {
	seen := make(map[dupKey]bool, len(diags))
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		k := dupKey{d.RuleID, d.Location.Offset, d.Location.Length, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
