package decompile

import "fmt"

// relativePath strips the root type prefix from an ElementDefinition's
// absolute path (e.g. "Patient.name" under root "Patient" -> "name"),
// matching FSH rule syntax which paths relative to the profiled type.
func relativePath(rootType, absPath string) string {
	if absPath == rootType {
		return ""
	}
	prefix := rootType + "."
	if len(absPath) > len(prefix) && absPath[:len(prefix)] == prefix {
		return absPath[len(prefix):]
	}
	return absPath
}

// extractCardinality emits a CardRule when min/max are set and not the
// trivial "inherit everything" case, per spec.md §4.6.5.
func extractCardinality(rootType string, el RawElement, seen processedSet) (Rule, bool) {
	if el.Min == nil && el.Max == "" {
		return Rule{}, false
	}
	if seen.has("min") && seen.has("max") {
		return Rule{}, false
	}
	seen.mark("min")
	seen.mark("max")

	minS := "0"
	if el.Min != nil {
		minS = fmt.Sprintf("%d", *el.Min)
	}
	maxS := el.Max
	if maxS == "" {
		maxS = "*"
	}
	path := relativePath(rootType, el.Path)
	text := fmt.Sprintf("%s %s..%s", path, minS, maxS)
	return Rule{Kind: RuleCardinality, Path: path, Text: text}, true
}

// extractFlags emits a FlagRule for mustSupport/isSummary/isModifier.
func extractFlags(rootType string, el RawElement, seen processedSet) (Rule, bool) {
	var flags []string
	if el.MustSupport && !seen.has("mustSupport") {
		flags = append(flags, "MS")
		seen.mark("mustSupport")
	}
	if el.IsSummary && !seen.has("isSummary") {
		flags = append(flags, "SU")
		seen.mark("isSummary")
	}
	if el.IsModifier && !seen.has("isModifier") {
		flags = append(flags, "?!")
		seen.mark("isModifier")
	}
	if len(flags) == 0 {
		return Rule{}, false
	}
	path := relativePath(rootType, el.Path)
	text := path
	for _, f := range flags {
		text += " " + f
	}
	return Rule{Kind: RuleFlag, Path: path, Text: text}, true
}

// extractBinding emits a BindingRule from binding.strength/valueSet.
func extractBinding(rootType string, el RawElement, seen processedSet) (Rule, bool) {
	if el.BindingValueSet == "" || seen.has("binding") {
		return Rule{}, false
	}
	seen.mark("binding")
	path := relativePath(rootType, el.Path)
	text := fmt.Sprintf("%s from %s", path, el.BindingValueSet)
	if el.BindingStrength != "" && el.BindingStrength != "required" {
		text += fmt.Sprintf(" (%s)", el.BindingStrength)
	}
	return Rule{Kind: RuleBinding, Path: path, Text: text}, true
}

// extractType emits an OnlyRule when Types narrows the inherited set.
func extractType(rootType string, el RawElement, seen processedSet, narrowed bool) (Rule, bool) {
	if !narrowed || len(el.Types) == 0 || seen.has("type") {
		return Rule{}, false
	}
	seen.mark("type")
	path := relativePath(rootType, el.Path)
	text := path + " only " + joinOr(el.Types)
	return Rule{Kind: RuleType, Path: path, Text: text}, true
}

func joinOr(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += " or "
		}
		out += t
	}
	return out
}

// extractCaret emits a CaretValueRule for short/definition/comment, the
// metadata fields spec.md §4.6.3 routes through `^`.
func extractCaret(rootType string, el RawElement, seen processedSet) []Rule {
	var rules []Rule
	path := relativePath(rootType, el.Path)
	emit := func(field, value string) {
		if value == "" || seen.has(field) {
			return
		}
		seen.mark(field)
		text := fmt.Sprintf("%s ^%s = \"%s\"", path, field, value)
		rules = append(rules, Rule{Kind: RuleCaret, Path: path, Text: text, Value: value})
	}
	emit("short", el.Short)
	emit("definition", el.Definition)
	emit("comment", el.Comment)
	return rules
}

// extractObeys emits one ObeysRule listing every constraint's invariant
// key, joined by "and" (the human/severity/expression live on the Invariant
// entity itself, synthesized separately by the caller).
func extractObeys(rootType string, el RawElement, seen processedSet) (Rule, bool) {
	if len(el.Constraints) == 0 || seen.has("constraint") {
		return Rule{}, false
	}
	seen.mark("constraint")
	path := relativePath(rootType, el.Path)
	text := path + " obeys"
	for i, c := range el.Constraints {
		if i > 0 {
			text += " and"
		}
		text += " " + c.Key
	}
	return Rule{Kind: RuleObeys, Path: path, Text: text}, true
}

// extractContains emits a ContainsRule when the element is a slice root.
func extractContains(rootType string, el RawElement, seen processedSet, sliceItems []string) (Rule, bool) {
	if len(sliceItems) == 0 || seen.has("slicing") {
		return Rule{}, false
	}
	seen.mark("slicing")
	path := relativePath(rootType, el.Path)
	text := path + " contains"
	for i, item := range sliceItems {
		if i > 0 {
			text += " and"
		}
		text += " " + item + " 0..1"
	}
	return Rule{Kind: RuleContains, Path: path, Text: text, Items: sliceItems}, true
}

// extractAssignment emits an AssignmentRule from fixed[x]/pattern[x].
func extractAssignment(rootType string, el RawElement, seen processedSet) (Rule, bool) {
	if el.FixedKey == "" || seen.has("fixedValue") {
		return Rule{}, false
	}
	seen.mark("fixedValue")
	path := relativePath(rootType, el.Path)
	exactly := len(el.FixedKey) >= 5 && el.FixedKey[:5] == "fixed"
	text := fmt.Sprintf("%s = %s", path, el.FixedValue)
	if exactly {
		text += " (exactly)"
	}
	return Rule{Kind: RuleAssignment, Path: path, Text: text, Value: el.FixedValue}, true
}
