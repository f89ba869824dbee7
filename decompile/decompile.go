package decompile

// Decompile turns a flat list of differential elements back into an
// Exportable FSH entity definition: each element runs through the
// extractor pipeline in the order spec.md §4.6.5 lists (cardinality,
// flag, binding, type, caret, obeys, contains, assignment), then the
// accumulated rules run through DefaultOptimizers to drop SUSHI's
// auto-generated noise.
func Decompile(kind, name, parent string, elements []RawElement) *Exportable {
	e := &Exportable{Kind: kind, Name: name, Parent: parent}

	var rules []Rule
	for _, el := range elements {
		rules = append(rules, decompileElement(parent, el)...)
	}

	e.Rules = RunOptimizers(rules, DefaultOptimizers())
	return e
}

// decompileElement runs one element through every extractor, in the
// fixed order the processedSet contract relies on: once an extractor
// claims a field, later extractors in this same pass skip it.
func decompileElement(rootType string, el RawElement) []Rule {
	seen := make(processedSet)
	var rules []Rule

	if r, ok := extractCardinality(rootType, el, seen); ok {
		rules = append(rules, r)
	}
	if r, ok := extractFlags(rootType, el, seen); ok {
		rules = append(rules, r)
	}
	if r, ok := extractBinding(rootType, el, seen); ok {
		rules = append(rules, r)
	}
	if r, ok := extractType(rootType, el, seen, len(el.Types) > 0); ok {
		rules = append(rules, r)
	}
	rules = append(rules, extractCaret(rootType, el, seen)...)
	if r, ok := extractObeys(rootType, el, seen); ok {
		rules = append(rules, r)
	}
	var sliceItems []string
	if el.SliceName != "" {
		sliceItems = []string{el.SliceName}
	}
	if r, ok := extractContains(rootType, el, seen, sliceItems); ok {
		rules = append(rules, r)
	}
	if r, ok := extractAssignment(rootType, el, seen); ok {
		rules = append(rules, r)
	}

	return rules
}
