// Package decompile implements the inverse of export: turning a FHIR
// resource's differential elements back into FSH rule text, per spec.md
// §4.6.5. Per-rule extractors consume fields off each element (marking
// them "processed" so later extractors don't re-emit the same semantics)
// and a post-pass of optimizer plugins cleans up patterns SUSHI
// auto-generates that would otherwise round-trip as noisy, redundant FSH.
package decompile

// RuleKind tags which extractor produced a Rule, used by the optimizer
// plugins to find specific rule shapes without re-parsing rule text.
type RuleKind string

const (
	RuleCardinality RuleKind = "cardinality"
	RuleFlag        RuleKind = "flag"
	RuleBinding     RuleKind = "binding"
	RuleType        RuleKind = "type"
	RuleCaret       RuleKind = "caret"
	RuleObeys       RuleKind = "obeys"
	RuleContains    RuleKind = "contains"
	RuleAssignment  RuleKind = "assignment"
)

// Rule is one synthesized FSH rule, carrying both its rendered text and
// enough structured data for the optimizer plugins to recognize and
// rewrite specific patterns without re-parsing Text.
type Rule struct {
	Kind  RuleKind
	Path  string
	Text  string
	Items []string // ContainsRule slice names, when Kind == RuleContains
	Value string    // assignment/caret raw value, when applicable
}

// Exportable is the decompiler's output: one FSH entity definition ready
// to render, mirroring spec.md §4.6.5's "Exportable*" family
// (Profile/Extension/ValueSet/CodeSystem/Instance/Logical).
type Exportable struct {
	Kind        string // "Profile", "Extension", "ValueSet", "CodeSystem", "Instance", "Logical"
	Name        string
	Parent      string
	Id          string
	Title       string
	Description string
	Rules       []Rule
}

// Render projects e back to FSH source text, one rule per line prefixed
// with "* ", following the same surface syntax the parser accepts.
func (e *Exportable) Render() string {
	var out string
	out += e.Kind + ": " + e.Name + "\n"
	if e.Parent != "" {
		out += "Parent: " + e.Parent + "\n"
	}
	if e.Id != "" {
		out += "Id: " + e.Id + "\n"
	}
	if e.Title != "" {
		out += "Title: \"" + e.Title + "\"\n"
	}
	if e.Description != "" {
		out += "Description: \"" + e.Description + "\"\n"
	}
	for _, r := range e.Rules {
		out += "* " + r.Text + "\n"
	}
	return out
}
