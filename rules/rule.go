// Package rules implements the lint rule engine: the Rule/Registry model,
// category-ordered execution, duplicate suppression, and a set of built-in
// AST rules, per spec.md §4.7.
package rules

import (
	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/semantic"
)

// Category orders rule execution: Blocking first, per spec.md §4.7.
type Category int

const (
	Blocking Category = iota
	Correctness
	Suspicious
	Style
	Documentation
)

func (c Category) String() string {
	switch c {
	case Blocking:
		return "Blocking"
	case Correctness:
		return "Correctness"
	case Suspicious:
		return "Suspicious"
	case Style:
		return "Style"
	case Documentation:
		return "Documentation"
	default:
		return "Unknown"
	}
}

// categoryOrder fixes the execution order referenced by Registry.Run.
var categoryOrder = []Category{Blocking, Correctness, Suspicious, Style, Documentation}

// Model is the read-only view an AST rule inspects: the parsed document
// plus the cross-file semantic layer built for the whole run.
type Model struct {
	File     string
	Doc      ast.Document
	Root     *cst.Node
	Src      []byte
	Symbols  *semantic.SymbolTable
	Graph    *semantic.DependencyGraph
	RuleSets *semantic.RuleSetRegistry
}

// Rule is one lint check: a function over a Model producing diagnostics,
// per spec.md §4.7 item 1 (the GritQL-rule alternative lives in the gritql
// package and is adapted into this shape by NewGritQLRule).
type Rule struct {
	ID              string
	Name            string
	Description     string
	Category        Category
	DefaultSeverity diagnostic.Severity
	Tags            []string
	HasAutofix      bool
	Check           func(m Model) []diagnostic.Diagnostic
}

// SeverityOverrides maps a rule id to a configured severity override, or to
// nil to mean "off" (spec.md §4.7, §6.2).
type SeverityOverrides map[string]*diagnostic.Severity

// Registry holds every registered Rule, keyed by id, and runs them in
// category order with duplicate suppression.
type Registry struct {
	rules map[string]Rule
	order []string // registration order, preserved within a category
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds r to the registry. Re-registering an id overwrites the
// previous entry (used by tests to stub a rule).
func (r *Registry) Register(rule Rule) {
	if _, exists := r.rules[rule.ID]; !exists {
		r.order = append(r.order, rule.ID)
	}
	r.rules[rule.ID] = rule
}

// Lookup returns the Rule registered under id.
func (r *Registry) Lookup(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// All returns every registered rule grouped and ordered per categoryOrder,
// then by registration order within a category.
func (r *Registry) All() []Rule {
	var out []Rule
	for _, cat := range categoryOrder {
		for _, id := range r.order {
			if rule := r.rules[id]; rule.Category == cat {
				out = append(out, rule)
			}
		}
	}
	return out
}

// Run executes every enabled rule against m in category order, aggregating
// and sorting diagnostics by (file, offset, rule_id) with exact-duplicate
// suppression, per spec.md §4.7's "non-stopping" execution contract:
// a Blocking-category error does not prevent later categories from running.
func (r *Registry) Run(m Model, overrides SeverityOverrides) []diagnostic.Diagnostic {
	var all []diagnostic.Diagnostic
	for _, rule := range r.All() {
		if overrides != nil {
			if sevPtr, configured := overrides[rule.ID]; configured && sevPtr == nil {
				continue // severity overridden to "off"
			}
		}
		diags := rule.Check(m)
		for i := range diags {
			if overrides != nil {
				if sevPtr, configured := overrides[rule.ID]; configured && sevPtr != nil {
					diags[i].Severity = *sevPtr
				}
			}
			diags[i].RuleID = rule.ID
		}
		all = append(all, diags...)
	}
	return diagnostic.SortDeterministic(all)
}
