// Package gritql implements the declarative pattern-matching sublanguage
// described in spec.md §4.8: node-kind matching, $var captures, a where{}
// predicate language, and a closed function registry, compiled once per
// rule and executed against the lossless CST by preorder traversal.
package gritql

import (
	"fmt"
	"strings"

	"github.com/termfx/fshlint/cst"
)

// Pattern is the parsed, not-yet-compiled form of a GritQL rule source: a
// node-kind matcher plus an optional predicate expression.
type Pattern struct {
	NodeName  string
	Predicate Expr
	Vars      map[string]bool
}

// CompiledPattern is the engine's ready-to-execute form, returned by
// Compile (spec.md §4.8.4).
type CompiledPattern struct {
	Source string
	RuleID string
	Vars   []string
	kind   cst.Kind
	pred   Expr
}

// Compile parses source into a CompiledPattern, validating brace/paren
// balance and collecting every $var reference, per spec.md §4.8.4.
func Compile(source, ruleID string) (*CompiledPattern, error) {
	if err := checkBalanced(source); err != nil {
		return nil, fmt.Errorf("gritql compile %s: %w", ruleID, err)
	}
	p, err := parsePattern(source)
	if err != nil {
		return nil, fmt.Errorf("gritql compile %s: %w", ruleID, err)
	}
	kind, ok := resolveNodeKind(p.NodeName)
	if !ok {
		return nil, fmt.Errorf("gritql compile %s: unknown node kind %q", ruleID, p.NodeName)
	}
	if p.Predicate != nil {
		if err := p.Predicate.validate(); err != nil {
			return nil, fmt.Errorf("gritql compile %s: %w", ruleID, err)
		}
	}
	vars := make([]string, 0, len(p.Vars))
	for v := range p.Vars {
		vars = append(vars, v)
	}
	return &CompiledPattern{Source: source, RuleID: ruleID, Vars: vars, kind: kind, pred: p.Predicate}, nil
}

func checkBalanced(s string) error {
	var braces, parens int
	for _, r := range s {
		switch r {
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
		if braces < 0 || parens < 0 {
			return fmt.Errorf("unbalanced brackets in pattern")
		}
	}
	if braces != 0 || parens != 0 {
		return fmt.Errorf("unbalanced brackets in pattern")
	}
	return nil
}

// resolveNodeKind maps a case/underscore-insensitive node name (e.g.
// "value_set", "Profile") to its cst.Kind, per spec.md §4.8.1.
func resolveNodeKind(name string) (cst.Kind, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(name), "_", "")
	for k, label := range nodeKindNames() {
		if strings.ToLower(label) == normalized {
			return k, true
		}
	}
	return cst.KindUnknown, false
}

func nodeKindNames() map[cst.Kind]string {
	return map[cst.Kind]string{
		cst.NodeProfile:    "Profile",
		cst.NodeExtension:  "Extension",
		cst.NodeValueSet:   "ValueSet",
		cst.NodeCodeSystem: "CodeSystem",
		cst.NodeInstance:   "Instance",
		cst.NodeInvariant:  "Invariant",
		cst.NodeMapping:    "Mapping",
		cst.NodeLogical:    "Logical",
		cst.NodeResource:   "Resource",
		cst.NodeRuleSet:    "RuleSet",
		cst.NodeAlias:      "Alias",
		cst.NodeRule:       "Rule",
		cst.NodeCardRule:   "CardRule",
		cst.NodeFlagRule:   "FlagRule",
	}
}
