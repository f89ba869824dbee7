// Package ast provides strongly-typed accessors layered on top of the
// lossless cst package (spec.md §3.3, §4.3). Every typed node is a thin,
// non-owning view: construction validates the underlying CST node's kind
// and getters return options/short-lived slices, never copies of node data.
// Mutation happens only through the fix package, by editing source text and
// re-parsing (spec.md §4.3).
package ast

import (
	"strings"

	"github.com/termfx/fshlint/cst"
)

// Entity is the common shape shared by every top-level definition kind
// (Profile, Extension, ValueSet, CodeSystem, Instance, Invariant, Mapping,
// Logical, Resource, RuleSet, Alias): spec.md §3.4's "Resource definition"
// row.
type Entity struct {
	node *cst.Node
}

// FromNode constructs an Entity view if node's kind is a recognized
// top-level definition kind; otherwise returns (Entity{}, false), matching
// the "validates on construction" contract of spec.md §4.3.
func FromNode(node *cst.Node) (Entity, bool) {
	switch node.Kind() {
	case cst.NodeProfile, cst.NodeExtension, cst.NodeValueSet, cst.NodeCodeSystem,
		cst.NodeInstance, cst.NodeInvariant, cst.NodeMapping, cst.NodeLogical,
		cst.NodeResource, cst.NodeRuleSet, cst.NodeAlias:
		return Entity{node: node}, true
	}
	return Entity{}, false
}

func (e Entity) Node() *cst.Node { return e.node }
func (e Entity) Kind() cst.Kind  { return e.node.Kind() }

// Name returns the entity's declared identifier: the first Ident token
// that is not itself inside a Clauses or Rule subtree (i.e. the name
// immediately following "Kw :").
func (e Entity) Name() (string, bool) {
	seenColon := false
	for _, el := range e.node.ChildrenWithTokens() {
		if el.Token == nil {
			// Once we hit the Clauses/params/rules subtree without having
			// found the name, there is none.
			return "", false
		}
		if el.Token.Kind() == cst.KindColon {
			seenColon = true
			continue
		}
		if seenColon && el.Token.Kind() == cst.KindIdent {
			return el.Token.Text(), true
		}
	}
	return "", false
}

// clauseText returns the trimmed text following "Kw:" for the first direct
// child clause node of the given kind.
func (e Entity) clauseText(clauseKind cst.Kind) (string, bool) {
	c := e.node.FirstChildOfKind(cst.NodeClauses)
	if c == nil {
		return "", false
	}
	clause := c.FirstChildOfKind(clauseKind)
	if clause == nil {
		return "", false
	}
	text := clause.Text()
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+1:]), true
}

func (e Entity) Parent() (string, bool)      { return e.clauseText(cst.NodeParentClause) }
func (e Entity) Id() (string, bool)          { return e.clauseText(cst.NodeIdClause) }
func (e Entity) Title() (string, bool)       { return e.clauseText(cst.NodeTitleClause) }
func (e Entity) Description() (string, bool) { return e.clauseText(cst.NodeDescriptionClause) }
func (e Entity) InstanceOf() (string, bool)  { return e.clauseText(cst.NodeInstanceOfClause) }
func (e Entity) Usage() (string, bool)       { return e.clauseText(cst.NodeUsageClause) }
func (e Entity) Expression() (string, bool)  { return e.clauseText(cst.NodeExpressionClause) }
func (e Entity) XPath() (string, bool)       { return e.clauseText(cst.NodeXPathClause) }
func (e Entity) Severity() (string, bool)    { return e.clauseText(cst.NodeSeverityClause) }
func (e Entity) Source() (string, bool)      { return e.clauseText(cst.NodeSourceClause) }
func (e Entity) Target() (string, bool)      { return e.clauseText(cst.NodeTargetClause) }

// Rules returns every direct Rule child node, in source order.
func (e Entity) Rules() []Rule {
	var out []Rule
	for _, n := range e.node.ChildrenOfKind(cst.NodeRule) {
		out = append(out, Rule{node: n})
	}
	return out
}

// RuleSetParams returns the ordered parameter names declared in a RuleSet's
// header, e.g. `RuleSet: AddrRules(use, system)` -> ["use", "system"].
func (e Entity) RuleSetParams() []string {
	if e.Kind() != cst.NodeRuleSet {
		return nil
	}
	args := e.node.FirstChildOfKind(cst.NodeInsertArgs)
	if args == nil {
		return nil
	}
	var out []string
	for _, t := range args.ChildrenWithTokens() {
		if t.Token != nil && t.Token.Kind() == cst.KindIdent {
			out = append(out, t.Token.Text())
		}
	}
	return out
}

// AliasTarget returns the canonical URL an `Alias: $X = <url>` definition
// points to.
func (e Entity) AliasTarget() (string, bool) {
	if e.Kind() != cst.NodeAlias {
		return "", false
	}
	text := e.node.Text()
	idx := strings.IndexByte(text, '=')
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(text[idx+1:], "\n")), true
}

// Document wraps a parsed CST root and exposes its top-level entities.
type Document struct {
	Root *cst.Node
}

func NewDocument(root *cst.Node) Document { return Document{Root: root} }

func (d Document) Entities() []Entity {
	var out []Entity
	for _, child := range d.Root.Children() {
		if e, ok := FromNode(child); ok {
			out = append(out, e)
		}
	}
	return out
}
