package semantic

import (
	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
)

// ReferenceKind hints at what a Reference's Target name is expected to
// resolve to, so the dependency graph and path resolver can pick the right
// lookup strategy without re-deriving it from the owning rule each time.
type ReferenceKind int

const (
	RefParent ReferenceKind = iota
	RefInstanceOf
	RefOnlyType
	RefBindingValueSet
	RefContainsType
	RefObeysInvariant
	RefInsertRuleSet
	RefCaretURL
	RefContext
)

func (k ReferenceKind) String() string {
	switch k {
	case RefParent:
		return "Parent"
	case RefInstanceOf:
		return "InstanceOf"
	case RefOnlyType:
		return "OnlyType"
	case RefBindingValueSet:
		return "BindingValueSet"
	case RefContainsType:
		return "ContainsType"
	case RefObeysInvariant:
		return "ObeysInvariant"
	case RefInsertRuleSet:
		return "InsertRuleSet"
	case RefCaretURL:
		return "CaretURL"
	case RefContext:
		return "Context"
	default:
		return "Unknown"
	}
}

// Reference is one named dependency discovered while walking an entity:
// e.g. a Profile's Parent clause, an Instance's InstanceOf clause, an
// `only`/`from`/`obeys`/`insert` rule target, or a `^context` clause,
// per spec.md §4.4's reference-list requirement.
type Reference struct {
	From   string
	Target string
	Kind   ReferenceKind
	Node   *cst.Node
}

// CollectReferences walks every entity in doc and returns every reference
// it declares, in source order.
func CollectReferences(doc ast.Document) []Reference {
	var out []Reference
	for _, e := range doc.Entities() {
		name, ok := e.Name()
		if !ok {
			continue
		}
		out = append(out, collectEntityReferences(name, e)...)
	}
	return out
}

func collectEntityReferences(name string, e ast.Entity) []Reference {
	var out []Reference
	if parent, ok := e.Parent(); ok {
		out = append(out, Reference{From: name, Target: parent, Kind: RefParent, Node: e.Node()})
	}
	if instOf, ok := e.InstanceOf(); ok {
		out = append(out, Reference{From: name, Target: instOf, Kind: RefInstanceOf, Node: e.Node()})
	}
	for _, r := range e.Rules() {
		out = append(out, collectRuleReferences(name, r)...)
	}
	return out
}

func collectRuleReferences(entityName string, r ast.Rule) []Reference {
	var out []Reference
	switch r.Kind() {
	case cst.NodeBindingRule:
		b, _ := ast.AsBindingRule(r.Body())
		if vs, ok := b.ValueSet(); ok {
			out = append(out, Reference{From: entityName, Target: vs, Kind: RefBindingValueSet, Node: r.Node()})
		}
	case cst.NodeOnlyRule:
		o, _ := ast.AsOnlyRule(r.Body())
		for _, t := range o.Types() {
			out = append(out, Reference{From: entityName, Target: t, Kind: RefOnlyType, Node: r.Node()})
		}
	case cst.NodeContainsRule:
		c, _ := ast.AsContainsRule(r.Body())
		for _, item := range c.Items() {
			out = append(out, Reference{From: entityName, Target: item, Kind: RefContainsType, Node: r.Node()})
		}
	case cst.NodeObeysRule:
		ob, _ := ast.AsObeysRule(r.Body())
		for _, inv := range ob.Invariants() {
			out = append(out, Reference{From: entityName, Target: inv, Kind: RefObeysInvariant, Node: r.Node()})
		}
	case cst.NodeInsertRule:
		ins, _ := ast.AsInsertRule(r.Body())
		if rs, ok := ins.RuleSetName(); ok {
			out = append(out, Reference{From: entityName, Target: rs, Kind: RefInsertRuleSet, Node: r.Node()})
		}
	case cst.NodeCaretValueRule:
		cv, _ := ast.AsCaretValueRule(r.Body())
		if cv.CaretPath() == "context" {
			out = append(out, Reference{From: entityName, Target: cv.Value(), Kind: RefContext, Node: r.Node()})
		} else if isURLCaretPath(cv.CaretPath()) {
			out = append(out, Reference{From: entityName, Target: cv.Value(), Kind: RefCaretURL, Node: r.Node()})
		}
	}
	return out
}

func isURLCaretPath(path string) bool {
	switch path {
	case "url", "baseDefinition", "valueSet":
		return true
	default:
		return false
	}
}
