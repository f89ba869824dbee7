package export

import (
	"context"
	"fmt"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/semantic"
	"github.com/termfx/fshlint/session"
)

// ExportProfile builds a StructureDefinition for a Profile entity per
// spec.md §4.6.3: `kind=resource`, `type=<parent type>`,
// `baseDefinition=<parent URL>`, `derivation=constraint`, with a
// differential populated by dispatching on each rule's kind.
func ExportProfile(ctx context.Context, file string, e ast.Entity, sess session.DefinitionSession, resolver *semantic.PathResolver) (*Resource, []diagnostic.Diagnostic, error) {
	name, _ := e.Name()
	parentName, hasParent := e.Parent()
	if !hasParent {
		return nil, nil, fmt.Errorf("profile %s has no Parent clause", name)
	}

	parentSD, err := sess.FishByID(ctx, parentName)
	if err != nil {
		return nil, nil, fmt.Errorf("export profile %s: resolve parent %s: %w", name, parentName, err)
	}

	sd := NewResource().
		Set("resourceType", "StructureDefinition").
		Set("id", idOrName(e, name)).
		Set("url", canonicalURL(e, name)).
		Set("name", name).
		Set("status", "active").
		Set("kind", "resource").
		Set("abstract", false).
		Set("type", parentSD.Type).
		Set("baseDefinition", parentSD.URL).
		Set("derivation", "constraint")

	if title, ok := e.Title(); ok {
		sd.Set("title", trimQuotes(title))
	}
	if desc, ok := e.Description(); ok {
		sd.Set("description", trimQuotes(desc))
	}

	diff := NewDifferential()
	var diags []diagnostic.Diagnostic

	for _, rule := range e.Rules() {
		path, _ := rule.Path()
		if err := applyRuleToDifferential(ctx, file, parentSD.Type, path, rule, diff, resolver); err != nil {
			diags = append(diags, diagnostic.New("export/rule-error", diagnostic.SeverityError, err.Error(),
				diagnostic.Location{File: file}))
		}
		if caret, ok := ast.AsCaretValueRule(rule.Body()); ok && path == "" {
			applyRootCaret(sd, caret)
		}
	}
	diags = append(diags, diff.Diagnostics()...)

	elements := diff.Elements()
	if len(elements) > 0 {
		anySlice := []any{}
		for _, el := range elements {
			anySlice = append(anySlice, el)
		}
		sd.Set("differential", NewResource().Set("element", anySlice))
	}

	return sd, diags, nil
}

// applyRuleToDifferential dispatches one Rule onto diff by its body kind,
// resolving path against baseType via resolver, matching the per-kind
// dispatch table in spec.md §4.6.3.
func applyRuleToDifferential(ctx context.Context, file, baseType, path string, rule ast.Rule, diff *Differential, resolver *semantic.PathResolver) error {
	fullPath := baseType
	if path != "" {
		fullPath = baseType + "." + path
	}

	switch rule.Kind() {
	case cst.NodeCardRule:
		if cr, ok := ast.AsCardRule(rule.Body()); ok {
			min, max, ok := cr.MinMaxInts()
			if ok {
				start, _ := rule.Node().Range()
				diff.SetCardinality(file, fullPath, min, max, start)
			}
			if flags := cr.Flags(); len(flags) > 0 {
				diff.SetFlags(fullPath, flags)
			}
		}
	case cst.NodeFlagRule:
		if fr, ok := ast.AsFlagRule(rule.Body()); ok {
			diff.SetFlags(fullPath, fr.Flags())
		}
	case cst.NodeBindingRule:
		if br, ok := ast.AsBindingRule(rule.Body()); ok {
			vs, _ := br.ValueSet()
			strength, _ := br.Strength()
			start, _ := rule.Node().Range()
			diff.SetBinding(file, fullPath, vs, strength, start)
		}
	case cst.NodeOnlyRule:
		if or, ok := ast.AsOnlyRule(rule.Body()); ok {
			diff.SetOnly(fullPath, or.Types())
		}
	case cst.NodeFixedValueRule:
		if fv, ok := ast.AsFixedValueRule(rule.Body()); ok {
			suffix := fixedTypeSuffix(resolver, ctx, baseType, path)
			diff.SetFixedValue(fullPath, suffix, fv.Value(), fv.Exactly())
		}
	case cst.NodeContainsRule:
		if cr, ok := ast.AsContainsRule(rule.Body()); ok {
			for _, item := range cr.Items() {
				sliceName := firstWord(item)
				diff.MarkSlice(fullPath+":"+sliceName, sliceName)
			}
		}
	case cst.NodeObeysRule:
		if ob, ok := ast.AsObeysRule(rule.Body()); ok {
			for _, inv := range ob.Invariants() {
				diff.AddConstraint(fullPath, inv, "error", inv, "")
			}
		}
	case cst.NodeCaretValueRule:
		if cv, ok := ast.AsCaretValueRule(rule.Body()); ok && path != "" {
			diff.SetCaretOnElement(fullPath, cv.CaretPath(), trimQuotes(cv.Value()))
		}
	}
	return nil
}

// fixedTypeSuffix best-effort resolves the FHIR type-code suffix (e.g.
// "Boolean", "CodeableConcept") used to build fixed[x]/pattern[x] keys,
// falling back to the generic suffix when resolution fails.
func fixedTypeSuffix(resolver *semantic.PathResolver, ctx context.Context, baseType, path string) string {
	if resolver == nil {
		return ""
	}
	el, err := resolver.ResolvePath(ctx, baseType, path)
	if err != nil || el == nil || len(el.Types) == 0 {
		return ""
	}
	return capitalizeFirst(el.Types[0])
}

func capitalizeFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-32) + s[1:]
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' {
			return s[:i]
		}
	}
	return s
}
