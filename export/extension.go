package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/semantic"
	"github.com/termfx/fshlint/session"
)

// ExportExtension builds a StructureDefinition for an Extension entity,
// per spec.md §4.6.3: like Profile but `type=Extension`,
// `kind=complex-type`, `baseDefinition=<FHIR Extension>`, `Extension.url`
// fixed to the extension's own canonical URL, with sub-extensions via
// Contains rules and value[x]-vs-sub-extension exclusivity enforced.
func ExportExtension(ctx context.Context, file string, e ast.Entity, sess session.DefinitionSession, resolver *semantic.PathResolver) (*Resource, []diagnostic.Diagnostic, error) {
	name, _ := e.Name()
	baseURL := "http://hl7.org/fhir/StructureDefinition/Extension"
	if parentName, ok := e.Parent(); ok {
		if parentSD, err := sess.FishByID(ctx, parentName); err == nil {
			baseURL = parentSD.URL
		}
	}

	url := canonicalURL(e, name)
	sd := NewResource().
		Set("resourceType", "StructureDefinition").
		Set("id", idOrName(e, name)).
		Set("url", url).
		Set("name", name).
		Set("status", "active").
		Set("kind", "complex-type").
		Set("abstract", false).
		Set("context", []any{NewResource().Set("type", "element").Set("expression", "Element")}).
		Set("type", "Extension").
		Set("baseDefinition", baseURL).
		Set("derivation", "constraint")

	if title, ok := e.Title(); ok {
		sd.Set("title", trimQuotes(title))
	}
	if desc, ok := e.Description(); ok {
		sd.Set("description", trimQuotes(desc))
	}

	diff := NewDifferential()
	diff.SetFixedValue("Extension.url", "Uri", `"`+url+`"`, true)

	hasValueX := false
	hasSubExtension := false
	var diags []diagnostic.Diagnostic

	for _, rule := range e.Rules() {
		path, _ := rule.Path()
		if strings.HasPrefix(path, "value[x]") {
			hasValueX = true
		}
		if rule.Kind() == cst.NodeContainsRule {
			hasSubExtension = true
		}
		if err := applyRuleToDifferential(ctx, file, "Extension", path, rule, diff, resolver); err != nil {
			diags = append(diags, diagnostic.New("export/rule-error", diagnostic.SeverityError, err.Error(),
				diagnostic.Location{File: file}))
		}
		if caret, ok := ast.AsCaretValueRule(rule.Body()); ok && path == "" {
			applyRootCaret(sd, caret)
		}
	}
	diags = append(diags, diff.Diagnostics()...)

	if hasValueX && hasSubExtension {
		diags = append(diags, diagnostic.New("export/extension-value-conflict", diagnostic.SeverityError,
			fmt.Sprintf("extension %s declares both a value[x] and sub-extensions", name),
			diagnostic.Location{File: file}))
	}

	elements := diff.Elements()
	if len(elements) > 0 {
		anySlice := make([]any, 0, len(elements))
		for _, el := range elements {
			anySlice = append(anySlice, el)
		}
		sd.Set("differential", NewResource().Set("element", anySlice))
	}

	return sd, diags, nil
}
