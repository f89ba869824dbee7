package decompile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/decompile"
)

func intPtr(i int) *int { return &i }

func TestExtractCardinalityAndFlagsProduceRules(t *testing.T) {
	elements := []decompile.RawElement{
		{Path: "Patient.name", Min: intPtr(1), Max: "1", MustSupport: true},
	}
	ex := decompile.Decompile("Profile", "MyPatient", "Patient", elements)

	require.Equal(t, "Profile", ex.Kind)
	require.Equal(t, "Patient", ex.Parent)

	var sawCard, sawFlag bool
	for _, r := range ex.Rules {
		switch r.Kind {
		case decompile.RuleCardinality:
			require.Equal(t, "name 1..1", r.Text)
			sawCard = true
		case decompile.RuleFlag:
			require.Equal(t, "name MS", r.Text)
			sawFlag = true
		}
	}
	require.True(t, sawCard)
	require.True(t, sawFlag)
}

func TestExtractBindingDefaultsStrengthOmitted(t *testing.T) {
	elements := []decompile.RawElement{
		{Path: "Patient.gender", BindingValueSet: "http://example.org/fhir/ValueSet/gender", BindingStrength: "required"},
	}
	ex := decompile.Decompile("Profile", "MyPatient", "Patient", elements)

	require.Len(t, ex.Rules, 1)
	require.Equal(t, decompile.RuleBinding, ex.Rules[0].Kind)
	require.Equal(t, "gender from http://example.org/fhir/ValueSet/gender", ex.Rules[0].Text)
}

func TestExtractBindingIncludesNonRequiredStrength(t *testing.T) {
	elements := []decompile.RawElement{
		{Path: "Patient.maritalStatus", BindingValueSet: "http://example.org/fhir/ValueSet/marital", BindingStrength: "extensible"},
	}
	ex := decompile.Decompile("Profile", "MyPatient", "Patient", elements)

	require.Equal(t, "maritalStatus from http://example.org/fhir/ValueSet/marital (extensible)", ex.Rules[0].Text)
}

func TestExtractCaretEmitsShortAndDefinition(t *testing.T) {
	elements := []decompile.RawElement{
		{Path: "Patient.name", Short: "A short label", Definition: "A longer definition"},
	}
	ex := decompile.Decompile("Profile", "MyPatient", "Patient", elements)

	require.Len(t, ex.Rules, 2)
	require.Equal(t, "name ^short = \"A short label\"", ex.Rules[0].Text)
	require.Equal(t, "name ^definition = \"A longer definition\"", ex.Rules[1].Text)
}

func TestRemoveChoiceSlicingDropsRedundantValueSlicing(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleContains, Path: "value[x]", Items: []string{"valueString", "valueInteger"}},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.RemoveChoiceSlicing{}})
	require.Empty(t, out)
}

func TestRemoveChoiceSlicingKeepsNonChoiceSlicing(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleContains, Path: "identifier", Items: []string{"mrn", "ssn"}},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.RemoveChoiceSlicing{}})
	require.Len(t, out, 1)
}

func TestRemoveChoiceSlicingKeepsMixedSlicing(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleContains, Path: "value[x]", Items: []string{"valueString", "custom"}},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.RemoveChoiceSlicing{}})
	require.Len(t, out, 1)
}

func TestRemoveChoiceSlicingRemovesSingleVariant(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleContains, Path: "component.value[x]", Items: []string{"valueQuantity"}},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.RemoveChoiceSlicing{}})
	require.Empty(t, out)
}

func TestSimplifyArrayIndexStripsZeroIndex(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleAssignment, Path: "name[0].given", Text: "name[0].given = \"John\""},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.SimplifyArrayIndex{}})
	require.Equal(t, "name.given", out[0].Path)
	require.Equal(t, "name.given = \"John\"", out[0].Text)
}

func TestRemoveExtensionURLDropsURLAssignment(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleAssignment, Path: "extension.url", Text: "extension.url = \"http://example.org\""},
		{Kind: decompile.RuleAssignment, Path: "extension.value[x]", Text: "extension.value[x] = true"},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.RemoveExtensionURL{}})
	require.Len(t, out, 1)
	require.Equal(t, "extension.value[x]", out[0].Path)
}

func TestCollapseReferenceMergesReferenceAndDisplay(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleAssignment, Path: "subject.reference", Value: `"Patient/example"`},
		{Kind: decompile.RuleAssignment, Path: "subject.display", Value: `"John Doe"`},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.CollapseReference{}})
	require.Len(t, out, 1)
	require.Equal(t, "subject = Reference(Patient/example) \"John Doe\"", out[0].Text)
}

func TestCollapseReferenceHandlesReferenceOnly(t *testing.T) {
	rules := []decompile.Rule{
		{Kind: decompile.RuleAssignment, Path: "subject.reference", Value: `"Patient/example"`},
	}
	out := decompile.RunOptimizers(rules, []decompile.Optimizer{decompile.CollapseReference{}})
	require.Len(t, out, 1)
	require.Equal(t, "subject = Reference(Patient/example)", out[0].Text)
}

func TestExportableRenderProducesFSHSource(t *testing.T) {
	ex := &decompile.Exportable{Kind: "Profile", Name: "MyPatient", Parent: "Patient", Title: "My Patient"}
	ex.Rules = []decompile.Rule{{Text: "name 1..1"}}

	out := ex.Render()
	require.Contains(t, out, "Profile: MyPatient\n")
	require.Contains(t, out, "Parent: Patient\n")
	require.Contains(t, out, "Title: \"My Patient\"\n")
	require.Contains(t, out, "* name 1..1\n")
}
