package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/rules"
)

func parseModel(t *testing.T, file, src string) rules.Model {
	t.Helper()
	res := cst.Parse(file, []byte(src))
	return rules.Model{File: file, Doc: ast.NewDocument(res.Root), Root: res.Root, Src: []byte(src)}
}

func TestInvalidCardinalityRuleFlagsMinGreaterThanMax(t *testing.T) {
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n* name 2..1 MS\n")
	diags := rules.InvalidCardinalityRule.Check(m)
	require.Len(t, diags, 1)
}

func TestInvalidCardinalityRulePassesValidRange(t *testing.T) {
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n")
	diags := rules.InvalidCardinalityRule.Check(m)
	require.Empty(t, diags)
}

func TestInvalidBindingStrengthSuggestsClosestMatch(t *testing.T) {
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n* gender from AdministrativeGender (requird)\n")
	diags := rules.InvalidBindingStrengthRule.Check(m)
	require.Len(t, diags, 1)
	require.Len(t, diags[0].Suggestions, 1)
	require.Equal(t, "required", diags[0].Suggestions[0].Replacement)
}

func TestMissingDescriptionRuleFlagsUndocumentedProfile(t *testing.T) {
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n")
	diags := rules.MissingDescriptionRule.Check(m)
	require.Len(t, diags, 1)
}

func TestMissingDescriptionRulePassesWithDescription(t *testing.T) {
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\nDescription: \"A patient\"\n")
	diags := rules.MissingDescriptionRule.Check(m)
	require.Empty(t, diags)
}

func TestRegistryRunSortsAndDeduplicates(t *testing.T) {
	reg := rules.DefaultRegistry()
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n* name 2..1 MS\n")
	diags := reg.Run(m, nil)
	require.NotEmpty(t, diags)
	for i := 1; i < len(diags); i++ {
		require.False(t, diags[i].Location.Offset < diags[i-1].Location.Offset)
	}
}

func TestRegistryRunHonorsOffOverride(t *testing.T) {
	reg := rules.DefaultRegistry()
	m := parseModel(t, "t.fsh", "Profile: MyPatient\nParent: Patient\n")
	overrides := rules.SeverityOverrides{rules.MissingDescriptionRuleID: nil}
	diags := reg.Run(m, overrides)
	for _, d := range diags {
		require.NotEqual(t, rules.MissingDescriptionRuleID, d.RuleID)
	}
}
