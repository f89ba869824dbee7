package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/semantic"
)

func TestCollectReferencesFindsParentAndBinding(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\n* gender from AdministrativeGender (required)\n* name only HumanName\n"
	doc := parseDoc(t, src)

	refs := semantic.CollectReferences(doc)
	var kinds []semantic.ReferenceKind
	for _, r := range refs {
		kinds = append(kinds, r.Kind)
	}
	require.Contains(t, kinds, semantic.RefParent)
	require.Contains(t, kinds, semantic.RefBindingValueSet)
	require.Contains(t, kinds, semantic.RefOnlyType)
}

func TestCollectReferencesInsertRuleSet(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\n* insert CommonRules\n"
	doc := parseDoc(t, src)
	refs := semantic.CollectReferences(doc)
	found := false
	for _, r := range refs {
		if r.Kind == semantic.RefInsertRuleSet && r.Target == "CommonRules" {
			found = true
		}
	}
	require.True(t, found)
}
