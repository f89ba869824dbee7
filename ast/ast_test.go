package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
)

func TestEntityAccessors(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\nId: my-patient\nTitle: \"My Patient\"\n* name 1..1 MS\n* gender from AdministrativeGender (required)\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)
	entities := doc.Entities()
	require.Len(t, entities, 1)

	p := entities[0]
	name, ok := p.Name()
	require.True(t, ok)
	require.Equal(t, "MyPatient", name)

	parent, ok := p.Parent()
	require.True(t, ok)
	require.Equal(t, "Patient", parent)

	rules := p.Rules()
	require.Len(t, rules, 2)

	card, ok := ast.AsCardRule(rules[0].Body())
	require.True(t, ok)
	min, max, ok := card.MinMaxInts()
	require.True(t, ok)
	require.Equal(t, 1, min)
	require.Equal(t, 1, max)
	require.Contains(t, card.Flags(), "MS")

	binding, ok := ast.AsBindingRule(rules[1].Body())
	require.True(t, ok)
	vs, ok := binding.ValueSet()
	require.True(t, ok)
	require.Equal(t, "AdministrativeGender", vs)
	strength, ok := binding.Strength()
	require.True(t, ok)
	require.Equal(t, "required", strength)
}

func TestRuleSetParams(t *testing.T) {
	src := "RuleSet: AddrRules(use, system)\n* address[{use}].use = #{use}\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)
	require.Len(t, doc.Entities(), 1)
	rs := doc.Entities()[0]
	require.Equal(t, []string{"use", "system"}, rs.RuleSetParams())
}
