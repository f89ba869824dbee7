package gritql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/gritql"
)

func TestCompileAndExecuteSimpleNodeMatch(t *testing.T) {
	p, err := gritql.Compile("profile", "rule-1")
	require.NoError(t, err)

	src := []byte("Profile: MyPatient\nParent: Patient\n")
	res := cst.Parse("t.fsh", src)

	matches, err := p.Execute(res.Root, src, "t.fsh")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Contains(t, matches[0].MatchedText, "MyPatient")
}

func TestCompileWithPredicateFieldExists(t *testing.T) {
	p, err := gritql.Compile(`profile where { not description }`, "rule-2")
	require.NoError(t, err)

	src := []byte("Profile: MyPatient\nParent: Patient\n")
	res := cst.Parse("t.fsh", src)

	matches, err := p.Execute(res.Root, src, "t.fsh")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestCompileRejectsUnbalancedBraces(t *testing.T) {
	_, err := gritql.Compile(`profile where { not description`, "rule-3")
	require.Error(t, err)
}

func TestCompileRejectsUnknownFunction(t *testing.T) {
	_, err := gritql.Compile(`profile where { bogus_fn($name) }`, "rule-4")
	require.Error(t, err)
}

func TestRenderTemplateSubstitutesCaptures(t *testing.T) {
	m := gritql.Match{Captures: map[string]string{"$name": "MyPatient"}}
	out, err := gritql.RenderTemplate("Renamed: $name", m)
	require.NoError(t, err)
	require.Equal(t, "Renamed: MyPatient", out)
}

func TestRenderTemplateUndefinedVariable(t *testing.T) {
	m := gritql.Match{Captures: map[string]string{}}
	_, err := gritql.RenderTemplate("Renamed: $missing", m)
	require.Error(t, err)
}

func TestEffectSafetyClassification(t *testing.T) {
	require.Equal(t, gritql.Always, gritql.Effect{Kind: gritql.EffectReplace}.Safety())
	require.Equal(t, gritql.MaybeIncorrect, gritql.Effect{Kind: gritql.EffectInsert}.Safety())
	require.Equal(t, gritql.Always, gritql.Effect{Kind: gritql.EffectRewriteField, FieldName: "title"}.Safety())
	require.Equal(t, gritql.MaybeIncorrect, gritql.Effect{Kind: gritql.EffectRewriteField, FieldName: "parent"}.Safety())
}
