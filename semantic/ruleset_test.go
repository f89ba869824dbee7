package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/semantic"
)

func TestRuleSetExpandSubstitutesOutsideBrackets(t *testing.T) {
	src := "RuleSet: AddrRules(use, system)\n* address[{use}].use = #{use}\n* telecom[outer[{system}]].system = #{system}\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)

	reg := semantic.NewRuleSetRegistry()
	reg.Collect("t.fsh", doc)

	lines, err := reg.Expand("AddrRules", []string{"home", "phone"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "* address[{use}].use = #home", lines[0])
	require.Equal(t, "* telecom[outer[{system}]].system = #phone", lines[1])
}

func TestRuleSetExpandArityMismatch(t *testing.T) {
	src := "RuleSet: AddrRules(use)\n* address.use = #{use}\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)

	reg := semantic.NewRuleSetRegistry()
	reg.Collect("t.fsh", doc)

	_, err := reg.Expand("AddrRules", []string{"home", "extra"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "expects 1 parameters, got 2")
}

func TestRuleSetExpandNotFound(t *testing.T) {
	reg := semantic.NewRuleSetRegistry()
	_, err := reg.Expand("Missing", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "RuleSet not found")
}
