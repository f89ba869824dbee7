package cst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/cst"
)

// TestLosslessRoundTrip exercises spec.md §8's core invariant: reconstructing
// text from parse(s).0 equals s byte-for-byte, for a representative set of
// inputs including malformed ones that trigger error recovery.
func TestLosslessRoundTrip(t *testing.T) {
	cases := []string{
		"Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n",
		"Profile: P\nParent: Patient\n* name 1..0\n",
		"Alias: $SCT = http://snomed.info/sct\n",
		"RuleSet: AddrRules(use)\n* address[{use}].use = #{use}\n* address[{use}].city MS\n",
		"Profile: Broken\n  this is not a rule\n* name MS\n",
		"Profile: A\nParent: B\nProfile: C\n", // missing newline-terminated rules, back-to-back top levels
		"", // empty source must still round-trip
		"   \n\n// just a comment\n",
	}

	for _, src := range cases {
		res := cst.Parse("test.fsh", []byte(src))
		require.Equal(t, src, res.Root.Text(), "round-trip mismatch for %q", src)
	}
}

// TestSpanTotality checks that every node's children-with-tokens cover its
// exact range with no gaps or overlaps (spec.md §3.4/§8).
func TestSpanTotality(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n* gender from AdministrativeGender (required)\n"
	res := cst.Parse("test.fsh", []byte(src))

	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		start, end := n.Range()
		var cursor = start
		for _, e := range n.ChildrenWithTokens() {
			cs, ce := e.Range()
			require.Equal(t, cursor, cs, "gap/overlap before child of kind %v", e.Kind())
			cursor = ce
			if e.Node != nil {
				walk(e.Node)
			}
		}
		require.Equal(t, end, cursor, "children do not cover node's full range")
	}
	walk(res.Root)
}

func TestParseRecoversFromUnknownBytes(t *testing.T) {
	src := "Profile: P\x00\nParent: Patient\n"
	res := cst.Parse("test.fsh", []byte(src))
	require.Equal(t, src, res.Root.Text())
}
