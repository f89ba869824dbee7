package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/semantic"
)

func TestSymbolTableLookupAndDuplicates(t *testing.T) {
	docs := map[string]ast.Document{
		"a.fsh": parseDoc(t, "Profile: MyPatient\nParent: Patient\n"),
		"b.fsh": parseDoc(t, "Profile: MyPatient\nParent: Patient\n"),
	}
	st := semantic.NewSymbolTable(docs)
	sym, ok := st.Lookup("MyPatient")
	require.True(t, ok)
	require.Equal(t, semantic.EntityProfile, sym.Kind)
	require.Len(t, st.Duplicates, 1)
}

func TestSymbolTableAliasResolution(t *testing.T) {
	docs := map[string]ast.Document{
		"a.fsh": parseDoc(t, "Alias: $sct = http://snomed.info/sct\n"),
	}
	st := semantic.NewSymbolTable(docs)
	url, ok := st.ResolveAlias("$sct")
	require.True(t, ok)
	require.Equal(t, "http://snomed.info/sct", url)
}

func parseDoc(t *testing.T, src string) ast.Document {
	t.Helper()
	res := cst.Parse("t.fsh", []byte(src))
	return ast.NewDocument(res.Root)
}
