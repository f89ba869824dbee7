package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/semantic"
)

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	refs := []semantic.Reference{
		{From: "MyPatient", Target: "Patient", Kind: semantic.RefParent},
		{From: "MyObservation", Target: "MyPatient", Kind: semantic.RefOnlyType},
	}
	g := semantic.NewDependencyGraph(refs)
	order, cycles := g.TopologicalSort()
	require.Empty(t, cycles)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	require.Less(t, pos["Patient"], pos["MyPatient"])
	require.Less(t, pos["MyPatient"], pos["MyObservation"])
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	refs := []semantic.Reference{
		{From: "A", Target: "B", Kind: semantic.RefParent},
		{From: "B", Target: "A", Kind: semantic.RefParent},
	}
	g := semantic.NewDependencyGraph(refs)
	_, cycles := g.TopologicalSort()
	require.Len(t, cycles, 1)
	require.ElementsMatch(t, []string{"A", "B"}, cycles[0].Members)
}

func TestProcessingBatchesGroupsIndependentEntities(t *testing.T) {
	refs := []semantic.Reference{
		{From: "Child1", Target: "Base", Kind: semantic.RefParent},
		{From: "Child2", Target: "Base", Kind: semantic.RefParent},
	}
	g := semantic.NewDependencyGraph(refs)
	batches, cycles := g.ProcessingBatches()
	require.Empty(t, cycles)
	require.Equal(t, []string{"Base"}, batches[0])
	require.ElementsMatch(t, []string{"Child1", "Child2"}, batches[1])
}

func TestHasPathAndDependents(t *testing.T) {
	refs := []semantic.Reference{
		{From: "A", Target: "B", Kind: semantic.RefParent},
		{From: "B", Target: "C", Kind: semantic.RefParent},
	}
	g := semantic.NewDependencyGraph(refs)
	require.True(t, g.HasPath("A", "C"))
	require.False(t, g.HasPath("C", "A"))
	require.Equal(t, []string{"A"}, g.Dependents("B"))
}

func TestToDotIncludesAllNodesAndEdges(t *testing.T) {
	refs := []semantic.Reference{{From: "A", Target: "B", Kind: semantic.RefParent}}
	g := semantic.NewDependencyGraph(refs)
	dot := g.ToDot()
	require.Contains(t, dot, `"A"`)
	require.Contains(t, dot, `"A" -> "B"`)
}
