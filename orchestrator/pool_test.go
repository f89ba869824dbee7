package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/orchestrator"
)

func TestRunPerFilePreservesOrder(t *testing.T) {
	pool := orchestrator.NewWorkerPool(4)
	files := []string{"a.fsh", "b.fsh", "c.fsh"}

	results := orchestrator.RunPerFile(context.Background(), pool, files,
		func(ctx context.Context, file string) (int, []diagnostic.Diagnostic, error) {
			return len(file), nil, nil
		})

	require.Len(t, results, 3)
	for i, r := range results {
		require.Equal(t, files[i], r.File)
		require.Equal(t, len(files[i]), r.Value)
	}
}

func TestAllDiagnosticsSortsDeterministically(t *testing.T) {
	results := []orchestrator.FileResult[int]{
		{File: "b.fsh", Diags: []diagnostic.Diagnostic{
			diagnostic.New("r1", diagnostic.SeverityError, "x", diagnostic.Location{File: "b.fsh", Offset: 5}),
		}},
		{File: "a.fsh", Diags: []diagnostic.Diagnostic{
			diagnostic.New("r2", diagnostic.SeverityError, "y", diagnostic.Location{File: "a.fsh", Offset: 1}),
		}},
	}

	all := orchestrator.AllDiagnostics(results)
	require.Len(t, all, 2)
	require.Equal(t, "a.fsh", all[0].Location.File)
	require.Equal(t, "b.fsh", all[1].Location.File)
}

func TestRunBatchesRunsSequentialBatchesConcurrentItems(t *testing.T) {
	pool := orchestrator.NewWorkerPool(2)
	batches := [][]int{{1, 2}, {3, 4}}

	outs, errs := orchestrator.RunBatches(context.Background(), pool, batches,
		func(ctx context.Context, item int) (int, error) {
			return item * 10, nil
		})

	require.Empty(t, errs)
	require.Equal(t, [][]int{{10, 20}, {30, 40}}, outs)
}
