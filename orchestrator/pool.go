package orchestrator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/termfx/fshlint/diagnostic"
)

// WorkerPool runs independent units of work across hardware parallelism,
// per spec.md §5: "internally parallel, externally synchronous" — callers
// see one blocking call that fans out internally and returns an ordered,
// deterministic result set.
type WorkerPool struct {
	sem *semaphore.Weighted
	cap int64
}

// NewWorkerPool sizes the pool to runtime.GOMAXPROCS(0) workers, unless
// n is given explicitly (n <= 0 means "auto").
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(n)), cap: int64(n)}
}

// FileResult pairs one input file with whatever a stage produced for it,
// plus any diagnostics and error from processing that file.
type FileResult[T any] struct {
	File  string
	Value T
	Diags []diagnostic.Diagnostic
	Err   error
}

// RunPerFile runs fn(ctx, file) for every file concurrently, bounded by
// the pool's capacity, per spec.md §5's "parsing of distinct source
// files (no shared state)" and "running AST rules per file" parallel
// units. Results are returned in the same order as files, regardless of
// completion order, so downstream diagnostic sorting stays deterministic.
func RunPerFile[T any](ctx context.Context, pool *WorkerPool, files []string, fn func(ctx context.Context, file string) (T, []diagnostic.Diagnostic, error)) []FileResult[T] {
	results := make([]FileResult[T], len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, file := range files {
		i, file := i, file
		if err := pool.sem.Acquire(gctx, 1); err != nil {
			results[i] = FileResult[T]{File: file, Err: err}
			continue
		}
		g.Go(func() error {
			defer pool.sem.Release(1)
			value, diags, err := fn(gctx, file)
			results[i] = FileResult[T]{File: file, Value: value, Diags: diags, Err: err}
			return nil // per-file errors are carried in FileResult, not propagated
		})
	}
	_ = g.Wait()

	return results
}

// AllDiagnostics flattens and deterministically sorts every FileResult's
// diagnostics, per spec.md §5's "collected into a per-file buffer and
// sorted deterministically by (file, offset, rule_id)" ordering guarantee.
func AllDiagnostics[T any](results []FileResult[T]) []diagnostic.Diagnostic {
	var all []diagnostic.Diagnostic
	for _, r := range results {
		all = append(all, r.Diags...)
	}
	return diagnostic.SortDeterministic(all)
}

// RunBatches runs fn over each entity in batches sequentially, but
// entities *within* a batch concurrently, matching spec.md §4.4.1/§5's
// "exporting distinct entities within the same topological batch" unit
// combined with the topological-batch ordering guarantee for output.
func RunBatches[In, Out any](ctx context.Context, pool *WorkerPool, batches [][]In, fn func(ctx context.Context, item In) (Out, error)) ([][]Out, []error) {
	allOut := make([][]Out, len(batches))
	var allErrs []error

	for bi, batch := range batches {
		out := make([]Out, len(batch))
		errs := make([]error, len(batch))
		g, gctx := errgroup.WithContext(ctx)

		for i, item := range batch {
			i, item := i, item
			if err := pool.sem.Acquire(gctx, 1); err != nil {
				errs[i] = err
				continue
			}
			g.Go(func() error {
				defer pool.sem.Release(1)
				v, err := fn(gctx, item)
				out[i] = v
				errs[i] = err
				return nil
			})
		}
		_ = g.Wait()

		allOut[bi] = out
		for _, e := range errs {
			if e != nil {
				allErrs = append(allErrs, e)
			}
		}
	}

	return allOut, allErrs
}
