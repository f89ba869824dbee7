package fix

import (
	"bytes"
	"fmt"
)

// ConvergeResult summarizes a fix-until-convergence run.
type ConvergeResult struct {
	Final      []byte
	Passes     int
	TotalFixed int
	Skipped    []Skip
	Diff       string
}

// Converge repeatedly applies Apply and re-lints until a pass makes no
// further changes (fixed point) or maxPasses is reached, per spec.md
// §4.9's "apply, re-parse, loop to convergence" contract. If a pass
// would leave the source unparseable, that pass's changes are reverted
// and convergence stops early with the last good buffer.
//
// relint re-parses the given buffer and returns a ready-to-call apply
// closure bound to the fresh diagnostics (so callers needn't re-wire the
// rule registry themselves each pass).
func Converge(file string, src []byte, maxPasses int, filter SuggestionFilter,
	relint func(file string, src []byte) (parseOK bool, apply func(SuggestionFilter) (*Result, error), err error)) (*ConvergeResult, error) {

	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	current := src
	total := 0
	var skipped []Skip
	pass := 0
	passes := 0

	for ; pass < maxPasses; pass++ {
		passes = pass + 1
		ok, apply, err := relint(file, current)
		if err != nil {
			return nil, fmt.Errorf("fix converge: relint pass %d: %w", pass, err)
		}
		if !ok {
			return nil, fmt.Errorf("fix converge: pass %d produced unparseable source, reverting", pass)
		}

		result, err := apply(filter)
		if err != nil {
			return nil, fmt.Errorf("fix converge: apply pass %d: %w", pass, err)
		}

		if result.Applied == 0 {
			break // fixed point reached
		}

		okAfter, _, err := relint(file, result.After)
		if err != nil {
			return nil, fmt.Errorf("fix converge: validate pass %d: %w", pass, err)
		}
		if !okAfter {
			// Revert this pass's changes; the source before this pass was
			// still the last known-good buffer.
			break
		}

		total += result.Applied
		skipped = append(skipped, result.Skipped...)
		if bytes.Equal(current, result.After) {
			break
		}
		current = result.After
	}

	diff, err := unifiedDiff(file, src, current)
	if err != nil {
		return nil, err
	}

	return &ConvergeResult{
		Final:      current,
		Passes:     passes,
		TotalFixed: total,
		Skipped:    skipped,
		Diff:       diff,
	}, nil
}
