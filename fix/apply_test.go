package fix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/fix"
)

func suggestion(offset, length int, replacement string, app diagnostic.Applicability) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		RuleID: "test/rule",
		Suggestions: []diagnostic.CodeSuggestion{
			{
				Replacement:   replacement,
				Applicability: app,
				Location:      diagnostic.Location{Offset: offset, Length: length},
			},
		},
	}
}

func TestApplyReplacesSingleSafeSuggestion(t *testing.T) {
	src := []byte("required")
	diags := []diagnostic.Diagnostic{suggestion(0, 8, "extensible", diagnostic.Always)}

	result, err := fix.Apply("t.fsh", src, diags, fix.OnlySafe)
	require.NoError(t, err)
	require.Equal(t, "extensible", string(result.After))
	require.Equal(t, 1, result.Applied)
	require.Empty(t, result.Skipped)
}

func TestApplySkipsOverlappingSuggestions(t *testing.T) {
	src := []byte("abcdef")
	diags := []diagnostic.Diagnostic{
		suggestion(0, 3, "XXX", diagnostic.Always),
		suggestion(2, 3, "YYY", diagnostic.Always),
	}

	result, err := fix.Apply("t.fsh", src, diags, fix.OnlySafe)
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, "XXXdef", string(result.After))
}

func TestApplyExcludesUnsafeByDefault(t *testing.T) {
	src := []byte("abc")
	diags := []diagnostic.Diagnostic{suggestion(0, 3, "xyz", diagnostic.MaybeIncorrect)}

	result, err := fix.Apply("t.fsh", src, diags, fix.OnlySafe)
	require.NoError(t, err)
	require.Equal(t, 0, result.Applied)
	require.Equal(t, "abc", string(result.After))
}

func TestApplyIncludingUnsafeAppliesMaybeIncorrect(t *testing.T) {
	src := []byte("abc")
	diags := []diagnostic.Diagnostic{suggestion(0, 3, "xyz", diagnostic.MaybeIncorrect)}

	result, err := fix.Apply("t.fsh", src, diags, fix.IncludingUnsafe)
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)
	require.Equal(t, "xyz", string(result.After))
}

func TestConvergeStopsAtFixedPoint(t *testing.T) {
	src := []byte("start")
	calls := 0
	result, err := fix.Converge("t.fsh", src, 0, fix.OnlySafe,
		func(file string, cur []byte) (bool, func(fix.SuggestionFilter) (*fix.Result, error), error) {
			calls++
			return true, func(fix.SuggestionFilter) (*fix.Result, error) {
				return &fix.Result{Before: cur, After: cur, Applied: 0}, nil
			}, nil
		})
	require.NoError(t, err)
	require.Equal(t, "start", string(result.Final))
	require.Equal(t, 1, result.Passes)
	require.Equal(t, 1, calls)
}

func TestConvergeRespectsMaxPasses(t *testing.T) {
	src := []byte("a")
	passes := 0
	_, err := fix.Converge("t.fsh", src, 3, fix.OnlySafe,
		func(file string, cur []byte) (bool, func(fix.SuggestionFilter) (*fix.Result, error), error) {
			passes++
			return true, func(fix.SuggestionFilter) (*fix.Result, error) {
				return &fix.Result{Before: cur, After: append(cur, 'a'), Applied: 1}, nil
			}, nil
		})
	require.NoError(t, err)
	require.Equal(t, 3, passes)
}
