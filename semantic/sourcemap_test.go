package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/semantic"
)

func TestSourceMapLineCol(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	m := semantic.NewSourceMap(src)

	line, col := m.LineCol(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = m.LineCol(4)
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)

	line, col = m.LineCol(9)
	require.Equal(t, 3, line)
	require.Equal(t, 2, col)
}

func TestSourceMapOffsetRoundTrip(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	m := semantic.NewSourceMap(src)
	for _, offset := range []int{0, 3, 4, 7, 8, 10} {
		line, col := m.LineCol(offset)
		require.Equal(t, offset, m.Offset(line, col))
	}
}
