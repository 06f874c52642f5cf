package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceShapes(t *testing.T) {
	seq := Sequence()
	require.Len(t, seq, 3)
	assert.Equal(t, Shape{Rows: 1, Cols: 2}, seq[0])
	assert.Equal(t, Shape{Rows: 2, Cols: 2}, seq[1])
	assert.Equal(t, Shape{Rows: 3, Cols: 3}, seq[2])
	for _, s := range seq {
		assert.GreaterOrEqual(t, s.CellCount(), 1)
	}
}

func TestHomeCell(t *testing.T) {
	t.Run("two cell and 2x2 home on top-left", func(t *testing.T) {
		assert.Equal(t, Cell{0, 0}, HomeCell(Shape{Rows: 1, Cols: 2}))
		assert.Equal(t, Cell{0, 0}, HomeCell(Shape{Rows: 2, Cols: 2}))
	})

	t.Run("odd squares home on the center", func(t *testing.T) {
		assert.Equal(t, Cell{1, 1}, HomeCell(Shape{Rows: 3, Cols: 3}))
		assert.Equal(t, Cell{2, 2}, HomeCell(Shape{Rows: 5, Cols: 5}))
	})
}

func TestCodeTotalAndUnique(t *testing.T) {
	for _, s := range Sequence() {
		seen := map[string]bool{}
		for _, c := range s.Cells() {
			code := Code(s, c)
			assert.NotEqual(t, CodeNone, code, "shape %s cell %+v", s, c)
			assert.False(t, seen[code], "duplicate code %q in shape %s", code, s)
			seen[code] = true
		}
		assert.Len(t, seen, s.CellCount())
	}
}

func TestCodeFixedLabels(t *testing.T) {
	twoCell := Shape{Rows: 1, Cols: 2}
	assert.Equal(t, "L", Code(twoCell, Cell{0, 0}))
	assert.Equal(t, "R", Code(twoCell, Cell{0, 1}))

	square := Shape{Rows: 2, Cols: 2}
	assert.Equal(t, "TL", Code(square, Cell{0, 0}))
	assert.Equal(t, "TR", Code(square, Cell{0, 1}))
	assert.Equal(t, "BL", Code(square, Cell{1, 0}))
	assert.Equal(t, "BR", Code(square, Cell{1, 1}))

	nine := Shape{Rows: 3, Cols: 3}
	assert.Equal(t, "C", Code(nine, Cell{1, 1}))
	assert.Equal(t, "BC", Code(nine, Cell{2, 1}))
}

func TestCodeOutOfBounds(t *testing.T) {
	assert.Equal(t, CodeNone, Code(Shape{Rows: 2, Cols: 2}, Cell{2, 0}))
	assert.Equal(t, CodeNone, Code(Shape{Rows: 2, Cols: 2}, Cell{0, -1}))
}

func TestCodeGenericFallback(t *testing.T) {
	assert.Equal(t, "R1C3", Code(Shape{Rows: 2, Cols: 4}, Cell{1, 3}))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "3x3", Shape{Rows: 3, Cols: 3}.String())
}
