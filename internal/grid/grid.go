package grid

import "fmt"

// Shape is one fixed grid layout of the experiment sequence.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cell addresses one square of a Shape, 0-indexed from the top-left.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CodeNone marks samples recorded while no target cell was highlighted.
const CodeNone = "N/A"

// Sequence returns the fixed cyclic order of grid layouts the experiment
// walks through. The sequencer wraps back to the first shape after the last.
func Sequence() []Shape {
	return []Shape{
		{Rows: 1, Cols: 2},
		{Rows: 2, Cols: 2},
		{Rows: 3, Cols: 3},
	}
}

func (s Shape) CellCount() int {
	return s.Rows * s.Cols
}

// Contains reports whether c is a valid cell of s.
func (s Shape) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < s.Rows && c.Col >= 0 && c.Col < s.Cols
}

// Cells lists every cell of the shape in row-major order.
func (s Shape) Cells() []Cell {
	cells := make([]Cell, 0, s.CellCount())
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// HomeCell is the fixed cell shown between trials to reorient attention.
// Odd square shapes home on the geometric center, everything else on the
// top-left cell.
func HomeCell(s Shape) Cell {
	if s.Rows == s.Cols && s.Rows%2 == 1 {
		return Cell{Row: s.Rows / 2, Col: s.Cols / 2}
	}
	return Cell{Row: 0, Col: 0}
}

var (
	codes2x2 = [2][2]string{{"TL", "TR"}, {"BL", "BR"}}
	codes3x3 = [3][3]string{{"TL", "TC", "TR"}, {"CL", "C", "CR"}, {"BL", "BC", "BR"}}
)

// Code maps a (shape, cell) pair to its short positional label. The mapping
// is total: every valid cell of every shape gets a label, and an invalid
// cell gets CodeNone.
func Code(s Shape, c Cell) string {
	if !s.Contains(c) {
		return CodeNone
	}
	switch {
	case s.Rows == 1 && s.Cols == 2:
		if c.Col == 0 {
			return "L"
		}
		return "R"
	case s.Rows == 2 && s.Cols == 2:
		return codes2x2[c.Row][c.Col]
	case s.Rows == 3 && s.Cols == 3:
		return codes3x3[c.Row][c.Col]
	default:
		return fmt.Sprintf("R%dC%d", c.Row, c.Col)
	}
}
