package trial

import (
	"math/rand"

	"github.com/relabs-tech/gesture_grid/internal/grid"
)

// Counts is the per-cell highlight tally for the active shape. It is owned
// by the sequencer and re-dimensioned to zero whenever the shape changes.
type Counts struct {
	shape grid.Shape
	n     [][]int
}

func NewCounts(shape grid.Shape) *Counts {
	c := &Counts{}
	c.Reset(shape)
	return c
}

// Reset re-dimensions the table for shape and zeroes every cell.
func (c *Counts) Reset(shape grid.Shape) {
	c.shape = shape
	c.n = make([][]int, shape.Rows)
	for r := range c.n {
		c.n[r] = make([]int, shape.Cols)
	}
}

func (c *Counts) Shape() grid.Shape {
	return c.shape
}

func (c *Counts) Get(cell grid.Cell) int {
	return c.n[cell.Row][cell.Col]
}

// Spread returns max count minus min count across all cells. The selector
// keeps this at most 1 over any run of selections.
func (c *Counts) Spread() int {
	min, max := c.n[0][0], c.n[0][0]
	for _, row := range c.n {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return max - min
}

// Selector picks the next target cell: least-highlighted first, ties broken
// uniformly at random. Reproducibility is not a goal, so a plain math/rand
// source is enough.
type Selector struct {
	rng *rand.Rand
}

func NewSelector() *Selector {
	return &Selector{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// Next chooses a cell among those with the minimum highlight count and
// increments its tally before returning it. A single-cell shape always
// yields that cell.
func (s *Selector) Next(counts *Counts) grid.Cell {
	min := -1
	var candidates []grid.Cell
	for r, row := range counts.n {
		for col, v := range row {
			switch {
			case min < 0 || v < min:
				min = v
				candidates = candidates[:0]
				candidates = append(candidates, grid.Cell{Row: r, Col: col})
			case v == min:
				candidates = append(candidates, grid.Cell{Row: r, Col: col})
			}
		}
	}
	cell := candidates[s.rng.Intn(len(candidates))]
	counts.n[cell.Row][cell.Col]++
	return cell
}
