package display

import (
	"fmt"
	"strings"

	"github.com/relabs-tech/gesture_grid/internal/grid"
)

// Console draws the grid as ASCII art, for -mock runs without a screen.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) ShowSplash() error {
	fmt.Println("[grid] gesture grid - waiting for run")
	return nil
}

func (c *Console) ShowGrid(shape grid.Shape, highlight *grid.Cell) error {
	fmt.Print(renderASCII(shape, highlight))
	return nil
}

func (c *Console) ShowCountdown(next grid.Shape, seconds int) error {
	fmt.Printf("[grid] next shape %s in %ds\n", next, seconds)
	return nil
}

func (c *Console) Close() error { return nil }

func renderASCII(shape grid.Shape, highlight *grid.Cell) string {
	var b strings.Builder
	sep := "+" + strings.Repeat("---+", shape.Cols) + "\n"
	for r := 0; r < shape.Rows; r++ {
		b.WriteString(sep)
		for col := 0; col < shape.Cols; col++ {
			mark := " "
			if highlight != nil && highlight.Row == r && highlight.Col == col {
				mark = "#"
			}
			fmt.Fprintf(&b, "| %s ", mark)
		}
		b.WriteString("|\n")
	}
	b.WriteString(sep)
	return b.String()
}
