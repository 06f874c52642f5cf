package display

import (
	"image"

	"github.com/relabs-tech/gesture_grid/internal/grid"
)

// Renderer is the wearable's view of the experiment. Calls arrive from the
// sequencer loop only.
type Renderer interface {
	// ShowSplash draws the startup screen.
	ShowSplash() error
	// ShowGrid draws the shape's cell matrix; highlight is filled, every
	// other cell is outlined. A nil highlight draws the bare grid.
	ShowGrid(shape grid.Shape, highlight *grid.Cell) error
	// ShowCountdown draws the pause screen before the next shape begins.
	ShowCountdown(next grid.Shape, seconds int) error
	Close() error
}

// CellRect computes the pixel rectangle of one cell on a w×h screen, with a
// one-pixel gap between neighbouring cells. Cells tile the full screen; the
// last row/column absorbs the integer-division remainder.
func CellRect(shape grid.Shape, cell grid.Cell, w, h int) image.Rectangle {
	cw := w / shape.Cols
	ch := h / shape.Rows

	x0 := cell.Col * cw
	y0 := cell.Row * ch
	x1 := x0 + cw
	y1 := y0 + ch
	if cell.Col == shape.Cols-1 {
		x1 = w
	}
	if cell.Row == shape.Rows-1 {
		y1 = h
	}

	// Gap on the inner edges only.
	if cell.Col > 0 {
		x0++
	}
	if cell.Row > 0 {
		y0++
	}
	return image.Rect(x0, y0, x1, y1)
}
