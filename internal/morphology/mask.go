package morphology

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// MaskShape selects the structuring element built by CreateMask.
type MaskShape int

const (
	// MaskRectangular fills the whole mask. It is the default for any
	// unrecognized shape value.
	MaskRectangular MaskShape = iota
	// MaskElliptical inscribes an ellipse in the mask.
	MaskElliptical
	// MaskDiamond inscribes a rhombus in the mask.
	MaskDiamond
)

var maskShapeNames = map[MaskShape]string{
	MaskRectangular: "rectangular",
	MaskElliptical:  "elliptical",
	MaskDiamond:     "diamond",
}

func (s MaskShape) String() string {
	if name, ok := maskShapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("MaskShape(%d)", int(s))
}

// ParseMaskShape converts a shape name to a MaskShape. Names are matched
// case-insensitively; "rect", "ellipse" and "rhombus" are accepted aliases.
func ParseMaskShape(name string) (MaskShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "rectangle", "rect":
		return MaskRectangular, nil
	case "elliptical", "ellipse":
		return MaskElliptical, nil
	case "diamond", "rhombus":
		return MaskDiamond, nil
	default:
		return MaskRectangular, fmt.Errorf("%w: unknown mask shape %q", ErrInvalidArgument, name)
	}
}

// CreateMask builds a rows x cols structuring element of the given shape.
//
// A zero cols means a square mask (cols = rows). A zero rows yields an
// empty 0x0 mask, which the transforms reject. Negative extents, or
// extents whose cell count overflows int, are an error.
//
// # Shapes
//
// Rectangular: every cell is foreground.
//
// Elliptical: with a = cols/2 and b = rows/2, row r (sampled at its center
// r+0.5) has half-width x = a*sqrt(1-((r+0.5-b)/b)^2), and column c is set
// when its center c+0.5 lies strictly between a-x and a+x.
//
// Diamond: rows are filled outward from the horizontal midline, the
// half-width shrinking by (cols/2)/(rows/2) per row. For an even row count
// the two middle rows are both full width.
func CreateMask[T grid.Pixel](shape MaskShape, rows, cols int) (*grid.Grid[T], error) {
	if cols == 0 {
		cols = rows
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: mask extents must not be negative, got %dx%d", ErrInvalidArgument, rows, cols)
	}
	if err := grid.CheckExtents(rows, cols); err != nil {
		return nil, fmt.Errorf("%w: mask %v", ErrInvalidArgument, err)
	}
	if rows == 0 {
		return grid.New[T](0, 0), nil
	}

	mask := grid.New[T](rows, cols)
	switch shape {
	case MaskElliptical:
		fillEllipse(mask)
	case MaskDiamond:
		fillDiamond(mask)
	default:
		for r := 0; r < rows; r++ {
			row := mask.Row(r)
			for c := range row {
				row[c] = 1
			}
		}
	}
	return mask, nil
}

func fillEllipse[T grid.Pixel](mask *grid.Grid[T]) {
	rows, cols := mask.Rows(), mask.Cols()
	a := float64(cols) / 2
	b := float64(rows) / 2

	for r := 0.5; r < float64(rows); r++ {
		d := (r - b) / b
		x := a * math.Sqrt(1-d*d)
		left := a - x
		right := a + x
		for c := 0.5; c < float64(cols); c++ {
			if c > left && c < right {
				mask.Set(int(r), int(c), 1)
			}
		}
	}
}

func fillDiamond[T grid.Pixel](mask *grid.Grid[T]) {
	rows, cols := mask.Rows(), mask.Cols()
	step := (float64(cols) / 2) / (float64(rows) / 2)
	// Integer half width: the column offset is truncated before conversion.
	kc := float64(cols / 2)

	mid := rows / 2
	if rows%2 == 0 {
		mid--
	}

	fillRow := func(r int, inset float64) {
		from := int(inset - kc - 0.5)
		to := int(float64(cols) - inset - kc + 0.5)
		for c := from; c < to; c++ {
			col := int(float64(c) + kc)
			if col >= 0 && col < cols {
				mask.Set(r, col, 1)
			}
		}
	}

	inset := 0.0
	for r := mid; r >= 0; r-- {
		fillRow(r, inset)
		inset += step
	}

	if rows%2 == 0 {
		mid++
	}
	inset = 0
	for r := mid; r < rows; r++ {
		fillRow(r, inset)
		inset += step
	}
}
