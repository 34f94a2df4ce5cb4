package morphology

import (
	"fmt"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// HitAndMiss marks pixel (i, j) iff, at every cell where significance is
// foreground, the mask agrees with the image pixel under it: foreground
// mask cells need foreground pixels and background mask cells need
// background pixels. Cells with zero significance are "don't care".
//
// There is no border handling. Pixels whose window is not fully inside the
// image are left background.
//
// The significance grid must have the same extents as the mask. A mask
// larger than the image logs a warning and returns the input unchanged.
func HitAndMiss[T, U grid.Pixel](image *grid.Grid[T], mask, significance *grid.Grid[U]) (*grid.Grid[T], error) {
	if err := checkArgs(image, mask); err != nil {
		return nil, err
	}
	if significance == nil || significance.Rows() != mask.Rows() || significance.Cols() != mask.Cols() {
		return nil, fmt.Errorf("%w: significance must match mask extents %dx%d",
			ErrInvalidArgument, mask.Rows(), mask.Cols())
	}

	rows, cols := image.Rows(), image.Cols()
	if image.Empty() {
		return grid.New[T](rows, cols), nil
	}

	maskRows, maskCols := mask.Rows(), mask.Cols()
	if maskRows > rows || maskCols > cols {
		warnMaskTooLarge("hit-and-miss", rows, cols, maskRows, maskCols)
		return image.Clone(), nil
	}

	tmpl := template(mask, significance)
	rOrig, cOrig := origin(mask)
	result := grid.New[T](rows, cols)
	for r := 0; r <= rows-maskRows; r++ {
		for c := 0; c <= cols-maskCols; c++ {
			if matches(image, tmpl, r, c) {
				result.Set(r+rOrig, c+cOrig, 1)
			}
		}
	}
	return result, nil
}

// cell is a significant template position and the value it must match.
type cell struct {
	offset
	fg bool
}

// template lists the significant cells of a mask.
func template[U grid.Pixel](mask, significance *grid.Grid[U]) []cell {
	out := make([]cell, 0, mask.Rows()*mask.Cols())
	for r := 0; r < mask.Rows(); r++ {
		for c := 0; c < mask.Cols(); c++ {
			if grid.IsForeground(significance.At(r, c)) {
				out = append(out, cell{offset{r, c}, mask.Foreground(r, c)})
			}
		}
	}
	return out
}

func matches[T grid.Pixel](img *grid.Grid[T], tmpl []cell, r, c int) bool {
	for _, t := range tmpl {
		if img.Foreground(r+t.r, c+t.c) != t.fg {
			return false
		}
	}
	return true
}
