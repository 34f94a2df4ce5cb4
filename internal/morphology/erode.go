package morphology

import (
	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// Erode sets pixel (i, j) of the result iff every foreground cell of the
// mask, placed with its origin at (i, j), lands on a foreground pixel.
//
// With handleBorders the image is first extended by replicating its edges
// (rOrig rows above, maskRows-rOrig-1 below, cOrig columns left,
// maskCols-cOrig-1 right), eroded, and cropped back, so every output pixel
// is defined. Without it only windows fully inside the image are evaluated
// and the border strips stay background.
//
// A mask larger than the image logs a warning. Without handleBorders the
// input is then returned unchanged; with it the padded image always holds
// the mask and the erosion proceeds normally.
func Erode[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U], handleBorders bool) (*grid.Grid[T], error) {
	if err := checkArgs(image, mask); err != nil {
		return nil, err
	}
	rows, cols := image.Rows(), image.Cols()
	if image.Empty() {
		return grid.New[T](rows, cols), nil
	}

	maskRows, maskCols := mask.Rows(), mask.Cols()
	rOrig, cOrig := origin(mask)

	if maskRows > rows || maskCols > cols {
		warnMaskTooLarge("erode", rows, cols, maskRows, maskCols)
		if !handleBorders {
			return image.Clone(), nil
		}
	}

	img := image
	if handleBorders {
		img = grid.Extend(image, rOrig, maskRows-rOrig-1, cOrig, maskCols-cOrig-1)
	}

	fp := footprint(mask)
	result := grid.New[T](img.Rows(), img.Cols())
	rDiff := img.Rows() - maskRows
	cDiff := img.Cols() - maskCols
	for r := 0; r <= rDiff; r++ {
		for c := 0; c <= cDiff; c++ {
			if covers(img, fp, r, c) {
				result.Set(r+rOrig, c+cOrig, 1)
			}
		}
	}

	if handleBorders {
		return result.Sub(rOrig, cOrig, rows, cols), nil
	}
	return result, nil
}

// covers reports whether every footprint cell, shifted by (r, c), is
// foreground in img. The caller guarantees the window is inside img.
func covers[T grid.Pixel](img *grid.Grid[T], fp []offset, r, c int) bool {
	for _, o := range fp {
		if !grid.IsForeground(img.At(r+o.r, c+o.c)) {
			return false
		}
	}
	return true
}
