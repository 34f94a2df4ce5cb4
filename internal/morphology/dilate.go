package morphology

import (
	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// Dilate returns the union of the mask footprint placed at every foreground
// pixel of the image: result (i, j) is foreground iff some foreground mask
// cell (mr, mc) has a foreground image pixel at (i-mr+rOrig, j-mc+cOrig).
// Pixels outside the image are background, never replicated.
//
// Each foreground source pixel scatters the part of the footprint that
// overlaps the image. This covers the interior, the four edges and the four
// corners in one pass without materializing a padded copy.
//
// A mask larger than the image logs a warning and yields an all-background
// grid of image size.
func Dilate[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) (*grid.Grid[T], error) {
	if err := checkArgs(image, mask); err != nil {
		return nil, err
	}
	rows, cols := image.Rows(), image.Cols()
	result := grid.New[T](rows, cols)
	if image.Empty() {
		return result, nil
	}

	maskRows, maskCols := mask.Rows(), mask.Cols()
	if maskRows > rows || maskCols > cols {
		warnMaskTooLarge("dilate", rows, cols, maskRows, maskCols)
		return result, nil
	}

	rOrig, cOrig := origin(mask)
	fp := footprint(mask)
	for r := 0; r < rows; r++ {
		src := image.Row(r)
		for c, v := range src {
			if !grid.IsForeground(v) {
				continue
			}
			for _, o := range fp {
				i := r + o.r - rOrig
				j := c + o.c - cOrig
				if i < 0 || i >= rows || j < 0 || j >= cols {
					continue
				}
				result.Set(i, j, 1)
			}
		}
	}
	return result, nil
}
