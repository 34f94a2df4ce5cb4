package morphology

import (
	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// DefaultHandleBorders is the border policy of the erosions performed
// inside Open, Close, TopHat and BottomHat.
const DefaultHandleBorders = true

// Open erodes and then dilates the image with the same mask.
func Open[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) (*grid.Grid[T], error) {
	eroded, err := Erode(image, mask, DefaultHandleBorders)
	if err != nil {
		return nil, err
	}
	return Dilate(eroded, mask)
}

// Close dilates and then erodes the image with the same mask.
func Close[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) (*grid.Grid[T], error) {
	dilated, err := Dilate(image, mask)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, mask, DefaultHandleBorders)
}

// TopHat keeps the foreground pixels of the image that the opening removes,
// isolating features smaller than the mask. The difference is taken over
// the whole image.
func TopHat[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) (*grid.Grid[T], error) {
	opened, err := Open(image, mask)
	if err != nil {
		return nil, err
	}
	opened.Map(image, grid.TopHatDiff[T])
	return opened, nil
}

// BottomHat returns the pixels the closing adds to the image. The
// difference is computed only inside the central region
// [rOrig, rows-(maskRows-rOrig)) x [cOrig, cols-(maskCols-cOrig));
// outside it the result equals the closing itself.
func BottomHat[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) (*grid.Grid[T], error) {
	closed, err := Close(image, mask)
	if err != nil {
		return nil, err
	}

	rOrig, cOrig := origin(mask)
	rEnd := image.Rows() - (mask.Rows() - rOrig)
	cEnd := image.Cols() - (mask.Cols() - cOrig)
	for r := rOrig; r < rEnd; r++ {
		dst := closed.Row(r)
		src := image.Row(r)
		for c := cOrig; c < cEnd; c++ {
			dst[c] = grid.BottomHatDiff(dst[c], src[c])
		}
	}
	return closed, nil
}
