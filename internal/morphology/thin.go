package morphology

import (
	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// directional is a 3x3 hit-and-miss template. Cells with zero significance
// are "don't care"; their mask value is ignored.
type directional struct {
	mask         [3][3]uint8
	significance [3][3]uint8
}

// borderMasks detect a foreground pixel lying on the edge of a shape, one
// template per compass direction of the background side, clockwise from
// north. Every template needs the center and three more foreground cells
// on the side opposite the background.
var borderMasks = [8]directional{
	// north
	{
		mask:         [3][3]uint8{{0, 0, 0}, {0, 1, 0}, {1, 1, 1}},
		significance: [3][3]uint8{{1, 1, 1}, {0, 1, 0}, {1, 1, 1}},
	},
	// north-east
	{
		mask:         [3][3]uint8{{0, 0, 0}, {1, 1, 0}, {1, 1, 0}},
		significance: [3][3]uint8{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	},
	// east
	{
		mask:         [3][3]uint8{{1, 0, 0}, {1, 1, 0}, {1, 0, 0}},
		significance: [3][3]uint8{{1, 0, 1}, {1, 1, 1}, {1, 0, 1}},
	},
	// south-east
	{
		mask:         [3][3]uint8{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}},
		significance: [3][3]uint8{{1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
	},
	// south
	{
		mask:         [3][3]uint8{{1, 1, 1}, {0, 1, 0}, {0, 0, 0}},
		significance: [3][3]uint8{{1, 1, 1}, {0, 1, 0}, {1, 1, 1}},
	},
	// south-west
	{
		mask:         [3][3]uint8{{0, 1, 1}, {0, 1, 1}, {0, 0, 0}},
		significance: [3][3]uint8{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	},
	// west
	{
		mask:         [3][3]uint8{{0, 0, 1}, {0, 1, 1}, {0, 0, 1}},
		significance: [3][3]uint8{{1, 0, 1}, {1, 1, 1}, {1, 0, 1}},
	},
	// north-west
	{
		mask:         [3][3]uint8{{0, 0, 0}, {0, 1, 1}, {0, 1, 1}},
		significance: [3][3]uint8{{1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
	},
}

// MaskPair is a hit-and-miss structuring element with its significance grid.
type MaskPair struct {
	Mask         *grid.Grid[uint8]
	Significance *grid.Grid[uint8]
}

var borderPairs = buildBorderPairs()

func buildBorderPairs() [8]MaskPair {
	var out [8]MaskPair
	for i, d := range borderMasks {
		out[i] = MaskPair{
			Mask:         fromArray(d.mask),
			Significance: fromArray(d.significance),
		}
	}
	return out
}

func fromArray(a [3][3]uint8) *grid.Grid[uint8] {
	g := grid.New[uint8](3, 3)
	for r := range a {
		copy(g.Row(r), a[r][:])
	}
	return g
}

// BorderMasks returns copies of the eight directional templates used by
// Border, Thin and Shrink, in the order they are applied.
func BorderMasks() [8]MaskPair {
	var out [8]MaskPair
	for i, p := range borderPairs {
		out[i] = MaskPair{Mask: p.Mask.Clone(), Significance: p.Significance.Clone()}
	}
	return out
}

// Border marks the edge pixels of every shape: the union of the hit-and-miss
// responses of all eight directional templates on the unmodified image.
func Border[T grid.Pixel](image *grid.Grid[T]) (*grid.Grid[T], error) {
	if err := checkImage(image); err != nil {
		return nil, err
	}
	result := grid.New[T](image.Rows(), image.Cols())
	for _, p := range borderPairs {
		hm, err := HitAndMiss(image, p.Mask, p.Significance)
		if err != nil {
			return nil, err
		}
		result.Or(hm)
	}
	return result, nil
}

// Thin peels edge pixels off shapes. Each sweep applies the eight
// directional templates in order to the same working copy, so a later
// direction sees the pixels already removed by earlier ones.
//
// A non-negative amount runs exactly that many sweeps; Thin(image, 0)
// returns a copy of the image. A negative amount sweeps until a sweep
// changes nothing. Every removal needs three foreground neighbours, so the
// loop always terminates.
func Thin[T grid.Pixel](image *grid.Grid[T], amount int) (*grid.Grid[T], error) {
	if err := checkImage(image); err != nil {
		return nil, err
	}
	result := image.Clone()

	if amount >= 0 {
		for ; amount > 0; amount-- {
			if err := thinSweep(result); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	for {
		next := result.Clone()
		if err := thinSweep(next); err != nil {
			return nil, err
		}
		if next.Equal(result) {
			return result, nil
		}
		result = next
	}
}

func thinSweep[T grid.Pixel](work *grid.Grid[T]) error {
	for _, p := range borderPairs {
		hm, err := HitAndMiss(work, p.Mask, p.Significance)
		if err != nil {
			return err
		}
		work.Map(hm, grid.BottomHatDiff[T])
	}
	return nil
}

// Shrink subtracts Border from the working image amount times. A negative
// amount repeats until the image stops changing.
func Shrink[T grid.Pixel](image *grid.Grid[T], amount int) (*grid.Grid[T], error) {
	if err := checkImage(image); err != nil {
		return nil, err
	}
	result := image.Clone()

	for amount != 0 {
		border, err := Border(result)
		if err != nil {
			return nil, err
		}
		next := result.Clone()
		next.Map(border, grid.BottomHatDiff[T])
		if amount < 0 && next.Equal(result) {
			break
		}
		result = next
		if amount > 0 {
			amount--
		}
	}
	return result, nil
}
