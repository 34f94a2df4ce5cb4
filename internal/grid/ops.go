package grid

import "fmt"

// IsForeground reports whether v is a foreground value (nonzero).
func IsForeground[T Pixel](v T) bool {
	return v != 0
}

// TopHatDiff returns foreground(b) - foreground(a), clamped to {0, 1}.
// Applied as opened.Map(image, TopHatDiff) it keeps the pixels that an
// opening removed.
func TopHatDiff[T Pixel](a, b T) T {
	if IsForeground(b) && !IsForeground(a) {
		return 1
	}
	return 0
}

// BottomHatDiff returns foreground(a) - foreground(b), clamped to {0, 1}.
func BottomHatDiff[T Pixel](a, b T) T {
	if IsForeground(a) && !IsForeground(b) {
		return 1
	}
	return 0
}

// Map replaces every cell of g with f(g[i], other[i]). Both grids must have
// identical extents.
func (g *Grid[T]) Map(other *Grid[T], f func(a, b T) T) {
	g.mustMatch(other)
	for i, v := range g.data {
		g.data[i] = f(v, other.data[i])
	}
}

// Or sets every cell of g that is foreground in either grid to 1 and every
// other cell to 0.
func (g *Grid[T]) Or(other *Grid[T]) {
	g.mustMatch(other)
	for i, v := range g.data {
		if IsForeground(v) || IsForeground(other.data[i]) {
			g.data[i] = 1
		} else {
			g.data[i] = 0
		}
	}
}

func (g *Grid[T]) mustMatch(other *Grid[T]) {
	if g.rows != other.rows || g.cols != other.cols {
		panic(fmt.Sprintf("grid: extents mismatch %dx%d vs %dx%d", g.rows, g.cols, other.rows, other.cols))
	}
}
