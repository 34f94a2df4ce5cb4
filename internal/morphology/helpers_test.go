package morphology

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// pattern builds a grid from rows of '#' (foreground) and '.' (background).
func pattern(t *testing.T, lines ...string) *grid.Grid[uint8] {
	t.Helper()
	rows := make([][]uint8, len(lines))
	for r, line := range lines {
		rows[r] = make([]uint8, len(line))
		for c, ch := range line {
			switch ch {
			case '#':
				rows[r][c] = 1
			case '.':
			default:
				t.Fatalf("pattern: unexpected character %q in row %d", ch, r)
			}
		}
	}
	g, err := grid.FromRows(rows)
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	return g
}

// assertForeground fails the test if the foreground sets differ.
func assertForeground[T grid.Pixel](t *testing.T, got, want *grid.Grid[T]) {
	t.Helper()
	if got == nil {
		t.Fatal("got nil grid")
	}
	if !got.ForegroundEqual(want) {
		t.Errorf("grid mismatch:\ngot (%dx%d)\n%swant (%dx%d)\n%s",
			got.Rows(), got.Cols(), got, want.Rows(), want.Cols(), want)
	}
}

// randomGrid returns a grid whose cells are foreground with probability p.
// Only cells at least margin away from every edge can be foreground.
func randomGrid(rng *rand.Rand, rows, cols, margin int, p float64) *grid.Grid[uint8] {
	g := grid.New[uint8](rows, cols)
	for r := margin; r < rows-margin; r++ {
		for c := margin; c < cols-margin; c++ {
			if rng.Float64() < p {
				g.Set(r, c, 1)
			}
		}
	}
	return g
}

// subset reports whether every foreground cell of a is foreground in b.
func subset[T grid.Pixel](a, b *grid.Grid[T]) bool {
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			if a.Foreground(r, c) && !b.Foreground(r, c) {
				return false
			}
		}
	}
	return true
}

// captureWarnings routes the package logger into a buffer for the duration
// of the test.
func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })
	return &buf
}

// symmetricMasks are structuring elements equal to their own reflection.
func symmetricMasks(t *testing.T) map[string]*grid.Grid[uint8] {
	t.Helper()
	out := make(map[string]*grid.Grid[uint8])
	for _, m := range []struct {
		name  string
		shape MaskShape
		size  int
	}{
		{"rect3", MaskRectangular, 3},
		{"rect5", MaskRectangular, 5},
		{"diamond5", MaskDiamond, 5},
		{"ellipse5", MaskElliptical, 5},
	} {
		mask, err := CreateMask[uint8](m.shape, m.size, m.size)
		if err != nil {
			t.Fatalf("CreateMask(%s): %v", m.name, err)
		}
		out[m.name] = mask
	}
	return out
}
