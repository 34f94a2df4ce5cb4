package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// BoundingBox is the smallest window holding every foreground cell.
type BoundingBox struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// GridStats summarizes the foreground of a grid.
type GridStats struct {
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Foreground int          `json:"foreground"`
	Ratio      float64      `json:"ratio"`
	Bounds     *BoundingBox `json:"bounds,omitempty"`
}

// MeasureGrid counts foreground cells and locates their bounding box.
// Bounds is nil when the grid has no foreground.
func MeasureGrid[T grid.Pixel](g *grid.Grid[T]) GridStats {
	stats := GridStats{Rows: g.Rows(), Cols: g.Cols()}

	minR, minC := g.Rows(), g.Cols()
	maxR, maxC := -1, -1
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.Foreground(r, c) {
				continue
			}
			stats.Foreground++
			minR = min(minR, r)
			minC = min(minC, c)
			maxR = max(maxR, r)
			maxC = max(maxC, c)
		}
	}

	if total := g.Rows() * g.Cols(); total > 0 {
		stats.Ratio = math.Round(float64(stats.Foreground)/float64(total)*1000) / 1000
	}
	if stats.Foreground > 0 {
		stats.Bounds = &BoundingBox{
			Row:  minR,
			Col:  minC,
			Rows: maxR - minR + 1,
			Cols: maxC - minC + 1,
		}
	}
	return stats
}

// GridDiff reports how a transform changed the foreground.
type GridDiff struct {
	Added     int       `json:"added"`
	Removed   int       `json:"removed"`
	Unchanged int       `json:"unchanged"`
	Before    GridStats `json:"before"`
	After     GridStats `json:"after"`
}

// CompareGrids counts cells that became foreground (Added), stopped being
// foreground (Removed), and kept their foreground state (Unchanged). The
// grids must have the same extents.
func CompareGrids[T grid.Pixel](before, after *grid.Grid[T]) (*GridDiff, error) {
	if before.Rows() != after.Rows() || before.Cols() != after.Cols() {
		return nil, fmt.Errorf("grid extents differ: %dx%d vs %dx%d",
			before.Rows(), before.Cols(), after.Rows(), after.Cols())
	}

	diff := &GridDiff{
		Before: MeasureGrid(before),
		After:  MeasureGrid(after),
	}
	for r := 0; r < before.Rows(); r++ {
		for c := 0; c < before.Cols(); c++ {
			was, is := before.Foreground(r, c), after.Foreground(r, c)
			switch {
			case !was && is:
				diff.Added++
			case was && !is:
				diff.Removed++
			default:
				diff.Unchanged++
			}
		}
	}
	return diff, nil
}
