package detection

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// Bounds represents a rectangular bounding box in cell coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Point represents a cell position.
type Point struct {
	X int `json:"x"` // Column (0 = leftmost)
	Y int `json:"y"` // Row (0 = topmost)
}

// Centroid is the mean position of a component's cells.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component is one connected region of foreground cells.
type Component struct {
	// Bounds is the bounding box enclosing the component.
	Bounds Bounds `json:"bounds"`

	// Width is the horizontal extent in cells (X2 - X1).
	Width int `json:"width"`

	// Height is the vertical extent in cells (Y2 - Y1).
	Height int `json:"height"`

	// Area is the number of foreground cells in the component.
	Area int `json:"area"`

	// Fill is Area divided by the bounding box area (0.0 to 1.0).
	Fill float64 `json:"fill"`

	// Centroid is rounded to two decimal places.
	Centroid Centroid `json:"centroid"`
}

// ComponentsResult contains the components found in a grid.
type ComponentsResult struct {
	// Components is sorted by area (largest first), then top-to-bottom and
	// left-to-right by bounding box.
	Components []Component `json:"components"`

	// Count is the number of components reported.
	Count int `json:"count"`

	// Discarded is the number of components smaller than the minimum area.
	Discarded int `json:"discarded"`
}

// FindComponents labels the connected foreground regions of g.
//
// Parameters:
//   - minArea: Components with fewer cells are counted in Discarded but not
//     reported. Zero or one reports everything.
//   - connectivity: 4 or 8.
func FindComponents[T grid.Pixel](g *grid.Grid[T], minArea, connectivity int) (*ComponentsResult, error) {
	if g == nil {
		return nil, fmt.Errorf("nil grid")
	}
	if connectivity != 4 && connectivity != 8 {
		return nil, fmt.Errorf("connectivity must be 4 or 8, got %d", connectivity)
	}
	if minArea < 0 {
		return nil, fmt.Errorf("minimum area must not be negative, got %d", minArea)
	}

	rows, cols := g.Rows(), g.Cols()
	visited := make([]bool, rows*cols)
	result := &ComponentsResult{Components: make([]Component, 0)}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !g.Foreground(y, x) || visited[y*cols+x] {
				continue
			}
			cells := floodFill(g, visited, Point{X: x, Y: y}, connectivity)
			if len(cells) < minArea {
				result.Discarded++
				continue
			}
			result.Components = append(result.Components, measure(cells))
		}
	}

	sort.SliceStable(result.Components, func(i, j int) bool {
		a, b := result.Components[i], result.Components[j]
		if a.Area != b.Area {
			return a.Area > b.Area
		}
		if a.Bounds.Y1 != b.Bounds.Y1 {
			return a.Bounds.Y1 < b.Bounds.Y1
		}
		return a.Bounds.X1 < b.Bounds.X1
	})
	result.Count = len(result.Components)
	return result, nil
}

// floodFill collects the component containing start with an explicit stack
// and marks its cells visited.
func floodFill[T grid.Pixel](g *grid.Grid[T], visited []bool, start Point, connectivity int) []Point {
	rows, cols := g.Rows(), g.Cols()
	stack := []Point{start}
	var cells []Point

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= cols || p.Y < 0 || p.Y >= rows {
			continue
		}
		if visited[p.Y*cols+p.X] || !g.Foreground(p.Y, p.X) {
			continue
		}

		visited[p.Y*cols+p.X] = true
		cells = append(cells, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if connectivity == 4 && dx != 0 && dy != 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return cells
}

func measure(cells []Point) Component {
	b := Bounds{X1: cells[0].X, Y1: cells[0].Y, X2: cells[0].X + 1, Y2: cells[0].Y + 1}
	var sumX, sumY int
	for _, p := range cells {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X+1)
		b.Y2 = max(b.Y2, p.Y+1)
		sumX += p.X
		sumY += p.Y
	}

	w, h := b.X2-b.X1, b.Y2-b.Y1
	n := float64(len(cells))
	return Component{
		Bounds: b,
		Width:  w,
		Height: h,
		Area:   len(cells),
		Fill:   round(n/float64(w*h), 3),
		Centroid: Centroid{
			X: round(float64(sumX)/n, 2),
			Y: round(float64(sumY)/n, 2),
		},
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
