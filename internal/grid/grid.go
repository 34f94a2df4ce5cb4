package grid

import (
	"fmt"
	"math"
)

// Pixel is the set of numeric types a grid cell may hold.
type Pixel interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Grid is a row-major 2-D matrix of pixels.
//
// The zero value is an empty 0x0 grid ready for use.
type Grid[T Pixel] struct {
	rows int
	cols int
	data []T
}

// New returns an all-background grid with the given extents.
// It panics if rows or cols is negative or rows*cols overflows int; use
// CheckExtents to validate untrusted sizes first.
func New[T Pixel](rows, cols int) *Grid[T] {
	if err := CheckExtents(rows, cols); err != nil {
		panic("grid: " + err.Error())
	}
	return &Grid[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// CheckExtents reports whether a rows x cols grid can be represented:
// both extents non-negative and their product within int.
func CheckExtents(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("negative extents %dx%d", rows, cols)
	}
	if cols != 0 && rows > math.MaxInt/cols {
		return fmt.Errorf("extents %dx%d overflow the cell count", rows, cols)
	}
	return nil
}

// Filled returns a grid with every cell set to v.
func Filled[T Pixel](rows, cols int, v T) *Grid[T] {
	g := New[T](rows, cols)
	for i := range g.data {
		g.data[i] = v
	}
	return g
}

// FromRows builds a grid from a slice of rows. All rows must have the same
// length. An empty slice yields a 0x0 grid.
func FromRows[T Pixel](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return New[T](0, 0), nil
	}
	cols := len(rows[0])
	g := New[T](len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", r, len(row), cols)
		}
		copy(g.data[r*cols:(r+1)*cols], row)
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid[T]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid[T]) Cols() int { return g.cols }

// Empty reports whether the grid has no cells.
func (g *Grid[T]) Empty() bool { return g.rows == 0 || g.cols == 0 }

// At returns the value at (r, c). It panics if the position is out of range.
func (g *Grid[T]) At(r, c int) T {
	g.check(r, c)
	return g.data[r*g.cols+c]
}

// Set stores v at (r, c). It panics if the position is out of range.
func (g *Grid[T]) Set(r, c int, v T) {
	g.check(r, c)
	g.data[r*g.cols+c] = v
}

// Foreground reports whether the cell at (r, c) is nonzero.
func (g *Grid[T]) Foreground(r, c int) bool {
	return IsForeground(g.At(r, c))
}

// Row returns row r as a slice sharing the grid's storage.
func (g *Grid[T]) Row(r int) []T {
	if r < 0 || r >= g.rows {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", r, g.rows))
	}
	return g.data[r*g.cols : (r+1)*g.cols]
}

// ToRows copies the grid into a freshly allocated slice of rows.
func (g *Grid[T]) ToRows() [][]T {
	out := make([][]T, g.rows)
	for r := range out {
		out[r] = append([]T(nil), g.Row(r)...)
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	return &Grid[T]{
		rows: g.rows,
		cols: g.cols,
		data: append([]T(nil), g.data...),
	}
}

// Equal reports whether both grids have the same extents and identical values.
func (g *Grid[T]) Equal(other *Grid[T]) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// ForegroundEqual reports whether both grids have the same extents and the
// same foreground set, ignoring the actual nonzero values.
func (g *Grid[T]) ForegroundEqual(other *Grid[T]) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.data {
		if IsForeground(v) != IsForeground(other.data[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of foreground cells.
func (g *Grid[T]) Count() int {
	n := 0
	for _, v := range g.data {
		if IsForeground(v) {
			n++
		}
	}
	return n
}

// Complement returns a new grid where foreground cells become 0 and
// background cells become 1.
func (g *Grid[T]) Complement() *Grid[T] {
	out := New[T](g.rows, g.cols)
	for i, v := range g.data {
		if !IsForeground(v) {
			out.data[i] = 1
		}
	}
	return out
}

// Sub copies the rows x cols window whose top-left corner is (r, c).
// The window must lie inside the grid.
func (g *Grid[T]) Sub(r, c, rows, cols int) *Grid[T] {
	if r < 0 || c < 0 || rows < 0 || cols < 0 || r+rows > g.rows || c+cols > g.cols {
		panic(fmt.Sprintf("grid: window (%d,%d) %dx%d outside %dx%d grid", r, c, rows, cols, g.rows, g.cols))
	}
	out := New[T](rows, cols)
	for i := 0; i < rows; i++ {
		copy(out.Row(i), g.data[(r+i)*g.cols+c:(r+i)*g.cols+c+cols])
	}
	return out
}

// Extend pads the grid by replicating its edge cells: top rows above,
// bottom rows below, left and right columns to each side. Corner areas take
// the value of the nearest corner cell. An empty grid yields an all-zero
// grid of the extended size.
func Extend[T Pixel](g *Grid[T], top, bottom, left, right int) *Grid[T] {
	out := New[T](g.rows+top+bottom, g.cols+left+right)
	if g.Empty() {
		return out
	}
	for r := 0; r < out.rows; r++ {
		src := g.Row(clamp(r-top, 0, g.rows-1))
		dst := out.Row(r)
		for c := range dst {
			dst[c] = src[clamp(c-left, 0, g.cols-1)]
		}
	}
	return out
}

// Convert copies a grid into a grid of another pixel type using Go's
// numeric conversion rules.
func Convert[T, U Pixel](g *Grid[U]) *Grid[T] {
	out := New[T](g.rows, g.cols)
	for i, v := range g.data {
		out.data[i] = T(v)
	}
	return out
}

// String renders the grid one row per line, '#' for foreground and '.'
// for background.
func (g *Grid[T]) String() string {
	buf := make([]byte, 0, g.rows*(g.cols+1))
	for r := 0; r < g.rows; r++ {
		for _, v := range g.Row(r) {
			if IsForeground(v) {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func (g *Grid[T]) check(r, c int) {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", r, c, g.rows, g.cols))
	}
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
