// Package grid provides the 2-D pixel container used by the morphology engine.
//
// A Grid is a dense, row-major matrix of a numeric pixel type. Grids are
// logically binary: a cell is background if its value is exactly zero and
// foreground otherwise. Structuring elements (masks) are grids too, possibly
// of a different pixel type than the image they are applied to.
//
// # Coordinate System
//
// Cells are addressed as (row, column), both 0-based, with (0,0) at the
// top-left corner. This differs from the image package's (x, y) order;
// the imaging package performs the translation.
//
// # Zero-Sized Grids
//
// Grids with zero rows, zero columns, or both are valid. Every operation in
// this package accepts them and produces zero-sized results where
// appropriate.
//
// # Thread Safety
//
// A Grid is not safe for concurrent mutation. Concurrent reads are fine.
package grid
