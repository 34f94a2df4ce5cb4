// Package detection finds connected foreground components in binary grids.
//
// Components are grown by flood fill with either 4-connectivity (edge
// neighbours only) or 8-connectivity (diagonals included). Each component
// is reported with its bounding box, pixel count and centroid, which makes
// the package a natural follow-up to a morphology transform: open an image
// to drop noise, then count and measure what is left.
//
// # Coordinate System
//
// Coordinates use the image convention of the rest of the server:
//   - Origin (0, 0) at the top-left cell
//   - X is the column and increases rightward
//   - Y is the row and increases downward
//   - Bounds are inclusive at the top-left and exclusive at the bottom-right
package detection
