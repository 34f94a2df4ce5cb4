// Package imaging bridges image files and binary grids for the MCP server.
//
// Images are decoded and cached by ImageCache, optionally cropped to a
// Region, and turned into 0/1 grids by Binarize. Result grids travel back
// to the client either as literal rows or as PNG images produced by Render.
// MeasureGrid and CompareGrids summarize what a transform did.
//
// # Coordinate System
//
// Image coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. A Region's (X1,Y1) is
// inclusive and (X2,Y2) exclusive.
//
// Grids are indexed (row, col): grid row r is image row Y1+r and grid
// column c is image column X1+c.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and may be called concurrently on different inputs.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decoding errors during image loading
//   - Regions outside the image or with x1 >= x2 or y1 >= y2
//   - Unparseable render colours and empty grids passed to Render
//   - Grids of different extents passed to CompareGrids
package imaging
