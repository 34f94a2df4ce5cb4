// Package morphology implements binary mathematical morphology on 2-D grids.
//
// Every transform takes an image grid and, where relevant, a structuring
// element (mask) grid and returns a freshly allocated result of the same
// extents as the image. Cells are interpreted through the nonzero rule:
// zero is background, anything else is foreground. Result grids hold 0 and
// 1, except where a transform is documented to return its input unchanged.
//
// # Mask Origin
//
// The origin of a mask with r rows and c columns is fixed at (r/2, c/2)
// using integer division. It is the cell aligned with the pixel being
// tested or written. For even-sized masks the origin lies below and to the
// right of the geometric center.
//
// # Transforms
//
//   - Erode, Dilate: the base transforms.
//   - Open, Close: erosion followed by dilation and the reverse.
//   - TopHat, BottomHat: differences between an image and its opening/closing.
//   - HitAndMiss: template matching against a mask and a significance grid.
//   - Border, Thin, Shrink: built on eight fixed directional hit-and-miss masks.
//   - CreateMask: rectangular, elliptical and diamond structuring elements.
//   - Morphology: dispatches on an Operation value.
//
// # Borders
//
// Window positions that extend past the image are handled per transform:
// Erode optionally replicates edge pixels, Dilate treats outside pixels as
// background, and HitAndMiss leaves the border strip as background.
//
// # Errors and Warnings
//
// Masks with non-positive extents are rejected with an error wrapping
// ErrInvalidArgument. A mask larger than the image is not an error: the
// transform logs a warning through the logger installed with SetLogger and
// returns its documented degenerate result.
//
// # Thread Safety
//
// All functions are pure and may be called concurrently as long as each
// call uses its own grids.
package morphology
