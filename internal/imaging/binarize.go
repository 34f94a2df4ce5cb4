package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// BinarizeOptions controls how an image becomes a 0/1 grid.
type BinarizeOptions struct {
	// Threshold is the luminance level (0-255) at or above which a pixel is
	// foreground.
	Threshold uint8

	// Invert makes dark pixels foreground instead of light ones. Scanned
	// documents usually want this.
	Invert bool

	// Blur is a Gaussian radius applied before anything else. Zero disables.
	Blur float64

	// Edges selects an edge detector run before thresholding, so
	// foreground marks intensity edges instead of light areas.
	Edges EdgeDetector

	// LowThreshold is the weak edge level for EdgesCanny; Threshold is the
	// strong one. Other detectors ignore it.
	LowThreshold uint8
}

// Binarize converts an image into a grid with one cell per pixel: 1 for
// foreground, 0 for background. Grid row r is image row Min.Y+r.
func Binarize(img image.Image, opts BinarizeOptions) *grid.Grid[uint8] {
	src := img
	if opts.Blur > 0 {
		src = blur.Gaussian(src, opts.Blur)
	}
	switch opts.Edges {
	case EdgesSobel:
		src = effect.Sobel(src)
	case EdgesCanny:
		g := Canny(src, opts.LowThreshold, opts.Threshold)
		if opts.Invert {
			g = g.Complement()
		}
		return g
	}

	bw := segment.Threshold(src, opts.Threshold)
	bounds := bw.Bounds()
	g := grid.New[uint8](bounds.Dy(), bounds.Dx())
	for y := 0; y < bounds.Dy(); y++ {
		row := g.Row(y)
		for x := range row {
			lit := bw.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y != 0
			if lit != opts.Invert {
				row[x] = 1
			}
		}
	}
	return g
}
