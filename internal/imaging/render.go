package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// RenderOptions controls how a grid is drawn.
type RenderOptions struct {
	// Foreground and Background are "#rrggbb" or "#rgb" colours.
	Foreground string
	Background string

	// Scale is the edge length in pixels of one grid cell. Values below 1
	// are treated as 1.
	Scale int

	// CellLines draws a one-pixel line between cells in LineColor. It is
	// ignored when Scale is below 3.
	CellLines bool
	LineColor string
}

// DefaultRenderOptions draws foreground white on black, one pixel per cell.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Foreground: "#ffffff",
		Background: "#000000",
		Scale:      1,
		LineColor:  "#808080",
	}
}

// RenderResult contains a rendered grid encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Render draws a grid as a PNG, one Scale x Scale block per cell.
func Render[T grid.Pixel](g *grid.Grid[T], opts RenderOptions) (*RenderResult, error) {
	if g == nil || g.Empty() {
		return nil, fmt.Errorf("cannot render an empty grid")
	}

	fg, err := parseColor(opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("invalid foreground colour: %w", err)
	}
	bg, err := parseColor(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background colour: %w", err)
	}

	img := ToImage(g, fg, bg)

	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	if scale > 1 {
		img = imaging.Resize(img, g.Cols()*scale, g.Rows()*scale, imaging.NearestNeighbor)
	}
	if opts.CellLines && scale >= 3 {
		lc, err := parseColor(opts.LineColor)
		if err != nil {
			return nil, fmt.Errorf("invalid line colour: %w", err)
		}
		drawCellLines(img, scale, lc)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &RenderResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ToImage converts a grid to an image with one pixel per cell.
func ToImage[T grid.Pixel](g *grid.Grid[T], fg, bg color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols(), g.Rows()))
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.Foreground(r, c) {
				img.Set(c, r, fg)
			} else {
				img.Set(c, r, bg)
			}
		}
	}
	return img
}

// drawCellLines draws the boundaries between scale x scale cells.
func drawCellLines(img *image.NRGBA, scale int, lc color.Color) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	for x := scale; x < width; x += scale {
		for y := 0; y < height; y++ {
			img.Set(x, y, lc)
		}
	}
	for y := scale; y < height; y += scale {
		for x := 0; x < width; x++ {
			img.Set(x, y, lc)
		}
	}
}

func parseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
