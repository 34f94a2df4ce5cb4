package server

import (
	"errors"
	"fmt"

	"github.com/ironsheep/morphology-mcp/internal/grid"
	"github.com/ironsheep/morphology-mcp/internal/imaging"
)

// errInvalidParams marks tool errors caused by the caller's arguments. They
// are reported with JSON-RPC code -32602 instead of -32000.
var errInvalidParams = errors.New("invalid params")

func invalidParams(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidParams, fmt.Sprintf(format, args...))
}

// sourceArgs are the arguments shared by every morphology tool: where the
// binary image comes from and how the result is returned.
type sourceArgs struct {
	Path         string          `json:"path"`
	Grid         [][]int         `json:"grid"`
	Region       *imaging.Region `json:"region,omitempty"`
	Threshold    *int            `json:"threshold"`
	LowThreshold *int            `json:"low_threshold"`
	Invert       *bool           `json:"invert"`
	Edges        string          `json:"edges"`
	Blur         float64         `json:"blur"`
	Output       string          `json:"output"`
	Scale        int             `json:"scale"`
	CellLines    bool            `json:"cell_lines"`
}

// source is a binarized input ready for a transform.
type source struct {
	grid     *grid.Grid[uint8]
	fromFile bool
}

// loadSource resolves the image named by a: a literal grid, or an image
// file that is cropped, checked against the pixel limit and binarized.
func (s *Server) loadSource(a *sourceArgs) (*source, error) {
	switch {
	case a.Path != "" && a.Grid != nil:
		return nil, invalidParams("path and grid are mutually exclusive")
	case a.Path == "" && a.Grid == nil:
		return nil, invalidParams("one of path or grid is required")
	}

	invert := s.cfg.Invert
	if a.Invert != nil {
		invert = *a.Invert
	}

	if a.Grid != nil {
		if a.Region != nil {
			return nil, invalidParams("region only applies to image files")
		}
		g, err := gridFromRows(a.Grid, "grid")
		if err != nil {
			return nil, err
		}
		if n := g.Rows() * g.Cols(); n > s.cfg.MaxPixels {
			return nil, invalidParams("grid has %d cells, limit is %d", n, s.cfg.MaxPixels)
		}
		if invert {
			g = g.Complement()
		}
		return &source{grid: g}, nil
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		img, err = imaging.CropRegion(img, *a.Region)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
	}
	if n := imaging.Pixels(img); n > s.cfg.MaxPixels {
		return nil, invalidParams("image has %d pixels, limit is %d", n, s.cfg.MaxPixels)
	}

	threshold := s.cfg.Threshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 255 {
		return nil, invalidParams("threshold must be between 0 and 255, got %d", threshold)
	}
	if a.Blur < 0 {
		return nil, invalidParams("blur must not be negative, got %v", a.Blur)
	}
	edges, err := imaging.ParseEdgeDetector(a.Edges)
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	// Canny's weak level defaults to half the strong one.
	low := threshold / 2
	if a.LowThreshold != nil {
		low = *a.LowThreshold
	}
	if low < 0 || low > threshold {
		return nil, invalidParams("low_threshold must be between 0 and threshold (%d), got %d", threshold, low)
	}

	g := imaging.Binarize(img, imaging.BinarizeOptions{
		Threshold:    uint8(threshold),
		LowThreshold: uint8(low),
		Invert:       invert,
		Edges:        edges,
		Blur:         a.Blur,
	})
	return &source{grid: g, fromFile: true}, nil
}

// gridFromRows converts literal rows to a 0/1 grid. name identifies the
// argument in error messages.
func gridFromRows(rows [][]int, name string) (*grid.Grid[uint8], error) {
	bin := make([][]uint8, len(rows))
	for r, row := range rows {
		bin[r] = make([]uint8, len(row))
		for c, v := range row {
			if v != 0 {
				bin[r][c] = 1
			}
		}
	}
	g, err := grid.FromRows(bin)
	if err != nil {
		return nil, invalidParams("%s: %v", name, err)
	}
	return g, nil
}

// toIntRows converts a grid to rows of ints. Byte slices would marshal to
// base64 strings.
func toIntRows[T grid.Pixel](g *grid.Grid[T]) [][]int {
	return grid.Convert[int](g).ToRows()
}

// morphResult is the payload of every morphology tool. The rendered image,
// when requested, is returned as a separate MCP image content item.
type morphResult struct {
	Tool   string                 `json:"tool"`
	Rows   int                    `json:"rows"`
	Cols   int                    `json:"cols"`
	Params map[string]interface{} `json:"params,omitempty"`
	Grid   [][]int                `json:"grid,omitempty"`
	Stats  *imaging.GridDiff      `json:"stats"`
	Image  *imaging.RenderResult  `json:"-"`
}

// buildResult packages a transform result in the format the caller asked
// for.
func (s *Server) buildResult(tool string, a *sourceArgs, src *source, result *grid.Grid[uint8], params map[string]interface{}) (*morphResult, error) {
	output := a.Output
	if output == "" {
		output = "grid"
		if src.fromFile {
			output = "image"
		}
	}
	if output != "grid" && output != "image" && output != "both" {
		return nil, invalidParams("output must be grid, image or both, got %q", output)
	}

	stats, err := imaging.CompareGrids(src.grid, result)
	if err != nil {
		return nil, err
	}

	res := &morphResult{
		Tool:   tool,
		Rows:   result.Rows(),
		Cols:   result.Cols(),
		Params: params,
		Stats:  stats,
	}
	if output == "grid" || output == "both" {
		res.Grid = toIntRows(result)
	}
	if output == "image" || output == "both" {
		opts := imaging.RenderOptions{
			Foreground: s.cfg.Render.Foreground,
			Background: s.cfg.Render.Background,
			Scale:      s.cfg.Render.Scale,
			CellLines:  a.CellLines,
			LineColor:  imaging.DefaultRenderOptions().LineColor,
		}
		if a.Scale > 0 {
			opts.Scale = a.Scale
		}
		if n := result.Rows() * result.Cols() * opts.Scale * opts.Scale; opts.Scale > 64 || n > s.cfg.MaxPixels {
			return nil, invalidParams("rendered image too large at scale %d", opts.Scale)
		}
		img, err := imaging.Render(result, opts)
		if err != nil {
			return nil, err
		}
		res.Image = img
	}
	return res, nil
}
