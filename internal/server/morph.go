package server

import (
	"encoding/json"

	"github.com/ironsheep/morphology-mcp/internal/detection"
	"github.com/ironsheep/morphology-mcp/internal/grid"
	"github.com/ironsheep/morphology-mcp/internal/morphology"
)

// === Structuring Element Handlers ===

type createMaskArgs struct {
	Shape string `json:"shape"`
	Rows  *int   `json:"rows"`
	Cols  *int   `json:"cols"`
}

type maskResult struct {
	Shape  string  `json:"shape"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Origin [2]int  `json:"origin"`
	Mask   [][]int `json:"mask"`
}

func (s *Server) handleCreateMask(args json.RawMessage) (interface{}, error) {
	var a createMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts, err := s.maskOptions(morphology.OperationErode, a.Shape, a.Rows, a.Cols)
	if err != nil {
		return nil, err
	}
	mask, err := opts.Mask()
	if err != nil {
		return nil, err
	}

	return &maskResult{
		Shape:  opts.Shape.String(),
		Rows:   mask.Rows(),
		Cols:   mask.Cols(),
		Origin: [2]int{mask.Rows() / 2, mask.Cols() / 2},
		Mask:   toIntRows(mask),
	}, nil
}

// maskOptions overlays the caller's mask arguments on the configured
// defaults. Giving rows without cols asks for a square mask.
func (s *Server) maskOptions(op morphology.Operation, shape string, rows, cols *int) (morphology.Options, error) {
	opts, err := s.cfg.MaskOptions(op)
	if err != nil {
		return morphology.Options{}, err
	}
	if shape != "" {
		if opts.Shape, err = morphology.ParseMaskShape(shape); err != nil {
			return morphology.Options{}, err
		}
	}
	if rows != nil {
		opts.MaskRows = *rows
		opts.MaskCols = 0
	}
	if cols != nil {
		opts.MaskCols = *cols
	}
	if err := opts.Validate(); err != nil {
		return morphology.Options{}, err
	}
	maskCols := opts.MaskCols
	if maskCols == 0 {
		maskCols = opts.MaskRows
	}
	// Dividing keeps the check free of rows*cols overflow.
	if limit := s.cfg.MaxPixels; opts.MaskRows > limit || maskCols > limit || opts.MaskRows > limit/maskCols {
		return morphology.Options{}, invalidParams("mask of %dx%d cells exceeds the pixel limit", opts.MaskRows, maskCols)
	}
	return opts, nil
}

// === Transform Handlers ===

type applyArgs struct {
	sourceArgs
	Operation     string  `json:"operation"`
	MaskShape     string  `json:"mask_shape"`
	MaskRows      *int    `json:"mask_rows"`
	MaskCols      *int    `json:"mask_cols"`
	Mask          [][]int `json:"mask"`
	HandleBorders *bool   `json:"handle_borders"`
}

func (s *Server) handleApply(args json.RawMessage) (interface{}, error) {
	var a applyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	op, err := morphology.ParseOperation(a.Operation)
	if err != nil {
		return nil, err
	}

	handleBorders := s.cfg.HandleBorders
	if a.HandleBorders != nil {
		handleBorders = *a.HandleBorders
	}

	// A literal mask runs through Morphology directly; otherwise Apply
	// generates the mask from the merged options.
	var run func(*grid.Grid[uint8]) (*grid.Grid[uint8], error)
	var maskRows, maskCols int
	if a.Mask != nil {
		mask, err := gridFromRows(a.Mask, "mask")
		if err != nil {
			return nil, err
		}
		maskRows, maskCols = mask.Rows(), mask.Cols()
		run = func(img *grid.Grid[uint8]) (*grid.Grid[uint8], error) {
			return morphology.Morphology(img, mask, op, handleBorders)
		}
	} else {
		opts, err := s.maskOptions(op, a.MaskShape, a.MaskRows, a.MaskCols)
		if err != nil {
			return nil, err
		}
		opts.HandleBorders = handleBorders
		maskRows, maskCols = opts.MaskRows, opts.MaskCols
		if maskCols == 0 {
			maskCols = maskRows
		}
		run = func(img *grid.Grid[uint8]) (*grid.Grid[uint8], error) {
			return morphology.Apply(img, opts)
		}
	}

	src, err := s.loadSource(&a.sourceArgs)
	if err != nil {
		return nil, err
	}
	result, err := run(src.grid)
	if err != nil {
		return nil, err
	}

	return s.buildResult("morph_apply", &a.sourceArgs, src, result, map[string]interface{}{
		"operation":      op.String(),
		"mask_rows":      maskRows,
		"mask_cols":      maskCols,
		"handle_borders": handleBorders,
	})
}

type hitAndMissArgs struct {
	sourceArgs
	Mask         [][]int `json:"mask"`
	Significance [][]int `json:"significance"`
}

func (s *Server) handleHitAndMiss(args json.RawMessage) (interface{}, error) {
	var a hitAndMissArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mask == nil {
		return nil, invalidParams("mask is required")
	}

	mask, err := gridFromRows(a.Mask, "mask")
	if err != nil {
		return nil, err
	}
	significance := grid.Filled[uint8](mask.Rows(), mask.Cols(), 1)
	if a.Significance != nil {
		if significance, err = gridFromRows(a.Significance, "significance"); err != nil {
			return nil, err
		}
	}

	src, err := s.loadSource(&a.sourceArgs)
	if err != nil {
		return nil, err
	}
	result, err := morphology.HitAndMiss(src.grid, mask, significance)
	if err != nil {
		return nil, err
	}

	return s.buildResult("morph_hit_and_miss", &a.sourceArgs, src, result, map[string]interface{}{
		"mask_rows": mask.Rows(),
		"mask_cols": mask.Cols(),
	})
}

func (s *Server) handleBorder(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	src, err := s.loadSource(&a)
	if err != nil {
		return nil, err
	}
	result, err := morphology.Border(src.grid)
	if err != nil {
		return nil, err
	}
	return s.buildResult("morph_border", &a, src, result, nil)
}

type amountArgs struct {
	sourceArgs
	Amount *int `json:"amount"`
}

func (s *Server) handleThin(args json.RawMessage) (interface{}, error) {
	return s.handleIterative(args, "morph_thin", -1, morphology.Thin[uint8])
}

func (s *Server) handleShrink(args json.RawMessage) (interface{}, error) {
	return s.handleIterative(args, "morph_shrink", 1, morphology.Shrink[uint8])
}

// handleIterative runs Thin or Shrink. Every pass that changes the grid
// removes at least one pixel, so an amount of at least the foreground count
// gives the same result as running until stable.
func (s *Server) handleIterative(args json.RawMessage, tool string, defaultAmount int,
	fn func(*grid.Grid[uint8], int) (*grid.Grid[uint8], error)) (interface{}, error) {
	var a amountArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	amount := defaultAmount
	if a.Amount != nil {
		amount = *a.Amount
	}

	src, err := s.loadSource(&a.sourceArgs)
	if err != nil {
		return nil, err
	}
	run := amount
	if run > src.grid.Count() {
		run = -1
	}
	result, err := fn(src.grid, run)
	if err != nil {
		return nil, err
	}

	return s.buildResult(tool, &a.sourceArgs, src, result, map[string]interface{}{
		"amount": amount,
	})
}

// === Measurement Handlers ===

type componentsArgs struct {
	sourceArgs
	MinArea      *int `json:"min_area"`
	Connectivity *int `json:"connectivity"`
}

type componentsResult struct {
	Tool         string `json:"tool"`
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	MinArea      int    `json:"min_area"`
	Connectivity int    `json:"connectivity"`
	*detection.ComponentsResult
}

func (s *Server) handleComponents(args json.RawMessage) (interface{}, error) {
	var a componentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	minArea, connectivity := 1, 8
	if a.MinArea != nil {
		minArea = *a.MinArea
	}
	if a.Connectivity != nil {
		connectivity = *a.Connectivity
	}
	if minArea < 0 {
		return nil, invalidParams("min_area must not be negative, got %d", minArea)
	}
	if connectivity != 4 && connectivity != 8 {
		return nil, invalidParams("connectivity must be 4 or 8, got %d", connectivity)
	}

	src, err := s.loadSource(&a.sourceArgs)
	if err != nil {
		return nil, err
	}
	found, err := detection.FindComponents(src.grid, minArea, connectivity)
	if err != nil {
		return nil, err
	}

	return &componentsResult{
		Tool:             "morph_components",
		Rows:             src.grid.Rows(),
		Cols:             src.grid.Cols(),
		MinArea:          minArea,
		Connectivity:     connectivity,
		ComponentsResult: found,
	}, nil
}
