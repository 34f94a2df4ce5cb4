package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/morphology-mcp/internal/config"
	"github.com/ironsheep/morphology-mcp/internal/grid"
	"github.com/ironsheep/morphology-mcp/internal/imaging"
	"github.com/ironsheep/morphology-mcp/internal/morphology"
)

// createTestImageFile writes a black PNG with a white rectangle covering
// rect and returns its path.
func createTestImageFile(t *testing.T, width, height int, rect image.Rectangle) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if image.Pt(x, y).In(rect) {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// content returns the content items of a successful tool response.
func content(t *testing.T, resp *MCPResponse) []map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result: got %T, want map", resp.Result)
	}
	items, ok := result["content"].([]map[string]interface{})
	if !ok || len(items) == 0 {
		t.Fatalf("content: got %v", result["content"])
	}
	return items
}

// decodeText unmarshals the JSON text item of a tool response into v.
func decodeText(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	items := content(t, resp)
	if items[0]["type"] != "text" {
		t.Fatalf("content[0].type: got %v, want text", items[0]["type"])
	}
	if err := json.Unmarshal([]byte(items[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

func wantErrorCode(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()

	if resp.Error == nil {
		t.Fatalf("expected error code %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("Error.Code: got %d, want %d (%v)", resp.Error.Code, code, resp.Error.Data)
	}
}

func intRows(g *grid.Grid[uint8]) [][]int {
	return toIntRows(g)
}

func sameRows(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if len(a[r]) != len(b[r]) {
			return false
		}
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

var testImage = [][]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
}

func testGrid(t *testing.T) *grid.Grid[uint8] {
	t.Helper()
	g, err := gridFromRows(testImage, "grid")
	if err != nil {
		t.Fatalf("gridFromRows: %v", err)
	}
	return g
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 100, 80, image.Rect(10, 10, 20, 20))

	var info imaging.ImageInfo
	decodeText(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("size: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache holds %d images, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 200, 150, image.Rect(0, 0, 1, 1))

	var dims imaging.DimensionsResult
	decodeText(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": path}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_ImageErrors(t *testing.T) {
	s := newTestServer(t)

	wantErrorCode(t, callTool(t, s, "image_load", map[string]interface{}{}), codeInvalidParams)
	wantErrorCode(t, callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}), codeToolFailed)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)
	wantErrorCode(t, callTool(t, s, "image_ocr_full", map[string]interface{}{}), codeToolFailed)
}

func TestHandleToolsCall_MalformedArguments(t *testing.T) {
	s := newTestServer(t)
	wantErrorCode(t, callTool(t, s, "morph_apply", map[string]interface{}{
		"operation": "erode",
		"grid":      "not rows",
	}), codeInvalidParams)
}

func TestHandleCreateMask(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want *grid.Grid[uint8]
	}{
		{"defaults", map[string]interface{}{}, mustMask(t, morphology.MaskRectangular, 3, 3)},
		{"square from rows", map[string]interface{}{"shape": "diamond", "rows": 5}, mustMask(t, morphology.MaskDiamond, 5, 5)},
		{"explicit", map[string]interface{}{"shape": "elliptical", "rows": 3, "cols": 5}, mustMask(t, morphology.MaskElliptical, 3, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got maskResult
			decodeText(t, callTool(t, s, "morph_create_mask", tt.args), &got)

			if got.Rows != tt.want.Rows() || got.Cols != tt.want.Cols() {
				t.Fatalf("extents: got %dx%d, want %dx%d", got.Rows, got.Cols, tt.want.Rows(), tt.want.Cols())
			}
			if got.Origin != [2]int{tt.want.Rows() / 2, tt.want.Cols() / 2} {
				t.Errorf("Origin: got %v", got.Origin)
			}
			if !sameRows(got.Mask, intRows(tt.want)) {
				t.Errorf("Mask: got %v, want %v", got.Mask, intRows(tt.want))
			}
		})
	}
}

func mustMask(t *testing.T, shape morphology.MaskShape, rows, cols int) *grid.Grid[uint8] {
	t.Helper()
	m, err := morphology.CreateMask[uint8](shape, rows, cols)
	if err != nil {
		t.Fatalf("CreateMask: %v", err)
	}
	return m
}

func TestHandleCreateMask_Invalid(t *testing.T) {
	s := newTestServer(t)

	for _, args := range []map[string]interface{}{
		{"rows": 0},
		{"rows": 3, "cols": -1},
		{"shape": "hexagonal"},
		{"rows": 1 << 20},
		{"rows": 4294967296, "cols": 4294967296},
		{"rows": 4294967296},
		{"rows": 1, "cols": 4294967296},
	} {
		wantErrorCode(t, callTool(t, s, "morph_create_mask", args), codeInvalidParams)
	}
}

func TestHandleApply_Grid(t *testing.T) {
	s := newTestServer(t)
	img := testGrid(t)
	mask := mustMask(t, morphology.MaskRectangular, 3, 3)

	for _, op := range morphology.Operations() {
		t.Run(op.String(), func(t *testing.T) {
			want, err := morphology.Morphology(img, mask, op, true)
			if err != nil {
				t.Fatalf("Morphology: %v", err)
			}

			resp := callTool(t, s, "morph_apply", map[string]interface{}{
				"operation": op.String(),
				"grid":      testImage,
			})
			if items := content(t, resp); len(items) != 1 {
				t.Errorf("literal grid should default to grid output, got %d content items", len(items))
			}

			var got morphResult
			decodeText(t, resp, &got)
			if !sameRows(got.Grid, intRows(want)) {
				t.Errorf("Grid:\ngot  %v\nwant %v", got.Grid, intRows(want))
			}
			if got.Stats == nil || got.Stats.Before.Foreground != img.Count() || got.Stats.After.Foreground != want.Count() {
				t.Errorf("Stats: got %+v", got.Stats)
			}
			if got.Params["operation"] != op.String() {
				t.Errorf("Params.operation: got %v", got.Params["operation"])
			}
		})
	}
}

func TestHandleApply_MaskOptions(t *testing.T) {
	s := newTestServer(t)
	img := testGrid(t)

	literal := [][]int{{1, 1, 1}}
	lit, _ := gridFromRows(literal, "mask")
	wantLiteral, _ := morphology.Erode(img, lit, false)

	var got morphResult
	decodeText(t, callTool(t, s, "morph_apply", map[string]interface{}{
		"operation":      "erode",
		"grid":           testImage,
		"mask":           literal,
		"handle_borders": false,
	}), &got)
	if !sameRows(got.Grid, intRows(wantLiteral)) {
		t.Errorf("literal mask:\ngot  %v\nwant %v", got.Grid, intRows(wantLiteral))
	}

	diamond := mustMask(t, morphology.MaskDiamond, 3, 5)
	wantDiamond, _ := morphology.Dilate(img, diamond)

	decodeText(t, callTool(t, s, "morph_apply", map[string]interface{}{
		"operation":  "dilate",
		"grid":       testImage,
		"mask_shape": "diamond",
		"mask_rows":  3,
		"mask_cols":  5,
	}), &got)
	if !sameRows(got.Grid, intRows(wantDiamond)) {
		t.Errorf("generated mask:\ngot  %v\nwant %v", got.Grid, intRows(wantDiamond))
	}
}

func TestHandleApply_Invert(t *testing.T) {
	s := newTestServer(t)
	img := testGrid(t).Complement()
	want, _ := morphology.Erode(img, mustMask(t, morphology.MaskRectangular, 3, 3), true)

	var got morphResult
	decodeText(t, callTool(t, s, "morph_apply", map[string]interface{}{
		"operation": "erode",
		"grid":      testImage,
		"invert":    true,
	}), &got)
	if !sameRows(got.Grid, intRows(want)) {
		t.Errorf("got %v, want %v", got.Grid, intRows(want))
	}
}

func TestHandleApply_File(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 20, 12, image.Rect(4, 3, 15, 9))

	img, err := s.cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bin := imaging.Binarize(img, imaging.BinarizeOptions{Threshold: 128})
	want, _ := morphology.Open(bin, mustMask(t, morphology.MaskRectangular, 3, 3))

	resp := callTool(t, s, "morph_apply", map[string]interface{}{
		"operation": "open",
		"path":      path,
		"output":    "both",
		"scale":     2,
	})

	items := content(t, resp)
	if len(items) != 2 {
		t.Fatalf("got %d content items, want 2", len(items))
	}
	if items[1]["type"] != "image" || items[1]["mimeType"] != "image/png" {
		t.Errorf("content[1]: got type %v mimeType %v", items[1]["type"], items[1]["mimeType"])
	}
	if data, _ := items[1]["data"].(string); data == "" {
		t.Error("image data should not be empty")
	}

	var got morphResult
	decodeText(t, resp, &got)
	if got.Rows != 12 || got.Cols != 20 {
		t.Errorf("extents: got %dx%d, want 12x20", got.Rows, got.Cols)
	}
	if !sameRows(got.Grid, intRows(want)) {
		t.Errorf("Grid:\ngot  %v\nwant %v", got.Grid, intRows(want))
	}
}

func TestHandleApply_FileDefaultsToImage(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 10, 10, image.Rect(2, 2, 8, 8))

	resp := callTool(t, s, "morph_border", map[string]interface{}{"path": path})
	items := content(t, resp)
	if len(items) != 2 {
		t.Fatalf("got %d content items, want 2", len(items))
	}

	var got morphResult
	decodeText(t, resp, &got)
	if got.Grid != nil {
		t.Error("image output should not include the grid")
	}
}

func TestHandleApply_Region(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 20, 20, image.Rect(5, 5, 15, 15))

	var got morphResult
	decodeText(t, callTool(t, s, "morph_apply", map[string]interface{}{
		"operation": "erode",
		"path":      path,
		"region":    map[string]int{"x1": 4, "y1": 4, "x2": 16, "y2": 10},
		"output":    "grid",
	}), &got)
	if got.Rows != 6 || got.Cols != 12 {
		t.Errorf("extents: got %dx%d, want 6x12", got.Rows, got.Cols)
	}
}

func TestHandleApply_InvalidParams(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPixels = 100
	s := New(cfg, zerolog.Nop())
	path := createTestImageFile(t, 20, 20, image.Rect(5, 5, 15, 15))
	small := createTestImageFile(t, 8, 8, image.Rect(2, 2, 6, 6))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no source", map[string]interface{}{"operation": "erode"}},
		{"both sources", map[string]interface{}{"operation": "erode", "path": path, "grid": testImage}},
		{"unknown operation", map[string]interface{}{"operation": "skeletonize", "grid": testImage}},
		{"missing operation", map[string]interface{}{"grid": testImage}},
		{"ragged grid", map[string]interface{}{"operation": "erode", "grid": [][]int{{1, 0}, {1}}}},
		{"region on grid", map[string]interface{}{"operation": "erode", "grid": testImage, "region": map[string]int{"x1": 0, "y1": 0, "x2": 2, "y2": 2}}},
		{"image too large", map[string]interface{}{"operation": "erode", "path": path}},
		{"threshold out of range", map[string]interface{}{"operation": "erode", "path": small, "threshold": 300}},
		{"negative blur", map[string]interface{}{"operation": "erode", "path": small, "blur": -1}},
		{"bad region", map[string]interface{}{"operation": "erode", "path": small, "region": map[string]int{"x1": 5, "y1": 5, "x2": 2, "y2": 2}}},
		{"bad output", map[string]interface{}{"operation": "erode", "grid": testImage, "output": "svg"}},
		{"render too large", map[string]interface{}{"operation": "erode", "grid": testImage, "output": "image", "scale": 10}},
		{"empty mask", map[string]interface{}{"operation": "erode", "grid": testImage, "mask": [][]int{}}},
		{"overflowing mask", map[string]interface{}{"operation": "dilate", "grid": testImage, "mask_rows": 4294967296, "mask_cols": 4294967296}},
		{"unknown edge detector", map[string]interface{}{"operation": "erode", "path": small, "edges": "roberts"}},
		{"edges as bool", map[string]interface{}{"operation": "erode", "path": small, "edges": true}},
		{"low threshold above threshold", map[string]interface{}{"operation": "erode", "path": small, "edges": "canny", "threshold": 100, "low_threshold": 120}},
		{"negative low threshold", map[string]interface{}{"operation": "erode", "path": small, "edges": "canny", "low_threshold": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantErrorCode(t, callTool(t, s, "morph_apply", tt.args), codeInvalidParams)
		})
	}
}

func TestHandleHitAndMiss(t *testing.T) {
	s := newTestServer(t)
	img := testGrid(t)

	mask := [][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	m, _ := gridFromRows(mask, "mask")
	want, _ := morphology.HitAndMiss(img, m, grid.Filled[uint8](3, 3, 1))

	var got morphResult
	decodeText(t, callTool(t, s, "morph_hit_and_miss", map[string]interface{}{
		"grid": testImage,
		"mask": mask,
	}), &got)
	if !sameRows(got.Grid, intRows(want)) {
		t.Errorf("Grid:\ngot  %v\nwant %v", got.Grid, intRows(want))
	}
	if got.Stats.After.Foreground != 1 {
		t.Errorf("isolated pixels: got %d, want 1", got.Stats.After.Foreground)
	}

	sig := [][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	decodeText(t, callTool(t, s, "morph_hit_and_miss", map[string]interface{}{
		"grid":         testImage,
		"mask":         mask,
		"significance": sig,
	}), &got)
	if got.Stats.After.Foreground != img.Count() {
		t.Errorf("centre-only template: got %d pixels, want %d", got.Stats.After.Foreground, img.Count())
	}
}

func TestHandleHitAndMiss_Invalid(t *testing.T) {
	s := newTestServer(t)

	wantErrorCode(t, callTool(t, s, "morph_hit_and_miss", map[string]interface{}{"grid": testImage}), codeInvalidParams)
	wantErrorCode(t, callTool(t, s, "morph_hit_and_miss", map[string]interface{}{
		"grid":         testImage,
		"mask":         [][]int{{1, 1, 1}},
		"significance": [][]int{{1, 1}},
	}), codeInvalidParams)
}

func TestHandleThinShrinkBorder(t *testing.T) {
	s := newTestServer(t)
	img := testGrid(t)

	border, _ := morphology.Border(img)
	thinned, _ := morphology.Thin(img, -1)
	thinnedOnce, _ := morphology.Thin(img, 1)
	shrunk, _ := morphology.Shrink(img, 1)
	shrunkAll, _ := morphology.Shrink(img, -1)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want *grid.Grid[uint8]
	}{
		{"border", "morph_border", nil, border},
		{"thin default", "morph_thin", nil, thinned},
		{"thin once", "morph_thin", map[string]interface{}{"amount": 1}, thinnedOnce},
		{"thin huge amount", "morph_thin", map[string]interface{}{"amount": 1 << 30}, thinned},
		{"shrink default", "morph_shrink", nil, shrunk},
		{"shrink all", "morph_shrink", map[string]interface{}{"amount": -1}, shrunkAll},
		{"shrink huge amount", "morph_shrink", map[string]interface{}{"amount": 1 << 30}, shrunkAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{"grid": testImage}
			for k, v := range tt.args {
				args[k] = v
			}

			var got morphResult
			decodeText(t, callTool(t, s, tt.tool, args), &got)
			if !sameRows(got.Grid, intRows(tt.want)) {
				t.Errorf("Grid:\ngot  %v\nwant %v", got.Grid, intRows(tt.want))
			}
		})
	}
}

func TestHandleToolsCall_Serve(t *testing.T) {
	s := newTestServer(t)
	line := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"morph_border","arguments":{"grid":[[1,1,1],[1,1,1],[1,1,1]]}}}`

	resps := serve(t, s, line+"\n")
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}
	if resps[0].Error != nil {
		t.Fatalf("Unexpected error: %+v", resps[0].Error)
	}
	result := resps[0].Result.(map[string]interface{})
	items := result["content"].([]interface{})
	if len(items) != 1 {
		t.Errorf("got %d content items, want 1", len(items))
	}
}

func TestHandleComponents(t *testing.T) {
	s := newTestServer(t)

	var got struct {
		Rows       int `json:"rows"`
		Cols       int `json:"cols"`
		Count      int `json:"count"`
		Discarded  int `json:"discarded"`
		Components []struct {
			Area   int `json:"area"`
			Bounds struct {
				X1, Y1, X2, Y2 int
			} `json:"bounds"`
		} `json:"components"`
	}
	decodeText(t, callTool(t, s, "morph_components", map[string]interface{}{"grid": testImage}), &got)

	if got.Rows != 7 || got.Cols != 9 {
		t.Errorf("extents: got %dx%d, want 7x9", got.Rows, got.Cols)
	}
	if got.Count != 2 || len(got.Components) != 2 {
		t.Fatalf("Count: got %d, want 2", got.Count)
	}
	if got.Components[0].Area != 16 || got.Components[1].Area != 1 {
		t.Errorf("areas: got %d and %d, want 16 and 1", got.Components[0].Area, got.Components[1].Area)
	}
	if b := got.Components[1].Bounds; b.X1 != 7 || b.Y1 != 3 || b.X2 != 8 || b.Y2 != 4 {
		t.Errorf("isolated pixel bounds: got %+v", b)
	}

	decodeText(t, callTool(t, s, "morph_components", map[string]interface{}{
		"grid":     testImage,
		"min_area": 2,
	}), &got)
	if got.Count != 1 || got.Discarded != 1 {
		t.Errorf("min_area 2: got count %d discarded %d, want 1 and 1", got.Count, got.Discarded)
	}
}

func TestHandleComponents_Invalid(t *testing.T) {
	s := newTestServer(t)

	wantErrorCode(t, callTool(t, s, "morph_components", map[string]interface{}{
		"grid":         testImage,
		"connectivity": 6,
	}), codeInvalidParams)
	wantErrorCode(t, callTool(t, s, "morph_components", map[string]interface{}{
		"grid":     testImage,
		"min_area": -1,
	}), codeInvalidParams)
}

func TestHandleApply_EdgeDetectors(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 16, 12, image.Rect(4, 3, 12, 9))

	img, err := s.cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		args map[string]interface{}
		opts imaging.BinarizeOptions
	}{
		{"luminance", map[string]interface{}{}, imaging.BinarizeOptions{Threshold: 128}},
		{"sobel", map[string]interface{}{"edges": "sobel"}, imaging.BinarizeOptions{Threshold: 128, Edges: imaging.EdgesSobel}},
		{"canny default low", map[string]interface{}{"edges": "canny"}, imaging.BinarizeOptions{Threshold: 128, LowThreshold: 64, Edges: imaging.EdgesCanny}},
		{"canny explicit", map[string]interface{}{"edges": "canny", "threshold": 200, "low_threshold": 20}, imaging.BinarizeOptions{Threshold: 200, LowThreshold: 20, Edges: imaging.EdgesCanny}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{"operation": "dilate", "path": path, "output": "grid"}
			for k, v := range tt.args {
				args[k] = v
			}
			want, err := morphology.Dilate(imaging.Binarize(img, tt.opts), mustMask(t, morphology.MaskRectangular, 3, 3))
			if err != nil {
				t.Fatalf("Dilate: %v", err)
			}

			var got morphResult
			decodeText(t, callTool(t, s, "morph_apply", args), &got)
			if !sameRows(got.Grid, intRows(want)) {
				t.Errorf("Grid:\ngot  %v\nwant %v", got.Grid, intRows(want))
			}
		})
	}
}

func TestHandleToolsCall_ImageOverPixelLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPixels = 100
	s := New(cfg, zerolog.Nop())
	path := createTestImageFile(t, 20, 20, image.Rect(5, 5, 15, 15))

	for _, tool := range []string{"image_load", "image_dimensions"} {
		wantErrorCode(t, callTool(t, s, tool, map[string]interface{}{"path": path}), codeInvalidParams)
	}
	if s.cache.Len() != 0 {
		t.Errorf("oversized image was decoded into the cache, Len = %d", s.cache.Len())
	}
}
