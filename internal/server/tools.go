package server

import "github.com/ironsheep/morphology-mcp/internal/morphology"

// Tool is one entry of the tools/list result.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// object is a JSON Schema fragment.
type object = map[string]interface{}

var maskShapes = []string{"rectangular", "elliptical", "diamond"}

// GetToolDefinitions lists every tool the server answers, in the order
// tools/list reports them.
func GetToolDefinitions() []Tool {
	pathOnly := objectSchema(object{
		"path": prop("string", "Absolute path to the image file"),
	}, "path")

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and colour model. The decoded image is cached for later morphology calls on the same path.",
			InputSchema: pathOnly,
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: pathOnly,
		},
		{
			Name:        "morph_create_mask",
			Description: "Generate a structuring element (rectangular, elliptical or diamond) as rows of 0/1. The origin is at (rows/2, cols/2).",
			InputSchema: objectSchema(object{
				"shape": enumProp("string", "Mask shape. Default from server config (rectangular)", maskShapes),
				"rows":  prop("integer", "Mask height. Default from server config (3)"),
				"cols":  prop("integer", "Mask width. 0 makes a square mask"),
			}),
		},
		{
			Name:        "morph_apply",
			Description: "Run a binary morphology operation (erode, dilate, open, close, tophat, bottomhat) on an image file or a literal grid.",
			InputSchema: sourceSchema(object{
				"operation":      enumProp("string", "Operation to run", operationNames()),
				"mask_shape":     enumProp("string", "Generated mask shape. Ignored when mask is given", maskShapes),
				"mask_rows":      prop("integer", "Generated mask height"),
				"mask_cols":      prop("integer", "Generated mask width. 0 makes a square mask"),
				"mask":           gridSchema("Literal structuring element; nonzero cells are foreground"),
				"handle_borders": prop("boolean", "Erosion only: replicate image edges so border pixels can survive. Default true"),
			}, "operation"),
		},
		{
			Name:        "morph_hit_and_miss",
			Description: "Mark pixels whose neighbourhood matches a template exactly. Foreground mask cells need foreground pixels and background cells need background; cells with zero significance are ignored.",
			InputSchema: sourceSchema(object{
				"mask":         gridSchema("Template; nonzero cells are foreground"),
				"significance": gridSchema("Same extents as mask; zero cells are \"don't care\". Default: every cell significant"),
			}, "mask"),
		},
		{
			Name:        "morph_border",
			Description: "Mark the edge pixels of every shape using the eight directional border templates.",
			InputSchema: sourceSchema(nil),
		},
		{
			Name:        "morph_thin",
			Description: "Peel edge pixels off shapes while keeping them connected. A negative amount thins until nothing changes.",
			InputSchema: sourceSchema(object{
				"amount": prop("integer", "Number of sweeps. Default -1 (until stable)"),
			}),
		},
		{
			Name:        "morph_shrink",
			Description: "Subtract the shape borders repeatedly. A negative amount shrinks until nothing changes.",
			InputSchema: sourceSchema(object{
				"amount": prop("integer", "Number of border removals. Default 1"),
			}),
		},
		{
			Name:        "morph_components",
			Description: "Label the connected foreground regions of a binary image and report each one's bounding box, area, fill ratio and centroid, largest first.",
			InputSchema: withoutOutput(sourceSchema(object{
				"min_area":     prop("integer", "Smallest component (in pixels) to report. Default 1"),
				"connectivity": enumProp("integer", "Neighbourhood used to join pixels. Default 8", []int{4, 8}),
			})),
		},
	}
}

func operationNames() []string {
	ops := morphology.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

func prop(typ, description string) object {
	return object{"type": typ, "description": description}
}

func enumProp(typ, description string, values interface{}) object {
	p := prop(typ, description)
	p["enum"] = values
	return p
}

func objectSchema(props object, required ...string) object {
	schema := object{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func gridSchema(description string) object {
	p := prop("array", description)
	p["items"] = object{"type": "array", "items": object{"type": "integer"}}
	return p
}

// withoutOutput drops the rendering properties from a source schema.
func withoutOutput(schema object) object {
	props := schema["properties"].(object)
	for _, k := range []string{"output", "scale", "cell_lines"} {
		delete(props, k)
	}
	return schema
}

// sourceSchema builds the input schema of a morphology tool: the shared
// source and output properties plus the tool's own.
func sourceSchema(extra object, required ...string) object {
	props := object{
		"path": prop("string", "Absolute path to an image file to binarize. Exactly one of path and grid is required"),
		"grid": gridSchema("Literal binary image; nonzero cells are foreground"),
		"region": object{
			"type":        "object",
			"description": "Optional region of the image file to process",
			"properties": object{
				"x1": object{"type": "integer"},
				"y1": object{"type": "integer"},
				"x2": object{"type": "integer"},
				"y2": object{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"threshold":  prop("integer", "Luminance (0-255) at or above which a pixel is foreground. Default from server config (128)"),
		"invert":     prop("boolean", "Make dark pixels (or zero grid cells) foreground"),
		"edges":         enumProp("string", "Edge detector run before thresholding: sobel thresholds the gradient magnitude, canny keeps thin connected edges. Default none", []string{"none", "sobel", "canny"}),
		"low_threshold": prop("integer", "Canny weak edge level (0 to threshold); threshold is the strong level. Default threshold/2"),
		"blur":       prop("number", "Gaussian blur radius applied before binarizing. Default 0"),
		"output":     enumProp("string", "Result format. Default grid for literal grids, image for files", []string{"grid", "image", "both"}),
		"scale":      prop("integer", "Pixels per cell in rendered images. Default from server config"),
		"cell_lines": prop("boolean", "Draw lines between cells in rendered images (scale 3 or more)"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return objectSchema(props, required...)
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
