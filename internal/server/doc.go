// Package server exposes the morphology library as MCP (Model Context
// Protocol) tools. Requests and responses are JSON-RPC 2.0 objects, one per
// line, read from stdin and written to stdout. The methods understood are
// initialize, notifications/initialized, tools/list, tools/call and ping.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Structuring Elements:
//   - morph_create_mask: Generate a rectangular, elliptical or diamond mask
//
// Transforms:
//   - morph_apply: Erode, dilate, open, close, top-hat or bottom-hat
//   - morph_hit_and_miss: Template match with don't-care cells
//   - morph_border: Edge pixels via the eight directional templates
//   - morph_thin: Connectivity-preserving thinning
//   - morph_shrink: Repeated border subtraction
//
// Measurement:
//   - morph_components: Connected foreground regions with bounds and area
//
// Every transform takes either a literal grid (rows of 0/1) or the path of an
// image file, which is optionally cropped and then binarized by luminance or
// gradient threshold. Results come back as a grid, a rendered PNG, or both,
// together with counts of the pixels the transform added and removed.
//
// # Error Handling
//
//   - -32700: the request line is not valid JSON
//   - -32601: unknown method
//   - -32602: the tool arguments are invalid
//   - -32000: any other tool failure (unreadable file, unknown tool)
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(config.Default(), logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
package server
