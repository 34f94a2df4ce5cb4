package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/morphology-mcp/internal/imaging"
	"github.com/ironsheep/morphology-mcp/internal/morphology"
)

// ToolCallParams are the params of a tools/call request. Arguments stay raw
// until the named tool decodes them into its own struct.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one tool and wraps its result as MCP content:
//
//	{
//	  "content": [
//	    {"type": "text", "text": "<JSON result>"},
//	    {"type": "image", "data": "<base64 PNG>", "mimeType": "image/png"}
//	  ]
//	}
//
// The image item is present only for morphology results rendered as PNG.
// Argument errors return code -32602; other tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")
		if isInvalidParams(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.log.Info().
		Str("tool", params.Name).
		Dur("elapsed", time.Since(start)).
		Msg("tool call")

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if mr, ok := result.(*morphResult); ok && mr.Image != nil {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     mr.Image.ImageBase64,
			"mimeType": mr.Image.MimeType,
		})
	}

	return reply(req.ID, map[string]interface{}{"content": content})
}

func isInvalidParams(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, errInvalidParams) ||
		errors.Is(err, morphology.ErrInvalidArgument) ||
		errors.Is(err, imaging.ErrImageTooLarge) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr)
}

// executeTool maps a tool name to its handler. Handlers decode their own
// arguments, fill defaults from the config and resolve the source grid.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Structuring Elements
	case "morph_create_mask":
		return s.handleCreateMask(args)

	// Transforms
	case "morph_apply":
		return s.handleApply(args)
	case "morph_hit_and_miss":
		return s.handleHitAndMiss(args)
	case "morph_border":
		return s.handleBorder(args)
	case "morph_thin":
		return s.handleThin(args)
	case "morph_shrink":
		return s.handleShrink(args)

	// Measurement
	case "morph_components":
		return s.handleComponents(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds a JSON-RPC error. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON renders v as indented JSON, or "" if it cannot be encoded.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

// path decodes the arguments and checks that a path was given.
func (a *imageLoadArgs) path(args json.RawMessage) (string, error) {
	if err := json.Unmarshal(args, a); err != nil {
		return "", err
	}
	if a.Path == "" {
		return "", invalidParams("path is required")
	}
	return a.Path, nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	path, err := new(imageLoadArgs).path(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	path, err := new(imageLoadArgs).path(args)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, path)
}
