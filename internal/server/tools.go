package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var correctMirroringProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Also undo the horizontal flip of mirrored EXIF orientations (2, 4, 5, 7). Defaults to the server setting.",
}

// rectSchema describes an {x, y, width, height} object.
func rectSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "number"},
			"y":      map[string]interface{}{"type": "number"},
			"width":  map[string]interface{}{"type": "number"},
			"height": map[string]interface{}{"type": "number"},
		},
		"required": []string{"width", "height"},
	}
}

// frameProperties are shared by the scale and unscale tools. The image size
// comes from either path or image_width/image_height.
func frameProperties(rectDescription string) map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Image whose upright size to use. Alternative to image_width/image_height.",
		},
		"image_width": map[string]interface{}{
			"type":        "number",
			"description": "Image width in pixels",
		},
		"image_height": map[string]interface{}{
			"type":        "number",
			"description": "Image height in pixels",
		},
		"view": rectSchema("View the image is aspect-fit into"),
		"rect": rectSchema(rectDescription),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Loading & Orientation
		{
			Name:        "image_load",
			Description: "Load an image file and return its stored and upright dimensions, format and EXIF orientation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_normalize_orientation",
			Description: "Redraw an image upright according to its EXIF orientation and return it as base64-encoded PNG. If the image cannot be redrawn the original is returned with normalized=false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":              pathProperty,
					"correct_mirroring": correctMirroringProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop_region",
			Description: "Crop a rectangle of the upright image, e.g. a detected word's bounds, and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rect": rectSchema("Rectangle in upright image pixels"),
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added on every side. Default 0",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"correct_mirroring": correctMirroringProperty,
				},
				"required": []string{"path", "rect"},
			},
		},

		// Frame Scaling
		{
			Name:        "image_scale_frame",
			Description: "Map a rectangle in image pixels to the rectangle it covers when the image is aspect-fit (letterboxed) into a view. The result is relative to the view's own origin.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": frameProperties("Rectangle in image pixel coordinates"),
				"required":   []string{"view", "rect"},
			},
		},
		{
			Name:        "image_unscale_frame",
			Description: "Map a rectangle in view coordinates back to image pixels. Inverse of image_scale_frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": frameProperties("Rectangle in view coordinates"),
				"required":   []string{"view", "rect"},
			},
		},

		// Text Detection
		{
			Name:        "image_detect_text",
			Description: "Normalize the image orientation, then recognize its text. Returns the full text and every word with its bounding box in upright image pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":              pathProperty,
					"correct_mirroring": correctMirroringProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_annotate_text",
			Description: "Detect text and build the overlay for the image shown in a view: one outline per word, optionally labeled with the recognized text. The result replaces the current annotations. Set render=true to also get the annotated image as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"view": rectSchema("View the image is shown in. Defaults to the upright image size."),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"outline", "labeled"},
						"description": "outline draws boxes only; labeled also draws the text centered in each box. Default: outline",
						"default":     "outline",
					},
					"not_found_indicator": map[string]interface{}{
						"type":        "boolean",
						"description": "Show a \"?\" over the image when no text is found. Defaults to the server setting (off).",
					},
					"render": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the annotated image. Default: false",
						"default":     false,
					},
					"stroke_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline and label color as hex, e.g. \"#FFFF00\"",
					},
					"line_width": map[string]interface{}{
						"type":        "number",
						"description": "Outline width in view units",
					},
					"font_size": map[string]interface{}{
						"type":        "number",
						"description": "Label font size in points, at most 512",
					},
					"correct_mirroring": correctMirroringProperty,
				},
				"required": []string{"path"},
			},
		},

		// Annotation State
		{
			Name:        "image_current_annotations",
			Description: "Return the annotation set currently shown, if any.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_clear_annotations",
			Description: "Remove the current annotations.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "text_engine_info",
			Description: "Report the text recognition engine, its version and language.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
