package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_normalize_orientation",
		"image_crop_region",
		"image_scale_frame",
		"image_unscale_frame",
		"image_detect_text",
		"image_annotate_text",
		"image_current_annotations",
		"image_clear_annotations",
		"text_engine_info",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema.type: got %v, want object", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema.properties should be a map")
			}

			// Every required parameter must be declared
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, name := range required {
					if _, ok := props[name]; !ok {
						t.Errorf("required parameter %s is not a property", name)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	props := tools["image_annotate_text"].InputSchema["properties"].(map[string]interface{})

	mode := props["mode"].(map[string]interface{})
	if mode["default"] != "outline" {
		t.Errorf("mode default: got %v, want outline", mode["default"])
	}
	render := props["render"].(map[string]interface{})
	if render["default"] != false {
		t.Errorf("render default: got %v, want false", render["default"])
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
