// Package server implements the MCP (Model Context Protocol) server for text
// extraction.
//
// The server exposes orientation normalization, view scaling and text
// annotation as tools, so an MCP client can pick an image, find the text in
// it and get back the overlay it would show on screen.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Loading & Orientation:
//   - image_load: Load image and get metadata, including the EXIF orientation
//   - image_normalize_orientation: Redraw the image upright
//   - image_crop_region: Zoom into a rectangle of the upright image
//
// Frame Scaling:
//   - image_scale_frame: Image rectangle to aspect-fit view rectangle
//   - image_unscale_frame: View rectangle back to image pixels
//
// Text Detection:
//   - image_detect_text: Recognize words and their boxes in image pixels
//   - image_annotate_text: Recognize, scale and build the overlay; optionally render it
//
// Annotation State:
//   - image_current_annotations: The set currently shown
//   - image_clear_annotations: Remove the current set
//   - text_engine_info: Recognition engine version and language
//
// # Annotation Lifecycle
//
// The server shows at most one annotation set at a time. Every
// image_annotate_text call removes the current set before recognition starts
// and attaches its own set when done. A call that was overtaken by a newer
// one fails instead of replacing the newer set.
//
// Images are normalized before recognition. If normalization fails the
// original image is used and the failure is logged; the call still succeeds.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.Load(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
