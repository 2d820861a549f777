package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/text-extractor-mcp/internal/annotate"
	"github.com/ironsheep/text-extractor-mcp/internal/config"
	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
	"github.com/ironsheep/text-extractor-mcp/internal/imaging"
	"github.com/ironsheep/text-extractor-mcp/internal/ocr"
	"github.com/ironsheep/text-extractor-mcp/internal/render"
)

// recognizeTimeout bounds a single text recognition call.
const recognizeTimeout = 2 * time.Minute

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_annotate_text").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Loading & Orientation
	case "image_load":
		return s.handleImageLoad(args)
	case "image_normalize_orientation":
		return s.handleNormalizeOrientation(args)
	case "image_crop_region":
		return s.handleCropRegion(args)

	// Frame Scaling
	case "image_scale_frame":
		return s.handleScaleFrame(args)
	case "image_unscale_frame":
		return s.handleUnscaleFrame(args)

	// Text Detection
	case "image_detect_text":
		return s.handleDetectText(args)
	case "image_annotate_text":
		return s.handleAnnotateText(args)

	// Annotation State
	case "image_current_annotations":
		return s.handleCurrentAnnotations(args)
	case "image_clear_annotations":
		return s.handleClearAnnotations(args)
	case "text_engine_info":
		return s.handleEngineInfo(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// normalize redraws b upright. When that fails the error is logged and the
// original bitmap is returned with ok=false, so callers keep working on the
// image as stored.
func (s *Server) normalize(b *imaging.Bitmap, correctMirroring *bool) (out *imaging.Bitmap, ok bool, err error) {
	opts := imaging.NormalizeOptions{CorrectMirroring: s.cfg.CorrectMirroring}
	if correctMirroring != nil {
		opts.CorrectMirroring = *correctMirroring
	}

	out, err = imaging.Normalize(b, opts)
	if err != nil {
		log.Printf("Orientation normalization failed, using original image: %v", err)
		return b, false, err
	}
	return out, true, nil
}

// recognize runs the recognizer on the upright image.
func (s *Server) recognize(img *imaging.Bitmap) (*ocr.Detection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), recognizeTimeout)
	defer cancel()

	start := time.Now()
	det, err := s.recognizer.Recognize(ctx, img.Image)
	if err != nil {
		return nil, fmt.Errorf("text recognition failed: %w", err)
	}
	if det == nil {
		det = &ocr.Detection{}
	}
	if s.cfg.Debug() {
		log.Printf("Recognized %d elements in %v", len(det.Elements), time.Since(start))
	}
	return det, nil
}

// === Loading & Orientation Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type normalizeArgs struct {
	Path             string `json:"path"`
	CorrectMirroring *bool  `json:"correct_mirroring"`
}

// NormalizeResult is the upright image, or the original when it could not be
// redrawn.
type NormalizeResult struct {
	Normalized      bool                  `json:"normalized"`
	Orientation     int                   `json:"orientation"`
	OrientationName string                `json:"orientation_name"`
	Error           string                `json:"error,omitempty"`
	Image           *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleNormalizeOrientation(args json.RawMessage) (interface{}, error) {
	var a normalizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	upright, ok, nerr := s.normalize(b, a.CorrectMirroring)
	encoded, err := imaging.EncodePNG(upright.Image)
	if err != nil {
		return nil, err
	}

	result := &NormalizeResult{
		Normalized:      ok,
		Orientation:     int(b.Orientation),
		OrientationName: b.Orientation.String(),
		Image:           encoded,
	}
	if nerr != nil {
		result.Error = nerr.Error()
	}
	return result, nil
}

type cropRegionArgs struct {
	Path             string    `json:"path"`
	Rect             *rectArgs `json:"rect"`
	Padding          int       `json:"padding"`
	Scale            float64   `json:"scale"`
	CorrectMirroring *bool     `json:"correct_mirroring"`
}

func (s *Server) handleCropRegion(args json.RawMessage) (interface{}, error) {
	var a cropRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Rect == nil {
		return nil, fmt.Errorf("rect is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	b, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	upright, _, _ := s.normalize(b, a.CorrectMirroring)
	return imaging.CropRegion(upright.Image, a.Rect.image(), a.Padding, a.Scale)
}

// === Frame Scaling Handlers ===

type rectArgs struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r rectArgs) view() geometry.ViewRect {
	return geometry.ViewRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (r rectArgs) image() geometry.ImageRect {
	return geometry.ImageRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

type frameArgs struct {
	Path        string    `json:"path"`
	ImageWidth  float64   `json:"image_width"`
	ImageHeight float64   `json:"image_height"`
	View        *rectArgs `json:"view"`
	Rect        *rectArgs `json:"rect"`
}

// FrameResult is a rectangle mapped between image and view space together
// with the fit that mapped it.
type FrameResult struct {
	ImageSize geometry.Size      `json:"image_size"`
	View      geometry.ViewRect  `json:"view"`
	Fit       geometry.Fit       `json:"fit"`
	ImageRect geometry.ImageRect `json:"image_rect"`
	ViewRect  geometry.ViewRect  `json:"view_rect"`
}

// parseFrameArgs resolves the image size and validates the view. AspectFit
// panics on non-positive sizes, so they are rejected here.
func (s *Server) parseFrameArgs(args json.RawMessage) (*frameArgs, geometry.Size, geometry.ViewRect, error) {
	var a frameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, geometry.Size{}, geometry.ViewRect{}, err
	}
	if a.View == nil || a.Rect == nil {
		return nil, geometry.Size{}, geometry.ViewRect{}, fmt.Errorf("view and rect are required")
	}

	size := geometry.Size{Width: a.ImageWidth, Height: a.ImageHeight}
	if a.Path != "" {
		b, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, geometry.Size{}, geometry.ViewRect{}, err
		}
		size = b.DisplaySize()
	}

	view := a.View.view()
	if err := checkSizes(size, view); err != nil {
		return nil, geometry.Size{}, geometry.ViewRect{}, err
	}
	return &a, size, view, nil
}

func checkSizes(image geometry.Size, view geometry.ViewRect) error {
	if image.Width <= 0 || image.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %gx%g", image.Width, image.Height)
	}
	if view.Width <= 0 || view.Height <= 0 {
		return fmt.Errorf("view size must be positive, got %gx%g", view.Width, view.Height)
	}
	return nil
}

func (s *Server) handleScaleFrame(args json.RawMessage) (interface{}, error) {
	a, size, view, err := s.parseFrameArgs(args)
	if err != nil {
		return nil, err
	}
	fit := geometry.AspectFit(size, view)
	r := a.Rect.image()
	return &FrameResult{
		ImageSize: size,
		View:      view,
		Fit:       fit,
		ImageRect: r,
		ViewRect:  fit.ToView(r),
	}, nil
}

func (s *Server) handleUnscaleFrame(args json.RawMessage) (interface{}, error) {
	a, size, view, err := s.parseFrameArgs(args)
	if err != nil {
		return nil, err
	}
	fit := geometry.AspectFit(size, view)
	r := a.Rect.view()
	return &FrameResult{
		ImageSize: size,
		View:      view,
		Fit:       fit,
		ImageRect: fit.ToImage(r),
		ViewRect:  r,
	}, nil
}

// === Text Detection Handlers ===

type detectTextArgs struct {
	Path             string `json:"path"`
	CorrectMirroring *bool  `json:"correct_mirroring"`
}

// DetectTextResult is a recognition result in upright image pixels.
type DetectTextResult struct {
	Normalized  bool          `json:"normalized"`
	ImageWidth  int           `json:"image_width"`
	ImageHeight int           `json:"image_height"`
	Text        string        `json:"text"`
	Empty       bool          `json:"empty"`
	Elements    []ocr.Element `json:"elements"`
}

func (s *Server) handleDetectText(args json.RawMessage) (interface{}, error) {
	var a detectTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	upright, ok, _ := s.normalize(b, a.CorrectMirroring)
	det, err := s.recognize(upright)
	if err != nil {
		return nil, err
	}

	size := upright.PixelSize()
	result := &DetectTextResult{
		Normalized:  ok,
		ImageWidth:  int(size.Width),
		ImageHeight: int(size.Height),
		Empty:       det.Empty(),
		Elements:    []ocr.Element{},
	}
	if !det.Empty() {
		result.Text = det.FullText
		result.Elements = det.Elements
	}
	return result, nil
}

type annotateTextArgs struct {
	Path              string    `json:"path"`
	View              *rectArgs `json:"view"`
	Mode              string    `json:"mode"`
	NotFoundIndicator *bool     `json:"not_found_indicator"`
	Render            bool      `json:"render"`
	StrokeColor       string    `json:"stroke_color"`
	LineWidth         float64   `json:"line_width"`
	FontSize          float64   `json:"font_size"`
	CorrectMirroring  *bool     `json:"correct_mirroring"`
}

// AnnotateResult is the annotation set now shown for the image.
type AnnotateResult struct {
	Ticket     string                `json:"ticket"`
	Normalized bool                  `json:"normalized"`
	Set        *annotate.Set         `json:"set"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleAnnotateText(args json.RawMessage) (interface{}, error) {
	var a annotateTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	mode, err := annotate.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	builder, err := s.builder(mode, &a)
	if err != nil {
		return nil, err
	}

	b, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	upright, ok, _ := s.normalize(b, a.CorrectMirroring)

	// Boxes come back in the pixel space of the image that was recognized.
	size := upright.PixelSize()
	view := geometry.ViewRect{Width: size.Width, Height: size.Height}
	if a.View != nil {
		view = a.View.view()
	}
	if err := checkSizes(size, view); err != nil {
		return nil, err
	}
	if a.Render {
		if _, _, err := render.CanvasSize(view); err != nil {
			return nil, err
		}
	}

	ticket := s.display.Begin()

	det, err := s.recognize(upright)
	if err != nil {
		return nil, err
	}

	set := builder.Build(det, size, view)
	if err := s.display.Attach(ticket, set); err != nil {
		if errors.Is(err, annotate.ErrStale) {
			log.Printf("Discarding annotations for %s: %v", a.Path, err)
		}
		return nil, err
	}

	result := &AnnotateResult{
		Ticket:     ticket.ID,
		Normalized: ok,
		Set:        set,
	}

	if a.Render {
		canvas, err := render.Render(upright.Image, set, s.cfg.Background)
		if err != nil {
			return nil, err
		}
		result.Image, err = imaging.EncodePNG(canvas)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// builder applies the per-call style overrides to the configured style.
func (s *Server) builder(mode annotate.Mode, a *annotateTextArgs) (*annotate.Builder, error) {
	b := annotate.NewBuilder(mode)
	b.Style = s.cfg.Style
	b.NotFoundIndicator = s.cfg.NotFoundIndicator
	if a.NotFoundIndicator != nil {
		b.NotFoundIndicator = *a.NotFoundIndicator
	}

	if a.StrokeColor != "" {
		hex, err := config.NormalizeHex(a.StrokeColor)
		if err != nil {
			return nil, err
		}
		b.Style.StrokeColor = hex
	}
	if a.LineWidth < 0 || a.FontSize < 0 {
		return nil, fmt.Errorf("line_width and font_size must be positive")
	}
	if a.LineWidth > 0 {
		b.Style.LineWidth = a.LineWidth
	}
	if a.FontSize > 0 {
		b.Style.FontSize = a.FontSize
	}
	if err := b.Style.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// === Annotation State Handlers ===

// CurrentResult reports the live annotation set.
type CurrentResult struct {
	Present bool          `json:"present"`
	Set     *annotate.Set `json:"set,omitempty"`
}

func (s *Server) handleCurrentAnnotations(args json.RawMessage) (interface{}, error) {
	set, ok := s.display.Current()
	return &CurrentResult{Present: ok, Set: set}, nil
}

func (s *Server) handleClearAnnotations(args json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"removed": s.display.Clear(),
	}, nil
}

func (s *Server) handleEngineInfo(args json.RawMessage) (interface{}, error) {
	if t, ok := s.recognizer.(interface{ Info() ocr.Info }); ok {
		return t.Info(), nil
	}
	return ocr.Info{Available: true, Backend: "custom", Language: s.cfg.Language}, nil
}
