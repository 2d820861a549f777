// Package render rasterizes an annotation set over its image, producing the
// picture a user would see and share: the image aspect-fit into the view with
// every outline and label drawn on top.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/text-extractor-mcp/internal/annotate"
	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
)

// DefaultBackground fills the letterbox bars around the image.
const DefaultBackground = "#000000"

// MaxCanvasPixels bounds the canvas Render will allocate.
const MaxCanvasPixels = 1 << 28

// maxCachedFaces bounds the label face cache.
const maxCachedFaces = 16

// CanvasSize returns the pixel size of the canvas for view: its width and
// height rounded up. It fails when the view is not finite and positive or the
// canvas would exceed MaxCanvasPixels.
func CanvasSize(view geometry.ViewRect) (w, h int, err error) {
	if !finitePositive(view.Width) || !finitePositive(view.Height) {
		return 0, 0, fmt.Errorf("render: view size must be finite and positive, got %gx%g", view.Width, view.Height)
	}
	fw, fh := math.Ceil(view.Width), math.Ceil(view.Height)
	if fw*fh > MaxCanvasPixels {
		return 0, 0, fmt.Errorf("render: %gx%g canvas exceeds %d pixels", fw, fh, MaxCanvasPixels)
	}
	return int(fw), int(fh), nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Render draws img aspect-fit into the set's view and strokes every
// annotation on top. The canvas is the size of the view, rounded up to whole
// pixels; the set's coordinates are relative to the canvas origin.
func Render(img image.Image, set *annotate.Set, background string) (*image.NRGBA, error) {
	if set == nil {
		return nil, fmt.Errorf("render: no annotation set")
	}
	if background == "" {
		background = DefaultBackground
	}

	bg, err := parseColor(background)
	if err != nil {
		return nil, fmt.Errorf("invalid background color: %w", err)
	}
	stroke, err := parseColor(set.Style.StrokeColor)
	if err != nil {
		return nil, fmt.Errorf("invalid stroke color: %w", err)
	}

	w, h, err := CanvasSize(set.View)
	if err != nil {
		return nil, err
	}
	canvas := imaging.New(w, h, bg)

	fw := int(math.Round(set.Fit.Footprint.Width))
	fh := int(math.Round(set.Fit.Footprint.Height))
	if fw > 0 && fh > 0 {
		fitted := imaging.Resize(img, fw, fh, imaging.Lanczos)
		canvas = imaging.Paste(canvas, fitted, image.Pt(
			int(math.Round(set.Fit.Offset.X)),
			int(math.Round(set.Fit.Offset.Y)),
		))
	}

	for _, a := range set.Annotations {
		strokeRect(canvas, a.Frame.X, a.Frame.Y, a.Frame.Width, a.Frame.Height, set.Style.LineWidth, stroke)
		if a.Label != nil {
			if err := drawLabel(canvas, a.Label, stroke); err != nil {
				return nil, err
			}
		}
	}

	return canvas, nil
}

// parseColor accepts "#RRGGBB" hex colors.
func parseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// strokeRect draws a rectangle outline of the given line width centered on
// the rectangle's edges. The interior is left untouched.
func strokeRect(dst draw.Image, x, y, w, h, lineWidth float64, c color.Color) {
	if lineWidth <= 0 {
		return
	}
	half := lineWidth / 2
	src := image.NewUniform(c)

	outer := image.Rect(
		int(math.Floor(x-half)), int(math.Floor(y-half)),
		int(math.Ceil(x+w+half)), int(math.Ceil(y+h+half)),
	)
	inner := image.Rect(
		int(math.Ceil(x+half)), int(math.Ceil(y+half)),
		int(math.Floor(x+w-half)), int(math.Floor(y+h-half)),
	)
	if inner.Empty() {
		draw.Draw(dst, outer, src, image.Point{}, draw.Over)
		return
	}

	bands := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y), // top
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y), // bottom
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), // left
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y), // right
	}
	for _, band := range bands {
		draw.Draw(dst, band, src, image.Point{}, draw.Over)
	}
}

// drawLabel draws the label's text centered on its center point.
func drawLabel(dst draw.Image, l *annotate.Label, c color.Color) error {
	face, err := faceForSize(l.FontSize)
	if err != nil {
		return err
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(l.Text)
	metrics := face.Metrics()
	height := metrics.Ascent + metrics.Descent

	d.Dot = fixed.Point26_6{
		X: floatToFixed(l.Center.X) - width/2,
		Y: floatToFixed(l.Center.Y) - height/2 + metrics.Ascent,
	}
	d.DrawString(l.Text)
	return nil
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

var (
	fontOnce  sync.Once
	fontErr   error
	regular   *opentype.Font
	facesMu   sync.Mutex
	facesSize = map[float64]font.Face{}
)

// faceForSize returns the Go Regular face at size points (72 DPI, so one
// point is one view unit). Sizes are rounded to a quarter point and up to
// maxCachedFaces faces are kept; the cache is reset when it is full.
func faceForSize(size float64) (font.Face, error) {
	if !finitePositive(size) || size > annotate.MaxFontSize {
		return nil, fmt.Errorf("label font size must be in (0, %d], got %g", annotate.MaxFontSize, size)
	}
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", fontErr)
	}

	key := math.Max(math.Round(size*4)/4, 0.25)

	facesMu.Lock()
	defer facesMu.Unlock()

	if face, ok := facesSize[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    key,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	if len(facesSize) >= maxCachedFaces {
		facesSize = map[float64]font.Face{}
	}
	facesSize[key] = face
	return face, nil
}
