package annotate

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
	"github.com/ironsheep/text-extractor-mcp/internal/ocr"
)

// Mode selects what is drawn for each detection element.
type Mode int

const (
	// ModeOutline draws only the rectangle around each element.
	ModeOutline Mode = iota
	// ModeLabeled also draws the recognized text centered in the rectangle.
	ModeLabeled
)

func (m Mode) String() string {
	switch m {
	case ModeOutline:
		return "outline"
	case ModeLabeled:
		return "labeled"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "outline" or "labeled". The empty string means outline.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outline":
		return ModeOutline, nil
	case "labeled", "label", "text":
		return ModeLabeled, nil
	default:
		return 0, fmt.Errorf("unknown annotation mode: %q", s)
	}
}

// NotFoundText is the label of the indicator shown when nothing was detected.
const NotFoundText = "?"

// Style holds the fixed presentation constants of an annotation set.
type Style struct {
	StrokeColor      string  `json:"stroke_color"`
	LineWidth        float64 `json:"line_width"`
	FontSize         float64 `json:"font_size"`
	NotFoundFontSize float64 `json:"not_found_font_size"`
}

// DefaultStyle returns a yellow 3pt stroke with no fill and 12pt labels.
func DefaultStyle() Style {
	return Style{
		StrokeColor:      "#FFFF00",
		LineWidth:        3,
		FontSize:         12,
		NotFoundFontSize: 34,
	}
}

// MaxFontSize is the largest label font size, in points.
const MaxFontSize = 512

// Validate reports an error when the line width or a font size is not a
// finite positive number, or a font size exceeds MaxFontSize.
func (s Style) Validate() error {
	if !finitePositive(s.LineWidth) {
		return fmt.Errorf("line width must be a finite positive number, got %g", s.LineWidth)
	}
	for _, size := range []float64{s.FontSize, s.NotFoundFontSize} {
		if !finitePositive(size) || size > MaxFontSize {
			return fmt.Errorf("font size must be in (0, %d], got %g", MaxFontSize, size)
		}
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Label is text centered inside an annotation's frame.
type Label struct {
	Text     string            `json:"text"`
	Frame    geometry.ViewRect `json:"frame"`
	Center   geometry.Point    `json:"center"`
	FontSize float64           `json:"font_size"`
}

// Annotation is the overlay for one detection element, in view space.
type Annotation struct {
	// Frame is the element's rectangle scaled into the view.
	Frame geometry.ViewRect `json:"frame"`

	// Text is the recognized text of the element.
	Text string `json:"text"`

	// Outline is the closed rectangle path traced clockwise from the
	// top-left corner. It is stroked, never filled.
	Outline []geometry.Point `json:"outline"`

	// Label is present in ModeLabeled and for the not-found indicator.
	Label *Label `json:"label,omitempty"`
}

// Set is every annotation produced from one detection result.
type Set struct {
	ID          string            `json:"id"`
	Mode        string            `json:"mode"`
	Text        string            `json:"text"`
	ImageSize   geometry.Size     `json:"image_size"`
	View        geometry.ViewRect `json:"view"`
	Fit         geometry.Fit      `json:"fit"`
	Style       Style             `json:"style"`
	NotFound    bool              `json:"not_found"`
	Annotations []Annotation      `json:"annotations"`
}

// Len returns the number of annotations in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Annotations)
}

// Builder turns detection results into annotation sets.
type Builder struct {
	Mode  Mode
	Style Style

	// NotFoundIndicator adds a single "?" annotation covering the displayed
	// image when the detection is empty.
	NotFoundIndicator bool
}

// NewBuilder returns a builder with the default style.
func NewBuilder(mode Mode) *Builder {
	return &Builder{Mode: mode, Style: DefaultStyle()}
}

// Build scales every element of det into view and constructs its overlay.
//
// An empty or nil detection yields a set with no annotations and empty text,
// unless NotFoundIndicator is set. Build panics on non-positive image or view
// sizes, like geometry.AspectFit.
func (b *Builder) Build(det *ocr.Detection, image geometry.Size, view geometry.ViewRect) *Set {
	fit := geometry.AspectFit(image, view)

	set := &Set{
		ID:          uuid.NewString(),
		Mode:        b.Mode.String(),
		ImageSize:   image,
		View:        view,
		Fit:         fit,
		Style:       b.Style,
		Annotations: []Annotation{},
	}

	if det.Empty() {
		if b.NotFoundIndicator {
			set.NotFound = true
			set.Annotations = append(set.Annotations, labeled(fit.ImageFrame(), NotFoundText, b.Style.NotFoundFontSize))
		}
		return set
	}

	set.Text = det.FullText
	for _, e := range det.Elements {
		frame := fit.ToView(e.Bounds)
		if b.Mode == ModeLabeled {
			set.Annotations = append(set.Annotations, labeled(frame, e.Text, b.Style.FontSize))
			continue
		}
		set.Annotations = append(set.Annotations, Annotation{
			Frame:   frame,
			Text:    e.Text,
			Outline: outline(frame),
		})
	}
	return set
}

func labeled(frame geometry.ViewRect, text string, fontSize float64) Annotation {
	return Annotation{
		Frame:   frame,
		Text:    text,
		Outline: outline(frame),
		Label: &Label{
			Text:     text,
			Frame:    frame,
			Center:   frame.Center(),
			FontSize: fontSize,
		},
	}
}

// outline returns the closed path around frame: four corners and a repeat of
// the first.
func outline(frame geometry.ViewRect) []geometry.Point {
	corners := frame.Corners()
	return append(corners, corners[0])
}
