package ocr

import (
	"context"
	"image"

	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
)

// Element is one recognized word with its location in the source image.
type Element struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is the engine's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the word's bounding box in image pixels.
	Bounds geometry.ImageRect `json:"bounds"`
}

// Detection is the result of one recognition request.
type Detection struct {
	// FullText is all recognized text with its original spacing and newlines.
	FullText string `json:"full_text"`

	// Elements are the recognized words in reading order.
	Elements []Element `json:"elements"`
}

// Empty reports whether the detection found no words.
func (d *Detection) Empty() bool {
	return d == nil || len(d.Elements) == 0
}

// Recognizer runs text recognition over an upright image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (*Detection, error)
}

// RecognizerFunc adapts an ordinary function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image) (*Detection, error)

// Recognize calls f(ctx, img).
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) (*Detection, error) {
	return f(ctx, img)
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Language  string `json:"language"`
}
