// Package tesseract implements ocr.Recognizer with the Tesseract engine via
// gosseract/v2. It needs the Tesseract and Leptonica libraries at build time.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
	"github.com/ironsheep/text-extractor-mcp/internal/imaging"
	"github.com/ironsheep/text-extractor-mcp/internal/ocr"
)

// Engine recognizes words with the Tesseract engine.
type Engine struct {
	// Language is a Tesseract language code such as "eng", or several joined
	// with "+" ("eng+deu").
	Language string

	// TessdataPrefix overrides the engine's language data directory when set.
	TessdataPrefix string
}

// New returns a Tesseract recognizer for the given language.
func New(language, tessdataPrefix string) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{Language: language, TessdataPrefix: tessdataPrefix}
}

// Recognize performs word-level OCR on img.
//
// The engine call cannot be interrupted. When ctx is done first, Recognize
// returns ctx.Err() immediately and the engine finishes in the background,
// its result discarded.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (*ocr.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := imaging.EncodePNGBytes(img)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		det *ocr.Detection
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		det, err := e.recognizeBytes(data)
		done <- outcome{det: det, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.det, o.err
	}
}

func (e *Engine) recognizeBytes(data []byte) (*ocr.Detection, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if e.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(strings.Split(e.Language, "+")...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &ocr.Detection{FullText: text, Elements: []ocr.Element{}}, nil
	}

	return detectionFromBoxes(text, boxes), nil
}

// detectionFromBoxes converts word boxes into elements, dropping empty words.
func detectionFromBoxes(text string, boxes []gosseract.BoundingBox) *ocr.Detection {
	elements := make([]ocr.Element, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		elements = append(elements, ocr.Element{
			Text:       word,
			Confidence: box.Confidence / 100.0,
			Bounds: geometry.ImageRect{
				X:      float64(box.Box.Min.X),
				Y:      float64(box.Box.Min.Y),
				Width:  float64(box.Box.Dx()),
				Height: float64(box.Box.Dy()),
			},
		})
	}

	return &ocr.Detection{
		FullText: text,
		Elements: elements,
	}
}

// Info reports the engine version.
func (e *Engine) Info() ocr.Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return ocr.Info{
		Available: version != "",
		Version:   version,
		Backend:   "gosseract",
		Language:  e.Language,
	}
}
