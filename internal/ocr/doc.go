// Package ocr recognizes text in images and reports where each word sits.
//
// Recognition is behind the Recognizer interface so that callers depend on a
// request/response contract rather than a particular engine. A request takes
// an upright image and returns exactly one *Detection or an error. A caller
// that issues a newer request is responsible for discarding the results of an
// older one; the recognizer itself never suppresses results.
//
// This package only defines the contract and has no cgo dependencies.
//
// # Tesseract
//
// Package ocr/tesseract wraps the engine via gosseract/v2. Tesseract
// must be installed on the system along with the language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Set TESSDATA_PREFIX (or the Engine.TessdataPrefix field) when the language data
// lives outside the engine's default search path.
//
// # Results
//
// A Detection holds the words in reading order, each with its bounding box in
// image pixels and a 0-1 confidence, plus the full recognized text. When the
// engine returns text but word boxes cannot be extracted, the Detection keeps
// the text and has no elements.
package ocr
