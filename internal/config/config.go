// Package config loads the server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/text-extractor-mcp/internal/annotate"
	"github.com/ironsheep/text-extractor-mcp/internal/render"
)

// Environment variables read by Load.
const (
	EnvLogLevel         = "TEXT_EXTRACTOR_LOG_LEVEL"
	EnvLanguage         = "TEXT_EXTRACTOR_LANGUAGE"
	EnvTessdataPrefix   = "TESSDATA_PREFIX"
	EnvStrokeColor      = "TEXT_EXTRACTOR_STROKE_COLOR"
	EnvBackground       = "TEXT_EXTRACTOR_BACKGROUND"
	EnvLineWidth        = "TEXT_EXTRACTOR_LINE_WIDTH"
	EnvFontSize         = "TEXT_EXTRACTOR_FONT_SIZE"
	EnvCorrectMirroring = "TEXT_EXTRACTOR_CORRECT_MIRRORING"
	EnvNotFound         = "TEXT_EXTRACTOR_NOT_FOUND_INDICATOR"
)

// Config holds the server settings.
type Config struct {
	LogLevel       string
	Language       string
	TessdataPrefix string

	// Style is the default annotation style for new sets.
	Style annotate.Style

	// Background fills the letterbox bars of rendered images.
	Background string

	// CorrectMirroring flips mirrored EXIF orientations during normalization.
	CorrectMirroring bool

	// NotFoundIndicator shows a "?" over the image when no text is found.
	// Off unless enabled.
	NotFoundIndicator bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Language:   "eng",
		Style:      annotate.DefaultStyle(),
		Background: render.DefaultBackground,
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Load reads the configuration. Files are loaded with godotenv before the
// environment is read; variables already set in the environment win. A
// missing file is not an error.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset
// variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvLanguage); ok {
		cfg.Language = v
	}
	if v, ok := get(EnvTessdataPrefix); ok {
		cfg.TessdataPrefix = v
	}

	if v, ok := get(EnvStrokeColor); ok {
		hex, err := NormalizeHex(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvStrokeColor, err)
		}
		cfg.Style.StrokeColor = hex
	}
	if v, ok := get(EnvBackground); ok {
		hex, err := NormalizeHex(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvBackground, err)
		}
		cfg.Background = hex
	}

	if v, ok := get(EnvLineWidth); ok {
		n, err := positiveFloat(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLineWidth, err)
		}
		cfg.Style.LineWidth = n
	}
	if v, ok := get(EnvFontSize); ok {
		n, err := positiveFloat(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvFontSize, err)
		}
		cfg.Style.FontSize = n
	}

	if v, ok := get(EnvCorrectMirroring); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvCorrectMirroring, err)
		}
		cfg.CorrectMirroring = b
	}
	if v, ok := get(EnvNotFound); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvNotFound, err)
		}
		cfg.NotFoundIndicator = b
	}

	if err := cfg.Style.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NormalizeHex validates a hex color and returns it in "#rrggbb" form.
func NormalizeHex(s string) (string, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c.Hex(), nil
}

func positiveFloat(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("must be a finite positive number, got %g", n)
	}
	return n, nil
}
