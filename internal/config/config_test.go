package config

import (
	"os"
	"path/filepath"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Language != "eng" {
		t.Errorf("Language: got %s, want eng", cfg.Language)
	}
	if cfg.Style.StrokeColor != "#FFFF00" {
		t.Errorf("StrokeColor: got %s, want #FFFF00", cfg.Style.StrokeColor)
	}
	if cfg.Style.LineWidth != 3 {
		t.Errorf("LineWidth: got %g, want 3", cfg.Style.LineWidth)
	}
	if cfg.Style.FontSize != 12 {
		t.Errorf("FontSize: got %g, want 12", cfg.Style.FontSize)
	}
	if cfg.CorrectMirroring {
		t.Error("CorrectMirroring should default to false")
	}
	if cfg.NotFoundIndicator {
		t.Error("NotFoundIndicator should default to false")
	}
	if cfg.Debug() {
		t.Error("Debug should be off by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		EnvLogLevel:         "DEBUG",
		EnvLanguage:         "eng+deu",
		EnvTessdataPrefix:   "/usr/share/tessdata",
		EnvStrokeColor:      "ff0000",
		EnvBackground:       "#FFFFFF",
		EnvLineWidth:        "1.5",
		EnvFontSize:         "16",
		EnvCorrectMirroring: "true",
		EnvNotFound:         "1",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if !cfg.Debug() {
		t.Error("Debug should be on")
	}
	if cfg.Language != "eng+deu" {
		t.Errorf("Language: got %s", cfg.Language)
	}
	if cfg.TessdataPrefix != "/usr/share/tessdata" {
		t.Errorf("TessdataPrefix: got %s", cfg.TessdataPrefix)
	}
	if cfg.Style.StrokeColor != "#ff0000" {
		t.Errorf("StrokeColor: got %s, want #ff0000", cfg.Style.StrokeColor)
	}
	if cfg.Background != "#ffffff" {
		t.Errorf("Background: got %s, want #ffffff", cfg.Background)
	}
	if cfg.Style.LineWidth != 1.5 || cfg.Style.FontSize != 16 {
		t.Errorf("style: got line %g font %g", cfg.Style.LineWidth, cfg.Style.FontSize)
	}
	if !cfg.CorrectMirroring {
		t.Error("CorrectMirroring should be true")
	}
	if !cfg.NotFoundIndicator {
		t.Error("NotFoundIndicator should be true")
	}
}

func TestFromEnv_BlankValuesIgnored(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		EnvLanguage:  "  ",
		EnvLineWidth: "",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Language != "eng" || cfg.Style.LineWidth != 3 {
		t.Errorf("blank values should keep defaults, got %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"color", EnvStrokeColor, "yellowish"},
		{"background", EnvBackground, "#12"},
		{"line width", EnvLineWidth, "thick"},
		{"zero line width", EnvLineWidth, "0"},
		{"negative font", EnvFontSize, "-4"},
		{"NaN line width", EnvLineWidth, "NaN"},
		{"Inf line width", EnvLineWidth, "+Inf"},
		{"Inf font", EnvFontSize, "Inf"},
		{"font too large", EnvFontSize, "100000"},
		{"mirroring", EnvCorrectMirroring, "maybe"},
		{"indicator", EnvNotFound, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(lookupFrom(map[string]string{tt.key: tt.val})); err == nil {
				t.Errorf("%s=%q should fail", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := EnvLanguage + "=fra\n" + EnvFontSize + "=20\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	// godotenv never overrides variables already present
	t.Setenv(EnvFontSize, "14")
	os.Unsetenv(EnvLanguage)
	t.Cleanup(func() { os.Unsetenv(EnvLanguage) })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Language != "fra" {
		t.Errorf("Language: got %s, want fra", cfg.Language)
	}
	if cfg.Style.FontSize != 14 {
		t.Errorf("FontSize: got %g, want 14 from the environment", cfg.Style.FontSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
