package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load of a missing file = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output_format: json\nprecision: 6\ncolor_output: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFormat != "json" || cfg.Precision != 6 || cfg.ColorOutput {
		t.Errorf("got %+v, want overridden output_format/precision/color_output", cfg)
	}
	if !cfg.ShowTiming {
		t.Errorf("ShowTiming should keep its default (true) since the file doesn't override it")
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := Default()
	cfg.OutputFormat = "xml"
	if err := Validate(cfg); err == nil {
		t.Errorf("expected an error for an unsupported output_format")
	}
}

func TestValidateRejectsOutOfRangePrecision(t *testing.T) {
	cfg := Default()
	cfg.Precision = 20
	if err := Validate(cfg); err == nil {
		t.Errorf("expected an error for out-of-range precision")
	}
}
