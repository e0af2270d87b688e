// Package appconfig loads the explorer's ambient CLI settings (output
// format, numeric precision, profiling, color) from an optional YAML
// file, the way cmd/gocnn-inference's InferenceConfig layers
// tool-specific settings on top of defaults.
package appconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds settings that shape how results are reported, not the
// search itself.
type Config struct {
	OutputFormat string `yaml:"output_format"` // "text", "json" or "csv"
	Precision    int    `yaml:"precision"`      // decimal places for reported latency/fps

	EnableProfiling bool `yaml:"enable_profiling"`
	ShowTiming      bool `yaml:"show_timing"`
	ColorOutput     bool `yaml:"color_output"`
}

// Default returns the explorer's built-in defaults, applied before any
// file on disk is consulted.
func Default() Config {
	return Config{
		OutputFormat: "text",
		Precision:    4,
		ShowTiming:   true,
		ColorOutput:  true,
	}
}

// Load reads path, if it exists, over Default(); a missing file is not
// an error, since the config file itself is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("appconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("appconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of legal values.
func Validate(cfg Config) error {
	switch cfg.OutputFormat {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("appconfig: invalid output_format %q", cfg.OutputFormat)
	}
	if cfg.Precision < 0 || cfg.Precision > 10 {
		return fmt.Errorf("appconfig: precision must be between 0 and 10, got %d", cfg.Precision)
	}
	return nil
}
