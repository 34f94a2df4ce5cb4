// Package config holds the server's typed configuration: defaults, an
// optional TOML file and environment overrides.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/morphology-mcp/internal/logging"
	"github.com/ironsheep/morphology-mcp/internal/morphology"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath = "MORPH_MCP_CONFIG"
	EnvLogLevel   = "MORPH_MCP_LOG_LEVEL"
)

// Config is the server configuration. Tool arguments override the
// threshold, invert, mask, handle_borders and render settings per call.
type Config struct {
	LogLevel        string       `toml:"log_level"`
	Threshold       int          `toml:"threshold"`
	Invert          bool         `toml:"invert"`
	HandleBorders   bool         `toml:"handle_borders"`
	MaxPixels       int          `toml:"max_pixels"`
	MaxRequestBytes int          `toml:"max_request_bytes"`
	CacheSize       int          `toml:"cache_size"`
	Mask            MaskConfig   `toml:"mask"`
	Render          RenderConfig `toml:"render"`
}

// MaskConfig is the default structuring element.
type MaskConfig struct {
	Shape string `toml:"shape"`
	Rows  int    `toml:"rows"`
	Cols  int    `toml:"cols"`
}

// RenderConfig controls how result grids are drawn as PNG.
type RenderConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Scale      int    `toml:"scale"`
}

// ValidationError names the configuration key that failed validation.
type ValidationError struct {
	Key     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %s", e.Key, e.Value, e.Message)
}

// Default returns the built-in configuration.
func Default() Config {
	mask := morphology.DefaultOptions()
	return Config{
		LogLevel:        "info",
		Threshold:       128,
		HandleBorders:   mask.HandleBorders,
		MaxPixels:       16 * 1024 * 1024,
		MaxRequestBytes: 8 * 1024 * 1024,
		CacheSize:       16,
		Mask: MaskConfig{
			Shape: mask.Shape.String(),
			Rows:  mask.MaskRows,
			Cols:  mask.MaskCols,
		},
		Render: RenderConfig{
			Foreground: "#ffffff",
			Background: "#000000",
			Scale:      1,
		},
	}
}

// Load decodes the TOML file at path over the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from the file named by MORPH_MCP_CONFIG
// (defaults if unset) and applies MORPH_MCP_LOG_LEVEL on top.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path, ok := lookup(EnvConfigPath); ok && path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if level, ok := lookup(EnvLogLevel); ok && level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first bad key.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{"log_level", c.LogLevel, err.Error()}
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return &ValidationError{"threshold", c.Threshold, "must be between 0 and 255"}
	}
	if c.MaxPixels <= 0 {
		return &ValidationError{"max_pixels", c.MaxPixels, "must be positive"}
	}
	if c.MaxRequestBytes <= 0 {
		return &ValidationError{"max_request_bytes", c.MaxRequestBytes, "must be positive"}
	}
	if c.CacheSize <= 0 {
		return &ValidationError{"cache_size", c.CacheSize, "must be positive"}
	}
	if _, err := c.MaskOptions(morphology.OperationErode); err != nil {
		return err
	}
	if _, err := colorful.Hex(c.Render.Foreground); err != nil {
		return &ValidationError{"render.foreground", c.Render.Foreground, "must be a #rrggbb colour"}
	}
	if _, err := colorful.Hex(c.Render.Background); err != nil {
		return &ValidationError{"render.background", c.Render.Background, "must be a #rrggbb colour"}
	}
	if c.Render.Scale < 1 || c.Render.Scale > 64 {
		return &ValidationError{"render.scale", c.Render.Scale, "must be between 1 and 64"}
	}
	return nil
}

// MaskOptions returns morphology options for op built from the configured
// mask and border policy.
func (c Config) MaskOptions(op morphology.Operation) (morphology.Options, error) {
	shape, err := morphology.ParseMaskShape(c.Mask.Shape)
	if err != nil {
		return morphology.Options{}, &ValidationError{"mask.shape", c.Mask.Shape, "must be rectangular, elliptical or diamond"}
	}
	if c.Mask.Rows <= 0 {
		return morphology.Options{}, &ValidationError{"mask.rows", c.Mask.Rows, "must be positive"}
	}
	if c.Mask.Cols < 0 {
		return morphology.Options{}, &ValidationError{"mask.cols", c.Mask.Cols, "must not be negative"}
	}
	return morphology.Options{
		Operation:     op,
		Shape:         shape,
		MaskRows:      c.Mask.Rows,
		MaskCols:      c.Mask.Cols,
		HandleBorders: c.HandleBorders,
	}, nil
}
