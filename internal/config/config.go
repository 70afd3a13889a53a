package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keymacro/internal/config/loader"
	"github.com/dshills/keymacro/internal/input/key"
	"github.com/dshills/keymacro/internal/input/macro"
)

// EnvConfigPath names the variable that overrides the config file path.
const EnvConfigPath = loader.EnvPrefix + "CONFIG"

// Config is the complete keymacro configuration.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Capture   CaptureConfig   `toml:"capture"`
	Storage   StorageConfig   `toml:"storage"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// OptimizerConfig selects how recorded events are compiled.
type OptimizerConfig struct {
	// TextRuns collapses printable taps into Text actions.
	TextRuns bool `toml:"text_runs"`
	// MergeTaps merges adjacent non-printable taps into one KeyTap.
	MergeTaps bool `toml:"merge_taps"`
}

// CaptureConfig configures interactive recording.
type CaptureConfig struct {
	// StopKey is the chord that ends a terminal recording.
	StopKey string `toml:"stop_key"`
}

// StorageConfig locates persisted macros.
// Empty paths mean the package defaults.
type StorageConfig struct {
	Library   string `toml:"library"`
	Documents string `toml:"documents"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "info"},
		Optimizer: OptimizerConfig{TextRuns: true, MergeTaps: true},
		Capture:   CaptureConfig{StopKey: "Ctrl+]"},
	}
}

// DefaultPath returns the default config file location, honoring
// KEYMACRO_CONFIG.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keymacro", "config.toml")
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. An empty path means DefaultPath. A missing file is not an
// error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader())
}

// LoadFrom merges the given sources over the defaults in order, later
// sources winning, and validates the result.
func LoadFrom(sources ...loader.Loader) (Config, error) {
	merged := make(map[string]any)
	for _, src := range sources {
		data, err := src.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if len(merged) > 0 {
		if err := decode(merged, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode re-encodes the merged map and decodes it strictly into cfg so
// unknown keys and type mismatches surface as errors.
func decode(data map[string]any, cfg *Config) error {
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error"}
	}
	if _, err := c.StopChord(); err != nil {
		return &ValidationError{Path: "capture.stop_key", Value: c.Capture.StopKey, Message: err.Error()}
	}
	return nil
}

// StopChord parses the configured stop key.
func (c Config) StopChord() (key.Chord, error) {
	return key.ParseChord(c.Capture.StopKey)
}

// OptimizeOptions converts the optimizer section to compile options.
func (c Config) OptimizeOptions() []macro.OptimizeOption {
	return []macro.OptimizeOption{
		macro.WithTextRuns(c.Optimizer.TextRuns),
		macro.WithTapMerging(c.Optimizer.MergeTaps),
	}
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
