package loader

import (
	"os"
	"strings"
)

// EnvPrefix is the prefix shared by every keymacro environment variable.
const EnvPrefix = "KEYMACRO_"

// EnvLoader loads configuration overrides from environment variables.
//
// Only mapped variables are read. Other KEYMACRO_ variables (such as
// KEYMACRO_CONFIG, which names the file itself) are left alone.
type EnvLoader struct {
	lookup  func(string) (string, bool)
	mapping map[string]string // env var -> section.setting
}

// NewEnvLoader creates a loader with the default keymacro mapping.
func NewEnvLoader() *EnvLoader {
	return NewEnvLoaderWithMapping(DefaultEnvMapping())
}

// NewEnvLoaderWithMapping creates a loader with a custom mapping.
func NewEnvLoaderWithMapping(mapping map[string]string) *EnvLoader {
	return &EnvLoader{lookup: os.LookupEnv, mapping: mapping}
}

// DefaultEnvMapping returns the environment variables keymacro honors.
func DefaultEnvMapping() map[string]string {
	return map[string]string{
		EnvPrefix + "LOG_LEVEL":            "log.level",
		EnvPrefix + "OPTIMIZER_TEXT_RUNS":  "optimizer.text_runs",
		EnvPrefix + "OPTIMIZER_MERGE_TAPS": "optimizer.merge_taps",
		EnvPrefix + "CAPTURE_STOP_KEY":     "capture.stop_key",
		EnvPrefix + "STORAGE_LIBRARY":      "storage.library",
		EnvPrefix + "STORAGE_DOCUMENTS":    "storage.documents",
	}
}

// Load reads the mapped variables. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	var config map[string]any
	for env, path := range l.mapping {
		val, ok := l.lookup(env)
		if !ok {
			continue
		}
		if config == nil {
			config = make(map[string]any)
		}
		setByPath(config, path, parseValue(val))
	}
	return config, nil
}

// parseValue converts boolean words; everything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
