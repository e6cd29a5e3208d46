package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/richedit/internal/config/loader"
)

// Config holds the merged richedit settings.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	file      string
	envPrefix string

	merged    map[string]any
	overrides map[string]any
	sources   []string
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the configuration file. The format follows the extension.
func WithFile(path string) Option {
	return func(c *Config) {
		c.file = path
	}
}

// WithFS sets the file system used to read the configuration file.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a Config holding the defaults. Call Load to read the file
// and environment.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		merged:    defaultConfig(),
		overrides: make(map[string]any),
		sources:   []string{"defaults"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultFile returns the user configuration file path, preferring
// $XDG_CONFIG_HOME.
func DefaultFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "richedit", "config.toml")
}

// Load reads every source, validates the result and replaces the current
// settings. On error the previous settings are kept.
func (c *Config) Load(_ context.Context) error {
	merged := defaultConfig()
	sources := []string{"defaults"}

	if c.file != "" {
		l, err := loader.ForPath(c.fs, c.file)
		if err != nil {
			return err
		}
		fileCfg, err := l.Load()
		if err != nil {
			return err
		}
		if fileCfg != nil {
			merged = loader.DeepMerge(merged, fileCfg)
			sources = append(sources, c.file)
		}
	}

	if c.envPrefix != "" {
		envCfg, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		if len(envCfg) > 0 {
			merged = loader.DeepMerge(merged, envCfg)
			sources = append(sources, "environment")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged = loader.DeepMerge(merged, loader.Clone(c.overrides))
	if err := validate(merged); err != nil {
		return err
	}
	c.merged = merged
	c.sources = sources
	return nil
}

// Sources lists the sources merged by the last Load, lowest first.
func (c *Config) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.sources...)
}

// Get returns the value at path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if path == "" {
		return nil, false
	}
	return loader.GetByPath(c.merged, path)
}

// GetString returns a string value at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetFloat returns a float value at path. Integers are widened.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	}
	return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
}

// GetBool returns a boolean value at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a list of strings at path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			out[i] = s
		}
		return out, nil
	case string:
		if val == "" {
			return nil, nil
		}
		return strings.Split(val, ","), nil
	}
	return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
}

// Set overrides a value. Overrides win over every loaded source and
// survive later Loads. The result is validated before it is applied.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := loader.Clone(c.merged)
	loader.SetByPath(next, path, value)
	if err := validate(next); err != nil {
		return err
	}
	loader.SetByPath(c.overrides, path, value)
	c.merged = next
	return nil
}

// Merged returns a copy of the merged settings.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// defaultConfig returns the built-in settings.
func defaultConfig() map[string]any {
	return map[string]any{
		"history": map[string]any{
			"maxEntries": 100,
		},
		"drag": map[string]any{
			"reorderThreshold": 30.0,
		},
		"resize": map[string]any{
			"minWidth": 50.0,
		},
		"shadow": map[string]any{
			"defaultIntensity": 5,
		},
		"theme": map[string]any{
			"scheme":         SchemeAuto,
			"preferenceFile": "",
		},
		"log": map[string]any{
			"level":      "info",
			"file":       "",
			"maxSizeMB":  10,
			"maxBackups": 3,
		},
		"bridge": map[string]any{
			"listen":         "",
			"path":           "/ws",
			"allowedOrigins": []any{},
		},
		"script": map[string]any{
			"timeout": "30s",
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any, []string:
		return "list"
	case map[string]any:
		return "map"
	}
	return fmt.Sprintf("%T", v)
}

// IsNotFound reports whether err is a missing-setting error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSettingNotFound)
}
