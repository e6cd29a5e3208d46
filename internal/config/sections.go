package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/theme"
)

// Section accessors return snapshots. Use Set to change a value.

// Theme scheme values. SchemeAuto follows the preference file when one is
// configured and is light otherwise.
const (
	SchemeLight = "light"
	SchemeDark  = "dark"
	SchemeAuto  = "auto"
)

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack.
	MaxEntries int
}

// DragConfig configures pointer drags.
type DragConfig struct {
	// ReorderThreshold is the vertical distance that swaps a flow object
	// with its neighbour.
	ReorderThreshold float64
}

// ResizeConfig configures resize gestures.
type ResizeConfig struct {
	// MinWidth is the smallest width a resize may produce.
	MinWidth float64
}

// ShadowConfig configures object shadows.
type ShadowConfig struct {
	// DefaultIntensity is used when setShadow carries no intensity.
	DefaultIntensity int
}

// ThemeConfig configures the color scheme.
type ThemeConfig struct {
	// Scheme is light, dark or auto.
	Scheme string

	// PreferenceFile holds "light" or "dark" and is watched for changes.
	PreferenceFile string
}

// Initial returns the scheme to start with. Auto reads the preference
// file once; a missing or unreadable file means light.
func (t ThemeConfig) Initial() theme.Scheme {
	switch t.Scheme {
	case SchemeDark:
		return theme.Dark
	case SchemeAuto:
		if t.PreferenceFile != "" {
			if s, err := theme.ReadPreference(t.PreferenceFile); err == nil {
				return s
			}
		}
	}
	return theme.Light
}

// Watch reports whether the preference file should be watched.
func (t ThemeConfig) Watch() bool {
	return t.Scheme == SchemeAuto && t.PreferenceFile != ""
}

// LogConfig configures logging.
type LogConfig struct {
	Level string

	// File receives the log when set; otherwise stderr.
	File string

	MaxSizeMB  int
	MaxBackups int
}

// BridgeConfig configures the host transports.
type BridgeConfig struct {
	// Listen is the WebSocket address. Empty means stdio.
	Listen string

	// Path is the WebSocket endpoint.
	Path string

	// AllowedOrigins limits WebSocket origins. Empty allows all.
	AllowedOrigins []string
}

// ScriptConfig configures the Lua host.
type ScriptConfig struct {
	// Timeout bounds one script run. Zero disables it.
	Timeout time.Duration
}

// History returns the history settings.
func (c *Config) History() HistoryConfig {
	return HistoryConfig{MaxEntries: c.intOr("history.maxEntries", 100)}
}

// Drag returns the drag settings.
func (c *Config) Drag() DragConfig {
	return DragConfig{ReorderThreshold: c.floatOr("drag.reorderThreshold", 30)}
}

// Resize returns the resize settings.
func (c *Config) Resize() ResizeConfig {
	return ResizeConfig{MinWidth: c.floatOr("resize.minWidth", 50)}
}

// Shadow returns the shadow settings.
func (c *Config) Shadow() ShadowConfig {
	return ShadowConfig{DefaultIntensity: c.intOr("shadow.defaultIntensity", 5)}
}

// Theme returns the theme settings.
func (c *Config) Theme() ThemeConfig {
	return ThemeConfig{
		Scheme:         strings.ToLower(c.stringOr("theme.scheme", SchemeAuto)),
		PreferenceFile: c.stringOr("theme.preferenceFile", ""),
	}
}

// Log returns the log settings.
func (c *Config) Log() LogConfig {
	return LogConfig{
		Level:      c.stringOr("log.level", "info"),
		File:       c.stringOr("log.file", ""),
		MaxSizeMB:  c.intOr("log.maxSizeMB", 10),
		MaxBackups: c.intOr("log.maxBackups", 3),
	}
}

// Bridge returns the bridge settings.
func (c *Config) Bridge() BridgeConfig {
	origins, _ := c.GetStringSlice("bridge.allowedOrigins")
	return BridgeConfig{
		Listen:         c.stringOr("bridge.listen", ""),
		Path:           c.stringOr("bridge.path", "/ws"),
		AllowedOrigins: origins,
	}
}

// Script returns the script settings.
func (c *Config) Script() ScriptConfig {
	d, err := time.ParseDuration(c.stringOr("script.timeout", "30s"))
	if err != nil {
		d = 30 * time.Second
	}
	return ScriptConfig{Timeout: d}
}

func (c *Config) stringOr(path, def string) string {
	if s, err := c.GetString(path); err == nil {
		return s
	}
	return def
}

func (c *Config) intOr(path string, def int) int {
	if n, err := c.GetInt(path); err == nil {
		return n
	}
	return def
}

func (c *Config) floatOr(path string, def float64) float64 {
	if f, err := c.GetFloat(path); err == nil {
		return f
	}
	return def
}

// validate checks types and ranges of the known settings in m.
func validate(m map[string]any) error {
	v := &Config{merged: m}

	checks := []func() error{
		func() error {
			n, err := v.GetInt("history.maxEntries")
			return atLeast(err, "history.maxEntries", float64(n), 1)
		},
		func() error {
			f, err := v.GetFloat("drag.reorderThreshold")
			return atLeast(err, "drag.reorderThreshold", f, 1)
		},
		func() error {
			f, err := v.GetFloat("resize.minWidth")
			return atLeast(err, "resize.minWidth", f, 1)
		},
		func() error {
			n, err := v.GetInt("shadow.defaultIntensity")
			if err != nil {
				return err
			}
			if n < 1 || n > 10 {
				return &ValidationError{Path: "shadow.defaultIntensity", Message: "must be between 1 and 10", Value: n}
			}
			return nil
		},
		func() error {
			s, err := v.GetString("theme.scheme")
			if err != nil {
				return err
			}
			switch strings.ToLower(s) {
			case SchemeLight, SchemeDark, SchemeAuto:
				return nil
			}
			return &ValidationError{Path: "theme.scheme", Message: "must be light, dark or auto", Value: s}
		},
		func() error {
			s, err := v.GetString("log.level")
			if err != nil {
				return err
			}
			if _, err := zerolog.ParseLevel(strings.ToLower(s)); err != nil {
				return &ValidationError{Path: "log.level", Message: "unknown level", Value: s}
			}
			return nil
		},
		func() error {
			s, err := v.GetString("bridge.path")
			if err != nil {
				return err
			}
			if !strings.HasPrefix(s, "/") {
				return &ValidationError{Path: "bridge.path", Message: "must start with /", Value: s}
			}
			return nil
		},
		func() error {
			s, err := v.GetString("script.timeout")
			if err != nil {
				return err
			}
			if d, err := time.ParseDuration(s); err != nil || d < 0 {
				return &ValidationError{Path: "script.timeout", Message: "must be a non-negative duration", Value: s}
			}
			return nil
		},
	}

	for _, check := range checks {
		if err := check(); err != nil && !IsNotFound(err) {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

func atLeast(err error, path string, v, lo float64) error {
	if err != nil {
		return err
	}
	if v < lo {
		return &ValidationError{Path: path, Message: fmt.Sprintf("must be at least %g", lo), Value: v}
	}
	return nil
}
