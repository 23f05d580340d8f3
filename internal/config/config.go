package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective daemon configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// RefreshInterval is the reconcile period in seconds. Zero disables the
	// periodic refresh; windows are then only reconciled on request.
	RefreshInterval int `yaml:"refresh_interval"`
	// ToggleHotkey toggles the active window (X11 only). Empty disables it.
	ToggleHotkey string `yaml:"toggle_hotkey"`
	// Display overrides $DISPLAY on X11.
	Display string `yaml:"display"`
	// HTTPListen is a host:port for the HTTP API. Empty disables it.
	HTTPListen string `yaml:"http_listen"`

	MinTitleLength      int      `yaml:"min_title_length"`
	HelperTitlePrefixes []string `yaml:"helper_title_prefixes"`

	RollbackOnGeometryFailure bool `yaml:"rollback_on_geometry_failure"`
	ValidateBeforeRestore     bool `yaml:"validate_before_restore"`
	PruneStaleEntries         bool `yaml:"prune_stale_entries"`
}

const (
	DefaultRefreshInterval = 5
	DefaultToggleHotkey    = "Mod4-Mod1-f"
	DefaultMinTitleLength  = 3
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:                  "info",
		RefreshInterval:           DefaultRefreshInterval,
		ToggleHotkey:              DefaultToggleHotkey,
		MinTitleLength:            DefaultMinTitleLength,
		HelperTitlePrefixes:       []string{"Default IME", "MSCTFIME UI"},
		RollbackOnGeometryFailure: true,
		ValidateBeforeRestore:     true,
		PruneStaleEntries:         true,
	}
}

// Validate checks value ranges. The returned error is a *ValidationError.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	if c.RefreshInterval < 0 {
		return &ValidationError{Path: "refresh_interval", Err: fmt.Errorf("must be >= 0, got %d", c.RefreshInterval)}
	}
	if c.MinTitleLength < 0 {
		return &ValidationError{Path: "min_title_length", Err: fmt.Errorf("must be >= 0, got %d", c.MinTitleLength)}
	}
	for i, prefix := range c.HelperTitlePrefixes {
		if strings.TrimSpace(prefix) == "" {
			return &ValidationError{Path: fmt.Sprintf("helper_title_prefixes[%d]", i), Err: fmt.Errorf("must not be empty")}
		}
	}
	if strings.ContainsAny(c.ToggleHotkey, " \t") {
		return &ValidationError{Path: "toggle_hotkey", Err: fmt.Errorf("must not contain whitespace, got %q", c.ToggleHotkey)}
	}
	if c.HTTPListen != "" {
		if _, _, err := net.SplitHostPort(c.HTTPListen); err != nil {
			return &ValidationError{Path: "http_listen", Err: err}
		}
	}
	return nil
}

// Interval returns RefreshInterval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps a config log level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", s)
}

// Save writes the config to path, or to DefaultConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
