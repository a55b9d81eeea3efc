// Package config provides configuration management for slpp.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/literate"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/preprocessor"
)

// Config holds the slpp configuration. It is the preprocessor's settings
// provider.
type Config struct {
	Enable      *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Include     []string `yaml:"include_paths,omitempty" toml:"include_paths,omitempty"`
	MaxDepth    *int     `yaml:"max_include_depth,omitempty" toml:"max_include_depth,omitempty"`
	Language    string   `yaml:"language,omitempty" toml:"language,omitempty"`
	LineMarkers *bool    `yaml:"line_markers,omitempty" toml:"line_markers,omitempty"`
}

var _ preprocessor.Settings = (*Config)(nil)

// Enabled reports whether preprocessing is on. Defaults to true.
func (c *Config) Enabled() bool {
	return c.Enable == nil || *c.Enable
}

// IncludePaths returns the include path patterns.
func (c *Config) IncludePaths() []string {
	return c.Include
}

// MaxIncludeDepth returns the include depth limit, or the default when
// unset. Zero allows no includes at all.
func (c *Config) MaxIncludeDepth() int {
	if c.MaxDepth != nil {
		return *c.MaxDepth
	}
	return preprocessor.DefaultMaxIncludeDepth
}

// Markers reports whether line markers are written. Defaults to true.
func (c *Config) Markers() bool {
	return c.LineMarkers == nil || *c.LineMarkers
}

// Dialect picks the dialect for file: the explicit name when set, then the
// file extension (looking through a trailing .md), then the configured
// default language.
func (c *Config) Dialect(explicit, file string) (*lexer.Config, error) {
	if explicit != "" {
		return lexer.ConfigFor(lexer.Language(explicit))
	}
	name := file
	if literate.IsMarkdown(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if lang, ok := lexer.DetectLanguage(name); ok {
		return lexer.ConfigFor(lang)
	}
	if c.Language != "" {
		return lexer.ConfigFor(lexer.Language(c.Language))
	}
	return nil, fmt.Errorf("cannot tell the language of %s (use --lang or set language in the config file)", file)
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return errors.New("max_include_depth must not be negative")
	}
	if c.Language != "" {
		if _, err := lexer.ConfigFor(lexer.Language(c.Language)); err != nil {
			return fmt.Errorf("language: %w", err)
		}
	}
	for _, p := range c.Include {
		if strings.TrimSpace(p) == "" {
			return errors.New("include_paths must not contain empty entries")
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: SLPP_* → SL_* → existing config value
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("SLPP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enable = &b
		}
	}
	if v := getEnvWithFallback("SLPP_INCLUDE_PATHS", "SL_INCLUDE_PATHS"); v != "" {
		c.Include = filepath.SplitList(v)
	}
	if v := os.Getenv("SLPP_MAX_INCLUDE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDepth = &n
		}
	}
	if v := os.Getenv("SLPP_LANGUAGE"); v != "" {
		c.Language = v
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "slpp", "config.yml")
	}

	// Fall back to ~/.config/slpp/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".slpp", "config.yml")
	}

	return filepath.Join(home, ".config", "slpp", "config.yml")
}

// PathOrDefault returns path, or DefaultConfigPath when path is empty.
func PathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return DefaultConfigPath()
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to the specified path, as TOML when the
// path ends in .toml and as YAML otherwise.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n.
func Int(n int) *int {
	return &n
}
