// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/driftlabs/driftchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete driftchat configuration.
type Config struct {
	// API endpoint configuration
	API APIConfig `toml:"api"`

	// Model selection
	Model ModelConfig `toml:"model"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains the completion endpoint credentials.
type APIConfig struct {
	// Key is the API key sent as a bearer token.
	Key string `toml:"key"`
	// BaseURL is the endpoint root, without a trailing slash.
	BaseURL string `toml:"base_url"`
}

// ModelConfig contains model selection configuration.
type ModelConfig struct {
	// Default is the model used for new requests.
	Default string `toml:"default"`
	// Available lists the models offered in the model picker.
	Available []ModelEntry `toml:"available"`
}

// ModelEntry is one selectable model.
type ModelEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Theme is "light" or "dark".
	Theme string `toml:"theme"`
	// Language is a BCP 47 tag, "en" or "zh-CN".
	Language string `toml:"language"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Key:     "",
			BaseURL: "https://api.deepseek.com",
		},
		Model: ModelConfig{
			Default: "deepseek-chat",
			Available: []ModelEntry{
				{ID: "deepseek-chat", Name: "deepseek-v3"},
				{ID: "deepseek-reasoner", Name: "deepseek-r1"},
			},
		},
		UI: UIConfig{
			Theme:    "dark",
			Language: "en",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the driftchat configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".driftchat"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on the config file.
// It holds the API key, so anything wider than 0600 gets tightened.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.Model.Default == "" {
		cfg.Model.Default = defaults.Model.Default
	}
	if len(cfg.Model.Available) == 0 {
		cfg.Model.Available = defaults.Model.Available
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.Language == "" {
		cfg.UI.Language = defaults.UI.Language
	}
}

// ApplyEnvOverrides applies DRIFTCHAT_* environment variables over the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DRIFTCHAT_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("DRIFTCHAT_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DRIFTCHAT_MODEL"); v != "" {
		c.Model.Default = v
	}
	if v := os.Getenv("DRIFTCHAT_LANG"); v != "" {
		c.UI.Language = v
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file. The file is written
// atomically with 0600 permissions; it holds the API key.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# driftchat configuration file")
	fmt.Fprintln(&buf, "# Generated by driftchat - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL %q (must be http or https)", c.API.BaseURL),
			})
		}
	}

	switch c.UI.Theme {
	case "", "light", "dark":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("unknown theme %q (must be light or dark)", c.UI.Theme),
		})
	}

	if c.Model.Default != "" && len(c.Model.Available) > 0 {
		known := false
		for _, m := range c.Model.Available {
			if m.ID == c.Model.Default {
				known = true
				break
			}
		}
		if !known {
			errs = append(errs, ValidationError{
				Field:   "model.default",
				Message: fmt.Sprintf("%q is not in model.available", c.Model.Default),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
