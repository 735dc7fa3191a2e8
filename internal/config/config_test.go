// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL != "https://api.deepseek.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Model.Default != "deepseek-chat" {
		t.Errorf("Default model = %q", cfg.Model.Default)
	}
	if len(cfg.Model.Available) != 2 {
		t.Errorf("Available = %+v", cfg.Model.Available)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.Key = "sk-round-trip"
	cfg.UI.Theme = "light"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	// Saved with owner-only permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.API.Key != "sk-round-trip" {
		t.Errorf("Key = %q", loaded.API.Key)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "[api]\nkey = \"sk-partial\"\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.Key != "sk-partial" {
		t.Errorf("Key = %q", cfg.API.Key)
	}
	if cfg.API.BaseURL == "" || cfg.Model.Default == "" || cfg.UI.Theme == "" {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}

func TestLoadFixesInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nkey = \"k\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want tightened to 0600", perm)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DRIFTCHAT_API_KEY", "sk-from-env")
	t.Setenv("DRIFTCHAT_BASE_URL", "https://example.com")
	t.Setenv("DRIFTCHAT_MODEL", "deepseek-reasoner")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.Key != "sk-from-env" {
		t.Errorf("Key = %q", cfg.API.Key)
	}
	if cfg.API.BaseURL != "https://example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Model.Default != "deepseek-reasoner" {
		t.Errorf("Model = %q", cfg.Model.Default)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, true},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"unknown default model", func(c *Config) { c.Model.Default = "gpt-x" }, true},
		{"model outside catalog ok when catalog empty", func(c *Config) {
			c.Model.Default = "anything"
			c.Model.Available = nil
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
