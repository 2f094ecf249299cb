package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/prompt"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("Expected default model to be 'gemini-2.5-flash', got '%s'", cfg.DefaultModel)
	}
	if cfg.Topic != prompt.DefaultTopic {
		t.Errorf("Expected default topic %q, got %q", prompt.DefaultTopic, cfg.Topic)
	}
	if cfg.Telemetry {
		t.Error("Expected Telemetry to be false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel info, got %s", cfg.LogLevel)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".netchat" {
		t.Errorf("config should live under .netchat, got %s", path)
	}
}

func TestGetLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir, err := GetLogDir()
	if err != nil {
		t.Fatalf("GetLogDir() returned error: %v", err)
	}
	if dir != filepath.Join(tmpDir, ".netchat", "logs") {
		t.Errorf("GetLogDir() = %s", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("log dir was not created: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.DefaultModel = "gemini-2.5-pro"
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".netchat", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved != cfg {
		t.Errorf("saved = %+v, want %+v", saved, cfg)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".netchat")
	_ = os.MkdirAll(configDir, 0o700)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"default_model":"gemini-2.5-pro"}`), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.DefaultModel != "gemini-2.5-pro" {
		t.Errorf("DefaultModel = %s, want gemini-2.5-pro", cfg.DefaultModel)
	}
	if cfg.Topic != prompt.DefaultTopic {
		t.Errorf("Topic = %s, want default", cfg.Topic)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".netchat")
	_ = os.MkdirAll(configDir, 0o700)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json content`), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() with invalid JSON should return error")
	}
	var cfgErr *apierrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}
	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("DefaultModel = %s, want gemini-2.5-flash", cfg.DefaultModel)
	}
}

func TestLookup(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"default_model", "gemini-2.5-flash", false},
		{"markdown.style", "dark", false},
		{"markdown.table_wrap", "true", false},
		{"telemetry", "false", false},
		{"markdown.nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Lookup(cfg, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	if err := Set(&cfg, "markdown.style", "light"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if cfg.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %s", cfg.Markdown.Style)
	}

	if err := Set(&cfg, "telemetry", "true"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if !cfg.Telemetry {
		t.Error("Telemetry should be true")
	}

	if err := Set(&cfg, "telemetry", "maybe"); err == nil {
		t.Error("expected error for non-boolean value")
	}
	if err := Set(&cfg, "topic", "  "); err == nil {
		t.Error("expected error for blank topic")
	}
	if err := Set(&cfg, "bogus", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

