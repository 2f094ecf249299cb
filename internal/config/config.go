// Package config handles configuration and credential loading for netchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
)

// dirName is the per-user directory holding config and logs
const dirName = ".netchat"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model"`
	// Topic is the single subject the assistant answers about.
	Topic           string         `json:"topic"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogLevel        string         `json:"log_level"` // zerolog level name
	// Telemetry enables OpenTelemetry span and metric files under the log directory.
	Telemetry bool           `json:"telemetry"`
	Markdown  MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:    models.DefaultModel.Name,
		Topic:           prompt.DefaultTopic,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogLevel:        "info",
		Telemetry:       false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogDir returns the log directory, creating it if necessary
func GetLogDir() (string, error) {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), apierrors.NewConfigError("", fmt.Sprintf("failed to parse %s: %v", configPath, err))
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Lookup returns the value at a dotted key path (for example "markdown.style")
// in the JSON form of cfg.
func Lookup(cfg Config, key string) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	result := gjson.GetBytes(data, key)
	if !result.Exists() {
		return "", apierrors.NewConfigError(key, "no such key")
	}
	return result.String(), nil
}

// Set assigns value to the field named by key, parsing booleans where needed
func Set(cfg *Config, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, apierrors.NewConfigError(key, fmt.Sprintf("expected true or false, got %q", value))
		}
		return b, nil
	}

	var err error
	switch key {
	case "default_model":
		cfg.DefaultModel = value
	case "topic":
		if strings.TrimSpace(value) == "" {
			return apierrors.NewConfigError(key, "topic cannot be empty")
		}
		cfg.Topic = value
	case "tui_theme":
		cfg.TUITheme = value
	case "log_level":
		cfg.LogLevel = value
	case "copy_to_clipboard":
		cfg.CopyToClipboard, err = parseBool()
	case "telemetry":
		cfg.Telemetry, err = parseBool()
	case "markdown.style":
		cfg.Markdown.Style = value
	case "markdown.enable_emoji":
		cfg.Markdown.EnableEmoji, err = parseBool()
	case "markdown.preserve_newlines":
		cfg.Markdown.PreserveNewLines, err = parseBool()
	case "markdown.table_wrap":
		cfg.Markdown.TableWrap, err = parseBool()
	case "markdown.inline_table_links":
		cfg.Markdown.InlineTableLinks, err = parseBool()
	default:
		return apierrors.NewConfigError(key, "unknown key")
	}
	return err
}

