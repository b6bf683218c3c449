// Package config persists application settings as a JSON file under the
// user config directory, with the OpenAI credential kept out of the file
// and in the OS keychain.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	appName       = "voxset"
	apiKeyAccount = "openai_api_key"
)

// Config represents the application configuration
type Config struct {
	// BasePath is the dataset root; empty means not configured yet
	BasePath string `json:"base_path,omitempty"`

	// Audio settings
	SampleRate int `json:"sample_rate"`
	BitDepth   int `json:"bit_depth"`

	// Generation defaults
	DefaultWPM      int     `json:"default_wpm"`
	DefaultDuration float64 `json:"default_duration"`
	DefaultStyle    string  `json:"default_style"`
	OpenAIModel     string  `json:"openai_model"`

	// Preferred input device; nil index means use the system default
	PreferredDeviceIndex *int   `json:"preferred_device_index,omitempty"`
	PreferredDeviceName  string `json:"preferred_device_name,omitempty"`

	// AutogenerateNext queues a fresh narration after each save
	AutogenerateNext bool `json:"autogenerate_next"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		SampleRate:      44100,
		BitDepth:        16,
		DefaultWPM:      150,
		DefaultDuration: 3.0,
		DefaultStyle:    "General Purpose",
		OpenAIModel:     "gpt-4o-mini",
	}
}

// DefaultPath returns the standard config file location
// (~/.config/voxset/config.json on Linux).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.json"), nil
}

// Load loads configuration from path. A missing file yields defaults; a
// present but unparseable file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadWithFallback loads from the explicit path when given, otherwise
// from the default location.
func LoadWithFallback(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	path, err := DefaultPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured reports whether the dataset base path has been set.
func (c *Config) IsConfigured() bool {
	return c.BasePath != ""
}

// APIKey retrieves the OpenAI credential from the OS keychain. A missing
// entry returns an empty string, not an error.
func APIKey() (string, error) {
	key, err := keyring.Get(appName, apiKeyAccount)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key from keychain: %w", err)
	}
	return key, nil
}

// SetAPIKey stores the OpenAI credential in the OS keychain.
func SetAPIKey(key string) error {
	if err := keyring.Set(appName, apiKeyAccount, key); err != nil {
		return fmt.Errorf("failed to store API key in keychain: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored credential. Deleting a key that was
// never set is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(appName, apiKeyAccount)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete API key from keychain: %w", err)
	}
	return nil
}
