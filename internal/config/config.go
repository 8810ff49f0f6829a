package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DatabasePath overrides the default board database location.
	DatabasePath string `yaml:"database_path"`
	// SocketPath overrides the default event daemon socket location.
	SocketPath string `yaml:"socket_path"`
	// MoveTimeoutMS bounds a drop's persist call; on expiry the drag rolls
	// back exactly like a failed write.
	MoveTimeoutMS int         `yaml:"move_timeout_ms"`
	KeyMappings   KeyMappings `yaml:"key_mappings"`
}

// Load loads config from the user's config directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// MoveTimeout returns the persist bound as a duration.
func (c *Config) MoveTimeout() time.Duration {
	return time.Duration(c.MoveTimeoutMS) * time.Millisecond
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

func defaultConfig() *Config {
	return &Config{
		MoveTimeoutMS: 5000,
		KeyMappings:   DefaultKeyMappings(),
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.MoveTimeoutMS <= 0 {
		c.MoveTimeoutMS = 5000
	}
	c.KeyMappings.applyDefaults()
}
