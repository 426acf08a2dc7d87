// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotandev/canact/internal/errors"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkLocal   Network = "local"
)

var validNetworks = map[string]bool{
	string(NetworkMainnet): true,
	string(NetworkLocal):   true,
}

// Gateway URLs for each network
const (
	MainnetGatewayURL = "https://icp-api.io"
	LocalGatewayURL   = "http://127.0.0.1:4943"
)

// Config represents the general configuration for canact
type Config struct {
	GatewayURL   string  `json:"gateway_url,omitempty"`
	Network      Network `json:"network,omitempty"`
	RegistryPath string  `json:"registry_path,omitempty"`
	LogLevel     string  `json:"log_level,omitempty"`
	AuthToken    string  `json:"auth_token,omitempty"`
	// TelemetryEnabled enables opt-in OpenTelemetry trace export.
	// Set via telemetry = true in config or CANACT_TELEMETRY=true.
	TelemetryEnabled bool   `json:"telemetry,omitempty"`
	TelemetryURL     string `json:"telemetry_url,omitempty"`
}

var defaultConfig = &Config{
	GatewayURL:   MainnetGatewayURL,
	Network:      NetworkMainnet,
	RegistryPath: filepath.Join(os.ExpandEnv("$HOME"), ".canact", "registry.db"),
	LogLevel:     "info",
}

// GetConfigPath returns the directory holding canact configuration
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapConfigError("failed to resolve home directory", err)
	}
	return filepath.Join(home, ".canact"), nil
}

// GetGeneralConfigPath returns the path to the general configuration file
func GetGeneralConfigPath() (string, error) {
	configDir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the general configuration from disk (JSON format)
func LoadConfig() (*Config, error) {
	configPath, err := GetGeneralConfigPath()
	if err != nil {
		return nil, err
	}

	// If file doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapConfigError("failed to read config file", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.WrapConfigError("failed to parse config file", err)
	}

	return config, nil
}

// Load loads the configuration from environment variables on top of the file
func Load() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	cfg.GatewayURL = getEnv("CANACT_GATEWAY_URL", cfg.GatewayURL)
	cfg.Network = Network(getEnv("CANACT_NETWORK", string(cfg.Network)))
	cfg.RegistryPath = getEnv("CANACT_REGISTRY_PATH", cfg.RegistryPath)
	cfg.LogLevel = getEnv("CANACT_LOG_LEVEL", cfg.LogLevel)
	cfg.AuthToken = getEnv("CANACT_AUTH_TOKEN", cfg.AuthToken)
	cfg.TelemetryURL = getEnv("CANACT_TELEMETRY_URL", cfg.TelemetryURL)

	// CANACT_TELEMETRY is a boolean env var; parse it explicitly.
	switch strings.ToLower(os.Getenv("CANACT_TELEMETRY")) {
	case "1", "true", "yes":
		cfg.TelemetryEnabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk (JSON format)
func SaveConfig(config *Config) error {
	configPath, err := GetGeneralConfigPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return errors.WrapConfigError("failed to create config directory", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return errors.WrapConfigError("failed to marshal config", err)
	}

	// Write with restricted permissions (owner only)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.WrapConfigError("failed to write config file", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.GatewayURL == "" {
		return errors.WrapValidationError("gateway_url cannot be empty")
	}

	if c.Network != "" && !validNetworks[string(c.Network)] {
		return errors.WrapValidationError(
			fmt.Sprintf("unknown network %q, must be one of: mainnet, local", c.Network))
	}

	return nil
}

// NetworkURL returns the gateway URL implied by the configured network
func (c *Config) NetworkURL() string {
	switch c.Network {
	case NetworkMainnet:
		return MainnetGatewayURL
	case NetworkLocal:
		return LocalGatewayURL
	default:
		return c.GatewayURL
	}
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Gateway: %s, Network: %s, LogLevel: %s, RegistryPath: %s}",
		c.GatewayURL, c.Network, c.LogLevel, c.RegistryPath,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func DefaultConfig() *Config {
	return &Config{
		GatewayURL:   defaultConfig.GatewayURL,
		Network:      defaultConfig.Network,
		RegistryPath: defaultConfig.RegistryPath,
		LogLevel:     defaultConfig.LogLevel,
	}
}

func (c *Config) WithGatewayURL(url string) *Config {
	c.GatewayURL = url
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

func (c *Config) WithRegistryPath(path string) *Config {
	c.RegistryPath = path
	return c
}
