package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssargent/tagdecode/pkg/quickdecode"
	"gopkg.in/yaml.v3"
)

// Config represents the tagdecode configuration
type Config struct {
	DataDir      string  `yaml:"data_dir"`
	FamiliesFile string  `yaml:"families_file"`
	MaxHamming   int     `yaml:"max_hamming"`
	Server       Server  `yaml:"server"`
	Logging      Logging `yaml:"logging"`
	Detect       Detect  `yaml:"detect"`
}

// Server contains HTTP decode service configuration
type Server struct {
	Port    int    `yaml:"port"`
	Bind    string `yaml:"bind"`
	APIKey  string `yaml:"api_key"`
	Metrics bool   `yaml:"metrics"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Detect describes how a cropped marker image is sampled into a codeword.
// The image is split into Cells×Cells windows; a window is set when at least
// Fill of its pixels are >= Threshold. Border windows on every side are
// discarded before packing.
type Detect struct {
	Family    string  `yaml:"family"`
	Cells     int     `yaml:"cells"`
	Border    int     `yaml:"border"`
	Threshold int     `yaml:"threshold"`
	Fill      float64 `yaml:"fill"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:      "./data",
		FamiliesFile: "./families.yaml",
		MaxHamming:   2,
		Server: Server{
			Port:    8080,
			Bind:    "127.0.0.1",
			APIKey:  "auto",
			Metrics: true,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Detect: Detect{
			Cells:     9,
			Border:    2,
			Threshold: 10,
			Fill:      0.8,
		},
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	var errs []error
	if c.MaxHamming < 0 {
		errs = append(errs, fmt.Errorf("max_hamming must not be negative, got %d", c.MaxHamming))
	}
	if c.MaxHamming > quickdecode.MaxSupportedHamming {
		errs = append(errs, fmt.Errorf("max_hamming above %d is not supported, got %d",
			quickdecode.MaxSupportedHamming, c.MaxHamming))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseFormat(c.Logging.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Detect.Cells <= 0 {
		errs = append(errs, fmt.Errorf("detect.cells must be positive, got %d", c.Detect.Cells))
	}
	if c.Detect.Border < 0 || 2*c.Detect.Border >= c.Detect.Cells {
		errs = append(errs, fmt.Errorf("detect.border %d leaves no data cells out of %d", c.Detect.Border, c.Detect.Cells))
	}
	if c.Detect.Fill < 0 || c.Detect.Fill > 1 {
		errs = append(errs, fmt.Errorf("detect.fill must be within [0,1], got %g", c.Detect.Fill))
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds the API key.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and
// saves it to configPath
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}
	configDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}
	config.FamiliesFile = filepath.Join(configDir, "families.yaml")

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./tagdecode.yaml"
	}

	// For Linux/macOS, use ~/.config/tagdecode/config.yaml
	configDir := filepath.Join(homeDir, ".config", "tagdecode")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
