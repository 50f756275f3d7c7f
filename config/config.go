// Package config loads player-machine settings for the auto-play mode.
// Settings live in ~/.fablecore/config.yaml; the GEMINI_API_KEY environment
// variable always wins over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModel is used when the config file names none.
const DefaultModel = "gemini-2.5-flash"

// Config holds the auto-player configuration.
type Config struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	Model        string `yaml:"model"`
}

// DefaultPath returns ~/.fablecore/config.yaml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fablecore", "config.yaml")
}

// Load reads the default config file if it exists and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads the given config file and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg, nil
}

// RequireAPIKey returns the API key or an actionable error.
func (c *Config) RequireAPIKey() (string, error) {
	if c.GeminiAPIKey == "" {
		return "", fmt.Errorf("no Gemini API key: set GEMINI_API_KEY or gemini_api_key in %s", DefaultPath())
	}
	return c.GeminiAPIKey, nil
}
