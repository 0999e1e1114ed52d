// Package config loads and saves the persistent application
// configuration as JSON in the data directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	API     APIConfig     `json:"api"`
	Catalog CatalogConfig `json:"catalog"`
	UI      UIConfig      `json:"ui"`
}

// APIConfig holds remote API settings
type APIConfig struct {
	BaseURL           string  `json:"base_url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"` // 0 = unlimited
}

// CatalogConfig holds the fetch range and paging parameters
type CatalogConfig struct {
	TotalRecords int `json:"total_records"`
	BatchSize    int `json:"batch_size"`
	PageSize     int `json:"page_size"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	DensityMode string `json:"density_mode"` // "comfortable" or "compact"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://pokeapi.co/api/v2",
			TimeoutSeconds:    30,
			RequestsPerSecond: 20,
		},
		Catalog: CatalogConfig{
			TotalRecords: 151, // first-generation dex
			BatchSize:    20,
			PageSize:     20,
		},
		UI: UIConfig{
			DensityMode: "comfortable",
		},
	}
}

// DataDir returns the application data directory, ~/.dexview
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dexview")
}

// ConfigPath returns the config file location inside the data dir
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from the given path, or returns defaults when the
// file is missing or unreadable as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal over defaults so missing fields keep their values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Save writes config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
