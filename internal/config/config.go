// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Default values applied when neither the config file nor a CLI flag sets one.
const (
	DefaultOutputPath  = "neo_data.json"
	DefaultPageSize    = 20
	DefaultConcurrency = 1
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	APIKey      string `json:"api_key,omitempty"`      // NASA API key (browse service credential)
	OutputPath  string `json:"output,omitempty"`       // Destination path for the compiled dataset
	PageSize    int    `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"` // NEOs per browse-page request
	MaxPages    int    `json:"max_pages,omitempty" validate:"gte=0"`                   // 0 means walk every page
	Concurrency int    `json:"concurrency,omitempty" validate:"gte=0,lte=64"`          // Lookup pool size; 1 = sequential
	DatabaseURL string `json:"database_url,omitempty"` // Optional PostgreSQL connection URL for the run ledger
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required-field
// checks happen after CLI flag merging; this only rejects out-of-range values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			fe := invalid[0]
			return fmt.Errorf("config error: %q fails %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OutputPath == "" {
		result.OutputPath = defaults.OutputPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	return result
}

// Defaults returns the baseline configuration the CLI starts from.
func Defaults() Config {
	return Config{
		APIKey:      os.Getenv("NASA_API_KEY"),
		OutputPath:  DefaultOutputPath,
		PageSize:    DefaultPageSize,
		Concurrency: DefaultConcurrency,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}
