// Package config provides configuration loading and validation for the CLI.
// The configuration object is built once at process start and passed into
// the core components; nothing in the core reads ambient settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/sales-assistant/internal/document"
)

// Config is the process-wide configuration, immutable for the lifetime of a
// run. All fields are optional in the file; missing values fall back to
// environment variables and defaults.
type Config struct {
	// Paths
	DataDir   string `json:"data_dir,omitempty" validate:"required"`
	OutputDir string `json:"output_dir,omitempty" validate:"required"`

	// Completion service
	APIKey      string `json:"api_key,omitempty"`
	Model       string `json:"model,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	TimeoutSecs int    `json:"timeout_secs,omitempty" validate:"gte=0"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

var structValidator = validator.New()

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
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

// FromEnv builds the environment-variable layer of the configuration.
// Loaded after the config file, before flag overrides.
func FromEnv() Config {
	cfg := Config{
		DataDir:   os.Getenv("SALES_DATA_DIR"),
		OutputDir: os.Getenv("SALES_OUTPUT_DIR"),
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		Model:     os.Getenv("GEMINI_MODEL"),
	}
	if v := os.Getenv("SALES_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}
	return cfg
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		DataDir:     "data",
		OutputDir:   "output",
		Model:       "gemini-2.0-flash",
		MaxAttempts: 3,
		TimeoutSecs: 120,
	}
}

// MergeWithDefaults fills empty fields from defaults. Bool fields are not
// merged: flags always win for those.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.TimeoutSecs == 0 {
		result.TimeoutSecs = defaults.TimeoutSecs
	}
	return result
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ExtractedDataDir is where normalized extraction records land.
func (c Config) ExtractedDataDir() string {
	return filepath.Join(c.OutputDir, "extracted_data")
}

// CategoryDir is the data folder for one business category.
func (c Config) CategoryDir(cat document.Category) string {
	return filepath.Join(c.DataDir, string(cat))
}

// outputSubdirs is the fixed artifact layout under the output root.
var outputSubdirs = []string{
	"extracted_data",
	"analysis_reports",
	"sales_scripts",
	"presentations",
	"recommendations",
	"emails",
}

// EnsureDirectories creates the data category folders and the output tree.
// Creation is idempotent.
func (c Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.OutputDir}
	for _, cat := range document.Categories() {
		dirs = append(dirs, c.CategoryDir(cat))
	}
	for _, sub := range outputSubdirs {
		dirs = append(dirs, filepath.Join(c.OutputDir, sub))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
