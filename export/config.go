package export

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full exporter configuration. Credentials are never read
// from the file; the caller takes them from the environment.
type Config struct {
	BaseURL      string `yaml:"base_url"`
	Space        string `yaml:"space"`
	OutputDir    string `yaml:"output_dir"`
	StateDB      string `yaml:"state_db"`     // empty disables incremental state
	Incremental  bool   `yaml:"incremental"`  // skip pages whose body hash is unchanged
	SanitizeHTML bool   `yaml:"sanitize_html"`
	TimeoutSec   int    `yaml:"timeout_sec"`

	// Logger for progress and per-page errors.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  "exported_docs",
		TimeoutSec: 30,
	}
}

// LoadConfig reads and parses a YAML config file, merged over defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Space == "" {
		return fmt.Errorf("space is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.TimeoutSec <= 0 {
		return fmt.Errorf("timeout_sec must be > 0")
	}
	return nil
}

func (c *Config) defaults() {
	if c.OutputDir == "" {
		c.OutputDir = "exported_docs"
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 30
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
