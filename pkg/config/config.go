package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values, applied wherever the file or flags leave a field empty.
const (
	DefaultBaseURL        = "https://baekilha.link/api"
	DefaultTimeout        = 15 * time.Second
	DefaultMaxRetries     = 3
	DefaultMulticastGroup = "239.83.84.85:8585"
	DefaultReconcile      = 30 * time.Second
	DefaultPageSize       = 10
)

// Config holds all runtime configuration for a page process.
type Config struct {
	// API is the feed endpoint configuration.
	API APIConfig `yaml:"api"`

	// DataDir holds the bolt caches and the shared sync state file.
	DataDir string `yaml:"data_dir"`

	// Channel configures the cross-process notification channel.
	Channel ChannelConfig `yaml:"channel"`

	// Weights are the per-metric weight factors used by `weights set`.
	Weights map[string]float64 `yaml:"weights,omitempty"`

	// LogLevel is debug/info/warn/error.
	LogLevel string `yaml:"log_level"`

	// LogJSON switches console output to JSON lines.
	LogJSON bool `yaml:"log_json"`

	// MetricsAddr, when set, exposes /metrics and /healthz on this address.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`

	// PageSize is rows per page in ranking views.
	PageSize int `yaml:"page_size"`
}

// APIConfig configures the feed HTTP client.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// ChannelConfig configures both notification transports.
type ChannelConfig struct {
	// MulticastGroup is the UDP group:port of the ephemeral transport.
	// Empty disables it (persistent-only mode).
	MulticastGroup string `yaml:"multicast_group"`

	// ReconcileInterval is how often pages compare their cursor against the
	// persistent transport.
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

// Default returns a fully populated config.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		DataDir: filepath.Join(home, ".baekilha"),
		Channel: ChannelConfig{
			MulticastGroup:    DefaultMulticastGroup,
			ReconcileInterval: DefaultReconcile,
		},
		LogLevel: "info",
		PageSize: DefaultPageSize,
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file is not an error: pages run fine on defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.Channel.ReconcileInterval <= 0 {
		c.Channel.ReconcileInterval = DefaultReconcile
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// Validate checks fields whose bad values would only surface deep inside a
// page run.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight %q must be non-negative, got %v", name, w)
		}
	}
	return nil
}

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	return nil
}
