// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"reservation-analysis/internal/errors"
	"reservation-analysis/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Azure identifies the subscription and the credential to reach it
	Azure AzureConfig `json:"azure" yaml:"azure"`

	// Analysis controls how feeds are drained and rows assembled
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// AzureConfig contains Azure-specific settings
type AzureConfig struct {
	// SubscriptionID is the subscription under analysis
	SubscriptionID string `json:"subscription_id,omitempty" yaml:"subscription_id,omitempty"`

	// TenantID pins the credential to a tenant
	TenantID string `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`

	// ClientID selects a user-assigned managed identity
	ClientID string `json:"client_id,omitempty" yaml:"client_id,omitempty"`

	// Cloud is one of public, china, usgov
	Cloud string `json:"cloud" yaml:"cloud"`

	// MaxRetries is passed to the SDK retry policy
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnalysisConfig contains reconciliation settings
type AnalysisConfig struct {
	// Source names the feed source (azure, snapshot)
	Source string `json:"source" yaml:"source"`

	// SnapshotPath is the file read by the snapshot source
	SnapshotPath string `json:"snapshot_path,omitempty" yaml:"snapshot_path,omitempty"`

	// FeedTimeoutSeconds bounds each feed's retrieval; 0 disables the limit
	FeedTimeoutSeconds int `json:"feed_timeout_seconds" yaml:"feed_timeout_seconds"`

	// Sequential drains feeds one at a time
	Sequential bool `json:"sequential" yaml:"sequential"`

	// Unsorted keeps rows in reconciliation order
	Unsorted bool `json:"unsorted" yaml:"unsorted"`

	// ResourceTypes restricts commitments by reserved resource type
	ResourceTypes []string `json:"resource_types,omitempty" yaml:"resource_types,omitempty"`

	// feedTimeout holds a timeout given as a duration, which may be finer
	// than whole seconds
	feedTimeout time.Duration
}

// FeedTimeout returns the feed timeout as a duration
func (a AnalysisConfig) FeedTimeout() time.Duration {
	if a.feedTimeout != 0 {
		return a.feedTimeout
	}
	return time.Duration(a.FeedTimeoutSeconds) * time.Second
}

// SetFeedTimeout sets the feed timeout from a duration. FeedTimeoutSeconds is
// rounded away from zero so a sub-second limit never reads as "no limit".
func (a *AnalysisConfig) SetFeedTimeout(d time.Duration) {
	a.feedTimeout = d
	a.FeedTimeoutSeconds = int(d / time.Second)
	switch rem := d % time.Second; {
	case rem > 0:
		a.FeedTimeoutSeconds++
	case rem < 0:
		a.FeedTimeoutSeconds--
	}
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// NoColor disables terminal colours
	NoColor bool `json:"no_color" yaml:"no_color"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr                  string `json:"addr" yaml:"addr"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// RequestTimeout returns the per-request timeout as a duration
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Azure: AzureConfig{
			Cloud:      "public",
			MaxRetries: 3,
		},
		Analysis: AnalysisConfig{
			Source:             "azure",
			FeedTimeoutSeconds: 120,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
		},
		Server: ServerConfig{
			Addr:                  ":8080",
			RequestTimeoutSeconds: 300,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON, YAML or HCL file.
// Unset keys keep their defaults; a missing file is a config error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.TypeConfig, "config file %s does not exist", path)
		}
		return nil, errors.Wrapf(errors.TypeConfig, err, "read %s", path)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		err = decodeHCL(path, data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "parse %s", path)
	}

	return config, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings every analysis needs
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Azure.SubscriptionID) == "" {
		return errors.Config("azure subscription ID is not set (AZURE_SUBSCRIPTION_ID)")
	}
	return c.ValidateSource()
}

// ValidateSource checks the feed source settings only. The server uses it at
// startup because the subscription may arrive with each request.
func (c *Config) ValidateSource() error {
	switch c.Analysis.Source {
	case "azure":
	case "snapshot":
		if c.Analysis.SnapshotPath == "" {
			return errors.Config("snapshot source requires a snapshot path")
		}
	default:
		return errors.Newf(errors.TypeConfig, "unknown source %q", c.Analysis.Source)
	}
	if c.Analysis.FeedTimeoutSeconds < 0 {
		return errors.Config("feed timeout cannot be negative")
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
