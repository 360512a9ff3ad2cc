// Package config provides configuration management for the feature pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources                = errors.New("at least one source is required")
	ErrSourceMissingURLOrFile   = errors.New("either URL or file path is required")
	ErrSourceBothURLAndFile     = errors.New("only one of URL or file path may be set")
	ErrSourceMissingName        = errors.New("source name is required")
	ErrNoEnabledSources         = errors.New("at least one source must be enabled")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidBufferSize        = errors.New("retry.buffer_size_kb must be at least 1")
	ErrInvalidUnknownPolicy     = errors.New("unknown.policy must be 'sentinel' or 'drop'")
	ErrInvalidWorkers           = errors.New("pipeline.workers must be at least 1")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrInvalidOutputFormat      = errors.New("output.format must be 'json', 'csv' or 'markdown'")
	ErrInvalidReportFormat      = errors.New("output.report_format must be 'json' or 'markdown'")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Unknown  UnknownConfig  `yaml:"unknown"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PipelineConfig contains input and execution settings.
type PipelineConfig struct {
	Sources []SourceConfig `yaml:"sources"`
	Retry   RetryPolicy    `yaml:"retry"`
	Workers int            `yaml:"workers"`
}

// SourceConfig represents one input text.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	File    string `yaml:"file"`
	Enabled bool   `yaml:"enabled"`
}

// IsLocalFile returns true if this source uses a local file.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// GetSource returns the file path if local, or URL if remote.
func (s *SourceConfig) GetSource() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// RetryPolicy defines retry behavior for remote sources.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	BufferSizeKb      int     `yaml:"buffer_size_kb"`
}

// UnknownConfig decides how codes missing from the lookup tables are handled.
type UnknownConfig struct {
	Policy       string `yaml:"policy"`
	SentinelYear int    `yaml:"sentinel_year"`
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	Path         string `yaml:"path"`
	Format       string `yaml:"format"`
	ReportPath   string `yaml:"report_path"`
	ReportFormat string `yaml:"report_format"`
	ModelPath    string `yaml:"model_path"`
	PrettyPrint  bool   `yaml:"pretty_print"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig defines where batch metrics are exported.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns a configuration usable without a file. It has no sources;
// callers add one before validating.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
				BufferSizeKb:      10240,
			},
			Workers: 4,
		},
		Unknown: UnknownConfig{Policy: "sentinel"},
		Output: OutputConfig{
			Path:         "features.json",
			Format:       "json",
			ReportFormat: "json",
			PrettyPrint:  true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads and validates configuration from a YAML file on top of Default.
func LoadConfig(filepath string) (*Config, error) {
	cfg, err := ReadConfig(filepath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ReadConfig reads a YAML file on top of Default without validating, so
// callers can apply overrides first.
func ReadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Pipeline.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, src := range c.Pipeline.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingName, i)
		}

		if src.URL == "" && src.File == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingURLOrFile, i)
		}

		if src.URL != "" && src.File != "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceBothURLAndFile, i)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if err := c.Pipeline.Retry.validate(); err != nil {
		return err
	}

	if c.Pipeline.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Unknown.Policy != "sentinel" && c.Unknown.Policy != "drop" {
		return ErrInvalidUnknownPolicy
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	switch c.Output.Format {
	case "json", "csv", "markdown":
	default:
		return ErrInvalidOutputFormat
	}

	if c.Output.ReportFormat != "json" && c.Output.ReportFormat != "markdown" {
		return ErrInvalidReportFormat
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (rp *RetryPolicy) validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if rp.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Pipeline.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, Workers: %d, Unknown: %s, Output: %s}",
		len(c.Pipeline.Sources),
		c.Pipeline.Workers,
		c.Unknown.Policy,
		c.Output.Path,
	)
}
