package config

import (
	"github.com/sdejongh/codecompass/pkg/ignore"
	"github.com/sdejongh/codecompass/pkg/models"
)

// Config represents the application configuration
type Config struct {
	BasePath          string   `yaml:"base_project_path"`
	TargetPath        string   `yaml:"target_project_path"`
	IgnoredPatterns   []string `yaml:"ignored_patterns"`
	IgnoredExtensions []string `yaml:"ignored_file_extensions"`
	RespectGitIgnore  bool     `yaml:"respect_gitignore"`
	QuickScan         bool     `yaml:"quick_scan"`
	HashAlgorithm     string   `yaml:"hash_algorithm"`

	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers"`
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Directory string `yaml:"directory"` // where report files are written
	Format    string `yaml:"format"`    // "text" or "json"
	Progress  bool   `yaml:"progress"`  // Show progress bar
	Color     bool   `yaml:"color"`     // Colorize console output
	Quiet     bool   `yaml:"quiet"`     // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	File   string `yaml:"file"`   // Log file path (empty = disabled)
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		IgnoredPatterns: []string{
			".git",
			"node_modules",
			"__pycache__",
		},
		IgnoredExtensions: []string{},
		HashAlgorithm:     "sha256",
		Performance: PerformanceConfig{
			MaxWorkers:     1,
			BufferSize:     8192,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Directory: "output",
			Format:    "text",
			Progress:  true,
			Color:     true,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Validate checks if the configuration is valid.
// Project paths are not required here since flags may supply them.
func (c *Config) Validate() error {
	validHashes := map[string]bool{"sha256": true, "md5": true}
	if !validHashes[c.HashAlgorithm] {
		return &models.ValidationError{
			Field:   "hash_algorithm",
			Message: "must be 'sha256' or 'md5'",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'text' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// RequirePaths checks that both project paths are set
func (c *Config) RequirePaths() error {
	if c.BasePath == "" {
		return &models.ValidationError{
			Field:   "base_project_path",
			Message: "is required",
		}
	}
	if c.TargetPath == "" {
		return &models.ValidationError{
			Field:   "target_project_path",
			Message: "is required",
		}
	}
	return nil
}

// IgnoreRules returns the ignore configuration for the matcher
func (c *Config) IgnoreRules() ignore.Rules {
	return ignore.Rules{
		Patterns:   append([]string(nil), c.IgnoredPatterns...),
		Extensions: append([]string(nil), c.IgnoredExtensions...),
	}
}

// Mode returns the scan mode selected by QuickScan
func (c *Config) Mode() models.ScanMode {
	if c.QuickScan {
		return models.ModeQuick
	}
	return models.ModeDeep
}
