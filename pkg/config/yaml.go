package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SearchPaths lists the files Load looks for in the working directory,
// in order. JSON is read by the same YAML decoder.
var SearchPaths = []string{"config.yaml", "config.yml", "config.json"}

// LoadFromFile loads configuration from a YAML or JSON file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the per-user configuration file path
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".config", "codecompass", "config.yaml"), nil
}

// Resolve returns the configuration file to use.
// An explicit path wins; otherwise the working directory is searched, then the
// per-user path. An empty result means no file was found.
func Resolve(explicit, workDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, name := range SearchPaths {
		candidate := filepath.Join(workDir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, nil
	}

	return "", nil
}

// Load resolves and loads the configuration, falling back to defaults when no
// file exists. It also returns the file used, if any.
func Load(explicit, workDir string) (*Config, string, error) {
	path, err := Resolve(explicit, workDir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
