package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdejongh/codecompass/internal/platform"
	"github.com/sdejongh/codecompass/pkg/config"
	"github.com/sdejongh/codecompass/pkg/ratelimit"
)

// loadConfig loads configuration from the --config file, the working
// directory or the per-user path, falling back to defaults
func loadConfig(global *GlobalFlags) (*config.Config, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Load(global.ConfigFile, wd)
}

// applyFlagsToConfig overrides config values with command-line flags.
// Only flags given on the command line take effect.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, global *GlobalFlags, flags *CompareFlags) error {
	changed := cmd.Flags().Changed

	if flags.Base != "" {
		cfg.BasePath = flags.Base
	}
	if flags.Target != "" {
		cfg.TargetPath = flags.Target
	}
	if flags.QuickScan {
		cfg.QuickScan = true
	}
	if changed("ignore") {
		cfg.IgnoredPatterns = flags.Ignore
	}
	if changed("ignore-ext") {
		cfg.IgnoredExtensions = flags.IgnoreExt
	}
	if flags.GitIgnore {
		cfg.RespectGitIgnore = true
	}

	if flags.Parallel > 0 {
		cfg.Performance.MaxWorkers = flags.Parallel
	}
	if flags.Hash != "" {
		cfg.HashAlgorithm = flags.Hash
	}
	if flags.Bandwidth != "" {
		limit, err := ratelimit.ParseRate(flags.Bandwidth)
		if err != nil {
			return fmt.Errorf("invalid --bandwidth: %w", err)
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if flags.OutputDir != "" {
		cfg.Output.Directory = flags.OutputDir
	}
	if flags.Format != "" {
		cfg.Output.Format = flags.Format
	}

	if flags.LogFile != "" {
		cfg.Logging.File = flags.LogFile
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	// Quiet wins over everything that prints
	if global.NoColor {
		cfg.Output.Color = false
	}
	if global.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	return cfg.Validate()
}

// validateRoots checks both project roots and makes them absolute.
// The comparison core tolerates a missing target; the command line does not.
// Comparing a directory with itself is rejected.
func validateRoots(cfg *config.Config) error {
	if err := cfg.RequirePaths(); err != nil {
		return err
	}

	if err := platform.ValidateRoot("base", cfg.BasePath); err != nil {
		return err
	}
	if err := platform.ValidateRoot("target", cfg.TargetPath); err != nil {
		return err
	}

	if platform.SameRoot(cfg.BasePath, cfg.TargetPath) {
		return &platform.PathError{
			Path:    cfg.TargetPath,
			Message: "the base and target project paths are the same directory",
		}
	}

	base, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	target, err := filepath.Abs(cfg.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	cfg.BasePath = platform.NormalizePath(base)
	cfg.TargetPath = platform.NormalizePath(target)
	return nil
}
