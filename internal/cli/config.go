package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/codecompass/pkg/config"
	"github.com/sdejongh/codecompass/pkg/output"
)

// NewConfigCommand creates the config command
func NewConfigCommand(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the codecompass configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand(global))
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(global)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path == "" {
				path = "(defaults)"
			}
			bandwidth := "unlimited"
			if cfg.Performance.BandwidthLimit > 0 {
				bandwidth = output.FormatRate(cfg.Performance.BandwidthLimit)
			}

			fmt.Fprintf(out, "Config File: %s\n", path)
			fmt.Fprintf(out, "Base Project: %s\n", cfg.BasePath)
			fmt.Fprintf(out, "Target Project: %s\n", cfg.TargetPath)
			fmt.Fprintf(out, "Ignored Patterns: %s\n", strings.Join(cfg.IgnoredPatterns, ", "))
			fmt.Fprintf(out, "Ignored Extensions: %s\n", strings.Join(cfg.IgnoredExtensions, ", "))
			fmt.Fprintf(out, "Respect .gitignore: %t\n", cfg.RespectGitIgnore)
			fmt.Fprintf(out, "Mode: %s\n", cfg.Mode().Label())
			fmt.Fprintf(out, "Hash: %s\n", cfg.HashAlgorithm)
			fmt.Fprintf(out, "Max Workers: %d\n", cfg.Performance.MaxWorkers)
			fmt.Fprintf(out, "Bandwidth: %s\n", bandwidth)
			fmt.Fprintf(out, "Output Directory: %s\n", cfg.Output.Directory)
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to create (default is $HOME/.config/codecompass/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
