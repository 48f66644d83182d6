package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the codecompass command tree
func NewRootCommand() *cobra.Command {
	global := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "codecompass",
		Short: "Detect drift between a base project and a target project",
		Long: `codecompass compares a target directory tree against a base directory tree.
Every file and directory kept by the ignore rules is reported as identical,
modified or missing, in a tree-shaped report with a summary.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd, global)

	rootCmd.AddCommand(NewCompareCommand(global))
	rootCmd.AddCommand(NewWatchCommand(global))
	rootCmd.AddCommand(NewConfigCommand(global))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
