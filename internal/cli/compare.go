package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sdejongh/codecompass/pkg/models"
)

// NewCompareCommand creates the compare command
func NewCompareCommand(global *GlobalFlags) *cobra.Command {
	flags := &CompareFlags{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a target project against a base project",
		Long: `Walk the base project, classify every kept file and directory as identical,
modified or missing in the target project, print a summary and write a report.

Exit status is 0 when no drift was found, 1 when any item is modified or
missing, and 2 on error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, global, flags)
		},
	}

	addCompareFlags(cmd, flags)

	return cmd
}

// prepare resolves configuration and flags into a ready runner
func prepare(cmd *cobra.Command, global *GlobalFlags, flags *CompareFlags) (*runner, error) {
	cfg, _, err := loadConfig(global)
	if err != nil {
		return nil, err
	}

	if err := applyFlagsToConfig(cmd, cfg, global, flags); err != nil {
		return nil, err
	}

	if err := validateRoots(cfg); err != nil {
		return nil, err
	}

	return newRunner(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Verbose, flags.NoReport)
}

func runCompare(cmd *cobra.Command, global *GlobalFlags, flags *CompareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := prepare(cmd, global, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	r.banner()

	report, err := r.compare(ctx)
	if err != nil {
		return err
	}

	if _, err := r.save(ctx, report); err != nil {
		return err
	}

	if status := report.Status(); status != models.RunClean {
		return &ExitError{Code: status.ExitCode()}
	}
	return nil
}
