package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/codecompass/pkg/logging"
	"github.com/sdejongh/codecompass/pkg/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(global *GlobalFlags) *cobra.Command {
	flags := &CompareFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Compare, then compare again whenever either project changes",
		Long: `Run a comparison, then watch both project trees and run it again once
changes settle. Ignored paths are not watched. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, global, flags)
		},
	}

	addCompareFlags(cmd, flags)
	cmd.Flags().DurationVar(&flags.Debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running after a change")

	return cmd
}

func runWatch(cmd *cobra.Command, global *GlobalFlags, flags *CompareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r, err := prepare(cmd, global, flags)
	if err != nil {
		return err
	}
	defer r.Close()

	runOnce := func() error {
		r.banner()
		report, err := r.compare(ctx)
		if err != nil {
			return err
		}
		_, err = r.save(ctx, report)
		return err
	}

	if err := runOnce(); err != nil {
		return err
	}

	// One pending change is enough to schedule the next run
	changes := make(chan watch.ChangeEvent, 1)
	watcher, err := watch.New(r.matcher, flags.Debounce, func(e watch.ChangeEvent) {
		select {
		case changes <- e:
		default:
		}
	})
	if err != nil {
		return err
	}
	// Our own reports and logs must not trigger the next run
	if !r.noReport {
		if err := watcher.Skip(r.cfg.Output.Directory); err != nil {
			return err
		}
	}
	if r.cfg.Logging.File != "" {
		if err := watcher.Skip(r.cfg.Logging.File); err != nil {
			return err
		}
	}
	for _, root := range []string{r.cfg.BasePath, r.cfg.TargetPath} {
		if err := watcher.AddRoot(root); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Run(ctx)
	}()

	r.console.Detail("Watching for changes (Ctrl+C to stop)...")
	r.logger.Info(ctx, "Watching", logging.Fields{
		"base":     r.cfg.BasePath,
		"target":   r.cfg.TargetPath,
		"debounce": flags.Debounce.String(),
	})

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch stopped: %w", err)

		case e := <-changes:
			r.logger.Debug(ctx, "Change detected", logging.Fields{
				"root": e.Root,
				"path": e.Path,
				"type": e.ChangeType,
			})
			r.console.Detail("Change detected: %s %s", e.ChangeType, e.Path)
			if err := runOnce(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
