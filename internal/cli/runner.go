package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/codecompass/internal/platform"
	"github.com/sdejongh/codecompass/pkg/compare"
	"github.com/sdejongh/codecompass/pkg/config"
	"github.com/sdejongh/codecompass/pkg/ignore"
	"github.com/sdejongh/codecompass/pkg/logging"
	"github.com/sdejongh/codecompass/pkg/models"
	"github.com/sdejongh/codecompass/pkg/output"
	"github.com/sdejongh/codecompass/pkg/ratelimit"
	"github.com/sdejongh/codecompass/pkg/storage"
	"github.com/sdejongh/codecompass/pkg/tree"
)

// runner executes comparison runs for one validated configuration
type runner struct {
	cfg      *config.Config
	out      io.Writer
	console  *output.Console
	logger   logging.Logger
	noReport bool

	matcher *ignore.Matcher
}

// newRunner builds the logger and ignore matcher for cfg.
// Verbose without a log file sends debug lines to errOut.
func newRunner(cfg *config.Config, out, errOut io.Writer, verbose, noReport bool) (*runner, error) {
	opts := logging.Options{
		File:   cfg.Logging.File,
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	}
	if verbose && opts.File == "" {
		opts.Console = errOut
		opts.Level = "debug"
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	r := &runner{
		cfg:      cfg,
		out:      out,
		console:  output.NewConsole(out, cfg.Output.Color, cfg.Output.Quiet),
		logger:   logger,
		noReport: noReport,
	}

	r.matcher, err = buildMatcher(cfg)
	if err != nil {
		logger.Close()
		return nil, err
	}
	for _, p := range r.matcher.Invalid() {
		logger.Warn(context.Background(), "Ignore pattern does not compile and never matches", logging.Fields{"pattern": p})
	}

	return r, nil
}

// buildMatcher compiles the configured ignore rules, adding the base
// project's .gitignore when requested
func buildMatcher(cfg *config.Config) (*ignore.Matcher, error) {
	rules := cfg.IgnoreRules()
	if cfg.RespectGitIgnore {
		lines, err := ignore.LoadGitIgnore(filepath.Join(cfg.BasePath, ".gitignore"))
		if err != nil {
			return nil, err
		}
		rules.GitIgnore = lines
	}
	return ignore.NewMatcher(rules), nil
}

func (r *runner) Close() error {
	return r.logger.Close()
}

// banner prints the run header and the active ignore rules
func (r *runner) banner() {
	r.console.Banner(r.cfg.BasePath, r.cfg.TargetPath, r.cfg.Mode())
	if literals := r.matcher.Literals(); len(literals) > 0 {
		r.console.Detail("Ignoring names/paths: %s", strings.Join(literals, ", "))
	}
	if wildcards := r.matcher.Wildcards(); len(wildcards) > 0 {
		r.console.Detail("Ignoring patterns:    %s", strings.Join(wildcards, ", "))
	}
	if len(r.cfg.IgnoredExtensions) > 0 {
		r.console.Detail("Ignoring extensions:  %s", strings.Join(r.cfg.IgnoredExtensions, ", "))
	}
	if r.matcher.UsesGitIgnore() {
		r.console.Detail("Applying base .gitignore")
	}
	if limit := r.cfg.Performance.BandwidthLimit; limit > 0 {
		r.console.Detail("Bandwidth limit:      %s", output.FormatRate(limit))
	}
}

// compare runs one full comparison and returns its report
func (r *runner) compare(ctx context.Context) (*models.Report, error) {
	cfg := r.cfg
	start := time.Now()

	base, err := storage.NewLocal(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create base backend: %w", err)
	}
	defer base.Close()

	target, err := storage.NewLocal(cfg.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create target backend: %w", err)
	}
	defer target.Close()

	limiter := ratelimit.NewLimiter(cfg.Performance.BandwidthLimit)
	equality, err := compare.NewHashComparator(compare.Options{
		Algorithm:     cfg.HashAlgorithm,
		BufferSize:    cfg.Performance.BufferSize,
		ReaderWrapper: limiter.Wrapper(ctx),
	})
	if err != nil {
		return nil, err
	}

	progress := output.NewProgress(r.out, cfg.Output.Progress && !cfg.Output.Quiet)
	comparator := tree.NewComparator(base, target, r.matcher, tree.Options{
		QuickScan:  cfg.QuickScan,
		Workers:    cfg.Performance.MaxWorkers,
		Equality:   equality,
		Logger:     r.logger,
		OnStart:    progress.Start,
		OnProgress: progress.Update,
	})
	r.logger.Debug(ctx, "Comparator configured", logging.Fields{"comparator": comparator.String()})

	r.console.Phase("Phase 1: Analyzing directory structure and content...")
	result, err := comparator.Compare(ctx)
	progress.Finish()
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}
	r.console.Done("Analysis complete. Found %d items compared.", result.Counts.Total())

	end := time.Now()
	report := &models.Report{
		ID:         uuid.New().String(),
		BaseRoot:   cfg.BasePath,
		TargetRoot: cfg.TargetPath,
		Mode:       cfg.Mode(),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		Result:     result,
	}
	r.console.Summary(result.Counts, report.Duration)

	r.logger.Info(ctx, "Comparison finished", logging.Fields{
		"run_id":    report.ID,
		"base":      platform.ProjectName(cfg.BasePath),
		"target":    platform.ProjectName(cfg.TargetPath),
		"identical": result.Counts[models.StatusIdentical],
		"modified":  result.Counts[models.StatusModified],
		"missing":   result.Counts[models.StatusMissing],
		"duration":  report.Duration.String(),
	})

	return report, nil
}

// save writes the report file unless reports are disabled and closes the
// run on the console. It returns the report path, empty when none was written.
func (r *runner) save(ctx context.Context, report *models.Report) (string, error) {
	if r.noReport {
		r.console.Finished("")
		return "", nil
	}

	r.console.Phase("Phase 2: Writing comparison file...")
	path, err := output.Save(r.cfg.Output.Directory, report, r.cfg.Output.Format)
	if err != nil {
		r.logger.Error(ctx, "Failed to save report", err, logging.Fields{"run_id": report.ID})
		return "", err
	}
	r.console.Done("File writing complete.")
	r.console.Finished(path)

	r.logger.Info(ctx, "Report saved", logging.Fields{"run_id": report.ID, "path": path})
	return path, nil
}
