package tree

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sdejongh/codecompass/pkg/compare"
	"github.com/sdejongh/codecompass/pkg/ignore"
	"github.com/sdejongh/codecompass/pkg/logging"
	"github.com/sdejongh/codecompass/pkg/models"
	"github.com/sdejongh/codecompass/pkg/storage"
)

// ProgressFunc is called once per classified record. Calls are serialized.
type ProgressFunc func(done, total int, record models.Record)

// Options configures a Comparator
type Options struct {
	// QuickScan classifies every existing target item as identical without reading content
	QuickScan bool

	// Workers bounds concurrent classifications; 0 or 1 runs sequentially
	Workers int

	// Equality decides file content equality; defaults to a SHA-256 HashComparator
	Equality compare.Comparator

	// Logger receives per-item debug lines and warnings
	Logger logging.Logger

	// OnStart is called after the walk with the number of records to classify
	OnStart func(total int)

	// OnProgress is called after each record is classified
	OnProgress ProgressFunc
}

// Comparator classifies every kept entry of a base tree against a target tree
type Comparator struct {
	base    storage.Backend
	target  storage.Backend
	matcher *ignore.Matcher
	opts    Options
}

// NewComparator creates a tree comparator. A nil matcher ignores nothing.
func NewComparator(base, target storage.Backend, matcher *ignore.Matcher, opts Options) *Comparator {
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}
	if opts.Equality == nil {
		// Default options always construct
		opts.Equality, _ = compare.NewHashComparator(compare.Options{})
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if matcher == nil {
		matcher = ignore.NewMatcher(ignore.Rules{})
	}

	return &Comparator{
		base:    base,
		target:  target,
		matcher: matcher,
		opts:    opts,
	}
}

// Compare walks the base tree, lays out one record per kept entry in
// presentation order and classifies each against the target.
// The result is returned whole, or not at all.
func (c *Comparator) Compare(ctx context.Context) (*models.Result, error) {
	logger := c.opts.Logger
	start := time.Now()

	logger.Info(ctx, "Scanning base tree", logging.Fields{
		"base":   c.base.Root(),
		"target": c.target.Root(),
		"quick":  c.opts.QuickScan,
	})

	root, err := build(ctx, c.base, c.matcher, logger)
	if err != nil {
		return nil, err
	}

	records := Layout(root)
	if c.opts.OnStart != nil {
		c.opts.OnStart(len(records))
	}

	logger.Info(ctx, "Classifying items", logging.Fields{
		"items":   len(records),
		"workers": c.opts.Workers,
	})

	if c.opts.Workers > 1 {
		err = c.classifyParallel(ctx, records)
	} else {
		err = c.classifySequential(ctx, records)
	}
	if err != nil {
		return nil, err
	}

	counts := models.NewCounts()
	for _, rec := range records {
		counts[rec.Status]++
	}

	logger.Info(ctx, "Comparison complete", logging.Fields{
		"identical": counts[models.StatusIdentical],
		"modified":  counts[models.StatusModified],
		"missing":   counts[models.StatusMissing],
		"duration":  time.Since(start).String(),
	})

	return &models.Result{Records: records, Counts: counts}, nil
}

func (c *Comparator) classifySequential(ctx context.Context, records []models.Record) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.classify(ctx, &records[i])
		if c.opts.OnProgress != nil {
			c.opts.OnProgress(i+1, len(records), records[i])
		}
	}
	return ctx.Err()
}

// classifyParallel fans classifications out over a semaphore-bounded pool.
// Every worker writes only its own slot, so record order is untouched.
func (c *Comparator) classifyParallel(ctx context.Context, records []models.Record) error {
	semaphore := make(chan struct{}, c.opts.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i := range records {
		if ctx.Err() != nil {
			break
		}

		semaphore <- struct{}{}
		wg.Add(1)

		go func(rec *models.Record) {
			defer wg.Done()
			defer func() { <-semaphore }()

			c.classify(ctx, rec)

			if c.opts.OnProgress != nil {
				mu.Lock()
				done++
				c.opts.OnProgress(done, len(records), *rec)
				mu.Unlock()
			}
		}(&records[i])
	}

	wg.Wait()
	return ctx.Err()
}

// classify sets the status of one record.
// Missing beats everything; directories are judged on existence alone.
func (c *Comparator) classify(ctx context.Context, rec *models.Record) {
	logger := c.opts.Logger

	exists, err := c.target.Exists(ctx, rec.RelPath)
	if err != nil {
		logger.Warn(ctx, "Cannot check target, treating as missing", logging.Fields{
			"path":  rec.RelPath,
			"error": err.Error(),
		})
	}

	switch {
	case !exists:
		rec.Status = models.StatusMissing
	case rec.IsDir, c.opts.QuickScan:
		rec.Status = models.StatusIdentical
	default:
		cmp := c.opts.Equality.Compare(ctx, c.base, c.target, rec.RelPath)
		if cmp.Identical() {
			rec.Status = models.StatusIdentical
		} else {
			rec.Status = models.StatusModified
			rec.Reason = cmp.Reason
		}
		if cmp.Err != nil && ctx.Err() == nil {
			logger.Warn(ctx, "Content comparison failed", logging.Fields{
				"path":   rec.RelPath,
				"reason": cmp.Reason,
				"error":  cmp.Err.Error(),
			})
		}
	}

	logger.Debug(ctx, "Classified", logging.Fields{
		"path":   rec.RelPath,
		"status": string(rec.Status),
		"reason": rec.Reason,
	})
}

// Layout flattens a tree into records in presentation order, computing each
// record's prefix and connector. Statuses are left empty.
func Layout(root *Node) []models.Record {
	records := make([]models.Record, 0, root.Count())
	layout(root, "", 0, &records)
	return records
}

func layout(dir *Node, prefix string, depth int, records *[]models.Record) {
	children := dir.Children()
	for i, child := range children {
		last := i == len(children)-1

		connector := models.ConnectorMiddle
		extension := models.PrefixContinue
		if last {
			connector = models.ConnectorLast
			extension = models.PrefixBlank
		}

		*records = append(*records, models.Record{
			Prefix:    prefix,
			Connector: connector,
			Name:      child.Name,
			RelPath:   child.RelPath,
			IsDir:     child.IsDir(),
			Depth:     depth,
		})

		if child.IsDir() {
			layout(child, prefix+extension, depth+1, records)
		}
	}
}

// String describes the comparator configuration
func (c *Comparator) String() string {
	mode := models.ModeDeep
	if c.opts.QuickScan {
		mode = models.ModeQuick
	}
	return fmt.Sprintf("%s -> %s (%s, %s, workers=%d)",
		c.base.Root(), c.target.Root(), mode, c.opts.Equality.Name(), c.opts.Workers)
}
