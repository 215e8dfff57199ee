// Package upgrade drives fixes over every record of a store.
package upgrade

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"worldupgrade/internal/datafix"
	"worldupgrade/internal/store"
)

// Options tune a Runner.
type Options struct {
	// Context is attached to every record before the fixes run.
	Context datafix.Context
	// TargetVersion is the data version records are upgraded to.
	TargetVersion int
	// DefaultVersion is assumed for records without a DataVersion.
	DefaultVersion   int
	Workers          int
	BatchSize        int
	FailFast         bool
	DryRun           bool
	ProgressInterval time.Duration
}

// Summary counts the outcome of a run.
type Summary struct {
	Migrated int64
	Skipped  int64
	Failed   int64
	Elapsed  time.Duration
}

func (s Summary) Total() int64 { return s.Migrated + s.Skipped + s.Failed }

// Runner migrates every record of source and writes the results to sink.
// Source and sink may be the same store.
type Runner struct {
	source   store.RecordStore
	sink     store.RecordStore
	registry *datafix.Registry
	opts     Options
	log      *zap.Logger
	metrics  *Metrics
	now      func() time.Time

	migrated atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

func NewRunner(source, sink store.RecordStore, registry *datafix.Registry, opts Options, logger *zap.Logger, metrics *Metrics) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.TargetVersion == 0 {
		opts.TargetVersion = registry.Latest()
	}
	return &Runner{
		source:   source,
		sink:     sink,
		registry: registry,
		opts:     opts,
		log:      logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run processes every key of the source store. Per-record failures are
// logged and counted; with FailFast the first one stops the run. Cancelling
// ctx stops the run between records.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := r.now()
	keys, err := r.source.Keys()
	if err != nil {
		return Summary{}, errors.Wrap(err, "list source records")
	}

	queue := NewQueue()
	for _, pos := range keys {
		queue.Enqueue(Job{Pos: pos, QueuedAt: start})
	}
	r.log.Info("starting upgrade",
		zap.Int("records", len(keys)),
		zap.Int("target_version", r.opts.TargetVersion),
		zap.String("dimension", r.opts.Context.Dimension),
		zap.Int("workers", r.opts.Workers),
		zap.Bool("dry_run", r.opts.DryRun))

	lastProgress := start
	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return r.summary(start), err
		}
		if err := r.runBatch(ctx, queue.Drain(r.opts.BatchSize)); err != nil {
			return r.summary(start), err
		}
		if r.opts.ProgressInterval > 0 && r.now().Sub(lastProgress) >= r.opts.ProgressInterval {
			lastProgress = r.now()
			s := r.summary(start)
			r.log.Info("upgrade progress",
				zap.Int64("done", s.Total()),
				zap.Int("remaining", queue.Len()),
				zap.Int64("failed", s.Failed))
		}
	}

	s := r.summary(start)
	r.log.Info("upgrade finished",
		zap.Int64("migrated", s.Migrated),
		zap.Int64("skipped", s.Skipped),
		zap.Int64("failed", s.Failed),
		zap.Duration("elapsed", s.Elapsed))
	return s, nil
}

func (r *Runner) runBatch(ctx context.Context, batch []Job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, job := range batch {
		job := job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			began := r.now()
			result, err := r.process(job.Pos)
			r.metrics.observe(result, r.now().Sub(began).Seconds())
			switch result {
			case resultMigrated:
				r.migrated.Add(1)
			case resultSkipped:
				r.skipped.Add(1)
			default:
				r.failed.Add(1)
				r.log.Warn("chunk upgrade failed", zap.Stringer("chunk", job.Pos), zap.Error(err))
				if r.opts.FailFast {
					return errors.Wrapf(err, "chunk %s", job.Pos)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// process migrates one record and reports its result label.
func (r *Runner) process(pos store.ChunkPos) (string, error) {
	record, ok, err := r.source.Load(pos)
	if err != nil {
		return resultFailed, err
	}
	if !ok {
		return resultSkipped, nil
	}

	from := datafix.RecordVersion(record, r.opts.DefaultVersion)
	if from >= r.opts.TargetVersion {
		if r.sink != r.source && !r.opts.DryRun {
			if err := r.sink.Save(pos, record); err != nil {
				return resultFailed, err
			}
		}
		return resultSkipped, nil
	}

	annotated := datafix.AttachContext(record, r.opts.Context)
	upgraded, err := r.registry.Upgrade(annotated, from, r.opts.TargetVersion)
	if err != nil {
		return resultFailed, err
	}
	upgraded = datafix.DetachContext(upgraded)
	r.log.Debug("chunk upgraded", zap.Stringer("chunk", pos), zap.Int("from", from))
	if r.opts.DryRun {
		return resultMigrated, nil
	}
	if err := r.sink.Save(pos, upgraded); err != nil {
		return resultFailed, err
	}
	return resultMigrated, nil
}

func (r *Runner) summary(start time.Time) Summary {
	return Summary{
		Migrated: r.migrated.Load(),
		Skipped:  r.skipped.Load(),
		Failed:   r.failed.Load(),
		Elapsed:  r.now().Sub(start),
	}
}
