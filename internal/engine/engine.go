// Package engine runs a map/reduce job over a set of local input files.
//
// A run has three steps: a parallel map phase with one task per file, a
// barrier, and a reduce phase over every intermediate key whose results are
// written as a sorted, tab-separated file. Any failure aborts the run
// without touching the output file.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"pkg.jsn.cam/linereduce/internal/logx"
	"pkg.jsn.cam/linereduce/internal/output"
	"pkg.jsn.cam/linereduce/internal/store"
	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

const (
	DefaultMapTimeout   = time.Hour
	DefaultMaxLineBytes = 64 * 1024 * 1024
	DefaultStopGrace    = time.Second
)

// Config holds engine configuration. Zero values get defaults.
type Config struct {
	Parallelism       int           // map workers when Run gets 0 (default: NumCPU)
	ReduceParallelism int           // reduce workers (default: 1, sequential)
	MapTimeout        time.Duration // bound on the map barrier (default: 1h)
	MaxLineBytes      int           // longest accepted input line (default: 64 MiB)
	Shards            int           // intermediate store shards (default: store.DefaultShards)

	// StopGrace bounds how long a failed or timed out phase waits for
	// in-flight tasks before abandoning them (default: 1s).
	StopGrace time.Duration

	// Policy overrides the worker's output policy when set.
	Policy *linereduce.Policy

	Logger logrus.FieldLogger

	// OnFileDone is called once per finished map task, never concurrently.
	OnFileDone func(FileStats)
}

// Engine runs jobs for one worker.
type Engine struct {
	worker linereduce.Worker
	config Config
	log    *logrus.Entry
}

// New creates an engine for worker.
func New(worker linereduce.Worker, cfg Config) (*Engine, error) {
	if worker == nil {
		return nil, fmt.Errorf("%w: nil worker", linereduce.ErrInvalidArgument)
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.NumCPU()
	}
	if cfg.ReduceParallelism <= 0 {
		cfg.ReduceParallelism = 1
	}
	if cfg.MapTimeout <= 0 {
		cfg.MapTimeout = DefaultMapTimeout
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = DefaultStopGrace
	}

	return &Engine{
		worker: worker,
		config: cfg,
		log:    logx.For(cfg.Logger, "engine"),
	}, nil
}

// Parallelism returns the map worker count Run uses when given 0.
func (e *Engine) Parallelism() int {
	return e.config.Parallelism
}

// Policy returns the output policy runs of this engine use.
func (e *Engine) Policy() linereduce.Policy {
	if e.config.Policy != nil {
		return *e.config.Policy
	}

	return linereduce.PolicyOf(e.worker)
}

// Run maps every file in inputs, reduces the grouped values and writes the
// results to outputFile. parallelism bounds the map workers; 0 uses the
// configured default.
//
// Errors wrap linereduce.ErrInvalidArgument, ErrMapPhase, ErrTimeout,
// ErrReducePhase or ErrOutputWrite, or the context's error if ctx ends.
// On error the output file is neither created nor modified.
func (e *Engine) Run(ctx context.Context, inputs []string, outputFile string, parallelism int) (*Report, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no input files provided", linereduce.ErrInvalidArgument)
	}
	if outputFile == "" {
		return nil, fmt.Errorf("%w: no output file provided", linereduce.ErrInvalidArgument)
	}
	if parallelism < 0 {
		return nil, fmt.Errorf("%w: parallelism must be positive, got %d", linereduce.ErrInvalidArgument, parallelism)
	}
	if parallelism == 0 {
		parallelism = e.config.Parallelism
	}

	report := &Report{
		RunID:     uuid.New().String(),
		Output:    outputFile,
		Policy:    e.Policy(),
		Workers:   parallelism,
		StartedAt: time.Now(),
	}
	log := e.log.WithField("run", report.RunID[:8])

	inter := store.NewIntermediate(e.config.Shards)

	log.WithField("files", len(inputs)).Infof("Map phase started with %d worker(s)", parallelism)

	if err := e.mapPhase(ctx, inputs, parallelism, inter, report); err != nil {
		log.WithError(err).Error("Map phase failed")
		return report, err
	}

	inter.Seal()
	report.MapPhaseCompletedAt = time.Now()
	report.Values = inter.ValueCount()
	report.Dropped = inter.Dropped()
	report.Keys = inter.Len()

	log.WithField("keys", report.Keys).Infof("Map phase completed in %v (%d lines)",
		report.MapPhaseDuration().Round(time.Millisecond), report.Lines)

	results := store.NewResults()
	if err := e.reducePhase(ctx, inter, results, e.config.ReduceParallelism); err != nil {
		log.WithError(err).Error("Reduce phase failed")
		return report, err
	}
	report.Results = results.Len()

	summary, err := output.Write(outputFile, results.Sorted(), report.Policy)
	if err != nil {
		log.WithError(err).Error("Writing output failed")
		return report, err
	}

	report.Written = summary.Lines
	report.BytesWritten = summary.Bytes
	report.MaxValue = summary.Max
	report.CompletedAt = time.Now()

	log.WithField("policy", report.Policy).Infof("Wrote %d of %d result(s) to %s",
		report.Written, report.Results, outputFile)

	return report, nil
}

// mapPhase runs one map task per input and blocks until every task is done,
// one has failed, or the map timeout elapses. Tasks that ignore
// cancellation are abandoned after Config.StopGrace.
func (e *Engine) mapPhase(ctx context.Context, inputs []string, workers int, inter *store.Intermediate, report *Report) error {
	mapCtx, cancel := context.WithTimeout(ctx, e.config.MapTimeout)
	defer cancel()

	emit := inter.Emitter()

	task := func(ctx context.Context, path string) (FileStats, error) {
		stats, err := e.runMapTask(ctx, path, emit)
		if err != nil {
			// Tasks interrupted by the barrier aren't the cause of the failure.
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return stats, ctx.Err()
			}
			return stats, &linereduce.MapPhaseError{File: path, Err: err}
		}
		return stats, nil
	}

	done := func(stats FileStats) {
		report.addFile(stats)
		e.log.WithFields(logrus.Fields{
			"lines":   stats.Lines,
			"emitted": stats.Emitted,
		}).Debugf("Mapped %s", stats.Path)

		if e.config.OnFileDone != nil {
			e.config.OnFileDone(stats)
		}
	}

	err := fanOut(mapCtx, inputs, workers, e.config.StopGrace, task, done)

	var mapErr *linereduce.MapPhaseError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mapErr):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("map phase interrupted: %w", ctx.Err())
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(mapCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %v", linereduce.ErrTimeout, e.config.MapTimeout)
	default:
		return fmt.Errorf("%w: %w", linereduce.ErrMapPhase, err)
	}
}
