package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"pkg.jsn.cam/linereduce/internal/engine"
	"pkg.jsn.cam/linereduce/internal/history"
	"pkg.jsn.cam/linereduce/pkg/executors"
	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Options configures a single job run.
type Options struct {
	Executor      string
	Output        string
	Inputs        []string // already resolved
	Workers       int
	ReduceWorkers int
	Timeout       time.Duration
	Policy        string // "" keeps the executor's policy
	Progress      bool
	History       history.Store
}

// RunJob runs the job described by opts, logging through log.
// Progress bars go to progressOut.
func RunJob(ctx context.Context, opts Options, log *logrus.Entry, progressOut io.Writer) (*engine.Report, error) {
	worker := executors.GetExecutor(opts.Executor)
	if worker == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", linereduce.ErrUnknownExecutor, opts.Executor, executors.ListExecutors())
	}

	cfg := engine.Config{
		Parallelism:       opts.Workers,
		ReduceParallelism: opts.ReduceWorkers,
		MapTimeout:        opts.Timeout,
		Logger:            log.Logger,
	}

	if opts.Policy != "" {
		p, err := linereduce.ParsePolicy(opts.Policy)
		if err != nil {
			return nil, err
		}
		cfg.Policy = &p
	}

	if opts.Progress {
		bar := progressbar.NewOptions(len(opts.Inputs),
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription("mapping"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()

		cfg.OnFileDone = func(engine.FileStats) {
			_ = bar.Add(1)
		}
	}

	eng, err := engine.New(worker, cfg)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = eng.Parallelism()
	}
	if workers > 0 {
		log.Infof("Running with %d worker thread(s)", workers)
	}

	report, runErr := eng.Run(ctx, opts.Inputs, opts.Output, opts.Workers)

	if opts.History != nil {
		rec := newRecord(opts, report, runErr)
		if err := opts.History.Save(rec); err != nil {
			log.WithError(err).Warn("Failed to record run history")
		}
	}

	if runErr != nil {
		return report, runErr
	}

	log.Infof("Done. Results written to %s (%d line(s), %s)",
		opts.Output, report.Written, humanize.Bytes(uint64(report.BytesWritten)))
	log.Debugf("Read %s lines (%s) from %d file(s) in %v; %s distinct key(s)",
		humanize.Comma(report.Lines), humanize.Bytes(uint64(report.Bytes)), report.Files,
		report.Duration().Round(time.Millisecond), humanize.Comma(int64(report.Keys)))

	return report, nil
}

func newRecord(opts Options, report *engine.Report, runErr error) *history.Record {
	rec := &history.Record{
		Version:  linereduce.Version,
		Status:   history.StatusCompleted,
		Executor: opts.Executor,
		Inputs:   opts.Inputs,
		Output:   opts.Output,
		Workers:  opts.Workers,
	}

	if report != nil {
		rec.ID = report.RunID
		rec.Workers = report.Workers
		rec.Policy = report.Policy.String()
		rec.Files = report.Files
		rec.Lines = report.Lines
		rec.Bytes = report.Bytes
		rec.Keys = report.Keys
		rec.Results = report.Results
		rec.Written = report.Written
		rec.StartedAt = report.StartedAt
		rec.MapPhaseCompletedAt = report.MapPhaseCompletedAt
		rec.CompletedAt = report.CompletedAt
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
		rec.StartedAt = time.Now()
	}

	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.Error = runErr.Error()
		if rec.CompletedAt.IsZero() {
			rec.CompletedAt = time.Now()
		}
	}

	return rec
}
