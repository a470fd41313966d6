// Package batch drives a conversion run: it pulls paths from the walker one at
// a time and converts each before asking for the next.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mp4convert/internal/convert"
	"mp4convert/internal/history"
	"mp4convert/internal/logging"
	"mp4convert/internal/request"
	"mp4convert/internal/walker"
)

// Converter runs a single job to completion.
type Converter interface {
	Convert(ctx context.Context, job convert.Job) convert.Result
}

// Recorder persists finished jobs.
type Recorder interface {
	Add(ctx context.Context, rec history.Record) (int64, error)
}

// Reporter observes job progress.
type Reporter interface {
	JobStarted(index int, path string)
	JobFinished(index int, result convert.Result)
}

// Options wires the collaborators of a run. Converter is required.
type Options struct {
	Converter Converter
	Walker    walker.Options
	Recorder  Recorder
	Reporter  Reporter
	Logger    *slog.Logger
	// RunID tags history rows and log lines; a UUID is generated when empty.
	RunID string
}

// Summary totals a run.
type Summary struct {
	RunID     string
	Converted int
	Failed    int
	Skipped   int
	Duration  time.Duration
	Results   []convert.Result
}

// Total returns the number of jobs attempted.
func (s Summary) Total() int {
	return s.Converted + s.Failed + s.Skipped
}

func (s *Summary) add(result convert.Result) {
	s.Results = append(s.Results, result)
	switch result.Outcome {
	case convert.OutcomeConverted:
		s.Converted++
	case convert.OutcomeFailed:
		s.Failed++
	case convert.OutcomeSkipped:
		s.Skipped++
	}
}

// FindAndConvert validates req and runs it.
func FindAndConvert(ctx context.Context, req request.Request, opts Options) (Summary, error) {
	validated, err := req.Validate()
	if err != nil {
		return Summary{}, err
	}
	return Run(ctx, validated, opts)
}

// Run converts every file under req.Root matching req.Suffix, strictly one at
// a time. req must already be validated. Per-job problems are counted in the
// Summary; only walker errors and cancellation end the run early, and they
// are returned alongside the partial Summary.
func Run(ctx context.Context, req request.Request, opts Options) (Summary, error) {
	if opts.Converter == nil {
		return Summary{}, fmt.Errorf("batch: converter required")
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := logging.NewComponentLogger(opts.Logger, "batch").With(logging.String(logging.FieldRunID, runID))
	walkOpts := opts.Walker
	if walkOpts.Logger == nil {
		walkOpts.Logger = opts.Logger
	}

	summary := Summary{RunID: runID}
	started := time.Now()

	logger.Info(fmt.Sprintf("Searching %s for %s type files", req.Root, req.Suffix))

	index := 0
	for path, err := range walker.Walk(ctx, req.Root, req.Suffix, walkOpts) {
		if err != nil {
			summary.Duration = time.Since(started)
			return summary, fmt.Errorf("scan %s: %w", req.Root, err)
		}
		index++
		logger.Info(path, logging.Int("index", index))
		if opts.Reporter != nil {
			opts.Reporter.JobStarted(index, path)
		}

		job := convert.NewJob(path, req.Suffix, req.OutputDir, req.Threads)
		result := opts.Converter.Convert(ctx, job)
		summary.add(result)

		if opts.Reporter != nil {
			opts.Reporter.JobFinished(index, result)
		}
		if opts.Recorder != nil {
			if _, err := opts.Recorder.Add(context.WithoutCancel(ctx), history.FromResult(runID, result)); err != nil {
				logging.WarnWithContext(logger, "failed to record job history", "history_write_failed",
					logging.Error(err),
					logging.String(logging.FieldSource, path),
					logging.String(logging.FieldImpact, "job is missing from history"),
				)
			}
		}

		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(started)
			return summary, err
		}
	}

	summary.Duration = time.Since(started)
	logger.Info("run complete",
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}
